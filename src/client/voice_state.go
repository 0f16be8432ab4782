package client

import "personal/discord_state/src/optional"

type VoiceState struct {
	GuildID Snowflake
	UserID  Snowflake

	ServerDeaf optional.Field[bool]
	ServerMute optional.Field[bool]
	SelfDeaf   optional.Field[bool]
	SelfMute   optional.Field[bool]
	SelfVideo  optional.Field[bool]
	SessionID  optional.Field[string]
	// Streaming reports "Screen Share".
	Streaming optional.Field[bool]
	ChannelID optional.Field[Snowflake]
	// Suppress and RequestToSpeakTimestamp only apply to stage channels.
	Suppress                optional.Field[bool]
	RequestToSpeakTimestamp optional.Field[int64]
}

func NewVoiceState(guildID Snowflake, data VoiceStatePayload) *VoiceState {
	v := &VoiceState{GuildID: guildID, UserID: data.UserID}
	return v.Patch(data)
}

func (v *VoiceState) Patch(data VoiceStatePayload) *VoiceState {
	patchField(&v.ServerDeaf, data.Deaf)
	patchField(&v.ServerMute, data.Mute)
	patchField(&v.SelfDeaf, data.SelfDeaf)
	patchField(&v.SelfMute, data.SelfMute)
	patchField(&v.SelfVideo, data.SelfVideo)
	patchField(&v.SessionID, data.SessionID)

	// self_stream is omitted when false, so presence is taken from self_video.
	if data.SelfVideo.Present() {
		v.Streaming = optional.Of(derefOr(data.SelfStream, false))
	} else {
		v.Streaming.Coalesce(optional.NullOf[bool]())
	}

	patchField(&v.ChannelID, data.ChannelID)
	patchField(&v.Suppress, data.Suppress)

	if data.RequestToSpeakTimestamp.Present() {
		v.RequestToSpeakTimestamp = parseTimestampField(data.RequestToSpeakTimestamp)
	} else {
		v.RequestToSpeakTimestamp.Coalesce(optional.NullOf[int64]())
	}
	return v
}
