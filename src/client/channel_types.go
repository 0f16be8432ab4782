package client

import (
	"encoding/json"

	"personal/discord_state/src/optional"
)

type ThreadMetadataPayload struct {
	Archived            *bool                  `json:"archived"`
	AutoArchiveDuration *int                   `json:"auto_archive_duration"`
	ArchiveTimestamp    string                 `json:"archive_timestamp"` // ISO8601
	Locked              *bool                  `json:"locked"`
	Invitable           *bool                  `json:"invitable,omitempty"`
	CreateTimestamp     optional.Field[string] `json:"create_timestamp"`
}

type ThreadMember struct {
	ID            *Snowflake `json:"id,omitempty"`
	UserID        *Snowflake `json:"user_id,omitempty"`
	JoinTimestamp string     `json:"join_timestamp"`
	Flags         int        `json:"flags"`
}

type User struct {
	ID            Snowflake `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        *string   `json:"avatar"`
	Bot           *bool     `json:"bot,omitempty"`
}

// ThreadPayload is a thread channel as sent by the API or the gateway.
type ThreadPayload struct {
	ID               Snowflake                             `json:"id"`
	Type             ChannelType                           `json:"type"`
	Name             optional.Field[string]                `json:"name"`
	GuildID          optional.Field[Snowflake]             `json:"guild_id"`
	ParentID         optional.Field[Snowflake]             `json:"parent_id"`
	ThreadMetadata   optional.Field[ThreadMetadataPayload] `json:"thread_metadata"`
	LastMessageID    optional.Field[Snowflake]             `json:"last_message_id"`
	LastPinTimestamp optional.Field[string]                `json:"last_pin_timestamp"` // ISO8601
	RateLimitPerUser optional.Field[int]                   `json:"rate_limit_per_user"`
	MessageCount     optional.Field[int]                   `json:"message_count"`
	MemberCount      optional.Field[int]                   `json:"member_count"`
	TotalMessageSent optional.Field[int]                   `json:"total_message_sent"`
	AppliedTags      optional.Field[[]Snowflake]           `json:"applied_tags"`
	Member           *ThreadMember                         `json:"member,omitempty"`
	Message          json.RawMessage                       `json:"message,omitempty"`
	Messages         []json.RawMessage                     `json:"messages,omitempty"`
}

type VoiceStatePayload struct {
	GuildID                 *Snowflake                `json:"guild_id,omitempty"`
	UserID                  Snowflake                 `json:"user_id"`
	Deaf                    optional.Field[bool]      `json:"deaf"`
	Mute                    optional.Field[bool]      `json:"mute"`
	SelfDeaf                optional.Field[bool]      `json:"self_deaf"`
	SelfMute                optional.Field[bool]      `json:"self_mute"`
	SelfVideo               optional.Field[bool]      `json:"self_video"`
	SelfStream              *bool                     `json:"self_stream,omitempty"`
	SessionID               optional.Field[string]    `json:"session_id"`
	ChannelID               optional.Field[Snowflake] `json:"channel_id"`
	Suppress                optional.Field[bool]      `json:"suppress"`
	RequestToSpeakTimestamp optional.Field[string]    `json:"request_to_speak_timestamp"` // ISO8601
}
