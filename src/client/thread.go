package client

import (
	"encoding/json"
	"slices"

	"personal/discord_state/src/optional"
)

// MessageStore receives messages embedded in thread payloads.
type MessageStore interface {
	Add(message json.RawMessage)
}

// MemberStore receives the client user's own membership of a thread.
type MemberStore interface {
	Add(member ThreadMember)
}

type ThreadDeps struct {
	Messages MessageStore
	Members  MemberStore
	// ClientUserID is filled into membership payloads that lack a user id.
	// Memberships are dropped while it is empty.
	ClientUserID Snowflake
}

type ThreadChannel struct {
	ID      Snowflake
	Type    ChannelType
	Name    string
	GuildID Snowflake

	ParentID optional.Field[Snowflake]

	Locked optional.Field[bool]
	// Invitable is always null outside private threads.
	Invitable           optional.Field[bool]
	Archived            optional.Field[bool]
	AutoArchiveDuration optional.Field[int]
	// ArchiveTimestamp is in unix milliseconds.
	ArchiveTimestamp optional.Field[int64]
	createdTimestamp optional.Field[int64]

	LastMessageID    optional.Field[Snowflake]
	LastPinTimestamp optional.Field[int64]
	RateLimitPerUser optional.Field[int]
	MessageCount     optional.Field[int]
	MemberCount      optional.Field[int]
	TotalMessageSent optional.Field[int]
	AppliedTags      []Snowflake

	deps ThreadDeps
}

func NewThreadChannel(data ThreadPayload, deps ThreadDeps) *ThreadChannel {
	t := &ThreadChannel{ID: data.ID, Type: data.Type, deps: deps}
	return t.Patch(data)
}

// CreatedTimestamp is the thread's creation time in unix milliseconds. It is
// null for public threads created before the API started reporting it.
func (t *ThreadChannel) CreatedTimestamp() optional.Field[int64] {
	return t.createdTimestamp
}

// Patch applies a partial thread payload. Keys missing from data leave the
// current values alone, except that never-assigned fields become null (or
// their listed default).
func (t *ThreadChannel) Patch(data ThreadPayload) *ThreadChannel {
	if len(data.Message) > 0 && !isNull(data.Message) && t.deps.Messages != nil {
		t.deps.Messages.Add(data.Message)
	}

	if data.Name.Present() {
		t.Name = data.Name.OrElse("")
	}
	if data.GuildID.Present() {
		t.GuildID = data.GuildID.OrElse("")
	}
	patchField(&t.ParentID, data.ParentID)

	if data.ThreadMetadata.Present() {
		// A null block is read as an empty one.
		md, _ := data.ThreadMetadata.Get()
		t.Locked = optional.Of(derefOr(md.Locked, false))
		if t.Type == ChannelTypePrivateThread {
			t.Invitable = optional.Of(derefOr(md.Invitable, false))
		} else {
			t.Invitable = optional.NullOf[bool]()
		}
		t.Archived = optional.FromPtr(md.Archived)
		t.AutoArchiveDuration = optional.FromPtr(md.AutoArchiveDuration)
		t.ArchiveTimestamp = parseTimestamp(md.ArchiveTimestamp)
		if md.CreateTimestamp.Present() {
			t.createdTimestamp = parseTimestampField(md.CreateTimestamp)
		}
	} else {
		t.Locked.Coalesce(optional.NullOf[bool]())
		t.Archived.Coalesce(optional.NullOf[bool]())
		t.AutoArchiveDuration.Coalesce(optional.NullOf[int]())
		t.ArchiveTimestamp.Coalesce(optional.NullOf[int64]())
		t.Invitable.Coalesce(optional.NullOf[bool]())
	}

	if !t.createdTimestamp.IsSet() {
		if t.Type == ChannelTypePrivateThread {
			t.createdTimestamp = optional.Of(t.ID.Timestamp())
		} else {
			t.createdTimestamp = optional.NullOf[int64]()
		}
	}

	patchField(&t.LastMessageID, data.LastMessageID)

	if data.LastPinTimestamp.Present() {
		t.LastPinTimestamp = parseTimestampField(data.LastPinTimestamp)
	} else {
		t.LastPinTimestamp.Coalesce(optional.NullOf[int64]())
	}

	switch {
	case data.RateLimitPerUser.Present():
		t.RateLimitPerUser = optional.Of(data.RateLimitPerUser.OrElse(0))
	case data.ThreadMetadata.Present():
		t.RateLimitPerUser.Coalesce(optional.Of(0))
	default:
		t.RateLimitPerUser.Coalesce(optional.NullOf[int]())
	}

	patchField(&t.MessageCount, data.MessageCount)
	patchField(&t.MemberCount, data.MemberCount)
	patchField(&t.TotalMessageSent, data.TotalMessageSent)

	if data.Member != nil && t.deps.ClientUserID != "" && t.deps.Members != nil {
		member := *data.Member
		if member.UserID == nil {
			id := t.deps.ClientUserID
			member.UserID = &id
		}
		t.deps.Members.Add(member)
	}
	if t.deps.Messages != nil {
		for _, m := range data.Messages {
			t.deps.Messages.Add(m)
		}
	}

	if data.AppliedTags.Present() {
		t.AppliedTags = slices.Clone(data.AppliedTags.OrElse(nil))
	}
	if t.AppliedTags == nil {
		t.AppliedTags = []Snowflake{}
	}
	return t
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
