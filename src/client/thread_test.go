package client

import (
	"encoding/json"
	"testing"

	"personal/discord_state/src/optional"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threadPayload(t *testing.T, doc string) ThreadPayload {
	t.Helper()
	var p ThreadPayload
	require.NoError(t, json.Unmarshal([]byte(doc), &p))
	return p
}

const publicThread = `{
	"id": "175928847299117063",
	"type": 11,
	"name": "thread",
	"guild_id": "10",
	"parent_id": "20",
	"message_count": 3,
	"thread_metadata": {
		"archived": false,
		"auto_archive_duration": 60,
		"archive_timestamp": "2021-01-01T00:00:00.000000+00:00",
		"locked": false,
		"invitable": true
	}
}`

func TestNewThreadChannel(t *testing.T) {
	t.Run("public thread with metadata", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, publicThread), ThreadDeps{})

		assert.Equal(t, "thread", th.Name)
		assert.Equal(t, Snowflake("10"), th.GuildID)
		assert.Equal(t, optional.Of[Snowflake]("20"), th.ParentID)
		assert.Equal(t, optional.Of(false), th.Locked)
		assert.Equal(t, optional.Of(false), th.Archived)
		assert.Equal(t, optional.Of(60), th.AutoArchiveDuration)
		assert.Equal(t, optional.Of[int64](1609459200000), th.ArchiveTimestamp)
		assert.True(t, th.Invitable.IsNull(), "invitable only applies to private threads")
		assert.True(t, th.CreatedTimestamp().IsNull())
		assert.Equal(t, optional.Of(0), th.RateLimitPerUser)
		assert.Equal(t, optional.Of(3), th.MessageCount)
		assert.True(t, th.MemberCount.IsNull())
		assert.True(t, th.TotalMessageSent.IsNull())
		assert.True(t, th.LastMessageID.IsNull())
		assert.True(t, th.LastPinTimestamp.IsNull())
		assert.Equal(t, []Snowflake{}, th.AppliedTags)
	})

	t.Run("missing metadata nulls its fields", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":11}`), ThreadDeps{})

		assert.True(t, th.Locked.IsNull())
		assert.True(t, th.Archived.IsNull())
		assert.True(t, th.AutoArchiveDuration.IsNull())
		assert.True(t, th.ArchiveTimestamp.IsNull())
		assert.True(t, th.Invitable.IsNull())
		assert.True(t, th.RateLimitPerUser.IsNull())
	})

	t.Run("null metadata reads as empty", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":12,"thread_metadata":null}`), ThreadDeps{})

		assert.Equal(t, optional.Of(false), th.Locked)
		assert.Equal(t, optional.Of(false), th.Invitable)
		assert.True(t, th.Archived.IsNull())
		assert.True(t, th.ArchiveTimestamp.IsNull())
		assert.Equal(t, optional.Of(0), th.RateLimitPerUser)
	})

	t.Run("private thread", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"175928847299117063","type":12,"thread_metadata":{"locked":true}}`), ThreadDeps{})

		assert.Equal(t, optional.Of(true), th.Locked)
		assert.Equal(t, optional.Of(false), th.Invitable)
		assert.Equal(t, optional.Of[int64](1462015105796), th.CreatedTimestamp())
	})

	t.Run("create timestamp from metadata", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":11,"thread_metadata":{"create_timestamp":"2022-01-01T00:00:00Z"}}`), ThreadDeps{})
		assert.Equal(t, optional.Of[int64](1640995200000), th.CreatedTimestamp())
	})
}

func TestThreadChannel_Patch(t *testing.T) {
	t.Run("absent keys keep values", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, publicThread), ThreadDeps{})
		th.Patch(threadPayload(t, `{"id":"175928847299117063","type":11,"name":"renamed"}`))

		assert.Equal(t, "renamed", th.Name)
		assert.Equal(t, Snowflake("10"), th.GuildID)
		assert.Equal(t, optional.Of(false), th.Locked)
		assert.Equal(t, optional.Of(60), th.AutoArchiveDuration)
		assert.Equal(t, optional.Of[int64](1609459200000), th.ArchiveTimestamp)
		assert.Equal(t, optional.Of(0), th.RateLimitPerUser)
		assert.Equal(t, optional.Of(3), th.MessageCount)
	})

	t.Run("metadata replaces the block", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, publicThread), ThreadDeps{})
		th.Patch(threadPayload(t, `{"id":"175928847299117063","type":11,"thread_metadata":{"archived":true,"locked":true}}`))

		assert.Equal(t, optional.Of(true), th.Archived)
		assert.Equal(t, optional.Of(true), th.Locked)
		assert.True(t, th.AutoArchiveDuration.IsNull())
		assert.True(t, th.ArchiveTimestamp.IsNull())
	})

	t.Run("rate limit", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":11}`), ThreadDeps{})
		require.True(t, th.RateLimitPerUser.IsNull())

		th.Patch(threadPayload(t, `{"id":"1","type":11,"rate_limit_per_user":null}`))
		assert.Equal(t, optional.Of(0), th.RateLimitPerUser)

		th.Patch(threadPayload(t, `{"id":"1","type":11,"rate_limit_per_user":30}`))
		assert.Equal(t, optional.Of(30), th.RateLimitPerUser)

		th.Patch(threadPayload(t, `{"id":"1","type":11,"thread_metadata":{}}`))
		assert.Equal(t, optional.Of(30), th.RateLimitPerUser)
	})

	t.Run("null timestamps", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":11,"last_pin_timestamp":"2021-01-01T00:00:00Z"}`), ThreadDeps{})
		assert.Equal(t, optional.Of[int64](1609459200000), th.LastPinTimestamp)

		th.Patch(threadPayload(t, `{"id":"1","type":11,"last_pin_timestamp":null}`))
		assert.True(t, th.LastPinTimestamp.IsNull())
	})

	t.Run("applied tags", func(t *testing.T) {
		th := NewThreadChannel(threadPayload(t, `{"id":"1","type":11,"applied_tags":["5","6"]}`), ThreadDeps{})
		assert.Equal(t, []Snowflake{"5", "6"}, th.AppliedTags)

		th.Patch(threadPayload(t, `{"id":"1","type":11}`))
		assert.Equal(t, []Snowflake{"5", "6"}, th.AppliedTags)

		th.Patch(threadPayload(t, `{"id":"1","type":11,"applied_tags":null}`))
		assert.Equal(t, []Snowflake{}, th.AppliedTags)
	})
}

func TestThreadChannel_Stores(t *testing.T) {
	t.Run("membership gets the client user", func(t *testing.T) {
		members := NewMemberCache()
		deps := ThreadDeps{Members: members, ClientUserID: "99"}
		NewThreadChannel(threadPayload(t, `{"id":"1","type":11,"member":{"join_timestamp":"2021-01-01T00:00:00Z","flags":1}}`), deps)

		m, ok := members.Get("99")
		require.True(t, ok)
		assert.Equal(t, 1, m.Flags)
		require.NotNil(t, m.UserID)
		assert.Equal(t, Snowflake("99"), *m.UserID)
	})

	t.Run("membership dropped without client user", func(t *testing.T) {
		members := NewMemberCache()
		NewThreadChannel(threadPayload(t, `{"id":"1","type":11,"member":{"user_id":"5","flags":0}}`), ThreadDeps{Members: members})

		_, ok := members.Get("5")
		assert.False(t, ok)
	})

	t.Run("messages", func(t *testing.T) {
		messages := NewMessageCache()
		NewThreadChannel(threadPayload(t, `{"id":"1","type":11,
			"message":{"id":"m1","content":"hello"},
			"messages":[{"id":"m2"},{"content":"no id"}]}`), ThreadDeps{Messages: messages})

		assert.Equal(t, 2, messages.Len())
		raw, ok := messages.Get("m1")
		require.True(t, ok)
		assert.JSONEq(t, `{"id":"m1","content":"hello"}`, string(raw))
	})
}
