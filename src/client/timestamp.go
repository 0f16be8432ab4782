package client

import (
	"time"

	"personal/discord_state/src/optional"
)

// parseTimestamp converts an ISO-8601 wire timestamp to unix milliseconds.
// Empty or unparseable strings yield null.
func parseTimestamp(s string) optional.Field[int64] {
	if s == "" {
		return optional.NullOf[int64]()
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return optional.NullOf[int64]()
	}
	return optional.Of(t.UnixMilli())
}

func parseTimestampField(f optional.Field[string]) optional.Field[int64] {
	v, ok := f.Get()
	if !ok {
		return optional.NullOf[int64]()
	}
	return parseTimestamp(v)
}
