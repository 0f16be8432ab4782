package client

import (
	"strconv"
	"time"
)

// DiscordEpoch is the first millisecond of 2015, in unix milliseconds.
const DiscordEpoch int64 = 1420070400000

type Snowflake string

// Timestamp returns the creation time encoded in the id, in unix
// milliseconds. Ids that are not numeric decode to the epoch itself.
func (s Snowflake) Timestamp() int64 {
	n, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return DiscordEpoch
	}
	return int64(n>>22) + DiscordEpoch
}

func (s Snowflake) Time() time.Time {
	return time.UnixMilli(s.Timestamp())
}
