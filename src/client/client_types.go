package client

import (
	"encoding/json"

	"personal/discord_state/src/opcodes"
)

type GatewayResponse struct {
	Url string `json:"url"`
}

type HelloMessage struct {
	Op opcodes.Opcode `json:"op"`
	D  HelloData      `json:"d"`
}

type HelloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

type IdentifyMessage struct {
	Op opcodes.Opcode `json:"op"`
	D  IdentifyData   `json:"d"`
}

type IdentifyProperties struct {
	Os      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type IdentifyData struct {
	Token          string             `json:"token"`
	Properties     IdentifyProperties `json:"properties"`
	Compress       bool               `json:"compress"`
	LargeThreshold int                `json:"large_threshold,omitempty"`
	Shard          []int              `json:"shard"`
	Presence       interface{}        `json:"presence,omitempty"`
	Intents        int                `json:"intents"`
}

type ReadyData struct {
	SessionId string `json:"session_id"`
	ResumeUrl string `json:"resume_gateway_url"`
	User      User   `json:"user"`
}

type HeartbeatMessage struct {
	Op opcodes.Opcode `json:"op"`
	D  *int64         `json:"d"`
}

type ResumeMessage struct {
	Op opcodes.Opcode `json:"op"`
	D  ResumeData     `json:"d"`
}

type ResumeData struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Sequence  int64  `json:"seq"`
}

type Packet struct {
	Op opcodes.Opcode  `json:"op"`
	T  string          `json:"t"`
	D  json.RawMessage `json:"d"`
	S  int64           `json:"s"`
}

type GuildCreateData struct {
	ID          Snowflake           `json:"id"`
	Threads     []ThreadPayload     `json:"threads"`
	VoiceStates []VoiceStatePayload `json:"voice_states"`
}

type ThreadListSyncData struct {
	GuildID Snowflake       `json:"guild_id"`
	Threads []ThreadPayload `json:"threads"`
}

type ThreadDeleteData struct {
	ID Snowflake `json:"id"`
}
