package opcodes

import "strconv"

// Opcode is a gateway operation code.
//
//	0	Dispatch	Receive	An event was dispatched.
//	1	Heartbeat	Send/Receive	Keeps the connection alive.
//	2	Identify	Send	Starts a new session.
//	6	Resume	Send	Resumes a previous session.
//	7	Reconnect	Receive	Reconnect and resume immediately.
//	9	Invalid Session	Receive	Reconnect and identify/resume accordingly.
//	10	Hello	Receive	Carries the heartbeat_interval.
//	11	Heartbeat ACK	Receive	Acknowledges a heartbeat.
type Opcode int

const (
	Dispatch            Opcode = 0
	Heartbeat           Opcode = 1
	Identify            Opcode = 2
	PresenceUpdate      Opcode = 3
	VoiceStateUpdate    Opcode = 4
	Resume              Opcode = 6
	Reconnect           Opcode = 7
	RequestGuildMembers Opcode = 8
	InvalidSession      Opcode = 9
	Hello               Opcode = 10
	HeartbeatACK        Opcode = 11
)

var names = map[Opcode]string{
	Dispatch:            "DISPATCH",
	Heartbeat:           "HEARTBEAT",
	Identify:            "IDENTIFY",
	PresenceUpdate:      "PRESENCE_UPDATE",
	VoiceStateUpdate:    "VOICE_STATE_UPDATE",
	Resume:              "RESUME",
	Reconnect:           "RECONNECT",
	RequestGuildMembers: "REQUEST_GUILD_MEMBERS",
	InvalidSession:      "INVALID_SESSION",
	Hello:               "HELLO",
	HeartbeatACK:        "HEARTBEAT_ACK",
}

func (o Opcode) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "OPCODE_" + strconv.Itoa(int(o))
}
