package client

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

type voiceKey struct {
	guild Snowflake
	user  Snowflake
}

// State caches the entities seen on the gateway and over REST. Updates are
// patched into the cached entity so callers holding a pointer see them.
type State struct {
	logger *zap.Logger

	mu          sync.RWMutex
	selfID      Snowflake
	threads     map[Snowflake]*ThreadChannel
	messages    map[Snowflake]*MessageCache
	members     map[Snowflake]*MemberCache
	voiceStates map[voiceKey]*VoiceState
	commands    map[Snowflake]*ApplicationCommand
}

func NewState(logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		logger:      logger,
		threads:     make(map[Snowflake]*ThreadChannel),
		messages:    make(map[Snowflake]*MessageCache),
		members:     make(map[Snowflake]*MemberCache),
		voiceStates: make(map[voiceKey]*VoiceState),
		commands:    make(map[Snowflake]*ApplicationCommand),
	}
}

func (s *State) SetSelfID(id Snowflake) {
	s.mu.Lock()
	s.selfID = id
	s.mu.Unlock()
}

func (s *State) UpsertThread(data ThreadPayload) *ThreadChannel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.threads[data.ID]; ok {
		t.deps.ClientUserID = s.selfID
		s.logger.Debug("patching thread", zap.String("thread_id", string(data.ID)))
		return t.Patch(data)
	}

	msgs := NewMessageCache()
	members := NewMemberCache()
	s.messages[data.ID] = msgs
	s.members[data.ID] = members
	t := NewThreadChannel(data, ThreadDeps{Messages: msgs, Members: members, ClientUserID: s.selfID})
	s.threads[data.ID] = t
	s.logger.Debug("cached thread",
		zap.String("thread_id", string(data.ID)),
		zap.Int("type", int(data.Type)))
	return t
}

func (s *State) Thread(id Snowflake) (*ThreadChannel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	return t, ok
}

func (s *State) ThreadMessages(id Snowflake) *MessageCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages[id]
}

func (s *State) ThreadMembers(id Snowflake) *MemberCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members[id]
}

func (s *State) RemoveThread(id Snowflake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
	delete(s.messages, id)
	delete(s.members, id)
}

// UpsertVoiceState patches the member's voice state. Payloads without a
// guild id use fallbackGuild, as inside GUILD_CREATE.
func (s *State) UpsertVoiceState(fallbackGuild Snowflake, data VoiceStatePayload) *VoiceState {
	guild := fallbackGuild
	if data.GuildID != nil {
		guild = *data.GuildID
	}
	key := voiceKey{guild: guild, user: data.UserID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.voiceStates[key]; ok {
		return v.Patch(data)
	}
	v := NewVoiceState(guild, data)
	s.voiceStates[key] = v
	return v
}

func (s *State) VoiceState(guild, user Snowflake) (*VoiceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.voiceStates[voiceKey{guild: guild, user: user}]
	return v, ok
}

func (s *State) UpsertCommand(data CommandPayload) *ApplicationCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.commands[data.ID]; ok {
		return c.Patch(data)
	}
	c := NewApplicationCommand(data, nil)
	s.commands[data.ID] = c
	return c
}

func (s *State) Commands() []*ApplicationCommand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ApplicationCommand, 0, len(s.commands))
	for _, c := range s.commands {
		out = append(out, c)
	}
	return out
}

// MessageCache keeps the raw messages seen in one channel, by id.
type MessageCache struct {
	mu       sync.RWMutex
	messages map[Snowflake]json.RawMessage
}

func NewMessageCache() *MessageCache {
	return &MessageCache{messages: make(map[Snowflake]json.RawMessage)}
}

// Add stores the message, dropping payloads without an id.
func (c *MessageCache) Add(message json.RawMessage) {
	var head struct {
		ID Snowflake `json:"id"`
	}
	if err := json.Unmarshal(message, &head); err != nil || head.ID == "" {
		return
	}
	c.mu.Lock()
	c.messages[head.ID] = append(json.RawMessage(nil), message...)
	c.mu.Unlock()
}

func (c *MessageCache) Get(id Snowflake) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.messages[id]
	return m, ok
}

func (c *MessageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

type MemberCache struct {
	mu      sync.RWMutex
	members map[Snowflake]ThreadMember
}

func NewMemberCache() *MemberCache {
	return &MemberCache{members: make(map[Snowflake]ThreadMember)}
}

func (c *MemberCache) Add(member ThreadMember) {
	if member.UserID == nil {
		return
	}
	c.mu.Lock()
	c.members[*member.UserID] = member
	c.mu.Unlock()
}

func (c *MemberCache) Get(user Snowflake) (ThreadMember, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.members[user]
	return m, ok
}
