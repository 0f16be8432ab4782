package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"personal/discord_state/src/opcodes"
	"personal/discord_state/src/optional"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAPIURL = "https://discord.com/api/v10"

	IntentGuilds           = 1 << 0
	IntentGuildVoiceStates = 1 << 7
	DefaultIntents         = IntentGuilds | IntentGuildVoiceStates

	gatewayQuery = "?v=10&encoding=json"
)

var (
	ErrNoGateway          = errors.New("gateway URL not set")
	ErrNotConnected       = errors.New("connection is not open")
	ErrHeartbeatNotAcked  = errors.New("last heartbeat was not acknowledged")
	ErrReconnectRequested = errors.New("gateway requested a reconnect")
	ErrInvalidSession     = errors.New("gateway invalidated the session")
	ErrConnectionLost     = errors.New("gateway connection lost")
)

type Options struct {
	Token         string
	ApplicationID Snowflake
	APIURL        string
	Intents       int
	Logger        *zap.Logger
	HTTPClient    *http.Client
	State         *State
}

type Client struct {
	token         string
	applicationID Snowflake
	apiURL        string
	intents       int
	httpClient    *http.Client
	logger        *zap.Logger
	state         *State

	mu            sync.RWMutex
	gateway       string
	sessionId     string
	resumeGateway string

	heartbeatInterval      atomic.Int64
	lastHeartbeatAcked     atomic.Bool
	lastHeartbeatTimestamp atomic.Int64
	heartbeatLatency       atomic.Int64
	sequence               atomic.Int64
	isResuming             atomic.Bool
	connection             atomic.Pointer[websocket.Conn]
	writeMu                sync.Mutex
}

func New(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Intents == 0 {
		opts.Intents = DefaultIntents
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.State == nil {
		opts.State = NewState(opts.Logger)
	}

	c := &Client{
		token:         opts.Token,
		applicationID: opts.ApplicationID,
		apiURL:        opts.APIURL,
		intents:       opts.Intents,
		httpClient:    opts.HTTPClient,
		logger:        opts.Logger,
		state:         opts.State,
	}
	c.sequence.Store(-1)
	c.lastHeartbeatAcked.Store(true)
	return c
}

func (c *Client) State() *State { return c.state }

// ConnectToGateway establishes a WebSocket connection to Discord's gateway and
// starts the main event loop. It will block until the context is cancelled or
// an error occurs. A client that already holds a session resumes it instead
// of identifying again.
func (c *Client) ConnectToGateway(ctx context.Context) error {
	c.mu.RLock()
	url, resuming := c.gateway, false
	if c.sessionId != "" && c.resumeGateway != "" {
		url, resuming = c.resumeGateway, true
	}
	c.mu.RUnlock()

	if url == "" {
		gw, err := c.FetchGateway(ctx)
		if err != nil {
			return err
		}
		url = gw
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url+gatewayQuery, http.Header{})
	if err != nil {
		return fmt.Errorf("could not connect to WebSocket: %w", err)
	}
	if old := c.connection.Swap(conn); old != nil {
		old.Close()
	}

	_, messageBody, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("could not receive hello message: %w", err)
	}

	var message HelloMessage
	if err := json.Unmarshal(messageBody, &message); err != nil {
		return fmt.Errorf("could not unmarshal hello message: %w", err)
	}
	if message.Op != opcodes.Hello {
		return fmt.Errorf("invalid handshake: expected %s, got %s", opcodes.Hello, message.Op)
	}

	interval := time.Duration(message.D.HeartbeatInterval) * time.Millisecond
	c.heartbeatInterval.Store(int64(interval))
	c.lastHeartbeatAcked.Store(true)
	c.logger.Info("gateway handshake complete", zap.Duration("heartbeat_interval", interval))

	if resuming {
		c.isResuming.Store(true)
		err = c.resume()
	} else {
		err = c.identify()
	}
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.startHeartbeat(gctx) })
	g.Go(func() error { return c.startListening(gctx) })
	return g.Wait()
}

func (c *Client) send(v any) error {
	conn := c.connection.Load()
	if conn == nil {
		return ErrNotConnected
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal gateway message: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) identify() error {
	identifyMessage := IdentifyMessage{
		Op: opcodes.Identify,
		D: IdentifyData{
			Token: c.token,
			Properties: IdentifyProperties{
				Os:      "linux",
				Browser: "discord_state",
				Device:  "discord_state",
			},
			Shard:   []int{0, 1},
			Intents: c.intents,
		},
	}
	if err := c.send(identifyMessage); err != nil {
		return fmt.Errorf("could not send identify message: %w", err)
	}
	c.logger.Debug("sent identify message")
	return nil
}

func (c *Client) resume() error {
	c.mu.RLock()
	session := c.sessionId
	c.mu.RUnlock()

	msg := ResumeMessage{
		Op: opcodes.Resume,
		D: ResumeData{
			Token:     c.token,
			SessionID: session,
			Sequence:  c.sequence.Load(),
		},
	}
	if err := c.send(msg); err != nil {
		return fmt.Errorf("could not send resume message: %w", err)
	}
	c.logger.Debug("sent resume message", zap.String("session_id", session))
	return nil
}

func (c *Client) startHeartbeat(ctx context.Context) error {
	interval := time.Duration(c.heartbeatInterval.Load())
	if interval <= 0 {
		return fmt.Errorf("invalid heartbeat interval %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.sendHeartbeat(); err != nil {
				if errors.Is(err, ErrHeartbeatNotAcked) {
					// A zombied connection; drop it so the reader fails and the
					// caller can resume.
					c.closeConnection()
					return fmt.Errorf("heartbeat: %w", err)
				}
				c.logger.Warn("failed to send heartbeat", zap.Error(err))
			}
		}
	}
}

func (c *Client) sendHeartbeat() error {
	if !c.lastHeartbeatAcked.Load() {
		return ErrHeartbeatNotAcked
	}

	c.lastHeartbeatAcked.Store(false)
	c.lastHeartbeatTimestamp.Store(time.Now().UnixMilli())

	heartbeatMessage := HeartbeatMessage{Op: opcodes.Heartbeat}
	if seq := c.sequence.Load(); seq >= 0 {
		heartbeatMessage.D = &seq
	}
	if err := c.send(heartbeatMessage); err != nil {
		return fmt.Errorf("could not send heartbeat message: %w", err)
	}
	c.logger.Debug("sent heartbeat")
	return nil
}

func (c *Client) startListening(ctx context.Context) error {
	conn := c.connection.Load()
	if conn == nil {
		return ErrNotConnected
	}

	messages := make(chan []byte, 10)
	errCh := make(chan error, 1)

	go func() {
		defer close(messages)
		for {
			_, messageBody, err := conn.ReadMessage()
			if err != nil {
				errCh <- fmt.Errorf("%w: %w", ErrConnectionLost, err)
				return
			}
			select {
			case messages <- messageBody:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.closeConnection()
			return ctx.Err()

		case err := <-errCh:
			return err

		case messageBody, ok := <-messages:
			if !ok {
				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if err := c.handleMessage(messageBody); err != nil {
				if errors.Is(err, ErrReconnectRequested) || errors.Is(err, ErrInvalidSession) {
					c.closeConnection()
					return err
				}
				c.logger.Warn("error handling gateway message", zap.Error(err))
			}
		}
	}
}

func (c *Client) handleMessage(messageBody []byte) error {
	var message Packet
	if err := json.Unmarshal(messageBody, &message); err != nil {
		return fmt.Errorf("could not unmarshal message body: %w (body: %s)", err, string(messageBody))
	}

	// Update sequence if message has one (lock-free compare-and-swap pattern)
	if message.S > 0 {
		for {
			oldSeq := c.sequence.Load()
			if message.S <= oldSeq {
				break
			}
			if c.sequence.CompareAndSwap(oldSeq, message.S) {
				break
			}
		}
	}

	switch message.Op {
	case opcodes.HeartbeatACK:
		c.acknowledgeHeartbeat()

	case opcodes.Heartbeat:
		c.lastHeartbeatAcked.Store(true)
		if err := c.sendHeartbeat(); err != nil {
			return fmt.Errorf("failed to send requested heartbeat: %w", err)
		}

	case opcodes.Reconnect:
		return ErrReconnectRequested

	case opcodes.InvalidSession:
		return c.handleInvalidSession(message.D)

	case opcodes.Dispatch:
		return c.onEvent(message.T, message.D)

	default:
		c.logger.Debug("received unhandled opcode", zap.Stringer("op", message.Op))
	}
	return nil
}

func (c *Client) acknowledgeHeartbeat() {
	c.lastHeartbeatAcked.Store(true)
	if sent := c.lastHeartbeatTimestamp.Load(); sent > 0 {
		c.heartbeatLatency.Store(time.Now().UnixMilli() - sent)
	}
}

// HeartbeatLatency is the round trip of the last acknowledged heartbeat.
func (c *Client) HeartbeatLatency() time.Duration {
	return time.Duration(c.heartbeatLatency.Load()) * time.Millisecond
}

// Resuming reports whether a resume was sent and RESUMED not yet received.
func (c *Client) Resuming() bool {
	return c.isResuming.Load()
}

func (c *Client) onEvent(event string, data json.RawMessage) error {
	switch event {
	case "READY":
		var ready ReadyData
		if err := json.Unmarshal(data, &ready); err != nil {
			return fmt.Errorf("could not unmarshal READY event data: %w", err)
		}
		c.mu.Lock()
		c.sessionId = ready.SessionId
		c.resumeGateway = ready.ResumeUrl
		c.mu.Unlock()
		c.state.SetSelfID(ready.User.ID)
		c.logger.Info("session ready",
			zap.String("session_id", ready.SessionId),
			zap.String("user_id", string(ready.User.ID)))

	case "RESUMED":
		c.isResuming.Store(false)
		c.logger.Info("session resumed")

	case "GUILD_CREATE":
		var guild GuildCreateData
		if err := json.Unmarshal(data, &guild); err != nil {
			return fmt.Errorf("could not unmarshal GUILD_CREATE event data: %w", err)
		}
		for _, t := range guild.Threads {
			if !t.GuildID.Present() {
				t.GuildID = optional.Of(guild.ID)
			}
			c.state.UpsertThread(t)
		}
		for _, v := range guild.VoiceStates {
			c.state.UpsertVoiceState(guild.ID, v)
		}

	case "THREAD_CREATE", "THREAD_UPDATE":
		var thread ThreadPayload
		if err := json.Unmarshal(data, &thread); err != nil {
			return fmt.Errorf("could not unmarshal %s event data: %w", event, err)
		}
		c.state.UpsertThread(thread)

	case "THREAD_DELETE":
		var thread ThreadDeleteData
		if err := json.Unmarshal(data, &thread); err != nil {
			return fmt.Errorf("could not unmarshal THREAD_DELETE event data: %w", err)
		}
		c.state.RemoveThread(thread.ID)

	case "THREAD_LIST_SYNC":
		var list ThreadListSyncData
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("could not unmarshal THREAD_LIST_SYNC event data: %w", err)
		}
		for _, t := range list.Threads {
			c.state.UpsertThread(t)
		}

	case "VOICE_STATE_UPDATE":
		var voice VoiceStatePayload
		if err := json.Unmarshal(data, &voice); err != nil {
			return fmt.Errorf("could not unmarshal VOICE_STATE_UPDATE event data: %w", err)
		}
		c.state.UpsertVoiceState("", voice)

	default:
		c.logger.Debug("ignoring event", zap.String("event", event))
	}
	return nil
}

func (c *Client) handleInvalidSession(data json.RawMessage) error {
	var canResume bool
	if err := json.Unmarshal(data, &canResume); err != nil {
		return fmt.Errorf("could not unmarshal invalid session data: %w", err)
	}
	if !canResume {
		c.mu.Lock()
		c.sessionId, c.resumeGateway = "", ""
		c.mu.Unlock()
		c.sequence.Store(-1)
	}
	return fmt.Errorf("%w (resumable: %t)", ErrInvalidSession, canResume)
}

func (c *Client) closeConnection() {
	if conn := c.connection.Swap(nil); conn != nil {
		conn.Close()
	}
}

func (c *Client) Disconnect() error {
	conn := c.connection.Swap(nil)
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	err := conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Warn("failed to send close message", zap.Error(err))
	}

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	c.logger.Info("gateway connection closed")
	return nil
}
