package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNoApplicationID  = errors.New("application id not set")
)

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: could not marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: could not create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bot %s", c.token))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: error making http request: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("client: could not read response body: %w", err)
	}
	c.logger.Debug("rest request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("client: %s %s: %w: %d %s", method, path, ErrUnexpectedStatus, res.StatusCode, bytes.TrimSpace(resBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("client: could not unmarshal response body: %w", err)
	}
	return nil
}

// FetchGateway asks the API for the gateway URL and remembers it.
func (c *Client) FetchGateway(ctx context.Context) (string, error) {
	var response GatewayResponse
	if err := c.do(ctx, http.MethodGet, "/gateway/bot", nil, &response); err != nil {
		return "", err
	}
	if response.Url == "" {
		return "", ErrNoGateway
	}
	c.mu.Lock()
	c.gateway = response.Url
	c.mu.Unlock()
	return response.Url, nil
}

// FetchThread fetches a thread channel and patches it into the state.
func (c *Client) FetchThread(ctx context.Context, channelID Snowflake) (*ThreadChannel, error) {
	var thread ThreadPayload
	if err := c.do(ctx, http.MethodGet, "/channels/"+string(channelID), nil, &thread); err != nil {
		return nil, err
	}
	if !thread.Type.IsThread() {
		return nil, fmt.Errorf("client: channel %s is not a thread (type %d)", channelID, thread.Type)
	}
	return c.state.UpsertThread(thread), nil
}

func (c *Client) commandsPath() (string, error) {
	if c.applicationID == "" {
		return "", ErrNoApplicationID
	}
	return "/applications/" + string(c.applicationID) + "/commands", nil
}

// FetchGlobalCommands fetches the application's global commands and patches
// them into the state.
func (c *Client) FetchGlobalCommands(ctx context.Context) ([]*ApplicationCommand, error) {
	path, err := c.commandsPath()
	if err != nil {
		return nil, err
	}
	var payloads []CommandPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, err
	}
	commands := make([]*ApplicationCommand, len(payloads))
	for i, p := range payloads {
		commands[i] = c.state.UpsertCommand(p)
	}
	return commands, nil
}

// OverwriteGlobalCommands replaces every global command with defs.
func (c *Client) OverwriteGlobalCommands(ctx context.Context, defs []CommandData) ([]*ApplicationCommand, error) {
	path, err := c.commandsPath()
	if err != nil {
		return nil, err
	}
	if defs == nil {
		defs = []CommandData{}
	}
	var payloads []CommandPayload
	if err := c.do(ctx, http.MethodPut, path, defs, &payloads); err != nil {
		return nil, err
	}
	commands := make([]*ApplicationCommand, len(payloads))
	for i, p := range payloads {
		commands[i] = c.state.UpsertCommand(p)
	}
	return commands, nil
}
