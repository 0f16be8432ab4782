package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeAPI serves canned JSON bodies by "METHOD path" and records request
// bodies.
type fakeAPI struct {
	responses map[string]string

	mu       sync.Mutex
	requests map[string][]byte
}

func (a *fakeAPI) request(key string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.requests[key]
	return b, ok
}

func newFakeAPI(t *testing.T, responses map[string]string) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{responses: responses, requests: make(map[string][]byte)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.requests[key] = body
		api.mu.Unlock()

		res, ok := api.responses[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"404: Not Found","code":0}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(res))
	}))
	t.Cleanup(srv.Close)

	c := New(Options{
		Token:         "token",
		ApplicationID: "100",
		APIURL:        srv.URL,
		Logger:        zaptest.NewLogger(t),
	})
	return api, c
}

func TestClient_FetchGateway(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		"GET /gateway/bot": `{"url":"wss://gateway.discord.gg","shards":1}`,
	})
	url, err := c.FetchGateway(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wss://gateway.discord.gg", url)
	assert.Equal(t, url, c.gateway)

	_, c = newFakeAPI(t, map[string]string{"GET /gateway/bot": `{}`})
	_, err = c.FetchGateway(context.Background())
	assert.ErrorIs(t, err, ErrNoGateway)
}

func TestClient_FetchThread(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		"GET /channels/1": `{"id":"1","type":11,"name":"thread","guild_id":"10","thread_metadata":{"locked":true}}`,
		"GET /channels/2": `{"id":"2","type":0,"name":"general"}`,
	})

	th, err := c.FetchThread(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "thread", th.Name)
	cached, ok := c.State().Thread("1")
	require.True(t, ok)
	assert.Same(t, th, cached)

	_, err = c.FetchThread(context.Background(), "2")
	assert.Error(t, err)

	_, err = c.FetchThread(context.Background(), "3")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_FetchGlobalCommands(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		"GET /applications/100/commands": `[
			{"id":"1","application_id":"100","name":"ping","description":"pong","version":"1"},
			{"id":"2","application_id":"100","name":"echo","description":"echo","version":"1"}
		]`,
	})

	commands, err := c.FetchGlobalCommands(context.Background())
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "ping", commands[0].Name.OrElse(""))
	assert.Len(t, c.State().Commands(), 2)

	c.applicationID = ""
	_, err = c.FetchGlobalCommands(context.Background())
	assert.ErrorIs(t, err, ErrNoApplicationID)
}

func TestClient_Unauthorized(t *testing.T) {
	_, c := newFakeAPI(t, nil)
	c.token = "wrong"
	_, err := c.FetchGateway(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
