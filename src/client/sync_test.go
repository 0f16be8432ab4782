package client

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registeredCommands = `[
	{"id":"1","application_id":"100","name":"ping","description":"pong","version":"1","default_member_permissions":null},
	{"id":"2","application_id":"100","name":"echo","description":"echo","version":"1","default_member_permissions":null,
		"options":[{"type":3,"name":"text","description":"text","required":true}]},
	{"id":"3","application_id":"100","name":"old","description":"old","version":"1","default_member_permissions":null}
]`

func desiredCommands(t *testing.T) []CommandData {
	t.Helper()
	var defs []CommandData
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name":"ping","description":"pong"},
		{"name":"echo","description":"echo","options":[{"type":3,"name":"text","description":"what to say","required":true}]},
		{"name":"new","description":"new","defaultMemberPermissions":"8"}
	]`), &defs))
	return defs
}

func TestPlanCommandSync(t *testing.T) {
	var payloads []CommandPayload
	require.NoError(t, json.Unmarshal([]byte(registeredCommands), &payloads))
	existing := make([]*ApplicationCommand, len(payloads))
	for i, p := range payloads {
		existing[i] = NewApplicationCommand(p, nil)
	}

	plan := PlanCommandSync(existing, desiredCommands(t), false)
	want := SyncPlan{
		Create:    []string{"new"},
		Update:    []string{"echo"},
		Unchanged: []string{"ping"},
		Delete:    []string{"old"},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("PlanCommandSync() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, plan.Changed())

	plan = PlanCommandSync(existing[:1], desiredCommands(t)[:1], false)
	assert.False(t, plan.Changed())
}

func TestCommandData_MarshalJSON(t *testing.T) {
	defs := desiredCommands(t)

	b, err := json.Marshal(defs[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"new","description":"new","default_member_permissions":"8"}`, string(b))

	b, err = json.Marshal(defs[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"echo","description":"echo","default_member_permissions":null,
		"options":[{"type":3,"name":"text","description":"what to say","required":true}]}`, string(b))

	// The API echoes the payload back; the result must compare equal.
	var p CommandPayload
	require.NoError(t, json.Unmarshal(b, &p))
	p.ID = "9"
	assert.True(t, NewApplicationCommand(p, nil).Equals(defs[1], true))
}

func TestClient_SyncCommands(t *testing.T) {
	const path = "/applications/100/commands"

	t.Run("dry run", func(t *testing.T) {
		api, c := newFakeAPI(t, map[string]string{"GET " + path: registeredCommands})

		plan, err := c.SyncCommands(context.Background(), desiredCommands(t), SyncOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, plan.Changed())

		_, put := api.request("PUT " + path)
		assert.False(t, put)
	})

	t.Run("overwrites on change", func(t *testing.T) {
		api, c := newFakeAPI(t, map[string]string{
			"GET " + path: registeredCommands,
			"PUT " + path: `[
				{"id":"1","application_id":"100","name":"ping","description":"pong","version":"2"},
				{"id":"2","application_id":"100","name":"echo","description":"echo","version":"2"},
				{"id":"4","application_id":"100","name":"new","description":"new","version":"1"}
			]`,
		})

		_, err := c.SyncCommands(context.Background(), desiredCommands(t), SyncOptions{})
		require.NoError(t, err)

		body, put := api.request("PUT " + path)
		require.True(t, put)
		var sent []CommandData
		require.NoError(t, json.Unmarshal(body, &sent))
		require.Len(t, sent, 3)
		assert.Equal(t, "new", sent[2].Name.OrElse(""))
		assert.Equal(t, Permissions(8), sent[2].DefaultMemberPermissions.OrElse(0))

		_, ok := c.State().commands["4"]
		assert.True(t, ok)
	})

	t.Run("nothing to do", func(t *testing.T) {
		api, c := newFakeAPI(t, map[string]string{
			"GET " + path: `[{"id":"1","application_id":"100","name":"ping","description":"pong","version":"1"}]`,
		})

		plan, err := c.SyncCommands(context.Background(), desiredCommands(t)[:1], SyncOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"ping"}, plan.Unchanged)

		_, put := api.request("PUT " + path)
		assert.False(t, put)
	})
}
