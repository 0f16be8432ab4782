package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"personal/discord_state/src/optional"
)

// Permissions is an opaque permission bit value. The API sends it as a
// numeric string.
type Permissions uint64

func ParsePermissions(s string) (Permissions, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid permissions %q: %w", s, err)
	}
	return Permissions(n), nil
}

func (p Permissions) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

func (p Permissions) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Permissions) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(bytes.TrimSpace(b))
	}
	v, err := ParsePermissions(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// wirePermissions reads default_member_permissions. Falsy values (null, "",
// 0) mean no default permissions.
func wirePermissions(raw json.RawMessage) optional.Field[Permissions] {
	if !truthy(raw) {
		return optional.NullOf[Permissions]()
	}
	return decodePermissions(raw)
}

// modelPermissions reads defaultMemberPermissions, where only null means no
// default permissions.
func modelPermissions(raw json.RawMessage) optional.Field[Permissions] {
	if isNull(raw) {
		return optional.NullOf[Permissions]()
	}
	return decodePermissions(raw)
}

func decodePermissions(raw json.RawMessage) optional.Field[Permissions] {
	var p Permissions
	if err := json.Unmarshal(raw, &p); err != nil {
		return optional.NullOf[Permissions]()
	}
	return optional.Of(p)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`, "0":
		return false
	}
	return true
}
