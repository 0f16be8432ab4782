package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var ErrNoCommands = errors.New("definitions file has no commands")

type definitionsFile struct {
	Commands []any `yaml:"commands"`
}

// LoadCommandDefinitions reads command definitions from YAML (or JSON) of
// the form
//
//	commands:
//	  - name: ping
//	    description: Replies with pong
//
// Keys may be camelCase or snake_case, as with any CommandData.
func LoadCommandDefinitions(r io.Reader) ([]CommandData, error) {
	var file definitionsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCommands
		}
		return nil, fmt.Errorf("could not parse definitions: %w", err)
	}
	if len(file.Commands) == 0 {
		return nil, ErrNoCommands
	}

	defs := make([]CommandData, len(file.Commands))
	for i, raw := range file.Commands {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if err := json.Unmarshal(b, &defs[i]); err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if !defs[i].Name.IsSet() {
			return nil, fmt.Errorf("command %d: missing name", i)
		}
	}
	return defs, nil
}
