package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ChoiceValue is either a string or a number. A string never equals a
// number, even when they print the same.
type ChoiceValue struct {
	str   string
	num   float64
	isNum bool
}

func StringChoice(s string) ChoiceValue  { return ChoiceValue{str: s} }
func NumberChoice(n float64) ChoiceValue { return ChoiceValue{num: n, isNum: true} }

func (v ChoiceValue) IsNumber() bool { return v.isNum }

func (v ChoiceValue) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v ChoiceValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *ChoiceValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringChoice(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("choice value must be a string or a number: %w", err)
	}
	*v = NumberChoice(n)
	return nil
}

type CommandOptionChoice struct {
	Name              string
	NameLocalizations Localizations
	NameLocalized     *string
	Value             ChoiceValue
}

func (c *CommandOptionChoice) UnmarshalJSON(b []byte) error {
	d, err := parseDocument(b)
	if err != nil {
		return err
	}
	*c = CommandOptionChoice{}
	return d.decode(
		aliased(&c.Name, "name"),
		aliased(&c.NameLocalizations, "nameLocalizations", "name_localizations"),
		aliased(&c.NameLocalized, "nameLocalized", "name_localized"),
		aliased(&c.Value, "value"),
	)
}

type wireChoice struct {
	Name              string        `json:"name"`
	NameLocalizations Localizations `json:"name_localizations,omitempty"`
	Value             ChoiceValue   `json:"value"`
}

func (c CommandOptionChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireChoice{Name: c.Name, NameLocalizations: c.NameLocalizations, Value: c.Value})
}

// CommandOption is the canonical form of an application command option. It
// decodes from both the API's snake_case keys and camelCase keys; when both
// are given the camelCase one wins. Nil slices and pointers mean the field
// was absent.
type CommandOption struct {
	Type                     OptionType
	Name                     string
	NameLocalizations        Localizations
	NameLocalized            *string
	Description              string
	DescriptionLocalizations Localizations
	DescriptionLocalized     *string
	Required                 *bool
	Autocomplete             *bool
	Choices                  []CommandOptionChoice
	Options                  []CommandOption
	ChannelTypes             []ChannelType
	MinValue                 *float64
	MaxValue                 *float64
	MinLength                *int
	MaxLength                *int
}

func (o *CommandOption) UnmarshalJSON(b []byte) error {
	d, err := parseDocument(b)
	if err != nil {
		return err
	}
	*o = CommandOption{}
	return d.decode(
		aliased(&o.Type, "type"),
		aliased(&o.Name, "name"),
		aliased(&o.NameLocalizations, "nameLocalizations", "name_localizations"),
		aliased(&o.NameLocalized, "nameLocalized", "name_localized"),
		aliased(&o.Description, "description"),
		aliased(&o.DescriptionLocalizations, "descriptionLocalizations", "description_localizations"),
		aliased(&o.DescriptionLocalized, "descriptionLocalized", "description_localized"),
		aliased(&o.Required, "required"),
		aliased(&o.Autocomplete, "autocomplete"),
		aliased(&o.Choices, "choices"),
		aliased(&o.Options, "options"),
		aliased(&o.ChannelTypes, "channelTypes", "channel_types"),
		aliased(&o.MinValue, "minValue", "min_value"),
		aliased(&o.MaxValue, "maxValue", "max_value"),
		aliased(&o.MinLength, "minLength", "min_length"),
		aliased(&o.MaxLength, "maxLength", "max_length"),
	)
}

type wireOption struct {
	Type                     OptionType            `json:"type"`
	Name                     string                `json:"name"`
	NameLocalizations        Localizations         `json:"name_localizations,omitempty"`
	Description              string                `json:"description"`
	DescriptionLocalizations Localizations         `json:"description_localizations,omitempty"`
	Required                 *bool                 `json:"required,omitempty"`
	Autocomplete             *bool                 `json:"autocomplete,omitempty"`
	Choices                  []CommandOptionChoice `json:"choices,omitempty"`
	Options                  []CommandOption       `json:"options,omitempty"`
	ChannelTypes             []ChannelType         `json:"channel_types,omitempty"`
	MinValue                 *float64              `json:"min_value,omitempty"`
	MaxValue                 *float64              `json:"max_value,omitempty"`
	MinLength                *int                  `json:"min_length,omitempty"`
	MaxLength                *int                  `json:"max_length,omitempty"`
}

// MarshalJSON encodes the option in the API's snake_case form.
func (o CommandOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOption{
		Type:                     o.Type,
		Name:                     o.Name,
		NameLocalizations:        o.NameLocalizations,
		Description:              o.Description,
		DescriptionLocalizations: o.DescriptionLocalizations,
		Required:                 o.Required,
		Autocomplete:             o.Autocomplete,
		Choices:                  o.Choices,
		Options:                  o.Options,
		ChannelTypes:             o.ChannelTypes,
		MinValue:                 o.MinValue,
		MaxValue:                 o.MaxValue,
		MinLength:                o.MinLength,
		MaxLength:                o.MaxLength,
	})
}

// requiredOrDefault returns the explicit required flag, or the default for
// the option's type: unset for subcommands and groups, false otherwise.
func (o CommandOption) requiredOrDefault() *bool {
	if o.Required != nil {
		return o.Required
	}
	if o.Type.IsSubcommand() {
		return nil
	}
	f := false
	return &f
}

// storedOption copies a received option into the form kept on a command,
// with the required default filled in.
func storedOption(o CommandOption) CommandOption {
	o.Required = o.requiredOrDefault()
	o.NameLocalizations = maps.Clone(o.NameLocalizations)
	o.DescriptionLocalizations = maps.Clone(o.DescriptionLocalizations)
	o.ChannelTypes = slices.Clone(o.ChannelTypes)
	if o.Choices != nil {
		choices := make([]CommandOptionChoice, len(o.Choices))
		for i, c := range o.Choices {
			c.NameLocalizations = maps.Clone(c.NameLocalizations)
			choices[i] = c
		}
		o.Choices = choices
	}
	if o.Options != nil {
		subs := make([]CommandOption, len(o.Options))
		for i, sub := range o.Options {
			subs[i] = storedOption(sub)
		}
		o.Options = subs
	}
	return o
}

// OptionsEqual reports whether the options stored on a command match the
// given options. Without enforceOrder options are paired by name.
func OptionsEqual(existing, options []CommandOption, enforceOrder bool) bool {
	if len(existing) != len(options) {
		return false
	}
	if enforceOrder {
		for i := range existing {
			if !optionEqual(existing[i], options[i], true) {
				return false
			}
		}
		return true
	}
	byName := make(map[string]CommandOption, len(options))
	for _, o := range options {
		byName[o.Name] = o
	}
	for _, o := range existing {
		found, ok := byName[o.Name]
		if !ok || !optionEqual(o, found, false) {
			return false
		}
	}
	return true
}

func optionEqual(existing, option CommandOption, enforceOrder bool) bool {
	if option.Name != existing.Name ||
		option.Type != existing.Type ||
		option.Description != existing.Description ||
		!ptrEqual(option.Autocomplete, existing.Autocomplete) ||
		!ptrEqual(option.requiredOrDefault(), existing.Required) ||
		sliceLen(option.Choices) != sliceLen(existing.Choices) ||
		sliceLen(option.Options) != sliceLen(existing.Options) ||
		sliceLen(option.ChannelTypes) != sliceLen(existing.ChannelTypes) ||
		!ptrEqual(option.MinValue, existing.MinValue) ||
		!ptrEqual(option.MaxValue, existing.MaxValue) ||
		!ptrEqual(option.MinLength, existing.MinLength) ||
		!ptrEqual(option.MaxLength, existing.MaxLength) ||
		!LocalizationsEqual(option.NameLocalizations, existing.NameLocalizations) ||
		!LocalizationsEqual(option.DescriptionLocalizations, existing.DescriptionLocalizations) {
		return false
	}

	if existing.Choices != nil && !choicesEqual(existing.Choices, option.Choices, enforceOrder) {
		return false
	}

	// Extra channel types on the incoming side are tolerated.
	for _, t := range existing.ChannelTypes {
		if !slices.Contains(option.ChannelTypes, t) {
			return false
		}
	}

	if existing.Options != nil {
		return OptionsEqual(existing.Options, option.Options, enforceOrder)
	}
	return true
}

// choicesEqual assumes both lists have the same length. Localizations are
// only compared when order is enforced.
// TODO: compare localizations in the name-keyed path too once callers stop
// relying on the current behavior.
func choicesEqual(existing, choices []CommandOptionChoice, enforceOrder bool) bool {
	if enforceOrder {
		for i, c := range existing {
			if c.Name != choices[i].Name ||
				c.Value != choices[i].Value ||
				!LocalizationsEqual(c.NameLocalizations, choices[i].NameLocalizations) {
				return false
			}
		}
		return true
	}
	byName := make(map[string]CommandOptionChoice, len(choices))
	for _, c := range choices {
		byName[c.Name] = c
	}
	for _, c := range existing {
		found, ok := byName[c.Name]
		if !ok || found.Value != c.Value {
			return false
		}
	}
	return true
}
