package client

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"personal/discord_state/src/optional"
)

// CommandPayload is an application command as sent by the API. Only the keys
// present in the payload are applied by Patch.
type CommandPayload struct {
	ID                       Snowflake                                `json:"id"`
	ApplicationID            Snowflake                                `json:"application_id"`
	GuildID                  *Snowflake                               `json:"guild_id,omitempty"`
	Type                     CommandType                              `json:"type"`
	NSFW                     optional.Field[bool]                     `json:"nsfw"`
	Name                     optional.Field[string]                   `json:"name"`
	NameLocalizations        optional.Field[Localizations]            `json:"name_localizations"`
	NameLocalized            optional.Field[string]                   `json:"name_localized"`
	Description              optional.Field[string]                   `json:"description"`
	DescriptionLocalizations optional.Field[Localizations]            `json:"description_localizations"`
	DescriptionLocalized     optional.Field[string]                   `json:"description_localized"`
	Options                  optional.Field[[]CommandOption]          `json:"options"`
	DefaultMemberPermissions optional.Field[json.RawMessage]          `json:"default_member_permissions"`
	IntegrationTypes         optional.Field[[]IntegrationType]        `json:"integration_types"`
	Contexts                 optional.Field[[]InteractionContextType] `json:"contexts"`
	Version                  optional.Field[Snowflake]                `json:"version"`
}

type ApplicationCommand struct {
	ID            Snowflake
	ApplicationID Snowflake
	// GuildID is null for global commands.
	GuildID optional.Field[Snowflake]
	Type    CommandType
	NSFW    bool

	Name                     optional.Field[string]
	NameLocalizations        optional.Field[Localizations]
	NameLocalized            optional.Field[string]
	Description              optional.Field[string]
	DescriptionLocalizations optional.Field[Localizations]
	DescriptionLocalized     optional.Field[string]
	Options                  []CommandOption
	DefaultMemberPermissions optional.Field[Permissions]
	IntegrationTypes         optional.Field[[]IntegrationType]
	Contexts                 optional.Field[[]InteractionContextType]
	Version                  optional.Field[Snowflake]
}

// NewApplicationCommand builds a command from its payload. guildID, when
// non-nil, takes precedence over the payload's guild_id.
func NewApplicationCommand(data CommandPayload, guildID *Snowflake) *ApplicationCommand {
	c := &ApplicationCommand{
		ID:            data.ID,
		ApplicationID: data.ApplicationID,
		GuildID:       optional.NullOf[Snowflake](),
		Type:          data.Type,
		NSFW:          data.NSFW.OrElse(false),
	}
	switch {
	case guildID != nil:
		c.GuildID = optional.Of(*guildID)
	case data.GuildID != nil:
		c.GuildID = optional.Of(*data.GuildID)
	}
	return c.Patch(data)
}

func (c *ApplicationCommand) Patch(data CommandPayload) *ApplicationCommand {
	if data.Name.Present() {
		c.Name = data.Name
	}
	if data.Description.Present() {
		c.Description = data.Description
	}
	if data.Version.Present() {
		c.Version = data.Version
	}

	patchField(&c.NameLocalizations, cloneLocalizations(data.NameLocalizations))
	patchField(&c.NameLocalized, data.NameLocalized)
	patchField(&c.DescriptionLocalizations, cloneLocalizations(data.DescriptionLocalizations))
	patchField(&c.DescriptionLocalized, data.DescriptionLocalized)
	patchField(&c.IntegrationTypes, cloneList(data.IntegrationTypes))
	patchField(&c.Contexts, cloneList(data.Contexts))

	switch {
	case data.Options.Present():
		opts, _ := data.Options.Get()
		c.Options = make([]CommandOption, len(opts))
		for i, o := range opts {
			c.Options[i] = storedOption(o)
		}
	case c.Options == nil:
		c.Options = []CommandOption{}
	}

	if raw, ok := data.DefaultMemberPermissions.Get(); ok {
		c.DefaultMemberPermissions = wirePermissions(raw)
	} else if data.DefaultMemberPermissions.IsNull() {
		c.DefaultMemberPermissions = optional.NullOf[Permissions]()
	} else {
		c.DefaultMemberPermissions.Coalesce(optional.NullOf[Permissions]())
	}
	return c
}

// CreatedTimestamp is the creation time in unix milliseconds, derived from
// the command id.
func (c *ApplicationCommand) CreatedTimestamp() int64 {
	return c.ID.Timestamp()
}

func (c *ApplicationCommand) CreatedAt() time.Time {
	return c.ID.Time()
}

// CommandData is the canonical record a command is compared against. It is
// normalized from either the API's snake_case form or the camelCase form
// used for command definitions.
type CommandData struct {
	ID                       Snowflake
	Name                     optional.Field[string]
	Description              optional.Field[string]
	Version                  optional.Field[Snowflake]
	Type                     CommandType
	NSFW                     optional.Field[bool]
	Options                  []CommandOption
	DefaultMemberPermissions optional.Field[Permissions]
	NameLocalizations        Localizations
	DescriptionLocalizations Localizations
	IntegrationTypes         []IntegrationType
	Contexts                 []InteractionContextType
}

func ParseCommandData(b []byte) (CommandData, error) {
	var c CommandData
	err := json.Unmarshal(b, &c)
	return c, err
}

func (c *CommandData) UnmarshalJSON(b []byte) error {
	d, err := parseDocument(b)
	if err != nil {
		return err
	}
	*c = CommandData{}

	// The camelCase key wins when both are given.
	if raw, ok := d["default_member_permissions"]; ok {
		c.DefaultMemberPermissions = wirePermissions(raw)
	}
	if raw, ok := d["defaultMemberPermissions"]; ok {
		c.DefaultMemberPermissions = modelPermissions(raw)
	}

	return d.decode(
		aliased(&c.ID, "id"),
		keyed(&c.Name, "name"),
		keyed(&c.Description, "description"),
		keyed(&c.Version, "version"),
		aliased(&c.Type, "type"),
		keyed(&c.NSFW, "nsfw"),
		aliased(&c.Options, "options"),
		aliased(&c.NameLocalizations, "nameLocalizations", "name_localizations"),
		aliased(&c.DescriptionLocalizations, "descriptionLocalizations", "description_localizations"),
		aliased(&c.IntegrationTypes, "integrationTypes", "integration_types"),
		aliased(&c.Contexts, "contexts"),
	)
}

// Data returns the command in the form accepted by Equals.
func (c *ApplicationCommand) Data() CommandData {
	return CommandData{
		ID:                       c.ID,
		Name:                     c.Name,
		Description:              c.Description,
		Version:                  c.Version,
		Type:                     c.Type,
		NSFW:                     optional.Of(c.NSFW),
		Options:                  c.Options,
		DefaultMemberPermissions: optionalOrNull(c.DefaultMemberPermissions),
		NameLocalizations:        c.NameLocalizations.OrElse(nil),
		DescriptionLocalizations: c.DescriptionLocalizations.OrElse(nil),
		IntegrationTypes:         c.IntegrationTypes.OrElse(nil),
		Contexts:                 c.Contexts.OrElse(nil),
	}
}

// Equals reports whether the command matches other. Fields missing from
// other are mostly ignored; see the individual checks. Without
// enforceOptionOrder, options and choices are paired by name.
//
// A record without a description key skips the description check entirely,
// so it can compare equal to a command that has one.
func (c *ApplicationCommand) Equals(other CommandData, enforceOptionOrder bool) bool {
	if other.ID != "" && other.ID != c.ID {
		return false
	}

	if !optional.Equal(other.Name, c.Name) ||
		(other.Description.Present() && !optional.Equal(other.Description, c.Description)) ||
		(other.Version.Present() && !optional.Equal(other.Version, c.Version)) ||
		(other.Type != 0 && other.Type != c.Type) ||
		(other.NSFW.Present() && !optional.Equal(other.NSFW, optional.Of(c.NSFW))) ||
		len(other.Options) != len(c.Options) ||
		!ptrEqual(other.DefaultMemberPermissions.Ptr(), c.DefaultMemberPermissions.Ptr()) ||
		!LocalizationsEqual(other.NameLocalizations, c.NameLocalizations.OrElse(nil)) ||
		!LocalizationsEqual(other.DescriptionLocalizations, c.DescriptionLocalizations.OrElse(nil)) ||
		!listEqual(other.IntegrationTypes, c.IntegrationTypes.OrElse(nil)) ||
		!listEqual(other.Contexts, c.Contexts.OrElse(nil)) {
		return false
	}

	if other.Options != nil {
		return OptionsEqual(c.Options, other.Options, enforceOptionOrder)
	}
	return true
}

func (c *ApplicationCommand) EqualsCommand(other *ApplicationCommand, enforceOptionOrder bool) bool {
	return c.Equals(other.Data(), enforceOptionOrder)
}

// patchField overwrites dst when the key was in the payload, null included,
// and otherwise turns an unset dst into null.
func patchField[T any](dst *optional.Field[T], src optional.Field[T]) {
	if src.Present() {
		*dst = src
		return
	}
	dst.Coalesce(optional.NullOf[T]())
}

func optionalOrNull[T any](f optional.Field[T]) optional.Field[T] {
	if f.IsUnset() {
		return optional.NullOf[T]()
	}
	return f
}

func cloneLocalizations(f optional.Field[Localizations]) optional.Field[Localizations] {
	if v, ok := f.Get(); ok {
		return optional.Of(maps.Clone(v))
	}
	return f
}

func cloneList[T any](f optional.Field[[]T]) optional.Field[[]T] {
	if v, ok := f.Get(); ok {
		return optional.Of(slices.Clone(v))
	}
	return f
}
