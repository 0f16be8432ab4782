package client

import (
	"context"
	"encoding/json"

	"personal/discord_state/src/optional"

	"go.uber.org/zap"
)

type wireCommand struct {
	Name                     optional.Field[string]      `json:"name"`
	NameLocalizations        Localizations               `json:"name_localizations,omitempty"`
	Description              string                      `json:"description"`
	DescriptionLocalizations Localizations               `json:"description_localizations,omitempty"`
	Type                     CommandType                 `json:"type,omitempty"`
	NSFW                     *bool                       `json:"nsfw,omitempty"`
	Options                  []CommandOption             `json:"options,omitempty"`
	DefaultMemberPermissions optional.Field[Permissions] `json:"default_member_permissions"`
	IntegrationTypes         []IntegrationType           `json:"integration_types,omitempty"`
	Contexts                 []InteractionContextType    `json:"contexts,omitempty"`
}

// MarshalJSON encodes the record as a command creation payload.
func (c CommandData) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCommand{
		Name:                     c.Name,
		NameLocalizations:        c.NameLocalizations,
		Description:              c.Description.OrElse(""),
		DescriptionLocalizations: c.DescriptionLocalizations,
		Type:                     c.Type,
		NSFW:                     c.NSFW.Ptr(),
		Options:                  c.Options,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
		IntegrationTypes:         c.IntegrationTypes,
		Contexts:                 c.Contexts,
	})
}

// SyncPlan lists command names by what a sync does with them.
type SyncPlan struct {
	Create    []string
	Update    []string
	Unchanged []string
	Delete    []string
}

func (p SyncPlan) Changed() bool {
	return len(p.Create)+len(p.Update)+len(p.Delete) > 0
}

// PlanCommandSync compares the registered commands with the desired ones,
// matching them by name. Commands registered but not desired are deleted.
func PlanCommandSync(existing []*ApplicationCommand, desired []CommandData, enforceOrder bool) SyncPlan {
	byName := make(map[string]*ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name.OrElse("")] = cmd
	}

	var plan SyncPlan
	seen := make(map[string]bool, len(desired))
	for _, d := range desired {
		name := d.Name.OrElse("")
		seen[name] = true
		cmd, ok := byName[name]
		switch {
		case !ok:
			plan.Create = append(plan.Create, name)
		case cmd.Equals(d, enforceOrder):
			plan.Unchanged = append(plan.Unchanged, name)
		default:
			plan.Update = append(plan.Update, name)
		}
	}
	for _, cmd := range existing {
		if name := cmd.Name.OrElse(""); !seen[name] {
			plan.Delete = append(plan.Delete, name)
		}
	}
	return plan
}

type SyncOptions struct {
	DryRun       bool
	EnforceOrder bool
}

// SyncCommands brings the application's global commands in line with
// desired. The registered commands are only overwritten when the plan has
// changes and DryRun is off.
func (c *Client) SyncCommands(ctx context.Context, desired []CommandData, opts SyncOptions) (SyncPlan, error) {
	existing, err := c.FetchGlobalCommands(ctx)
	if err != nil {
		return SyncPlan{}, err
	}

	plan := PlanCommandSync(existing, desired, opts.EnforceOrder)
	c.logger.Info("command sync planned",
		zap.Strings("create", plan.Create),
		zap.Strings("update", plan.Update),
		zap.Strings("delete", plan.Delete),
		zap.Int("unchanged", len(plan.Unchanged)),
		zap.Bool("dry_run", opts.DryRun))

	if !plan.Changed() || opts.DryRun {
		return plan, nil
	}
	if _, err := c.OverwriteGlobalCommands(ctx, desired); err != nil {
		return plan, err
	}
	c.logger.Info("commands overwritten", zap.Int("count", len(desired)))
	return plan, nil
}
