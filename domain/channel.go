package domain

import "maps"

type ChannelType string

const (
	TextChannel  ChannelType = "TextChannel"
	VoiceChannel ChannelType = "VoiceChannel"
)

// Channel is a text or voice channel belonging to a server.
type Channel struct {
	ID                 string                   `json:"_id"`
	ChannelType        ChannelType              `json:"channel_type"`
	Server             string                   `json:"server"`
	Name               string                   `json:"name"`
	Description        *string                  `json:"description,omitempty"`
	Icon               *File                    `json:"icon,omitempty"`
	DefaultPermissions *OverrideField           `json:"default_permissions,omitempty"`
	RolePermissions    map[string]OverrideField `json:"role_permissions,omitempty"`
	NSFW               bool                     `json:"nsfw,omitempty"`
}

type PartialChannel struct {
	Name               *string                  `json:"name,omitempty"`
	Description        *string                  `json:"description,omitempty"`
	Icon               *File                    `json:"icon,omitempty"`
	DefaultPermissions *OverrideField           `json:"default_permissions,omitempty"`
	RolePermissions    map[string]OverrideField `json:"role_permissions,omitempty"`
	NSFW               *bool                    `json:"nsfw,omitempty"`
}

// FieldsChannel names the channel fields that can be removed.
// RolePermissions entries are cleared by role deletion, not by an update.
type FieldsChannel string

const (
	FieldsChannelDescription        FieldsChannel = "Description"
	FieldsChannelIcon               FieldsChannel = "Icon"
	FieldsChannelDefaultPermissions FieldsChannel = "DefaultPermissions"
)

func (f FieldsChannel) Valid() bool {
	switch f {
	case FieldsChannelDescription, FieldsChannelIcon, FieldsChannelDefaultPermissions:
		return true
	}
	return false
}

func (f *FieldsChannel) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (c *Channel) Apply(p PartialChannel) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = clonePtr(p.Description)
	}
	if p.Icon != nil {
		c.Icon = clonePtr(p.Icon)
	}
	if p.DefaultPermissions != nil {
		c.DefaultPermissions = clonePtr(p.DefaultPermissions)
	}
	if p.RolePermissions != nil {
		c.RolePermissions = maps.Clone(p.RolePermissions)
	}
	if p.NSFW != nil {
		c.NSFW = *p.NSFW
	}
}

func (c *Channel) Remove(field FieldsChannel) {
	switch field {
	case FieldsChannelDescription:
		c.Description = nil
	case FieldsChannelIcon:
		c.Icon = nil
	case FieldsChannelDefaultPermissions:
		c.DefaultPermissions = nil
	}
}

// DropRole removes the role's permission override. It reports whether anything changed.
func (c *Channel) DropRole(role string) bool {
	if _, ok := c.RolePermissions[role]; !ok {
		return false
	}
	permissions := maps.Clone(c.RolePermissions)
	delete(permissions, role)
	if len(permissions) == 0 {
		permissions = nil
	}
	c.RolePermissions = permissions
	return true
}
