package domain

import (
	"maps"
	"slices"
)

// OverrideField is a pair of allowed and denied permission bits.
type OverrideField struct {
	Allow int64 `json:"a"`
	Deny  int64 `json:"d"`
}

type Category struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Channels []string `json:"channels"`
}

// SystemMessageChannels tells which channel receives each kind of system message.
type SystemMessageChannels struct {
	UserJoined *string `json:"user_joined,omitempty"`
	UserLeft   *string `json:"user_left,omitempty"`
	UserKicked *string `json:"user_kicked,omitempty"`
	UserBanned *string `json:"user_banned,omitempty"`
}

type Role struct {
	Name        string        `json:"name"`
	Permissions OverrideField `json:"permissions"`
	Colour      *string       `json:"colour,omitempty" validate:"omitempty,min=1,max=128,colour"`
	Hoist       bool          `json:"hoist,omitempty"`
	Rank        int64         `json:"rank"`
}

type PartialRole struct {
	Name        *string        `json:"name,omitempty"`
	Permissions *OverrideField `json:"permissions,omitempty"`
	Colour      *string        `json:"colour,omitempty"`
	Hoist       *bool          `json:"hoist,omitempty"`
	Rank        *int64         `json:"rank,omitempty"`
}

// FieldsRole names the role fields that can be removed.
type FieldsRole string

const FieldsRoleColour FieldsRole = "Colour"

func (f FieldsRole) Valid() bool {
	return f == FieldsRoleColour
}

func (f *FieldsRole) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (r *Role) Apply(p PartialRole) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Permissions != nil {
		r.Permissions = *p.Permissions
	}
	if p.Colour != nil {
		r.Colour = clonePtr(p.Colour)
	}
	if p.Hoist != nil {
		r.Hoist = *p.Hoist
	}
	if p.Rank != nil {
		r.Rank = *p.Rank
	}
}

func (r *Role) Remove(field FieldsRole) {
	if field == FieldsRoleColour {
		r.Colour = nil
	}
}

type Server struct {
	ID                 string                 `json:"_id"`
	Owner              string                 `json:"owner"`
	Name               string                 `json:"name"`
	Description        *string                `json:"description,omitempty"`
	Channels           []string               `json:"channels"`
	Categories         []Category             `json:"categories,omitempty"`
	SystemMessages     *SystemMessageChannels `json:"system_messages,omitempty"`
	Roles              map[string]Role        `json:"roles,omitempty"`
	DefaultPermissions int64                  `json:"default_permissions"`
	Icon               *File                  `json:"icon,omitempty"`
	Banner             *File                  `json:"banner,omitempty"`
	Flags              *int32                 `json:"flags,omitempty"`
	NSFW               bool                   `json:"nsfw,omitempty"`
	Analytics          bool                   `json:"analytics,omitempty"`
	Discoverable       bool                   `json:"discoverable,omitempty"`
}

// PartialServer carries the server fields to overwrite.
// Roles are changed through the role operations, not through this patch.
type PartialServer struct {
	Owner              *string                `json:"owner,omitempty"`
	Name               *string                `json:"name,omitempty"`
	Description        *string                `json:"description,omitempty"`
	Channels           []string               `json:"channels,omitempty"`
	Categories         []Category             `json:"categories,omitempty"`
	SystemMessages     *SystemMessageChannels `json:"system_messages,omitempty"`
	DefaultPermissions *int64                 `json:"default_permissions,omitempty"`
	Icon               *File                  `json:"icon,omitempty"`
	Banner             *File                  `json:"banner,omitempty"`
	Flags              *int32                 `json:"flags,omitempty"`
	NSFW               *bool                  `json:"nsfw,omitempty"`
	Analytics          *bool                  `json:"analytics,omitempty"`
	Discoverable       *bool                  `json:"discoverable,omitempty"`
}

// FieldsServer names the server fields that can be removed.
// Flags are managed by the platform and cannot be cleared by an update.
type FieldsServer string

const (
	FieldsServerDescription    FieldsServer = "Description"
	FieldsServerCategories     FieldsServer = "Categories"
	FieldsServerSystemMessages FieldsServer = "SystemMessages"
	FieldsServerIcon           FieldsServer = "Icon"
	FieldsServerBanner         FieldsServer = "Banner"
)

func (f FieldsServer) Valid() bool {
	switch f {
	case FieldsServerDescription, FieldsServerCategories, FieldsServerSystemMessages,
		FieldsServerIcon, FieldsServerBanner:
		return true
	}
	return false
}

func (f *FieldsServer) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (s *Server) Apply(p PartialServer) {
	if p.Owner != nil {
		s.Owner = *p.Owner
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = clonePtr(p.Description)
	}
	if p.Channels != nil {
		s.Channels = slices.Clone(p.Channels)
	}
	if p.Categories != nil {
		s.Categories = slices.Clone(p.Categories)
	}
	if p.SystemMessages != nil {
		s.SystemMessages = clonePtr(p.SystemMessages)
	}
	if p.DefaultPermissions != nil {
		s.DefaultPermissions = *p.DefaultPermissions
	}
	if p.Icon != nil {
		s.Icon = clonePtr(p.Icon)
	}
	if p.Banner != nil {
		s.Banner = clonePtr(p.Banner)
	}
	if p.Flags != nil {
		s.Flags = clonePtr(p.Flags)
	}
	if p.NSFW != nil {
		s.NSFW = *p.NSFW
	}
	if p.Analytics != nil {
		s.Analytics = *p.Analytics
	}
	if p.Discoverable != nil {
		s.Discoverable = *p.Discoverable
	}
}

func (s *Server) Remove(field FieldsServer) {
	switch field {
	case FieldsServerDescription:
		s.Description = nil
	case FieldsServerCategories:
		s.Categories = nil
	case FieldsServerSystemMessages:
		s.SystemMessages = nil
	case FieldsServerIcon:
		s.Icon = nil
	case FieldsServerBanner:
		s.Banner = nil
	}
}

// SetRole stores role under id.
func (s *Server) SetRole(id string, role Role) {
	roles := maps.Clone(s.Roles)
	if roles == nil {
		roles = make(map[string]Role)
	}
	roles[id] = role
	s.Roles = roles
}

// DeleteRole drops the role. It reports false when the role did not exist.
func (s *Server) DeleteRole(id string) bool {
	if _, ok := s.Roles[id]; !ok {
		return false
	}
	roles := maps.Clone(s.Roles)
	delete(roles, id)
	if len(roles) == 0 {
		roles = nil
	}
	s.Roles = roles
	return true
}
