package domain

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// MemberCompositeKey identifies a user's membership of a server.
type MemberCompositeKey struct {
	Server string `json:"server"`
	User   string `json:"user"`
}

type Member struct {
	ID       MemberCompositeKey `json:"_id"`
	JoinedAt time.Time          `json:"joined_at"`
	Nickname *string            `json:"nickname,omitempty" validate:"omitempty,min=1,max=32"`
	Avatar   *File              `json:"avatar,omitempty"`
	Roles    []string           `json:"roles,omitempty"`
	Timeout  *time.Time         `json:"timeout,omitempty"`
}

type PartialMember struct {
	JoinedAt *time.Time `json:"joined_at,omitempty"`
	Nickname *string    `json:"nickname,omitempty"`
	Avatar   *File      `json:"avatar,omitempty"`
	Roles    []string   `json:"roles,omitempty"`
	Timeout  *time.Time `json:"timeout,omitempty"`
}

// FieldsMember names the member fields that can be removed.
type FieldsMember string

const (
	FieldsMemberNickname FieldsMember = "Nickname"
	FieldsMemberAvatar   FieldsMember = "Avatar"
	FieldsMemberRoles    FieldsMember = "Roles"
	FieldsMemberTimeout  FieldsMember = "Timeout"
)

func (f FieldsMember) Valid() bool {
	switch f {
	case FieldsMemberNickname, FieldsMemberAvatar, FieldsMemberRoles, FieldsMemberTimeout:
		return true
	}
	return false
}

func (f *FieldsMember) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (m *Member) Apply(p PartialMember) {
	if p.JoinedAt != nil {
		m.JoinedAt = *p.JoinedAt
	}
	if p.Nickname != nil {
		m.Nickname = clonePtr(p.Nickname)
	}
	if p.Avatar != nil {
		m.Avatar = clonePtr(p.Avatar)
	}
	if p.Roles != nil {
		m.Roles = NewSet(p.Roles...)
	}
	if p.Timeout != nil {
		m.Timeout = clonePtr(p.Timeout)
	}
}

func (m *Member) Remove(field FieldsMember) {
	switch field {
	case FieldsMemberNickname:
		m.Nickname = nil
	case FieldsMemberAvatar:
		m.Avatar = nil
	case FieldsMemberRoles:
		m.Roles = nil
	case FieldsMemberTimeout:
		m.Timeout = nil
	}
}

// RevokeRole drops role from the member. It reports whether anything changed.
func (m *Member) RevokeRole(role string) bool {
	if !slices.Contains(m.Roles, role) {
		return false
	}
	m.Roles = lo.Without(m.Roles, role)
	if len(m.Roles) == 0 {
		m.Roles = nil
	}
	return true
}
