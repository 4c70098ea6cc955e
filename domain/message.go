package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// Masquerade overrides how the author is displayed on one message.
// A nil field means the author's own name, avatar or colour is used.
type Masquerade struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=32"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,min=1,max=128"`
	Colour *string `json:"colour,omitempty" validate:"omitempty,min=1,max=32,colour"`
}

// Interactions guides how clients let users interact with a message.
type Interactions struct {
	// Reactions always shown on the message, kept as a set
	Reactions []string `json:"reactions,omitempty"`
	// RestrictReactions limits reactions to the Reactions set
	RestrictReactions bool `json:"restrict_reactions,omitempty"`
}

// IsZero reports whether i is the default policy; such a policy is not serialized.
func (i Interactions) IsZero() bool {
	return len(i.Reactions) == 0 && !i.RestrictReactions
}

// Allows reports whether emoji may be added as a reaction.
func (i Interactions) Allows(emoji string) bool {
	return !i.RestrictReactions || slices.Contains(i.Reactions, emoji)
}

func (i Interactions) normalized() Interactions {
	return Interactions{Reactions: NewSet(i.Reactions...), RestrictReactions: i.RestrictReactions}
}

// Message is a single message sent in a channel.
type Message struct {
	ID           string              `json:"_id"`
	Nonce        *string             `json:"nonce,omitempty"`
	Channel      string              `json:"channel"`
	Author       string              `json:"author"`
	Content      *string             `json:"content,omitempty"`
	System       *SystemMessage      `json:"system,omitempty"`
	Attachments  []File              `json:"attachments,omitempty"`
	Edited       *time.Time          `json:"edited,omitempty"`
	Embeds       []Embed             `json:"embeds,omitempty"`
	Mentions     []string            `json:"mentions,omitempty"`
	Replies      []string            `json:"replies,omitempty"`
	Reactions    map[string][]string `json:"reactions,omitempty"`
	Interactions Interactions        `json:"interactions,omitzero"`
	Masquerade   *Masquerade         `json:"masquerade,omitempty"`
}

// PartialMessage carries the message fields to overwrite.
// Nil fields are left untouched; clearing goes through FieldsMessage.
type PartialMessage struct {
	Nonce        *string             `json:"nonce,omitempty"`
	Channel      *string             `json:"channel,omitempty"`
	Author       *string             `json:"author,omitempty"`
	Content      *string             `json:"content,omitempty"`
	System       *SystemMessage      `json:"system,omitempty"`
	Attachments  []File              `json:"attachments,omitempty"`
	Edited       *time.Time          `json:"edited,omitempty"`
	Embeds       []Embed             `json:"embeds,omitempty"`
	Mentions     []string            `json:"mentions,omitempty"`
	Replies      []string            `json:"replies,omitempty"`
	Reactions    map[string][]string `json:"reactions,omitempty"`
	Interactions *Interactions       `json:"interactions,omitempty"`
	Masquerade   *Masquerade         `json:"masquerade,omitempty"`
}

// FieldsMessage names the message fields that can be removed.
// System, Attachments, Mentions and Replies describe what was sent and stay.
type FieldsMessage string

const (
	FieldsMessageContent      FieldsMessage = "Content"
	FieldsMessageEdited       FieldsMessage = "Edited"
	FieldsMessageEmbeds       FieldsMessage = "Embeds"
	FieldsMessageReactions    FieldsMessage = "Reactions"
	FieldsMessageInteractions FieldsMessage = "Interactions"
	FieldsMessageMasquerade   FieldsMessage = "Masquerade"
)

func (f FieldsMessage) Valid() bool {
	switch f {
	case FieldsMessageContent, FieldsMessageEdited, FieldsMessageEmbeds,
		FieldsMessageReactions, FieldsMessageInteractions, FieldsMessageMasquerade:
		return true
	}
	return false
}

func (f *FieldsMessage) UnmarshalJSON(data []byte) error {
	return unmarshalField(data, f)
}

func (m *Message) Apply(p PartialMessage) {
	if p.Nonce != nil {
		m.Nonce = clonePtr(p.Nonce)
	}
	if p.Channel != nil {
		m.Channel = *p.Channel
	}
	if p.Author != nil {
		m.Author = *p.Author
	}
	if p.Content != nil {
		m.Content = clonePtr(p.Content)
	}
	if p.System != nil {
		m.System = clonePtr(p.System)
	}
	if p.Attachments != nil {
		m.Attachments = slices.Clone(p.Attachments)
	}
	if p.Edited != nil {
		m.Edited = clonePtr(p.Edited)
	}
	if p.Embeds != nil {
		m.Embeds = slices.Clone(p.Embeds)
	}
	if p.Mentions != nil {
		m.Mentions = slices.Clone(p.Mentions)
	}
	if p.Replies != nil {
		m.Replies = slices.Clone(p.Replies)
	}
	if p.Reactions != nil {
		m.Reactions = normalizeReactions(p.Reactions)
	}
	if p.Interactions != nil {
		m.Interactions = p.Interactions.normalized()
	}
	if p.Masquerade != nil {
		m.Masquerade = clonePtr(p.Masquerade)
	}
}

func (m *Message) Remove(field FieldsMessage) {
	switch field {
	case FieldsMessageContent:
		m.Content = nil
	case FieldsMessageEdited:
		m.Edited = nil
	case FieldsMessageEmbeds:
		m.Embeds = nil
	case FieldsMessageReactions:
		m.Reactions = nil
	case FieldsMessageInteractions:
		m.Interactions = Interactions{}
	case FieldsMessageMasquerade:
		m.Masquerade = nil
	}
}

// Normalize puts reaction and interaction sets in canonical form.
func (m *Message) Normalize() {
	m.Reactions = normalizeReactions(m.Reactions)
	m.Interactions = m.Interactions.normalized()
}

func normalizeReactions(reactions map[string][]string) map[string][]string {
	out := make(map[string][]string, len(reactions))
	for emoji, users := range reactions {
		if set := NewSet(users...); set != nil {
			out[emoji] = set
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AddReaction records user under emoji. It reports false when already present.
func (m *Message) AddReaction(emoji, user string) bool {
	if slices.Contains(m.Reactions[emoji], user) {
		return false
	}
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}
	m.Reactions[emoji] = NewSet(append(slices.Clone(m.Reactions[emoji]), user)...)
	return true
}

// RemoveReaction drops user from emoji, deleting the key once its set is empty.
func (m *Message) RemoveReaction(emoji, user string) bool {
	users := m.Reactions[emoji]
	if !slices.Contains(users, user) {
		return false
	}
	users = slices.DeleteFunc(slices.Clone(users), func(u string) bool { return u == user })
	if len(users) == 0 {
		delete(m.Reactions, emoji)
	} else {
		m.Reactions[emoji] = users
	}
	if len(m.Reactions) == 0 {
		m.Reactions = nil
	}
	return true
}

// Reply references a message while it is being sent.
type Reply struct {
	ID      string `json:"id"`
	Mention bool   `json:"mention"`
}

// AppendMessage carries information added to a message after it was sent.
type AppendMessage struct {
	Embeds []Embed `json:"embeds,omitempty"`
}

// MessageSort selects the ordering of a message search.
type MessageSort string

const (
	SortRelevance MessageSort = "Relevance"
	SortLatest    MessageSort = "Latest"
	SortOldest    MessageSort = "Oldest"
)

func (s MessageSort) OrDefault() MessageSort {
	switch s {
	case SortLatest, SortOldest:
		return s
	}
	return SortRelevance
}

// MessageQuery describes a message search within one channel.
type MessageQuery struct {
	Channel string
	Query   string
	Limit   int
	Sort    MessageSort
}

// BulkMessageResponse is returned when several messages are fetched at once.
// Without users it serializes as a bare array of messages.
type BulkMessageResponse struct {
	Messages  []Message
	Users     []User
	Members   []Member
	withUsers bool
}

func JustMessages(messages []Message) BulkMessageResponse {
	return BulkMessageResponse{Messages: messages}
}

func MessagesAndUsers(messages []Message, users []User, members []Member) BulkMessageResponse {
	return BulkMessageResponse{Messages: messages, Users: users, Members: members, withUsers: true}
}

func (b BulkMessageResponse) MarshalJSON() ([]byte, error) {
	messages := b.Messages
	if messages == nil {
		messages = []Message{}
	}
	if !b.withUsers {
		return json.Marshal(messages)
	}
	users := b.Users
	if users == nil {
		users = []User{}
	}
	return json.Marshal(struct {
		Messages []Message `json:"messages"`
		Users    []User    `json:"users"`
		Members  []Member  `json:"members,omitempty"`
	}{messages, users, b.Members})
}
