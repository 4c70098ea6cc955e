package domain

import (
	"chat-store/errors"
	"encoding/json"
	"fmt"
)

type SystemMessageType string

const (
	SystemText                      SystemMessageType = "text"
	SystemUserAdded                 SystemMessageType = "user_added"
	SystemUserRemove                SystemMessageType = "user_remove"
	SystemUserJoined                SystemMessageType = "user_joined"
	SystemUserLeft                  SystemMessageType = "user_left"
	SystemUserKicked                SystemMessageType = "user_kicked"
	SystemUserBanned                SystemMessageType = "user_banned"
	SystemChannelRenamed            SystemMessageType = "channel_renamed"
	SystemChannelDescriptionChanged SystemMessageType = "channel_description_changed"
	SystemChannelIconChanged        SystemMessageType = "channel_icon_changed"
	SystemChannelOwnershipChanged   SystemMessageType = "channel_ownership_changed"
)

// SystemEvent is one variant of a system message.
// The set of variants is closed: only types of this package implement it.
type SystemEvent interface {
	Type() SystemMessageType
	systemEvent()
}

type TextEvent struct {
	Content string `json:"content"`
}

type UserAdded struct {
	ID string `json:"id"`
	By string `json:"by"`
}

type UserRemove struct {
	ID string `json:"id"`
	By string `json:"by"`
}

type UserJoined struct {
	ID string `json:"id"`
}

type UserLeft struct {
	ID string `json:"id"`
}

type UserKicked struct {
	ID string `json:"id"`
}

type UserBanned struct {
	ID string `json:"id"`
}

type ChannelRenamed struct {
	Name string `json:"name"`
	By   string `json:"by"`
}

type ChannelDescriptionChanged struct {
	By string `json:"by"`
}

type ChannelIconChanged struct {
	By string `json:"by"`
}

type ChannelOwnershipChanged struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (TextEvent) Type() SystemMessageType                 { return SystemText }
func (UserAdded) Type() SystemMessageType                 { return SystemUserAdded }
func (UserRemove) Type() SystemMessageType                { return SystemUserRemove }
func (UserJoined) Type() SystemMessageType                { return SystemUserJoined }
func (UserLeft) Type() SystemMessageType                  { return SystemUserLeft }
func (UserKicked) Type() SystemMessageType                { return SystemUserKicked }
func (UserBanned) Type() SystemMessageType                { return SystemUserBanned }
func (ChannelRenamed) Type() SystemMessageType            { return SystemChannelRenamed }
func (ChannelDescriptionChanged) Type() SystemMessageType { return SystemChannelDescriptionChanged }
func (ChannelIconChanged) Type() SystemMessageType        { return SystemChannelIconChanged }
func (ChannelOwnershipChanged) Type() SystemMessageType   { return SystemChannelOwnershipChanged }

func (TextEvent) systemEvent()                 {}
func (UserAdded) systemEvent()                 {}
func (UserRemove) systemEvent()                {}
func (UserJoined) systemEvent()                {}
func (UserLeft) systemEvent()                  {}
func (UserKicked) systemEvent()                {}
func (UserBanned) systemEvent()                {}
func (ChannelRenamed) systemEvent()            {}
func (ChannelDescriptionChanged) systemEvent() {}
func (ChannelIconChanged) systemEvent()        {}
func (ChannelOwnershipChanged) systemEvent()   {}

var systemDecoders = map[SystemMessageType]func([]byte) (SystemEvent, error){
	SystemText:                      decodeEvent[TextEvent],
	SystemUserAdded:                 decodeEvent[UserAdded],
	SystemUserRemove:                decodeEvent[UserRemove],
	SystemUserJoined:                decodeEvent[UserJoined],
	SystemUserLeft:                  decodeEvent[UserLeft],
	SystemUserKicked:                decodeEvent[UserKicked],
	SystemUserBanned:                decodeEvent[UserBanned],
	SystemChannelRenamed:            decodeEvent[ChannelRenamed],
	SystemChannelDescriptionChanged: decodeEvent[ChannelDescriptionChanged],
	SystemChannelIconChanged:        decodeEvent[ChannelIconChanged],
	SystemChannelOwnershipChanged:   decodeEvent[ChannelOwnershipChanged],
}

func decodeEvent[E SystemEvent](data []byte) (SystemEvent, error) {
	var event E
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// SystemMessage wraps exactly one SystemEvent.
// On the wire the variant's fields sit next to a "type" discriminant:
//
//	{"type":"user_added","id":"...","by":"..."}
type SystemMessage struct {
	SystemEvent
}

func NewSystemMessage(event SystemEvent) *SystemMessage {
	return &SystemMessage{SystemEvent: event}
}

func (s SystemMessage) MarshalJSON() ([]byte, error) {
	if s.SystemEvent == nil {
		return nil, fmt.Errorf("%w: empty system message", errors.ErrUnknownSystemMessage)
	}
	body, err := json.Marshal(s.SystemEvent)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(s.Type())
	if err != nil {
		return nil, err
	}
	out := append([]byte(`{"type":`), tag...)
	// body is a JSON object; keep its fields and closing brace
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}

func (s *SystemMessage) UnmarshalJSON(data []byte) error {
	var head struct {
		Type SystemMessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	decode, ok := systemDecoders[head.Type]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownSystemMessage, head.Type)
	}
	event, err := decode(data)
	if err != nil {
		return err
	}
	s.SystemEvent = event
	return nil
}
