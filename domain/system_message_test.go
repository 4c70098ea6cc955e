package domain

import (
	"chat-store/errors"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemMessage_RoundTrip(t *testing.T) {
	tests := []struct {
		event SystemEvent
		wire  string
	}{
		{TextEvent{Content: "hello"}, `{"type":"text","content":"hello"}`},
		{UserAdded{ID: "u1", By: "u2"}, `{"type":"user_added","id":"u1","by":"u2"}`},
		{UserRemove{ID: "u1", By: "u2"}, `{"type":"user_remove","id":"u1","by":"u2"}`},
		{UserJoined{ID: "u1"}, `{"type":"user_joined","id":"u1"}`},
		{UserLeft{ID: "u1"}, `{"type":"user_left","id":"u1"}`},
		{UserKicked{ID: "u1"}, `{"type":"user_kicked","id":"u1"}`},
		{UserBanned{ID: "u1"}, `{"type":"user_banned","id":"u1"}`},
		{ChannelRenamed{Name: "general", By: "u1"}, `{"type":"channel_renamed","name":"general","by":"u1"}`},
		{ChannelDescriptionChanged{By: "u1"}, `{"type":"channel_description_changed","by":"u1"}`},
		{ChannelIconChanged{By: "u1"}, `{"type":"channel_icon_changed","by":"u1"}`},
		{ChannelOwnershipChanged{From: "u1", To: "u2"}, `{"type":"channel_ownership_changed","from":"u1","to":"u2"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			req := require.New(t)

			data, err := json.Marshal(NewSystemMessage(tt.event))
			req.NoError(err)
			req.JSONEq(tt.wire, string(data))

			var decoded SystemMessage
			req.NoError(json.Unmarshal(data, &decoded))
			req.Equal(tt.event, decoded.SystemEvent)
		})
	}
}

func TestSystemMessage_Unknown_Type(t *testing.T) {
	req := require.New(t)

	var decoded SystemMessage
	err := json.Unmarshal([]byte(`{"type":"user_teleported","id":"u1"}`), &decoded)

	req.ErrorIs(err, errors.ErrUnknownSystemMessage)
}

func TestSystemMessage_Empty_Cannot_Be_Encoded(t *testing.T) {
	req := require.New(t)

	_, err := json.Marshal(SystemMessage{})

	req.Error(err)
}

func TestMessage_With_System_Event_RoundTrip(t *testing.T) {
	req := require.New(t)
	message := Message{
		ID:      "m1",
		Channel: "c1",
		Author:  "00000000000000000000000000",
		System:  NewSystemMessage(ChannelOwnershipChanged{From: "u1", To: "u2"}),
	}

	data, err := json.Marshal(message)
	req.NoError(err)

	var decoded Message
	req.NoError(json.Unmarshal(data, &decoded))
	req.Equal(message, decoded)
}
