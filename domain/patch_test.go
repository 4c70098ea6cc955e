package domain

import (
	"chat-store/errors"
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func sampleMessage() Message {
	return Message{
		ID:         "m1",
		Channel:    "c1",
		Author:     "u1",
		Content:    lo.ToPtr("hi"),
		Embeds:     []Embed{{Type: EmbedNone}},
		Reactions:  map[string][]string{"👍": {"u2", "u3"}},
		Masquerade: &Masquerade{Name: lo.ToPtr("Ghost")},
	}
}

func TestApplyUpdate_Patch_Overwrites_Only_Present_Fields(t *testing.T) {
	req := require.New(t)
	message := sampleMessage()
	expected := sampleMessage()
	expected.Content = lo.ToPtr("edited")

	// When only content is patched
	err := ApplyUpdate(&message, PartialMessage{Content: lo.ToPtr("edited")}, nil)

	// Then every other field is untouched
	req.NoError(err)
	req.Equal(expected, message)
}

func TestApplyUpdate_Removal_Resets_Field(t *testing.T) {
	tests := []struct {
		field  FieldsMessage
		assert func(req *require.Assertions, m Message)
	}{
		{FieldsMessageContent, func(req *require.Assertions, m Message) { req.Nil(m.Content) }},
		{FieldsMessageEmbeds, func(req *require.Assertions, m Message) { req.Nil(m.Embeds) }},
		{FieldsMessageReactions, func(req *require.Assertions, m Message) { req.Nil(m.Reactions) }},
		{FieldsMessageMasquerade, func(req *require.Assertions, m Message) { req.Nil(m.Masquerade) }},
		{FieldsMessageEdited, func(req *require.Assertions, m Message) { req.Nil(m.Edited) }},
		{FieldsMessageInteractions, func(req *require.Assertions, m Message) { req.True(m.Interactions.IsZero()) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			req := require.New(t)
			message := sampleMessage()
			message.Edited = lo.ToPtr(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
			message.Interactions = Interactions{Reactions: []string{"👍"}, RestrictReactions: true}

			req.NoError(ApplyUpdate(&message, PartialMessage{}, []FieldsMessage{tt.field}))

			tt.assert(req, message)
			req.Equal("m1", message.ID)
			req.Equal("c1", message.Channel)
		})
	}
}

func TestApplyUpdate_Removal_Wins_Over_Patch(t *testing.T) {
	req := require.New(t)
	message := sampleMessage()

	// When the same field is both patched and removed
	err := ApplyUpdate(&message,
		PartialMessage{Content: lo.ToPtr("new"), Masquerade: &Masquerade{Name: lo.ToPtr("Other")}},
		[]FieldsMessage{FieldsMessageContent, FieldsMessageMasquerade})

	// Then the removal is applied last
	req.NoError(err)
	req.Nil(message.Content)
	req.Nil(message.Masquerade)
}

func TestApplyUpdate_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	patch := PartialMessage{
		Content:      lo.ToPtr("again"),
		Interactions: &Interactions{Reactions: []string{"b", "a", "a"}},
	}
	remove := []FieldsMessage{FieldsMessageEmbeds}

	once := sampleMessage()
	req.NoError(ApplyUpdate(&once, patch, remove))
	twice := sampleMessage()
	req.NoError(ApplyUpdate(&twice, patch, remove))
	req.NoError(ApplyUpdate(&twice, patch, remove))

	req.Equal(once, twice)
	req.Equal([]string{"a", "b"}, once.Interactions.Reactions)
}

func TestApplyUpdate_Invalid_Removal_Leaves_Entity_Untouched(t *testing.T) {
	req := require.New(t)
	message := sampleMessage()

	err := ApplyUpdate(&message, PartialMessage{Content: lo.ToPtr("x")}, []FieldsMessage{"Author"})

	req.ErrorIs(err, errors.ErrInvalidRemoval)
	req.Equal(sampleMessage(), message)
}

func TestParseFields(t *testing.T) {
	req := require.New(t)

	fields, err := ParseFields[FieldsServer]([]string{"Icon", "Banner"})
	req.NoError(err)
	req.Equal([]FieldsServer{FieldsServerIcon, FieldsServerBanner}, fields)

	_, err = ParseFields[FieldsServer]([]string{"Icon", "Owner"})
	req.ErrorIs(err, errors.ErrInvalidRemoval)
}

func TestFields_Unmarshal_Rejects_Unknown_Names(t *testing.T) {
	req := require.New(t)

	var remove []FieldsBot
	req.NoError(json.Unmarshal([]byte(`["InteractionsURL"]`), &remove))
	req.Equal([]FieldsBot{FieldsBotInteractionsURL}, remove)

	// A bot token is replaced, never removed
	err := json.Unmarshal([]byte(`["Token"]`), &remove)
	req.ErrorIs(err, errors.ErrInvalidRemoval)

	var roleFields []FieldsRole
	err = json.Unmarshal([]byte(`["Colour","Name"]`), &roleFields)
	req.ErrorIs(err, errors.ErrInvalidRemoval)
}

func TestPartial_Serializes_Only_Set_Fields(t *testing.T) {
	req := require.New(t)

	data, err := json.Marshal(PartialServer{Name: lo.ToPtr("Lounge"), NSFW: lo.ToPtr(false)})

	req.NoError(err)
	req.JSONEq(`{"name":"Lounge","nsfw":false}`, string(data))
}

func TestApplyUpdate_Server_Role_Bot_Member_Channel(t *testing.T) {
	req := require.New(t)

	server := Server{ID: "s1", Owner: "u1", Name: "Lab", Description: lo.ToPtr("old"), Icon: &File{ID: "f1"}}
	req.NoError(ApplyUpdate(&server, PartialServer{Name: lo.ToPtr("Lab 2")}, []FieldsServer{FieldsServerIcon}))
	req.Equal("Lab 2", server.Name)
	req.Equal(lo.ToPtr("old"), server.Description)
	req.Nil(server.Icon)

	role := Role{Name: "mod", Colour: lo.ToPtr("red"), Rank: 2}
	req.NoError(ApplyUpdate(&role, PartialRole{Rank: lo.ToPtr(int64(1))}, []FieldsRole{FieldsRoleColour}))
	req.Equal(Role{Name: "mod", Rank: 1}, role)

	bot := Bot{ID: "b1", Owner: "u1", Token: "t", InteractionsURL: lo.ToPtr("https://x")}
	req.NoError(ApplyUpdate(&bot, PartialBot{Public: lo.ToPtr(true)}, []FieldsBot{FieldsBotInteractionsURL}))
	req.Equal(Bot{ID: "b1", Owner: "u1", Token: "t", Public: true}, bot)

	member := Member{ID: MemberCompositeKey{Server: "s1", User: "u1"}, Nickname: lo.ToPtr("n")}
	req.NoError(ApplyUpdate(&member, PartialMember{Roles: []string{"r2", "r1", "r2"}}, []FieldsMember{FieldsMemberNickname}))
	req.Equal([]string{"r1", "r2"}, member.Roles)
	req.Nil(member.Nickname)

	channel := Channel{ID: "c1", Server: "s1", Name: "general", Description: lo.ToPtr("d")}
	req.NoError(ApplyUpdate(&channel, PartialChannel{NSFW: lo.ToPtr(true)}, []FieldsChannel{FieldsChannelDescription}))
	req.True(channel.NSFW)
	req.Nil(channel.Description)
}

func TestNewSet(t *testing.T) {
	req := require.New(t)
	req.Nil(NewSet())
	req.Equal([]string{"a", "b", "c"}, NewSet("c", "a", "b", "a"))
}
