package repositories

import (
	"chat-store/domain"
	"chat-store/errors"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	servers  *ServerRepository
	channels *ChannelRepository
	members  *MemberRepository
}

func newServerFixture(t *testing.T) serverFixture {
	db := openTestDB(t)
	return serverFixture{
		servers:  NewServerRepository(db, slog.Default(), nil),
		channels: NewChannelRepository(db, slog.Default(), nil),
		members:  NewMemberRepository(db, slog.Default(), nil),
	}
}

// seed stores server s1 with roles r1 and r2, its two channels and two members,
// plus a channel and a member of another server holding an r1 entry too.
func (f serverFixture) seed(t *testing.T) domain.Server {
	req := require.New(t)
	ctx := context.Background()
	override := domain.OverrideField{Allow: 1, Deny: 2}
	server := domain.Server{
		ID:       "s1",
		Owner:    "u1",
		Name:     "Lab",
		Channels: []string{"c1", "c2"},
		Roles: map[string]domain.Role{
			"r1": {Name: "Moderator", Rank: 1},
			"r2": {Name: "Member", Rank: 2},
		},
	}
	req.NoError(f.servers.InsertServer(ctx, server))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c1", ChannelType: domain.TextChannel, Server: "s1", Name: "general",
		RolePermissions: map[string]domain.OverrideField{"r1": override, "r2": override}}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c2", ChannelType: domain.VoiceChannel, Server: "s1", Name: "voice",
		RolePermissions: map[string]domain.OverrideField{"r1": override}}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c9", ChannelType: domain.TextChannel, Server: "s2", Name: "other",
		RolePermissions: map[string]domain.OverrideField{"r1": override}}))
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	req.NoError(f.members.InsertMember(ctx, domain.Member{ID: domain.MemberCompositeKey{Server: "s1", User: "u1"}, JoinedAt: joined, Roles: []string{"r1", "r2"}}))
	req.NoError(f.members.InsertMember(ctx, domain.Member{ID: domain.MemberCompositeKey{Server: "s1", User: "u2"}, JoinedAt: joined, Roles: []string{"r1"}}))
	req.NoError(f.members.InsertMember(ctx, domain.Member{ID: domain.MemberCompositeKey{Server: "s2", User: "u1"}, JoinedAt: joined, Roles: []string{"r1"}}))
	return server
}

func Test_Update_Server_Patch_Then_Removals(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	server := f.seed(t)
	req.NoError(f.servers.UpdateServer(ctx, "s1", domain.PartialServer{Description: lo.ToPtr("old")}, nil))

	// When the name is patched and the description removed
	err := f.servers.UpdateServer(ctx, "s1",
		domain.PartialServer{Name: lo.ToPtr("Renamed"), Description: lo.ToPtr("new")},
		[]domain.FieldsServer{domain.FieldsServerDescription})
	req.NoError(err)

	// Then
	fetched, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.Equal("Renamed", fetched.Name)
	req.Nil(fetched.Description)
	req.Equal(server.Roles, fetched.Roles)
	req.Equal(server.Channels, fetched.Channels)
}

func Test_Server_Conflict_And_Not_Found(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	server := f.seed(t)

	req.ErrorIs(f.servers.InsertServer(ctx, server), errors.ErrConflict)
	_, err := f.servers.FetchServer(ctx, "missing")
	req.ErrorIs(err, errors.ErrNotFound)
	req.ErrorIs(f.servers.UpdateServer(ctx, "missing", domain.PartialServer{}, nil), errors.ErrNotFound)
	req.ErrorIs(f.servers.DeleteServer(ctx, domain.Server{ID: "missing"}), errors.ErrNotFound)

	servers, err := f.servers.FetchServers(ctx, []string{"s1", "missing"})
	req.NoError(err)
	req.Len(servers, 1)
}

func Test_Delete_Role_Cascades_To_Channels_And_Members(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	f.seed(t)

	// When role r1 is deleted from s1
	req.NoError(f.servers.DeleteRole(ctx, "s1", "r1"))

	// Then the server no longer has it
	server, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.NotContains(server.Roles, "r1")
	req.Contains(server.Roles, "r2")

	// And the channels of s1 lost their override
	channels, err := f.channels.FetchChannels(ctx, []string{"c1", "c2", "c9"})
	req.NoError(err)
	byID := lo.KeyBy(channels, func(c domain.Channel) string { return c.ID })
	req.NotContains(byID["c1"].RolePermissions, "r1")
	req.Contains(byID["c1"].RolePermissions, "r2")
	req.Nil(byID["c2"].RolePermissions)
	req.Contains(byID["c9"].RolePermissions, "r1")

	// And no member of s1 references it
	members, err := f.members.FetchAllMembers(ctx, "s1")
	req.NoError(err)
	req.Len(members, 2)
	for _, member := range members {
		req.NotContains(member.Roles, "r1")
	}
	other, err := f.members.FetchMember(ctx, domain.MemberCompositeKey{Server: "s2", User: "u1"})
	req.NoError(err)
	req.Equal([]string{"r1"}, other.Roles)

	// And deleting it again fails
	req.ErrorIs(f.servers.DeleteRole(ctx, "s1", "r1"), errors.ErrNotFound)
}

func Test_Role_Insert_And_Update(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	f.seed(t)

	req.ErrorIs(f.servers.InsertRole(ctx, "s1", "r1", domain.Role{Name: "Again"}), errors.ErrConflict)
	req.NoError(f.servers.InsertRole(ctx, "s1", "r3", domain.Role{Name: "Colourful", Colour: lo.ToPtr("#ff0000"), Rank: 3}))

	// When the colour is removed while the name is patched
	err := f.servers.UpdateRole(ctx, "s1", "r3", domain.PartialRole{Name: lo.ToPtr("Plain")}, []domain.FieldsRole{domain.FieldsRoleColour})
	req.NoError(err)

	server, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.Equal(domain.Role{Name: "Plain", Rank: 3}, server.Roles["r3"])

	req.ErrorIs(f.servers.UpdateRole(ctx, "s1", "missing", domain.PartialRole{}, nil), errors.ErrNotFound)
	req.ErrorIs(f.servers.InsertRole(ctx, "missing", "r1", domain.Role{}), errors.ErrNotFound)
}

func Test_Delete_Server_Cascades_To_Channels_And_Members(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	server := f.seed(t)

	req.NoError(f.servers.DeleteServer(ctx, server))

	_, err := f.servers.FetchServer(ctx, "s1")
	req.ErrorIs(err, errors.ErrNotFound)
	channels, err := f.channels.FetchChannels(ctx, []string{"c1", "c2", "c9"})
	req.NoError(err)
	req.Equal([]string{"c9"}, lo.Map(channels, func(c domain.Channel, _ int) string { return c.ID }))
	members, err := f.members.FetchAllMembers(ctx, "s1")
	req.NoError(err)
	req.Empty(members)
	members, err = f.members.FetchAllMembers(ctx, "s2")
	req.NoError(err)
	req.Len(members, 1)
}

func Test_Delete_Server_On_Closed_Store_Is_Backend_Error(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository := NewServerRepository(db, slog.Default(), nil)
	req.NoError(db.Close())

	err = repository.DeleteServer(context.Background(), domain.Server{ID: "s1"})
	req.ErrorIs(err, errors.ErrBackend)
}

func Test_Cascades_Reach_Channels_Missing_From_Server_List(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	override := domain.OverrideField{Allow: 1}

	// Given a server that lists none of its channels
	req.NoError(f.servers.InsertServer(ctx, domain.Server{ID: "s1", Owner: "u1", Name: "Lab",
		Roles: map[string]domain.Role{"r1": {Name: "Moderator"}}}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c1", ChannelType: domain.TextChannel, Server: "s1", Name: "general",
		RolePermissions: map[string]domain.OverrideField{"r1": override}}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c2", ChannelType: domain.TextChannel, Server: "s1", Name: "random"}))

	// When its role is deleted
	req.NoError(f.servers.DeleteRole(ctx, "s1", "r1"))

	// Then the unlisted channel lost its override
	channel, err := f.channels.FetchChannel(ctx, "c1")
	req.NoError(err)
	req.NotContains(channel.RolePermissions, "r1")

	// And deleting the server deletes both channels
	server, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.NoError(f.servers.DeleteServer(ctx, server))
	channels, err := f.channels.FetchChannels(ctx, []string{"c1", "c2"})
	req.NoError(err)
	req.Empty(channels)
}

func Test_Cascades_Stay_Within_Server_When_Ids_Contain_Separator(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	roles := map[string]domain.Role{"r1": {Name: "Moderator"}}
	neighbour := domain.MemberCompositeKey{Server: "s:x", User: "u9"}

	// Given servers "s" and "s:x" sharing a role id
	req.NoError(f.servers.InsertServer(ctx, domain.Server{ID: "s", Owner: "u1", Name: "S", Roles: roles}))
	req.NoError(f.servers.InsertServer(ctx, domain.Server{ID: "s:x", Owner: "u1", Name: "SX", Roles: roles}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "x:c1", ChannelType: domain.TextChannel, Server: "s:x", Name: "general",
		RolePermissions: map[string]domain.OverrideField{"r1": {Allow: 1}}}))
	req.NoError(f.members.InsertMember(ctx, domain.Member{ID: domain.MemberCompositeKey{Server: "s", User: "u1"}, JoinedAt: joined, Roles: []string{"r1"}}))
	req.NoError(f.members.InsertMember(ctx, domain.Member{ID: neighbour, JoinedAt: joined, Roles: []string{"r1"}}))

	// When the role of "s" is deleted
	req.NoError(f.servers.DeleteRole(ctx, "s", "r1"))

	// Then the members and channels of "s:x" keep it
	member, err := f.members.FetchMember(ctx, neighbour)
	req.NoError(err)
	req.Equal([]string{"r1"}, member.Roles)
	channel, err := f.channels.FetchChannel(ctx, "x:c1")
	req.NoError(err)
	req.Contains(channel.RolePermissions, "r1")

	// And deleting "s" leaves "s:x" whole
	req.NoError(f.servers.DeleteServer(ctx, domain.Server{ID: "s"}))
	_, err = f.members.FetchMember(ctx, neighbour)
	req.NoError(err)
	_, err = f.channels.FetchChannel(ctx, "x:c1")
	req.NoError(err)
	members, err := f.members.FetchAllMembers(ctx, "s:x")
	req.NoError(err)
	req.Len(members, 1)
}

func Test_Update_Role_Refuses_Invalid_Colour(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	server := f.seed(t)

	err := f.servers.UpdateRole(ctx, "s1", "r1", domain.PartialRole{Name: lo.ToPtr("Renamed"), Colour: lo.ToPtr("red;")}, nil)
	req.ErrorIs(err, errors.ErrInvalidInput)

	// Then nothing of the patch was written
	fetched, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.Equal(server.Roles["r1"], fetched.Roles["r1"])
}
