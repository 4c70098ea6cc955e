package services

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/repositories"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type serverFixture struct {
	service  *ServerService
	servers  *repositories.ServerRepository
	members  *repositories.MemberRepository
	channels *repositories.ChannelRepository
}

func newServerFixture(t *testing.T) serverFixture {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	f := serverFixture{
		servers:  repositories.NewServerRepository(db, log, nil),
		members:  repositories.NewMemberRepository(db, log, nil),
		channels: repositories.NewChannelRepository(db, log, nil),
	}
	f.service = NewServerService(f.servers, f.members, log)

	ctx := context.Background()
	req.NoError(f.servers.InsertServer(ctx, domain.Server{ID: "s1", Owner: "u1", Name: "Lab", Channels: []string{"c1"}}))
	req.NoError(f.channels.InsertChannel(ctx, domain.Channel{ID: "c1", Server: "s1", Name: "general", ChannelType: domain.TextChannel}))
	return f
}

func TestServerService_Role_Lifecycle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)

	// Given a role created with a colour
	roleID, err := f.service.CreateRole(ctx, "s1", domain.Role{Name: "mod", Colour: lo.ToPtr("#00ff00"), Rank: 1})
	req.NoError(err)

	// When its colour is removed and it is renamed
	err = f.service.EditRole(ctx, "s1", roleID, domain.PartialRole{Name: lo.ToPtr("moderator")}, []domain.FieldsRole{domain.FieldsRoleColour})
	req.NoError(err)

	// Then both changes are stored
	server, err := f.servers.FetchServer(ctx, "s1")
	req.NoError(err)
	req.Equal("moderator", server.Roles[roleID].Name)
	req.Nil(server.Roles[roleID].Colour)

	// And deleting it leaves no role behind
	req.NoError(f.service.DeleteRole(ctx, "s1", roleID))
	err = f.service.DeleteRole(ctx, "s1", roleID)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestServerService_Rejects_Invalid_Role(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)

	_, err := f.service.CreateRole(ctx, "s1", domain.Role{Name: "mod", Colour: lo.ToPtr("#zz;")})
	req.ErrorIs(err, errors.ErrInvalidInput)

	roleID, err := f.service.CreateRole(ctx, "s1", domain.Role{Name: "mod"})
	req.NoError(err)
	err = f.service.EditRole(ctx, "s1", roleID, domain.PartialRole{Colour: lo.ToPtr("!")}, nil)
	req.ErrorIs(err, errors.ErrInvalidInput)

	err = f.service.EditRole(ctx, "s1", "missing", domain.PartialRole{Name: lo.ToPtr("x")}, nil)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestServerService_Join_And_Edit_Member(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	key := domain.MemberCompositeKey{Server: "s1", User: "u2"}

	// Given a user joining the server
	member, err := f.service.JoinServer(ctx, "s1", "u2")
	req.NoError(err)
	req.Empty(member.Roles)

	// When a valid nickname is set
	req.NoError(f.service.EditMember(ctx, key, domain.PartialMember{Nickname: lo.ToPtr("neo")}, nil))

	// Then a nickname over 32 characters is refused and the previous one stays
	err = f.service.EditMember(ctx, key, domain.PartialMember{Nickname: lo.ToPtr(strings.Repeat("n", 33))}, nil)
	req.ErrorIs(err, errors.ErrInvalidInput)
	stored, err := f.members.FetchMember(ctx, key)
	req.NoError(err)
	req.Equal("neo", *stored.Nickname)

	// And joining twice or joining an unknown server fails
	_, err = f.service.JoinServer(ctx, "s1", "u2")
	req.ErrorIs(err, errors.ErrConflict)
	_, err = f.service.JoinServer(ctx, "s9", "u2")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestServerService_DeleteServer_Cascades(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newServerFixture(t)
	_, err := f.service.JoinServer(ctx, "s1", "u2")
	req.NoError(err)

	req.NoError(f.service.DeleteServer(ctx, "s1"))

	_, err = f.channels.FetchChannel(ctx, "c1")
	req.ErrorIs(err, errors.ErrNotFound)
	members, err := f.members.FetchAllMembers(ctx, "s1")
	req.NoError(err)
	req.Empty(members)
	req.ErrorIs(f.service.DeleteServer(ctx, "s1"), errors.ErrNotFound)
}
