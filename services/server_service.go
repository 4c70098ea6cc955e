package services

import (
	"chat-store/domain"
	"chat-store/repositories"
	"chat-store/validation"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type IServerService interface {
	CreateRole(ctx context.Context, serverID string, role domain.Role) (string, error)
	EditRole(ctx context.Context, serverID, roleID string, partial domain.PartialRole, remove []domain.FieldsRole) error
	DeleteRole(ctx context.Context, serverID, roleID string) error
	JoinServer(ctx context.Context, serverID, userID string) (domain.Member, error)
	EditMember(ctx context.Context, id domain.MemberCompositeKey, partial domain.PartialMember, remove []domain.FieldsMember) error
	DeleteServer(ctx context.Context, serverID string) error
}

type ServerService struct {
	servers repositories.IServerRepository
	members repositories.IMemberRepository
	log     *slog.Logger
	now     func() time.Time
}

func NewServerService(servers repositories.IServerRepository, members repositories.IMemberRepository, log *slog.Logger) *ServerService {
	return &ServerService{servers: servers, members: members, log: log, now: time.Now}
}

// CreateRole validates role and stores it under a fresh id.
func (s *ServerService) CreateRole(ctx context.Context, serverID string, role domain.Role) (string, error) {
	if err := validation.ValidateRole(role); err != nil {
		return "", err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate role id: %w", err)
	}
	if err = s.servers.InsertRole(ctx, serverID, id.String(), role); err != nil {
		return "", err
	}
	s.log.Info("Role created", "server", serverID, "id", id.String())
	return id.String(), nil
}

// EditRole applies the patch; the repository validates the resulting role
// in the same transaction that stores it.
func (s *ServerService) EditRole(ctx context.Context, serverID, roleID string, partial domain.PartialRole, remove []domain.FieldsRole) error {
	if err := s.servers.UpdateRole(ctx, serverID, roleID, partial, remove); err != nil {
		return err
	}
	s.log.Debug("Role edited", "server", serverID, "id", roleID, "removed", len(remove))
	return nil
}

func (s *ServerService) DeleteRole(ctx context.Context, serverID, roleID string) error {
	if err := s.servers.DeleteRole(ctx, serverID, roleID); err != nil {
		return err
	}
	s.log.Info("Role deleted", "server", serverID, "id", roleID)
	return nil
}

// JoinServer adds userID to an existing server without any role.
func (s *ServerService) JoinServer(ctx context.Context, serverID, userID string) (domain.Member, error) {
	if _, err := s.servers.FetchServer(ctx, serverID); err != nil {
		return domain.Member{}, err
	}
	member := domain.Member{
		ID:       domain.MemberCompositeKey{Server: serverID, User: userID},
		JoinedAt: s.now().UTC(),
	}
	if err := s.members.InsertMember(ctx, member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

func (s *ServerService) EditMember(ctx context.Context, id domain.MemberCompositeKey, partial domain.PartialMember, remove []domain.FieldsMember) error {
	return s.members.UpdateMember(ctx, id, partial, remove)
}

// DeleteServer removes the server along with its channels and members.
func (s *ServerService) DeleteServer(ctx context.Context, serverID string) error {
	server, err := s.servers.FetchServer(ctx, serverID)
	if err != nil {
		return err
	}
	if err = s.servers.DeleteServer(ctx, server); err != nil {
		return err
	}
	s.log.Info("Server deleted", "id", serverID, "channels", len(server.Channels))
	return nil
}
