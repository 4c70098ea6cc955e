package repositories

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/observability"
	"chat-store/validation"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IServerRepository interface {
	FetchServer(ctx context.Context, id string) (domain.Server, error)
	FetchServers(ctx context.Context, ids []string) ([]domain.Server, error)
	InsertServer(ctx context.Context, server domain.Server) error
	UpdateServer(ctx context.Context, id string, partial domain.PartialServer, remove []domain.FieldsServer) error
	DeleteServer(ctx context.Context, server domain.Server) error
	InsertRole(ctx context.Context, serverID, roleID string, role domain.Role) error
	UpdateRole(ctx context.Context, serverID, roleID string, partial domain.PartialRole, remove []domain.FieldsRole) error
	DeleteRole(ctx context.Context, serverID, roleID string) error
}

// ServerRepository owns servers and their roles. Deleting either one
// also rewrites the channels and members that depend on it.
type ServerRepository struct {
	db      *badger.DB
	log     *slog.Logger
	metrics *observability.RepositoryMetrics
}

func NewServerRepository(db *badger.DB, log *slog.Logger, metrics *observability.RepositoryMetrics) *ServerRepository {
	return &ServerRepository{db: db, log: log, metrics: metrics}
}

func (r *ServerRepository) FetchServer(ctx context.Context, id string) (server domain.Server, err error) {
	defer r.metrics.Observe(familyServer, "fetch", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Server{}, err
	}
	server, err = fetchRecord[domain.Server](r.db, entityKey(familyServer, id))
	return server, storeErr(err)
}

func (r *ServerRepository) FetchServers(ctx context.Context, ids []string) (servers []domain.Server, err error) {
	defer r.metrics.Observe(familyServer, "fetch_many", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	keys := lo.Map(lo.Uniq(ids), func(id string, _ int) []byte { return entityKey(familyServer, id) })
	servers, err = fetchRecords[domain.Server](r.db, keys)
	return servers, storeErr(err)
}

func (r *ServerRepository) InsertServer(ctx context.Context, server domain.Server) (err error) {
	defer r.metrics.Observe(familyServer, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = storeErr(insertRecord(r.db, entityKey(familyServer, server.ID), server)); err != nil {
		return err
	}
	r.log.Debug("Server inserted", "family", familyServer, "id", server.ID)
	return nil
}

func (r *ServerRepository) UpdateServer(ctx context.Context, id string, partial domain.PartialServer, remove []domain.FieldsServer) (err error) {
	defer r.metrics.Observe(familyServer, "update", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = updateRecord(r.db, entityKey(familyServer, id), func(server *domain.Server) error {
		return domain.ApplyUpdate(server, partial, remove)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Server updated", "family", familyServer, "id", id, "removed", len(remove))
	return nil
}

// DeleteServer removes the server with its channels and members in one transaction.
func (r *ServerRepository) DeleteServer(ctx context.Context, server domain.Server) (err error) {
	defer r.metrics.Observe(familyServer, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	var members int
	err = r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(familyServer, server.ID)
		stored, err := getRecord[domain.Server](txn, key)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		channels, err := serverChannels(txn, stored.ID, append(stored.Channels, server.Channels...))
		if err != nil {
			return err
		}
		for _, channel := range channels {
			if err = deleteChannel(txn, channel); err != nil {
				return err
			}
		}
		var memberKeys [][]byte
		err = scanPrefix(txn, memberServerPrefix(stored.ID), false, func(key, _ []byte) error {
			memberKeys = append(memberKeys, key)
			return nil
		})
		if err != nil {
			return err
		}
		for _, memberKey := range memberKeys {
			if err = txn.Delete(memberKey); err != nil {
				return err
			}
		}
		members = len(memberKeys)
		return nil
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Server deleted", "family", familyServer, "id", server.ID, "members", members)
	return nil
}

func (r *ServerRepository) InsertRole(ctx context.Context, serverID, roleID string, role domain.Role) (err error) {
	defer r.metrics.Observe(familyRole, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = updateRecord(r.db, entityKey(familyServer, serverID), func(server *domain.Server) error {
		if _, found := server.Roles[roleID]; found {
			return fmt.Errorf("role %s in %s: %w", roleID, serverID, errors.ErrConflict)
		}
		server.SetRole(roleID, role)
		return nil
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Role inserted", "family", familyRole, "server", serverID, "id", roleID)
	return nil
}

// UpdateRole validates the role as written, inside the transaction that writes it.
func (r *ServerRepository) UpdateRole(ctx context.Context, serverID, roleID string, partial domain.PartialRole, remove []domain.FieldsRole) (err error) {
	defer r.metrics.Observe(familyRole, "update", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = updateRecord(r.db, entityKey(familyServer, serverID), func(server *domain.Server) error {
		role, found := server.Roles[roleID]
		if !found {
			return fmt.Errorf("role %s in %s: %w", roleID, serverID, errors.ErrNotFound)
		}
		if err := domain.ApplyUpdate(&role, partial, remove); err != nil {
			return err
		}
		if err := validation.ValidateRole(role); err != nil {
			return err
		}
		server.SetRole(roleID, role)
		return nil
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Role updated", "family", familyRole, "server", serverID, "id", roleID)
	return nil
}

// DeleteRole removes the role from the server, drops its permission override
// from every channel of the server and revokes it from every member.
func (r *ServerRepository) DeleteRole(ctx context.Context, serverID, roleID string) (err error) {
	defer r.metrics.Observe(familyRole, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	var channels, members int
	err = r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(familyServer, serverID)
		server, err := getRecord[domain.Server](txn, key)
		if err != nil {
			return err
		}
		if !server.DeleteRole(roleID) {
			return fmt.Errorf("role %s in %s: %w", roleID, serverID, errors.ErrNotFound)
		}
		if err = setRecord(txn, key, server); err != nil {
			return err
		}
		if channels, err = dropChannelRole(txn, server, roleID); err != nil {
			return err
		}
		members, err = revokeMemberRole(txn, serverID, roleID)
		return err
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Role deleted", "family", familyRole, "server", serverID, "id", roleID,
		"channels", channels, "members", members)
	return nil
}

func dropChannelRole(txn *badger.Txn, server domain.Server, roleID string) (int, error) {
	channels, err := serverChannels(txn, server.ID, server.Channels)
	if err != nil {
		return 0, err
	}
	var changed int
	for _, channel := range channels {
		if !channel.DropRole(roleID) {
			continue
		}
		if err = setRecord(txn, entityKey(familyChannel, channel.ID), channel); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// revokeMemberRole collects the affected members first: the iterator
// must be closed before the transaction writes.
func revokeMemberRole(txn *badger.Txn, serverID, roleID string) (int, error) {
	updated := make(map[string]domain.Member)
	err := scanPrefix(txn, memberServerPrefix(serverID), true, func(key, value []byte) error {
		var member domain.Member
		if err := json.Unmarshal(value, &member); err != nil {
			return err
		}
		if member.RevokeRole(roleID) {
			updated[string(key)] = member
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for key, member := range updated {
		if err = setRecord(txn, []byte(key), member); err != nil {
			return 0, err
		}
	}
	return len(updated), nil
}
