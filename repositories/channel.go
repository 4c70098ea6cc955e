package repositories

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/observability"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IChannelRepository interface {
	FetchChannel(ctx context.Context, id string) (domain.Channel, error)
	FetchChannels(ctx context.Context, ids []string) ([]domain.Channel, error)
	InsertChannel(ctx context.Context, channel domain.Channel) error
	UpdateChannel(ctx context.Context, id string, partial domain.PartialChannel, remove []domain.FieldsChannel) error
	DeleteChannel(ctx context.Context, id string) error
}

// ChannelRepository indexes server channels under "channel_server" in the
// same transaction as the channel, so server cascades find every channel
// whether or not the server lists it.
type ChannelRepository struct {
	db      *badger.DB
	log     *slog.Logger
	metrics *observability.RepositoryMetrics
}

func NewChannelRepository(db *badger.DB, log *slog.Logger, metrics *observability.RepositoryMetrics) *ChannelRepository {
	return &ChannelRepository{db: db, log: log, metrics: metrics}
}

func (r *ChannelRepository) FetchChannel(ctx context.Context, id string) (channel domain.Channel, err error) {
	defer r.metrics.Observe(familyChannel, "fetch", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Channel{}, err
	}
	channel, err = fetchRecord[domain.Channel](r.db, entityKey(familyChannel, id))
	return channel, storeErr(err)
}

func (r *ChannelRepository) FetchChannels(ctx context.Context, ids []string) (channels []domain.Channel, err error) {
	defer r.metrics.Observe(familyChannel, "fetch_many", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	keys := lo.Map(lo.Uniq(ids), func(id string, _ int) []byte { return entityKey(familyChannel, id) })
	channels, err = fetchRecords[domain.Channel](r.db, keys)
	return channels, storeErr(err)
}

func (r *ChannelRepository) InsertChannel(ctx context.Context, channel domain.Channel) (err error) {
	defer r.metrics.Observe(familyChannel, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(familyChannel, channel.ID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%s: %w", key, errors.ErrConflict)
		}
		if err = setRecord(txn, key, channel); err != nil {
			return err
		}
		if channel.Server == "" {
			return nil
		}
		return txn.Set(channelServerKey(channel.Server, channel.ID), nil)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Channel inserted", "family", familyChannel, "id", channel.ID, "server", channel.Server)
	return nil
}

func (r *ChannelRepository) UpdateChannel(ctx context.Context, id string, partial domain.PartialChannel, remove []domain.FieldsChannel) (err error) {
	defer r.metrics.Observe(familyChannel, "update", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = updateRecord(r.db, entityKey(familyChannel, id), func(channel *domain.Channel) error {
		return domain.ApplyUpdate(channel, partial, remove)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Channel updated", "family", familyChannel, "id", id)
	return nil
}

func (r *ChannelRepository) DeleteChannel(ctx context.Context, id string) (err error) {
	defer r.metrics.Observe(familyChannel, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		channel, err := getRecord[domain.Channel](txn, entityKey(familyChannel, id))
		if err != nil {
			return err
		}
		return deleteChannel(txn, channel)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Channel deleted", "family", familyChannel, "id", id)
	return nil
}

func deleteChannel(txn *badger.Txn, channel domain.Channel) error {
	if channel.Server != "" {
		if err := txn.Delete(channelServerKey(channel.Server, channel.ID)); err != nil {
			return err
		}
	}
	return txn.Delete(entityKey(familyChannel, channel.ID))
}

// serverChannels loads the channels indexed under serverID together with the
// listed ones that still belong to it.
func serverChannels(txn *badger.Txn, serverID string, listed []string) ([]domain.Channel, error) {
	ids, err := scopedIDs(txn, channelServerPrefix(serverID))
	if err != nil {
		return nil, err
	}
	var channels []domain.Channel
	for _, id := range lo.Uniq(append(ids, listed...)) {
		channel, err := getRecord[domain.Channel](txn, entityKey(familyChannel, id))
		if errors.Is(err, errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if channel.Server == serverID {
			channels = append(channels, channel)
		}
	}
	return channels, nil
}
