//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
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

type IMessageRepository interface {
	FetchMessage(ctx context.Context, id string) (domain.Message, error)
	FetchMessages(ctx context.Context, ids []string) ([]domain.Message, error)
	InsertMessage(ctx context.Context, message domain.Message) error
	UpdateMessage(ctx context.Context, id string, partial domain.PartialMessage, remove []domain.FieldsMessage) error
	DeleteMessage(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, id string, appended domain.AppendMessage) error
	AddReaction(ctx context.Context, id, emoji, user string) error
	RemoveReaction(ctx context.Context, id, emoji, user string) error
	ClearReaction(ctx context.Context, id, emoji string) error
	SearchMessages(ctx context.Context, query domain.MessageQuery) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	index         *MessageIndex
	log           *slog.Logger
	metrics       *observability.RepositoryMetrics
	limitMessages *int
}

// NewMessageRepository builds the Badger-backed message store.
// index may be nil, in which case SearchMessages fails and nothing is indexed.
// limitMessages caps a search when the query has no limit of its own.
func NewMessageRepository(db *badger.DB, index *MessageIndex, log *slog.Logger,
	metrics *observability.RepositoryMetrics, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, index: index, log: log, metrics: metrics, limitMessages: limitMessages}
}

func (r *MessageRepository) FetchMessage(ctx context.Context, id string) (message domain.Message, err error) {
	defer r.metrics.Observe(familyMessage, "fetch", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	message, err = fetchRecord[domain.Message](r.db, entityKey(familyMessage, id))
	return message, storeErr(err)
}

func (r *MessageRepository) FetchMessages(ctx context.Context, ids []string) (messages []domain.Message, err error) {
	defer r.metrics.Observe(familyMessage, "fetch_many", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	keys := lo.Map(lo.Uniq(ids), func(id string, _ int) []byte { return entityKey(familyMessage, id) })
	messages, err = fetchRecords[domain.Message](r.db, keys)
	return messages, storeErr(err)
}

func (r *MessageRepository) InsertMessage(ctx context.Context, message domain.Message) (err error) {
	defer r.metrics.Observe(familyMessage, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	message.Normalize()
	if err = storeErr(insertRecord(r.db, entityKey(familyMessage, message.ID), message)); err != nil {
		return err
	}
	r.log.Debug("Message inserted", "family", familyMessage, "id", message.ID, "channel", message.Channel)
	r.reindex(message)
	return nil
}

// UpdateMessage applies the patch then the removals in a single transaction.
func (r *MessageRepository) UpdateMessage(ctx context.Context, id string, partial domain.PartialMessage, remove []domain.FieldsMessage) (err error) {
	defer r.metrics.Observe(familyMessage, "update", time.Now(), &err)
	return r.mutate(ctx, id, func(message *domain.Message) error {
		return domain.ApplyUpdate(message, partial, remove)
	})
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, id string) (err error) {
	defer r.metrics.Observe(familyMessage, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = storeErr(deleteRecord(r.db, entityKey(familyMessage, id))); err != nil {
		return err
	}
	r.log.Debug("Message deleted", "family", familyMessage, "id", id)
	if r.index != nil {
		if indexErr := r.index.Remove(id); indexErr != nil {
			r.log.Error("Failed to remove message from index", "id", id, "error", indexErr)
		}
	}
	return nil
}

// AppendMessage adds the embeds generated after the message was sent.
func (r *MessageRepository) AppendMessage(ctx context.Context, id string, appended domain.AppendMessage) (err error) {
	defer r.metrics.Observe(familyMessage, "append", time.Now(), &err)
	return r.mutate(ctx, id, func(message *domain.Message) error {
		message.Embeds = lo.Flatten([][]domain.Embed{message.Embeds, appended.Embeds})
		return nil
	})
}

// AddReaction fails with ErrReactionNotAllowed when the message restricts
// reactions to a set that does not contain emoji.
func (r *MessageRepository) AddReaction(ctx context.Context, id, emoji, user string) (err error) {
	defer r.metrics.Observe(familyMessage, "add_reaction", time.Now(), &err)
	return r.mutate(ctx, id, func(message *domain.Message) error {
		if !message.Interactions.Allows(emoji) {
			return fmt.Errorf("%s on %s: %w", emoji, id, errors.ErrReactionNotAllowed)
		}
		message.AddReaction(emoji, user)
		return nil
	})
}

func (r *MessageRepository) RemoveReaction(ctx context.Context, id, emoji, user string) (err error) {
	defer r.metrics.Observe(familyMessage, "remove_reaction", time.Now(), &err)
	return r.mutate(ctx, id, func(message *domain.Message) error {
		message.RemoveReaction(emoji, user)
		return nil
	})
}

// ClearReaction removes every user's reaction with emoji.
func (r *MessageRepository) ClearReaction(ctx context.Context, id, emoji string) (err error) {
	defer r.metrics.Observe(familyMessage, "clear_reaction", time.Now(), &err)
	return r.mutate(ctx, id, func(message *domain.Message) error {
		delete(message.Reactions, emoji)
		if len(message.Reactions) == 0 {
			message.Reactions = nil
		}
		return nil
	})
}

// SearchMessages runs a full-text search within one channel and loads the
// matching records in index order. Hits whose record is gone are skipped.
func (r *MessageRepository) SearchMessages(ctx context.Context, query domain.MessageQuery) (messages []domain.Message, err error) {
	defer r.metrics.Observe(familyMessage, "search", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if r.index == nil {
		return nil, fmt.Errorf("%w: message index is not configured", errors.ErrBackend)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = lo.FromPtrOr(r.limitMessages, 50)
	}
	if r.limitMessages != nil && limit > *r.limitMessages {
		r.log.Debug(fmt.Sprintf("Maximum of %d message reached", *r.limitMessages))
		limit = *r.limitMessages
	}

	ids, err := r.index.Search(ctx, query, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	found, err := r.FetchMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(found, func(m domain.Message) string { return m.ID })
	messages = lo.FilterMap(ids, func(id string, _ int) (domain.Message, bool) {
		message, ok := byID[id]
		return message, ok
	})
	return messages, nil
}

// mutate runs fn on the stored message in one transaction and
// refreshes the index once the change is committed.
func (r *MessageRepository) mutate(ctx context.Context, id string, fn func(*domain.Message) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var updated domain.Message
	err := updateRecord(r.db, entityKey(familyMessage, id), func(message *domain.Message) error {
		if err := fn(message); err != nil {
			return err
		}
		message.Normalize()
		updated = *message
		return nil
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Message updated", "family", familyMessage, "id", id)
	r.reindex(updated)
	return nil
}

func (r *MessageRepository) reindex(message domain.Message) {
	if r.index == nil {
		return
	}
	if err := r.index.Index(message); err != nil {
		r.log.Error("Failed to index message", "id", message.ID, "error", err)
	}
}
