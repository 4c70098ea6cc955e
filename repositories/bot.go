//go:generate go run go.uber.org/mock/mockgen -source=bot.go -destination=../mocks/mock_bot_repository.go -package=mocks
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
)

type IBotRepository interface {
	FetchBot(ctx context.Context, id string) (domain.Bot, error)
	FetchBotByToken(ctx context.Context, token string) (domain.Bot, error)
	FetchBotsByUser(ctx context.Context, userID string) ([]domain.Bot, error)
	GetNumberOfBotsByUser(ctx context.Context, userID string) (int, error)
	InsertBot(ctx context.Context, bot domain.Bot) error
	UpdateBot(ctx context.Context, id string, partial domain.PartialBot, remove []domain.FieldsBot) error
	DeleteBot(ctx context.Context, id string) error
}

// BotRepository stores bots with two secondary indexes, by token and by owner,
// written in the same transaction as the bot itself.
type BotRepository struct {
	db      *badger.DB
	log     *slog.Logger
	metrics *observability.RepositoryMetrics
}

func NewBotRepository(db *badger.DB, log *slog.Logger, metrics *observability.RepositoryMetrics) *BotRepository {
	return &BotRepository{db: db, log: log, metrics: metrics}
}

func (r *BotRepository) FetchBot(ctx context.Context, id string) (bot domain.Bot, err error) {
	defer r.metrics.Observe(familyBot, "fetch", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Bot{}, err
	}
	bot, err = fetchRecord[domain.Bot](r.db, entityKey(familyBot, id))
	return bot, storeErr(err)
}

func (r *BotRepository) FetchBotByToken(ctx context.Context, token string) (bot domain.Bot, err error) {
	defer r.metrics.Observe(familyBot, "fetch_by_token", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Bot{}, err
	}
	err = r.db.View(func(txn *badger.Txn) error {
		id, err := getRecord[string](txn, botTokenKey(token))
		if errors.Is(err, errors.ErrNotFound) {
			return fmt.Errorf("bot token: %w", errors.ErrNotFound)
		}
		if err != nil {
			return err
		}
		bot, err = getRecord[domain.Bot](txn, entityKey(familyBot, id))
		return err
	})
	return bot, storeErr(err)
}

func (r *BotRepository) FetchBotsByUser(ctx context.Context, userID string) (bots []domain.Bot, err error) {
	defer r.metrics.Observe(familyBot, "fetch_by_user", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	err = r.db.View(func(txn *badger.Txn) error {
		ids, err := ownedBotIDs(txn, userID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			bot, err := getRecord[domain.Bot](txn, entityKey(familyBot, id))
			if err != nil {
				return err
			}
			bots = append(bots, bot)
		}
		return nil
	})
	return bots, storeErr(err)
}

func (r *BotRepository) GetNumberOfBotsByUser(ctx context.Context, userID string) (count int, err error) {
	defer r.metrics.Observe(familyBot, "count_by_user", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	err = r.db.View(func(txn *badger.Txn) error {
		ids, err := ownedBotIDs(txn, userID)
		count = len(ids)
		return err
	})
	return count, storeErr(err)
}

func ownedBotIDs(txn *badger.Txn, owner string) ([]string, error) {
	return scopedIDs(txn, botOwnerPrefix(owner))
}

// InsertBot fails with ErrConflict when the id or the token is already taken.
func (r *BotRepository) InsertBot(ctx context.Context, bot domain.Bot) (err error) {
	defer r.metrics.Observe(familyBot, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{entityKey(familyBot, bot.ID), botTokenKey(bot.Token)} {
			found, err := exists(txn, key)
			if err != nil {
				return err
			}
			if found {
				return fmt.Errorf("bot %s: %w", bot.ID, errors.ErrConflict)
			}
		}
		return writeBot(txn, bot)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Bot inserted", "family", familyBot, "id", bot.ID, "owner", bot.Owner)
	return nil
}

// UpdateBot moves the token and owner index entries when the patch changes them.
func (r *BotRepository) UpdateBot(ctx context.Context, id string, partial domain.PartialBot, remove []domain.FieldsBot) (err error) {
	defer r.metrics.Observe(familyBot, "update", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		previous, err := getRecord[domain.Bot](txn, entityKey(familyBot, id))
		if err != nil {
			return err
		}
		bot := previous
		if err = domain.ApplyUpdate(&bot, partial, remove); err != nil {
			return err
		}
		if bot.Token != previous.Token {
			found, err := exists(txn, botTokenKey(bot.Token))
			if err != nil {
				return err
			}
			if found {
				return fmt.Errorf("bot token: %w", errors.ErrConflict)
			}
		}
		if err = unindexBot(txn, previous); err != nil {
			return err
		}
		return writeBot(txn, bot)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Bot updated", "family", familyBot, "id", id, "removed", len(remove))
	return nil
}

func (r *BotRepository) DeleteBot(ctx context.Context, id string) (err error) {
	defer r.metrics.Observe(familyBot, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key := entityKey(familyBot, id)
		bot, err := getRecord[domain.Bot](txn, key)
		if err != nil {
			return err
		}
		if err = unindexBot(txn, bot); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Bot deleted", "family", familyBot, "id", id)
	return nil
}

func writeBot(txn *badger.Txn, bot domain.Bot) error {
	if err := setRecord(txn, entityKey(familyBot, bot.ID), bot); err != nil {
		return err
	}
	if err := setRecord(txn, botTokenKey(bot.Token), bot.ID); err != nil {
		return err
	}
	return txn.Set(botOwnerKey(bot.Owner, bot.ID), nil)
}

func unindexBot(txn *badger.Txn, bot domain.Bot) error {
	for _, key := range [][]byte{botTokenKey(bot.Token), botOwnerKey(bot.Owner, bot.ID)} {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
