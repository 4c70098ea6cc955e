package repositories

import (
	"chat-store/errors"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/blake2b"
)

// Entity families, used as key prefixes, log attributes and metric labels.
const (
	familyMessage = "message"
	familyServer  = "server"
	familyRole    = "role"
	familyBot     = "bot"
	familyMember  = "member"
	familyChannel = "channel"
)

// Secondary index families.
const (
	indexBotToken      = "bot_token"
	indexBotOwner      = "bot_owner"
	indexChannelServer = "channel_server"
)

// Keys are formatted as "{family}:{id}". Composite keys put their scoping id
// first as "{len}:{id}", so that "member:1:s:" never matches a member of
// server "s:x" and the trailing id can hold any character:
//   - "member:{len}:{server}:{user}" holds the member record,
//   - "bot_token:{hash of token}" holds the bot id,
//   - "bot_owner:{len}:{owner}:{bot}" and "channel_server:{len}:{server}:{channel}"
//     are empty index entries.
func entityKey(family, id string) []byte {
	return []byte(family + ":" + id)
}

// scopePrefix returns "{family}:{len}:{scope}:".
func scopePrefix(family, scope string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", family, len(scope), scope))
}

func memberKey(server, user string) []byte {
	return append(memberServerPrefix(server), user...)
}

func memberServerPrefix(server string) []byte {
	return scopePrefix(familyMember, server)
}

// botTokenKey hashes the token so that listing keys never reveals a credential.
func botTokenKey(token string) []byte {
	sum := blake2b.Sum256([]byte(token))
	return []byte(indexBotToken + ":" + hex.EncodeToString(sum[:]))
}

func botOwnerPrefix(owner string) []byte {
	return scopePrefix(indexBotOwner, owner)
}

func botOwnerKey(owner, id string) []byte {
	return append(botOwnerPrefix(owner), id...)
}

func channelServerPrefix(server string) []byte {
	return scopePrefix(indexChannelServer, server)
}

func channelServerKey(server, id string) []byte {
	return append(channelServerPrefix(server), id...)
}

// scopedIDs lists the trailing ids of the index entries under prefix.
func scopedIDs(txn *badger.Txn, prefix []byte) ([]string, error) {
	var ids []string
	err := scanPrefix(txn, prefix, false, func(key, _ []byte) error {
		ids = append(ids, string(key[len(prefix):]))
		return nil
	})
	return ids, err
}

// storeErr keeps errors of the taxonomy as they are and wraps
// everything else coming out of Badger as a backend failure.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrConflict),
		errors.Is(err, errors.ErrInvalidRemoval),
		errors.Is(err, errors.ErrReactionNotAllowed),
		errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrBackend),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", errors.ErrBackend, err)
}

// getRecord decodes the JSON record stored under key.
func getRecord[T any](txn *badger.Txn, key []byte) (T, error) {
	var record T
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return record, fmt.Errorf("%s: %w", key, errors.ErrNotFound)
	}
	if err != nil {
		return record, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func setRecord(txn *badger.Txn, key []byte, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func insertRecord(db *badger.DB, key []byte, record any) error {
	return db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%s: %w", key, errors.ErrConflict)
		}
		return setRecord(txn, key, record)
	})
}

func fetchRecord[T any](db *badger.DB, key []byte) (T, error) {
	var record T
	err := db.View(func(txn *badger.Txn) error {
		var err error
		record, err = getRecord[T](txn, key)
		return err
	})
	return record, err
}

// fetchRecords returns the records that exist among keys, skipping the others.
func fetchRecords[T any](db *badger.DB, keys [][]byte) ([]T, error) {
	records := make([]T, 0, len(keys))
	err := db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			record, err := getRecord[T](txn, key)
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// updateRecord loads, mutates and writes back the record in one transaction,
// so readers see either the previous or the final state.
func updateRecord[T any](db *badger.DB, key []byte, mutate func(*T) error) error {
	return db.Update(func(txn *badger.Txn) error {
		record, err := getRecord[T](txn, key)
		if err != nil {
			return err
		}
		if err = mutate(&record); err != nil {
			return err
		}
		return setRecord(txn, key, record)
	})
}

func deleteRecord(db *badger.DB, key []byte) error {
	return db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%s: %w", key, errors.ErrNotFound)
		}
		return txn.Delete(key)
	})
}

// scanPrefix calls fn with a copy of every key and value under prefix.
// Values are not fetched when fn does not need them.
func scanPrefix(txn *badger.Txn, prefix []byte, withValues bool, fn func(key, value []byte) error) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = withValues
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var value []byte
		if withValues {
			var err error
			if value, err = item.ValueCopy(nil); err != nil {
				return err
			}
		}
		if err := fn(item.KeyCopy(nil), value); err != nil {
			return err
		}
	}
	return nil
}
