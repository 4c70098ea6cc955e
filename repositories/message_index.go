package repositories

import (
	"chat-store/domain"
	"chat-store/errors"
	"context"
	"fmt"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/search"
)

const (
	indexFieldChannel = "channel"
	indexFieldContent = "content"
)

// MessageIndex is the full-text index over message content.
// Bluge documents are keyed by message id, which is a UUIDv7 and
// therefore sorts in sending order.
type MessageIndex struct {
	writer *bluge.Writer
}

func NewMessageIndex(writer *bluge.Writer) *MessageIndex {
	return &MessageIndex{writer: writer}
}

// Index replaces the document of message. Messages without content
// (system messages, embeds only) are removed from the index.
func (i *MessageIndex) Index(message domain.Message) error {
	if message.Content == nil || *message.Content == "" {
		return i.Remove(message.ID)
	}
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewKeywordField(indexFieldChannel, message.Channel)).
		AddField(bluge.NewTextField(indexFieldContent, *message.Content))
	return i.writer.Update(doc.ID(), doc)
}

func (i *MessageIndex) Remove(id string) error {
	return i.writer.Delete(bluge.Identifier(id))
}

// Search returns the ids of the messages of query.Channel matching query.Query,
// at most limit of them, ordered by query.Sort.
func (i *MessageIndex) Search(ctx context.Context, query domain.MessageQuery, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(query.Channel).SetField(indexFieldChannel)).
		AddMust(bluge.NewMatchQuery(query.Query).SetField(indexFieldContent))
	request := bluge.NewTopNSearch(limit, q).SortBy(sortOrder(query.Sort))

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		var id string
		if id, err = documentID(match); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		match, err = matches.Next()
	}
	return ids, err
}

func sortOrder(sort domain.MessageSort) []string {
	switch sort.OrDefault() {
	case domain.SortLatest:
		return []string{"-_id"}
	case domain.SortOldest:
		return []string{"_id"}
	default:
		return []string{"-_score", "-_id"}
	}
}

func documentID(match *search.DocumentMatch) (string, error) {
	var id string
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		if field == "_id" {
			id = string(value)
			return false
		}
		return true
	})
	if err != nil {
		return "", fmt.Errorf("reading stored fields: %w", err)
	}
	if id == "" {
		return "", fmt.Errorf("document without id: %w", errors.ErrBackend)
	}
	return id, nil
}
