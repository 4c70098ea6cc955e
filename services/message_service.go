package services

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/repositories"
	"chat-store/validation"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageService interface {
	SendMessage(ctx context.Context, draft DraftMessage) (domain.Message, error)
	EditMessage(ctx context.Context, id, content string) error
	SetMasquerade(ctx context.Context, id string, masquerade *domain.Masquerade) error
	AppendEmbeds(ctx context.Context, id string, embeds []domain.Embed) error
	React(ctx context.Context, id, user, emoji string) error
	Unreact(ctx context.Context, id, user, emoji string) error
	ClearReactions(ctx context.Context, id, emoji string) error
}

// DraftMessage is what a user submits when sending a message.
type DraftMessage struct {
	Channel      string
	Author       string
	Nonce        *string
	Content      *string
	Replies      []domain.Reply
	Embeds       []domain.SendableEmbed
	Masquerade   *domain.Masquerade
	Interactions *domain.Interactions
}

type MessageService struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
	now        func() time.Time
}

func NewMessageService(repository repositories.IMessageRepository, log *slog.Logger) *MessageService {
	return &MessageService{repository: repository, log: log, now: time.Now}
}

// SendMessage builds and stores a new message. Replies flagged with Mention
// add the author of the replied message to the mentions.
func (s *MessageService) SendMessage(ctx context.Context, draft DraftMessage) (domain.Message, error) {
	if draft.Content == nil && len(draft.Embeds) == 0 {
		return domain.Message{}, fmt.Errorf("%w: message has no content nor embed", errors.ErrInvalidInput)
	}
	if draft.Content != nil {
		if err := validation.ValidateContent(*draft.Content); err != nil {
			return domain.Message{}, err
		}
	}
	if draft.Masquerade != nil {
		if err := validation.ValidateMasquerade(*draft.Masquerade); err != nil {
			return domain.Message{}, err
		}
	}
	embeds := make([]domain.Embed, 0, len(draft.Embeds))
	for _, sendable := range draft.Embeds {
		if err := validation.ValidateSendableEmbed(sendable); err != nil {
			return domain.Message{}, err
		}
		embeds = append(embeds, sendable.ToEmbed(nil))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to generate message id: %w", err)
	}
	message := domain.Message{
		ID:         id.String(),
		Nonce:      draft.Nonce,
		Channel:    draft.Channel,
		Author:     draft.Author,
		Content:    draft.Content,
		Masquerade: draft.Masquerade,
	}
	if len(embeds) > 0 {
		message.Embeds = embeds
	}
	if draft.Interactions != nil {
		message.Interactions = *draft.Interactions
	}
	if len(draft.Replies) > 0 {
		message.Replies = lo.Uniq(lo.Map(draft.Replies, func(r domain.Reply, _ int) string { return r.ID }))
		if message.Mentions, err = s.replyMentions(ctx, draft.Replies); err != nil {
			return domain.Message{}, err
		}
	}

	if err = s.repository.InsertMessage(ctx, message); err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("Message sent", "id", message.ID, "channel", message.Channel, "author", message.Author)
	return message, nil
}

func (s *MessageService) replyMentions(ctx context.Context, replies []domain.Reply) ([]string, error) {
	ids := lo.Uniq(lo.FilterMap(replies, func(r domain.Reply, _ int) (string, bool) { return r.ID, r.Mention }))
	if len(ids) == 0 {
		return nil, nil
	}
	replied, err := s.repository.FetchMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.NewSet(lo.Map(replied, func(m domain.Message, _ int) string { return m.Author })...), nil
}

// EditMessage replaces the content and stamps the edit time.
func (s *MessageService) EditMessage(ctx context.Context, id, content string) error {
	if err := validation.ValidateContent(content); err != nil {
		return err
	}
	edited := s.now().UTC()
	return s.repository.UpdateMessage(ctx, id, domain.PartialMessage{Content: &content, Edited: &edited}, nil)
}

// SetMasquerade replaces the display override, or removes it when masquerade is nil.
func (s *MessageService) SetMasquerade(ctx context.Context, id string, masquerade *domain.Masquerade) error {
	if masquerade == nil {
		return s.repository.UpdateMessage(ctx, id, domain.PartialMessage{},
			[]domain.FieldsMessage{domain.FieldsMessageMasquerade})
	}
	if err := validation.ValidateMasquerade(*masquerade); err != nil {
		return err
	}
	return s.repository.UpdateMessage(ctx, id, domain.PartialMessage{Masquerade: masquerade}, nil)
}

func (s *MessageService) AppendEmbeds(ctx context.Context, id string, embeds []domain.Embed) error {
	if len(embeds) == 0 {
		return nil
	}
	return s.repository.AppendMessage(ctx, id, domain.AppendMessage{Embeds: embeds})
}

func (s *MessageService) React(ctx context.Context, id, user, emoji string) error {
	if emoji == "" || user == "" {
		return fmt.Errorf("%w: empty reaction", errors.ErrInvalidInput)
	}
	if err := s.repository.AddReaction(ctx, id, emoji, user); err != nil {
		if errors.Is(err, errors.ErrReactionNotAllowed) {
			s.log.Debug("Reaction refused", "id", id, "emoji", emoji)
		}
		return err
	}
	return nil
}

func (s *MessageService) Unreact(ctx context.Context, id, user, emoji string) error {
	return s.repository.RemoveReaction(ctx, id, emoji, user)
}

func (s *MessageService) ClearReactions(ctx context.Context, id, emoji string) error {
	return s.repository.ClearReaction(ctx, id, emoji)
}
