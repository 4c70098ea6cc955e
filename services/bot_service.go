package services

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/repositories"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const tokenBytes = 48

type IBotService interface {
	CreateBot(ctx context.Context, owner string) (domain.Bot, error)
	ResetToken(ctx context.Context, id string) (string, error)
	UpdateProfile(ctx context.Context, id string, partial domain.PartialBot, remove []domain.FieldsBot) error
}

type BotService struct {
	repository repositories.IBotRepository
	log        *slog.Logger
	maxBots    int
}

func NewBotService(repository repositories.IBotRepository, log *slog.Logger, maxBots int) *BotService {
	return &BotService{repository: repository, log: log, maxBots: maxBots}
}

// CreateBot registers a private bot for owner unless the owner already has maxBots.
func (s *BotService) CreateBot(ctx context.Context, owner string) (domain.Bot, error) {
	count, err := s.repository.GetNumberOfBotsByUser(ctx, owner)
	if err != nil {
		return domain.Bot{}, err
	}
	if count >= s.maxBots {
		return domain.Bot{}, fmt.Errorf("%w: %d for %s", errors.ErrTooManyBots, count, owner)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Bot{}, fmt.Errorf("failed to generate bot id: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return domain.Bot{}, err
	}
	bot := domain.Bot{ID: id.String(), Owner: owner, Token: token}
	if err = s.repository.InsertBot(ctx, bot); err != nil {
		return domain.Bot{}, err
	}
	s.log.Info("Bot created", "id", bot.ID, "owner", owner)
	return bot, nil
}

// ResetToken issues a new token. The previous one stops resolving immediately.
func (s *BotService) ResetToken(ctx context.Context, id string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err = s.repository.UpdateBot(ctx, id, domain.PartialBot{Token: &token}, nil); err != nil {
		return "", err
	}
	s.log.Info("Bot token reset", "id", id)
	return token, nil
}

// UpdateProfile applies a profile change. Tokens only change through ResetToken.
func (s *BotService) UpdateProfile(ctx context.Context, id string, partial domain.PartialBot, remove []domain.FieldsBot) error {
	if partial.Token != nil {
		return fmt.Errorf("%w: token cannot be set through a profile update", errors.ErrInvalidInput)
	}
	return s.repository.UpdateBot(ctx, id, partial, remove)
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
