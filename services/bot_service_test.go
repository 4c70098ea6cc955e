package services

import (
	"chat-store/domain"
	"chat-store/errors"
	"chat-store/mocks"
	"chat-store/repositories"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBotRepository(t *testing.T) *repositories.BotRepository {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repositories.NewBotRepository(db, slog.Default(), nil)
}

func TestBotService_Create_And_Reset_Token(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := newBotRepository(t)
	service := NewBotService(repository, logs.GetLoggerFromLevel(slog.LevelDebug), 2)

	// Given a freshly created bot
	bot, err := service.CreateBot(ctx, "u1")
	req.NoError(err)
	req.NotEmpty(bot.Token)

	// When its token is reset
	token, err := service.ResetToken(ctx, bot.ID)
	req.NoError(err)
	req.NotEqual(bot.Token, token)

	// Then only the new token authenticates the bot
	_, err = repository.FetchBotByToken(ctx, bot.Token)
	req.ErrorIs(err, errors.ErrNotFound)
	fetched, err := repository.FetchBotByToken(ctx, token)
	req.NoError(err)
	req.Equal(bot.ID, fetched.ID)
}

func TestBotService_Limit_Per_Owner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service := NewBotService(newBotRepository(t), logs.GetLoggerFromLevel(slog.LevelDebug), 2)

	for i := 0; i < 2; i++ {
		_, err := service.CreateBot(ctx, "u1")
		req.NoError(err)
	}
	_, err := service.CreateBot(ctx, "u1")
	req.ErrorIs(err, errors.ErrTooManyBots)

	_, err = service.CreateBot(ctx, "u2")
	req.NoError(err)
}

func TestBotService_Limit_Ignores_Owners_Sharing_A_Prefix(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service := NewBotService(newBotRepository(t), logs.GetLoggerFromLevel(slog.LevelDebug), 2)

	// Given "u1:x" at its limit
	for i := 0; i < 2; i++ {
		_, err := service.CreateBot(ctx, "u1:x")
		req.NoError(err)
	}

	// Then "u1" still has its own allowance
	for i := 0; i < 2; i++ {
		_, err := service.CreateBot(ctx, "u1")
		req.NoError(err)
	}
	_, err := service.CreateBot(ctx, "u1")
	req.ErrorIs(err, errors.ErrTooManyBots)
}

func TestBotService_UpdateProfile(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := newBotRepository(t)
	service := NewBotService(repository, logs.GetLoggerFromLevel(slog.LevelDebug), 5)
	bot, err := service.CreateBot(ctx, "u1")
	req.NoError(err)
	req.NoError(service.UpdateProfile(ctx, bot.ID, domain.PartialBot{
		Public:           lo.ToPtr(true),
		PrivacyPolicyURL: lo.ToPtr("https://bot.example/privacy"),
	}, nil))

	// When the privacy policy is removed
	err = service.UpdateProfile(ctx, bot.ID, domain.PartialBot{}, []domain.FieldsBot{domain.FieldsBotPrivacyPolicyURL})
	req.NoError(err)

	fetched, err := repository.FetchBot(ctx, bot.ID)
	req.NoError(err)
	req.True(fetched.Public)
	req.Nil(fetched.PrivacyPolicyURL)

	// And a token cannot be smuggled through the profile
	err = service.UpdateProfile(ctx, bot.ID, domain.PartialBot{Token: lo.ToPtr("chosen")}, nil)
	req.ErrorIs(err, errors.ErrInvalidInput)
}

func TestBotService_Propagates_Backend_Errors(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIBotRepository(ctrl)
	service := NewBotService(repository, logs.GetLoggerFromLevel(slog.LevelDebug), 5)

	backend := fmt.Errorf("%w: disk full", errors.ErrBackend)
	repository.EXPECT().GetNumberOfBotsByUser(ctx, "u1").Return(0, backend)
	repository.EXPECT().InsertBot(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.CreateBot(ctx, "u1")
	req.ErrorIs(err, errors.ErrBackend)
}
