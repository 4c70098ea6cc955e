package main

import (
	"chat-store/domain"
	"chat-store/internal"
	"chat-store/observability"
	"chat-store/repositories"
	"chat-store/services"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/lo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run opens the stores, optionally seeds and searches them, then serves the
// inspector until interrupted.
func run() error {
	seed := flag.Bool("seed", false, "Write a demo server with channels, members, a bot and messages")
	channel := flag.String("channel", "general", "Channel searched by -search")
	search := flag.String("search", "", "Full-text query run against -channel")
	sort := flag.String("sort", string(domain.SortRelevance), "Relevance, Latest or Oldest")
	flag.Parse()

	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Stores
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	monitor := observability.NewMonitor(log, db)
	metrics, err := observability.NewRepositoryMetrics(registry, monitor)
	if err != nil {
		return fmt.Errorf("metrics registration failed: %w", err)
	}

	// 4. Repositories & Services
	store := stores{
		messages: repositories.NewMessageRepository(db, repositories.NewMessageIndex(writer), log, metrics, config.SearchLimit),
		servers:  repositories.NewServerRepository(db, log, metrics),
		channels: repositories.NewChannelRepository(db, log, metrics),
		members:  repositories.NewMemberRepository(db, log, metrics),
	}
	serverService := services.NewServerService(store.servers, store.members, log)
	messageService := services.NewMessageService(store.messages, log)
	botService := services.NewBotService(repositories.NewBotRepository(db, log, metrics), log, config.MaxBots)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err = seedDemo(ctx, log, store, serverService, messageService, botService); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}
	if *search != "" {
		if err = printSearch(ctx, store.messages, domain.MessageQuery{
			Channel: *channel,
			Query:   *search,
			Sort:    domain.MessageSort(*sort).OrDefault(),
		}); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	// 5. Inspector until Stop
	server := internal.StartDebugServer(db, log, config.DebugPort, internal.EntityMapper, monitor.AsMap, registry)
	log.Info("Inspector started", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type stores struct {
	messages repositories.IMessageRepository
	servers  repositories.IServerRepository
	channels repositories.IChannelRepository
	members  repositories.IMemberRepository
}

func seedDemo(ctx context.Context, log *slog.Logger, store stores, serverService *services.ServerService,
	messageService *services.MessageService, botService *services.BotService) error {
	server := domain.Server{ID: "demo", Owner: "alice", Name: "Demo", Channels: []string{"general", "random"}}
	if err := store.servers.InsertServer(ctx, server); err != nil {
		return err
	}
	for _, id := range server.Channels {
		channel := domain.Channel{ID: id, ChannelType: domain.TextChannel, Server: server.ID, Name: id}
		if err := store.channels.InsertChannel(ctx, channel); err != nil {
			return err
		}
	}
	roleID, err := serverService.CreateRole(ctx, server.ID, domain.Role{Name: "Moderator", Colour: lo.ToPtr("#ff8800"), Rank: 1})
	if err != nil {
		return err
	}
	for _, user := range []string{"alice", "bob"} {
		if _, err = serverService.JoinServer(ctx, server.ID, user); err != nil {
			return err
		}
	}
	alice := domain.MemberCompositeKey{Server: server.ID, User: "alice"}
	if err = serverService.EditMember(ctx, alice, domain.PartialMember{Roles: []string{roleID}}, nil); err != nil {
		return err
	}

	first, err := messageService.SendMessage(ctx, services.DraftMessage{
		Channel: "general", Author: "alice", Content: lo.ToPtr("welcome to the demo server"),
	})
	if err != nil {
		return err
	}
	if _, err = messageService.SendMessage(ctx, services.DraftMessage{
		Channel: "general", Author: "bob", Content: lo.ToPtr("thanks, glad to join the demo"),
		Replies: []domain.Reply{{ID: first.ID, Mention: true}},
	}); err != nil {
		return err
	}
	if err = messageService.React(ctx, first.ID, "bob", "👋"); err != nil {
		return err
	}

	bot, err := botService.CreateBot(ctx, "alice")
	if err != nil {
		return err
	}
	log.Info("Demo seeded", "server", server.ID, "role", roleID, "bot", bot.ID)
	return nil
}

func printSearch(ctx context.Context, repository repositories.IMessageRepository, query domain.MessageQuery) error {
	messages, err := repository.SearchMessages(ctx, query)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Author", "Content", "Reactions"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, message := range messages {
		table.Append([]string{
			message.ID,
			message.Author,
			lo.FromPtr(message.Content),
			fmt.Sprint(len(message.Reactions)),
		})
	}
	table.Render()
	return nil
}
