package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/metrics"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/providers/embedding"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/providers/generation"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/command"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/conversation"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/knowledge"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/retrieval"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/storage/sqlite"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/transport/telegram"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/transport/web"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/srv"
)

// app holds the wired core shared by every subcommand.
type app struct {
	appCfg    *config.AppConfig
	streamCfg *config.StreamConfig

	db       *sql.DB
	messages *sqlite.MessagesRepo
	kb       *knowledge.Importer
	chat     *chatbot.Service
	router   *command.Router
}

func (a *app) Close() error {
	return a.db.Close()
}

// newStorageApp loads configuration and opens the database only. It backs
// the commands that never reach the model servers.
func newStorageApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	return &app{
		appCfg:    appCfg,
		streamCfg: config.NewStreamConfig(ctx),
		db:        db,
		messages:  sqlite.NewMessagesRepo(db),
		kb:        knowledge.NewImporter(sqlite.NewKnowledgeRepo(db)),
	}
}

// newApp wires the full question answering pipeline on top of storage.
func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)
	a := newStorageApp(ctx)

	// 1. Configuration
	retrievalCfg := config.NewRetrievalConfig(ctx)
	embeddingCfg := config.NewEmbeddingConfig(ctx)
	generatorCfg := config.NewGeneratorConfig(ctx)

	m := metrics.New(prometheus.DefaultRegisterer)

	// 2. Model servers
	embedder, err := embedding.NewFromConfig(ctx, embeddingCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	generator, err := generation.NewFromConfig(ctx, generatorCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generator")
	}

	// 3. Pipeline
	retriever := retrieval.NewRetriever(sqlite.NewKnowledgeRepo(a.db), embedder, retrievalCfg, m)
	streamer := stream.NewStreamer(generator, conversation.NewRecorder(a.messages), nil, a.streamCfg, m)
	a.chat = chatbot.NewService(retriever, streamer, a.messages)

	// 4. Slash commands shared by the interactive transports
	a.router = command.New(command.NewCommands(a.chat, a.kb))

	return a
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	a := newApp(ctx)

	services := []srv.Service{srv.NewCleanup("sqlite", a.Close)}

	transports, err := initTransports(ctx, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no transport enabled, set LEXBOT_ENABLE_HTTP or LEXBOT_ENABLE_TELEGRAM")
	}
	return append(services, transports...)
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	// HTTP API, WebSocket and SSE
	if a.appCfg.EnableHTTP {
		services = append(services, web.NewServer(ctx, a.appCfg, a.streamCfg, a.chat, prometheus.DefaultGatherer))
	}

	// Telegram Bot
	if a.appCfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.streamCfg, a.chat, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
