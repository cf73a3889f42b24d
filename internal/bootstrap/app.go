package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docuquery/internal/config"
	"docuquery/internal/embedding"
	"docuquery/internal/model"
	mysqlClient "docuquery/internal/platform/mysql"
	rabbitmqClient "docuquery/internal/platform/rabbitmq"
	redisClient "docuquery/internal/platform/redis"
	"docuquery/internal/progress"
	"docuquery/internal/repository"
	"docuquery/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Embedder    embedding.Generator
	Sink        progress.Sink
	EventRepo   *repository.IngestEventRepository
	EventWorker *worker.IngestEventWorker

	StartedAt time.Time
}

// New wires the process: config, MySQL with migrations, and the optional
// Redis embedding cache and RabbitMQ progress queue. A disabled Redis means
// uncached embeddings; a disabled RabbitMQ routes progress to the log.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.Embedding{},
		&model.IngestEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		MySQL:     mysqlDB,
		EventRepo: repository.NewIngestEventRepository(mysqlDB),
		Sink:      progress.LogSink,
		StartedAt: time.Now(),
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
	}
	app.Embedder = buildEmbedder(cfg, app.Redis)

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn
		app.Sink = rabbitmqClient.NewProgressPublisher(mqConn, cfg.RabbitMQ.IngestProgressQueue)

		app.EventWorker = worker.NewIngestEventWorker(mqConn, app.EventRepo, cfg.RabbitMQ.IngestProgressQueue)
		if err := app.EventWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start ingest event worker failed: %w", err)
		}
	}

	return app, nil
}

// buildEmbedder picks the embedding backend from config. "off" means lexical
// retrieval only. With Redis available, results are cached by content hash.
func buildEmbedder(cfg *config.Config, redisCli *redis.Client) embedding.Generator {
	var gen embedding.Generator
	switch cfg.Embedding.Backend {
	case "local":
		gen = embedding.NewLocalGenerator(
			cfg.Embedding.ModelPath,
			cfg.Embedding.VocabPath,
			cfg.Embedding.ONNXSharedLibPath,
			cfg.Embedding.Dimensions,
		)
	case "remote":
		gen = embedding.NewRemoteGenerator(
			cfg.LLM.OpenAI.BaseURL,
			cfg.LLM.OpenAI.APIKey,
			cfg.Embedding.RemoteModel,
			cfg.Embedding.Dimensions,
		)
	default:
		return embedding.Disabled{}
	}

	if redisCli != nil {
		ttl := time.Duration(cfg.Embedding.CacheTTLSeconds) * time.Second
		gen = embedding.NewCachedGenerator(gen, embedding.NewRedisKV(redisCli, ttl))
	}
	return gen
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
