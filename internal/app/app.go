package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/calories-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/calories-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/calories-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/calories-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/calories-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/calories-backend/internal/infrastructure/token"
	"github.com/DRSN-tech/calories-backend/internal/metrics"
	s3Repo "github.com/DRSN-tech/calories-backend/internal/repository/minio"
	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/calories-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/calories-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/calories-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/clients"
	"github.com/DRSN-tech/calories-backend/pkg/closer"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/DRSN-tech/calories-backend/pkg/postgres"
	"github.com/DRSN-tech/calories-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 15 * time.Second
	startupTimeout     = 10 * time.Second
	ensureTopicTimeout = 10 * time.Second
)

// App — собранное приложение: HTTP, gRPC и outbox worker поверх общих зависимостей.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	outbox  *kafka.OutboxWorker

	// bgCtx отменяется при остановке и гасит фоновые задачи
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(0),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cErr := a.closer.Close(ctx); cErr != nil {
			log.Warnf("cleanup after failed init: %v", cErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cfg, log := a.cfg, a.logger

	// Закрываются в обратном порядке: сначала серверы, последним пул БД.
	db, err := initPGDB(ctx, log, cfg.Db)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", redisClient.Close)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	producer := kafka.NewProducer(log, cfg.Kafka)
	if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
		// Топик может создаваться брокером автоматически, outbox дождётся.
		log.Warnf("failed to ensure kafka topic: %v", err)
	}
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	m := metrics.New()
	txManager := tr.NewManager(db.Pool)

	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverterImpl{})
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	eatenRepo := pgdb.NewEatenProductRepo(db.Pool, pgdbConv.EatenProductConverterImpl{})
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverterImpl{})
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConverterImpl{}, cfg.Redis, log)

	images := minioInfra.NewMinioInfrastructure(s3Repo.NewImageRepo(minioClient, cfg.Minio), log, a.bgCtx)
	a.closer.Add("minio cleanup", images.WaitForCleanup)

	authUC := usecase.NewAuthUC(userRepo, token.NewJWTIssuer(cfg.Auth), log)
	categoryUC := usecase.NewCategoryUC(categoryRepo, productRepo, cacheRepo, txManager, log)
	productUC := usecase.NewProductUC(productRepo, categoryRepo, cacheRepo, images, txManager, log)
	eatenUC := usecase.NewEatenProductUC(
		eatenRepo,
		productRepo,
		outboxRepo,
		kafka.NewLedgerEncoder(),
		txManager,
		m,
		log,
		cfg.App.Location,
	)
	totalUC := usecase.NewTotalKcalUC(eatenRepo)

	a.outbox = kafka.NewOutboxWorker(outboxRepo, log, producer, m, db.Dsn)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.outbox.Stop()
		return nil
	})

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(productUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log, cfg.Http.SwaggerURL).Init(v1Http.Usecases{
		Auth:         authUC,
		Category:     categoryUC,
		Product:      productUC,
		EatenProduct: eatenUC,
		TotalKcal:    totalUC,
	}, m)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и блокируется до сигнала остановки или падения одного из серверов.
func (a *App) Run() error {
	log := a.logger

	a.outbox.Start(a.bgCtx)

	errCh := make(chan error, 2)
	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.bgCancel()
	if err := a.closer.Close(ctx); err != nil {
		log.Warnf("%v", err)
	}

	log.Infof("Application shutdown complete")

	return appErr
}

// Migrate применяет миграции и завершается. Используется командой migrate.
func Migrate(ctx context.Context, dbCfg *config.PGDBCfg, log logger.Logger) error {
	db, err := initPGDB(ctx, log, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return nil
}

// CreateAdmin создаёт пользователя с правами администратора каталога.
func CreateAdmin(ctx context.Context, dbCfg *config.PGDBCfg, log logger.Logger, req *usecase.RegisterReq) error {
	db, err := initPGDB(ctx, log, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Токены здесь не выдаются, issuer не нужен.
	authUC := usecase.NewAuthUC(pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverterImpl{}), nil, log)
	if _, err := authUC.CreateAdmin(ctx, req); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.PGDBCfg) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
