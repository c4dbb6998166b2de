package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-ranking-api/infrastructure/migration"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/api"
	"github.com/vfg2006/sales-ranking-api/internal/api/handler"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/config"
	"github.com/vfg2006/sales-ranking-api/internal/scheduler"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/auditing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	// valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.Up(ctx, pgConn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	saleRepo := repository.NewSaleRepository(pgConn)
	profileRepo := repository.NewProfileRepository(pgConn)

	readCache := cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	trail := audit.NewTrail(audit.DefaultCapacity)

	ingestionService := ingesting.NewService(pgConn, saleRepo, readCache, trail, ingesting.Options{
		MaxConcurrentItems: cfg.Ingestion.MaxConcurrentItems,
		MaxFailureDetails:  cfg.Ingestion.MaxFailureDetails,
		Location:           cfg.App.Location,
	})
	rankingService := ranking.NewDashboardService(saleRepo, profileRepo, ingestionService, readCache, cfg.App.Location)
	listingService := listing.NewService(saleRepo, readCache, trail, cfg.App.Location)
	auditService := auditing.NewService(saleRepo, readCache, trail)
	profileService := profiling.NewService(profileRepo, readCache, trail)

	duplicateAuditService := scheduler.NewDuplicateAuditService(auditService, trail, cfg)
	if err := duplicateAuditService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de auditoria de duplicidades")
	}

	server, err := api.New(cfg, api.Services{
		Database:  pgConn,
		Ingestion: ingestionService,
		Ranking:   rankingService,
		Listing:   listingService,
		Auditing:  auditService,
		Profiles:  profileService,
		CronJobs: handler.CronJobServices{
			DuplicateAuditService: duplicateAuditService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
