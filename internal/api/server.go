package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/internal/api/handler"
	"github.com/vfg2006/sales-ranking-api/internal/api/handler/router"
	"github.com/vfg2006/sales-ranking-api/internal/config"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/auditing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-ranking-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Database  handler.Pinger
	Ingestion ingesting.IngestionService
	Ranking   ranking.RankingService
	Listing   listing.ListingService
	Auditing  auditing.AuditService
	Profiles  profiling.ProfileService
	CronJobs  handler.CronJobServices
}

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o roteador com os middlewares globais
func NewHandler(cfg *config.Config, services Services) http.Handler {
	guards := handler.Guards{
		WebhookToken:   cfg.Auth.WebhookToken,
		AdminToken:     cfg.Auth.AdminToken,
		MaxBodyBytes:   cfg.Ingestion.MaxBodyBytes,
		WebhookLimiter: middleware.NewIPRateLimiter("webhook", cfg.RateLimit.WebhookPerMinute),
		ReadLimiter:    middleware.NewIPRateLimiter("read", cfg.RateLimit.ReadPerMinute),
		WriteLimiter:   middleware.NewIPRateLimiter("write", cfg.RateLimit.WritePerMinute),
	}
	loc := cfg.App.Location

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Database)...),
		router.WithRoutes(handler.Webhook(services.Ingestion, guards, cfg.Ingestion.MaxBatchSize)...),
		router.WithRoutes(handler.Dashboard(services.Ranking, guards, loc)...),
		router.WithRoutes(handler.Sales(services.Listing, services.Auditing, guards, loc)...),
		router.WithRoutes(handler.Audit(services.Auditing, guards)...),
		router.WithRoutes(handler.Profiles(services.Profiles, guards)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs, guards)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Cors.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(cfg *config.Config, services Services) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown aguarda as requisições em andamento, inclusive lotes do webhook
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
