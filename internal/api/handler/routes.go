package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-ranking-api/internal/api/handler/router"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/auditing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-ranking-api/pkg/middleware"
)

// Guards reúne os segredos e limitadores aplicados por rota
type Guards struct {
	WebhookToken   string
	AdminToken     string
	MaxBodyBytes   int64
	WebhookLimiter *middleware.IPRateLimiter
	ReadLimiter    *middleware.IPRateLimiter
	WriteLimiter   *middleware.IPRateLimiter
}

func (g Guards) webhook() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RateLimit(g.WebhookLimiter),
		middleware.RequireToken(g.WebhookToken, middleware.TokenOptions{}),
		middleware.BodyLimit(g.MaxBodyBytes),
	}
}

func (g Guards) read() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{middleware.RateLimit(g.ReadLimiter)}
}

func (g Guards) admin() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RateLimit(g.WriteLimiter),
		middleware.RequireToken(g.AdminToken, middleware.TokenOptions{}),
		middleware.BodyLimit(g.MaxBodyBytes),
	}
}

func (g Guards) purge() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RateLimit(g.WriteLimiter),
		middleware.RequireToken(g.AdminToken, middleware.TokenOptions{AllowQuery: true}),
	}
}

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

// Webhook registra a rota de ingestão e o alias usado pelo fluxo do n8n
func Webhook(service ingesting.IngestionService, guards Guards, maxBatchSize int) []router.Route {
	routes := []router.Route{
		{
			Path:    "/v1/webhook/sales",
			Method:  http.MethodGet,
			Handler: DescribeWebhook(service, maxBatchSize),
		},
		{
			Path:    "/api/webhook/n8n",
			Method:  http.MethodGet,
			Handler: DescribeWebhook(service, maxBatchSize),
		},
	}

	for _, path := range []string{"/v1/webhook/sales", "/api/webhook/n8n"} {
		routes = append(routes, router.Route{
			Path:        path,
			Method:      http.MethodPost,
			Handler:     IngestSales(service, maxBatchSize),
			Middlewares: guards.webhook(),
		})
	}

	return routes
}

func Dashboard(service ranking.RankingService, guards Guards, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/ranking",
			Method:      http.MethodGet,
			Handler:     GetRanking(service, loc),
			Middlewares: guards.read(),
		},
		{
			Path:        "/v1/dashboard/kpis",
			Method:      http.MethodGet,
			Handler:     GetKPIs(service, loc),
			Middlewares: guards.read(),
		},
		{
			Path:        "/v1/dashboard/recent-sales",
			Method:      http.MethodGet,
			Handler:     GetRecentSales(service),
			Middlewares: guards.read(),
		},
		{
			Path:    "/v1/dashboard/filters",
			Method:  http.MethodGet,
			Handler: GetFilterOptions(service),
		},
		{
			Path:    "/v1/sync-status",
			Method:  http.MethodGet,
			Handler: GetSyncStatus(service),
		},
	}
}

func Sales(listingService listing.ListingService, auditService auditing.AuditService, guards Guards, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sales",
			Method:      http.MethodGet,
			Handler:     ListSales(listingService, loc),
			Middlewares: guards.read(),
		},
		{
			Path:        "/v1/sales/export",
			Method:      http.MethodGet,
			Handler:     ExportSales(listingService, loc),
			Middlewares: guards.read(),
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     CreateSale(listingService),
			Middlewares: guards.admin(),
		},
		{
			Path:        "/v1/admin/sales",
			Method:      http.MethodDelete,
			Handler:     PurgeSales(auditService),
			Middlewares: guards.purge(),
		},
	}
}

func Audit(service auditing.AuditService, guards Guards) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/audit/stats",
			Method:  http.MethodGet,
			Handler: GetAuditStats(service),
		},
		{
			Path:    "/v1/audit/outliers",
			Method:  http.MethodGet,
			Handler: GetAuditOutliers(service),
		},
		{
			Path:    "/v1/audit/duplicates",
			Method:  http.MethodGet,
			Handler: GetAuditDuplicates(service),
		},
		{
			Path:        "/v1/audit/logs",
			Method:      http.MethodGet,
			Handler:     GetAuditLogs(service),
			Middlewares: guards.admin(),
		},
	}
}

func Profiles(service profiling.ProfileService, guards Guards) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListProfiles(service),
			Middlewares: guards.read(),
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateProfile(service),
			Middlewares: guards.admin(),
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateProfile(service),
			Middlewares: guards.admin(),
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteProfile(service),
			Middlewares: guards.admin(),
		},
		{
			Path:    "/v1/avatar/:id",
			Method:  http.MethodGet,
			Handler: GetAvatar(service),
		},
	}
}

func CronJobs(services CronJobServices, guards Guards) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: guards.admin(),
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: guards.admin(),
		},
	}
}
