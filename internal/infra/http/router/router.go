package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/xavierca1/ligue-crm/internal/identity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type Options struct {
	AllowedOrigins []string
	DemoUserID     string
	// AIRequestsPerMinute bounds calls into the AI endpoints per client.
	AIRequestsPerMinute int
}

type Handlers struct {
	Campaigns *handlers.CampaignHandler
	Receipts  *handlers.ReceiptHandler
	Customers *handlers.CustomerHandler
	Orders    *handlers.OrderHandler
	AI        *handlers.AIHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
}

func New(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", identity.Header},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		// The vendor calls back without an identity.
		r.Post("/delivery-receipt", h.Receipts.Handle)

		r.Group(func(r chi.Router) {
			r.Use(identity.Middleware(opts.DemoUserID))

			r.Post("/auth/google", h.Auth.Google)
			r.Get("/auth/me", h.Auth.Me)

			r.Get("/customers", h.Customers.ListCustomers)
			r.Post("/customers", h.Customers.CreateCustomer)
			r.Get("/orders", h.Orders.ListOrders)
			r.Post("/orders", h.Orders.CreateOrder)

			r.Get("/dashboard/stats", h.Campaigns.Dashboard)

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.Campaigns.List)
				r.Post("/", h.Campaigns.Create)
				r.Post("/preview-audience", h.Campaigns.PreviewAudience)
				r.Get("/{id}", h.Campaigns.Get)
				r.Patch("/{id}/launch", h.Campaigns.Launch)
				r.Get("/{id}/logs", h.Campaigns.Logs)
				r.Get("/{id}/insights", h.Campaigns.Insights)
			})

			r.Route("/ai", func(r chi.Router) {
				if opts.AIRequestsPerMinute > 0 {
					r.Use(middleware.NewRateLimiter(opts.AIRequestsPerMinute, time.Minute).Handler)
				}
				r.Post("/convert-rules", h.AI.ConvertRules)
				r.Post("/generate-messages", h.AI.GenerateMessages)
			})
		})
	})

	return r
}
