package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/http/router"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/openai"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/vendor"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the delivery workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, db, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	log := logger.WithComponent("main")
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// 1. Repositories
	users := database.NewUserRepository(db)
	customers := database.NewCustomerRepository(db)
	orders := database.NewOrderRepository(db)
	campaigns := database.NewCampaignRepository(db)
	logs := database.NewCommunicationLogRepository(db)

	auth := usecase.NewAuthUseCase(users)
	if _, err := auth.EnsureDemoUser(ctx, cfg.DemoUserID); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	// 2. Delivery vendor and queue
	deliveryVendor := newDeliveryVendor(cfg)
	sendDelivery := usecase.NewSendDeliveryUseCase(deliveryVendor, logs)

	// Consumers outlive the request context so queued jobs drain on shutdown.
	consumerCtx, cancelConsumers := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConsumers()

	var (
		publisher queue.DeliveryPublisher
		broker    handlers.BrokerStatus
		drain     func()
	)
	if cfg.AMQPURL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer rmq.Close()

		consumerCh, err := rmq.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open consumer channel: %w", err)
		}

		w := queue.NewWorker(consumerCh, sendDelivery, cfg.DeliveryConcurrency)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := w.Start(consumerCtx, queue.QueueName); err != nil {
				log.Error().Err(err).Msg("delivery worker stopped")
			}
		}()

		publisher = queue.NewProducer(rmq.Ch)
		broker = rmq
		drain = func() {
			cancelConsumers()
			<-done
		}
		log.Info().Msg("deliveries routed through rabbitmq")
	} else {
		mq := queue.NewMemoryQueue(0)
		mq.Start(consumerCtx, sendDelivery, cfg.DeliveryConcurrency)
		publisher = mq
		drain = mq.Close
		log.Info().Msg("deliveries routed through the in-process queue")
	}

	// 3. Use cases
	audience := usecase.NewResolveAudienceUseCase(customers)
	launcher := usecase.NewLaunchCampaignUseCase(campaigns, logs, audience, publisher)
	creator := usecase.NewCreateCampaignUseCase(campaigns, audience, launcher)
	reports := usecase.NewReportingUseCase(campaigns, logs, customers)
	ai := usecase.NewAIUseCase(newAssistant(cfg), reports)

	// 4. Stale delivery monitor
	monitor := worker.NewStaleDeliveryMonitor(logs, middleware.StaleDeliveries, cfg.StaleDeliveryAfter, cfg.StaleDeliverySchedule)
	if err := monitor.Start(consumerCtx); err != nil {
		return err
	}
	defer monitor.Stop()

	// 5. Handlers and router
	handler := router.New(router.Handlers{
		Campaigns: handlers.NewCampaignHandler(audience, creator, launcher, reports, ai),
		Receipts:  handlers.NewReceiptHandler(usecase.NewProcessReceiptUseCase(logs)),
		Customers: handlers.NewCustomerHandler(usecase.NewCreateCustomerUseCase(customers), usecase.NewListCustomersUseCase(customers)),
		Orders:    handlers.NewOrderHandler(usecase.NewCreateOrderUseCase(orders, customers), usecase.NewListOrdersUseCase(orders)),
		AI:        handlers.NewAIHandler(ai),
		Auth:      handlers.NewAuthHandler(auth),
		Health:    handlers.NewHealthHandler(db, broker, Version),
	}, router.Options{
		AllowedOrigins:      cfg.AllowedOrigins,
		DemoUserID:          cfg.DemoUserID,
		AIRequestsPerMinute: cfg.AIRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", Version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := gracefulStop(shutdownCtx, drain, cancelConsumers, srv); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

func newDeliveryVendor(cfg *config.Config) usecase.DeliveryVendor {
	receipts := vendor.NewReceiptNotifier(cfg.ReceiptURL())

	switch cfg.DeliveryVendor {
	case config.VendorSMTP:
		sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
		return mail.NewEmailVendor(sender, receipts)
	case config.VendorWhatsApp:
		return whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID, cfg.WhatsApp.BaseURL, receipts)
	default:
		return vendor.NewSimulator(cfg.Simulator.MinDelay, cfg.Simulator.MaxDelay, cfg.Simulator.SuccessRate, receipts)
	}
}

// newAssistant returns nil without an API key; the AI use case then answers
// with its fallbacks.
func newAssistant(cfg *config.Config) usecase.Assistant {
	if cfg.OpenAI.APIKey == "" {
		log := logger.WithComponent("main")
		log.Info().Msg("OPENAI_API_KEY not set, AI endpoints use fallbacks")
		return nil
	}

	var opts []option.RequestOption
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts...)
}
