package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mixing-service/internal/handlers"
	"mixing-service/internal/metrics"
	"mixing-service/internal/payments"
	"mixing-service/internal/services"
	"mixing-service/internal/storage"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrate(rt.db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	minioClient, err := storage.NewMinioClient(ctx, rt.cfg, rt.logger)
	if err != nil {
		return errors.Wrap(err, "MinIO client initialization failed")
	}
	store := storage.NewMinioStore(minioClient, rt.cfg.MinioBucket)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	if rt.cfg.StripeSecretKey == "" {
		rt.logger.Warn("STRIPE_SECRET_KEY is not set, credit purchases will fail")
	}
	charger := payments.NewStripeCharger(rt.cfg.StripeSecretKey, rt.logger)

	files := services.NewFileService(store, rt.logger)
	ledger := services.NewLedgerService(rt.db, files, rt.logger, m)
	app := handlers.NewApp(handlers.Dependencies{
		Users:           services.NewUserService(rt.db, rt.logger),
		Projects:        services.NewProjectService(rt.db, files, rt.logger, m),
		Songs:           services.NewSongService(rt.db, files, rt.logger, m),
		Ledger:          ledger,
		Comments:        services.NewCommentService(rt.db, files, rt.logger),
		Purchases:       services.NewPurchaseService(rt.db, ledger, charger, rt.cfg.CreditPriceCents, rt.cfg.Currency, rt.logger, m),
		Files:           files,
		Archives:        services.NewArchiveService(rt.db, files, rt.logger),
		StripePublicKey: rt.cfg.StripePublicKey,
		Logger:          rt.logger,
		Metrics:         m,
		Gatherer:        reg,
	})

	for _, r := range app.GetRoutes(true) {
		rt.logger.Debug("route", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	go func() {
		<-ctx.Done()
		rt.logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	rt.logger.Info("server listening", zap.String("port", rt.cfg.AppPort))
	return app.Listen(":" + rt.cfg.AppPort)
}
