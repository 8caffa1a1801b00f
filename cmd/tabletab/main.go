package main

import (
	"context"
	"log/slog"
	"os"

	"tabletab/config"
	"tabletab/internal/delivery"
	"tabletab/internal/delivery/http"
	"tabletab/internal/delivery/http/middleware"
	"tabletab/internal/delivery/http/router/handler"
	"tabletab/internal/domain/service"
	"tabletab/internal/infra/auth"
	"tabletab/internal/infra/catalog"
	logs "tabletab/internal/infra/log"
	"tabletab/internal/infra/persistence/postgres"
	"tabletab/internal/infra/qrcode"
	"tabletab/internal/infra/scheduler"
	"tabletab/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewSessionFlagRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			catalog.NewClient,
			scheduler.New,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewTabRegistry,
			impl.NewSessionService,
			impl.NewMenuService,
			impl.NewCartService,
			impl.NewCheckoutService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewTableHandler,
			handler.NewMenuHandler,
			handler.NewCartHandler,
			handler.NewCheckoutHandler,
			handler.NewTestHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
