package app

import (
	httpH "github.com/yungbote/roomfinder-backend/internal/http/handlers"
	"github.com/yungbote/roomfinder-backend/internal/observability"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Metrics *httpH.MetricsHandler
	Webhook *httpH.WebhookHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health: httpH.NewHealthHandler(),
		Webhook: httpH.NewWebhookHandler(httpH.WebhookHandlerDeps{
			Log:         log,
			VerifyToken: cfg.VerifyToken,
			Profile:     services.Profile.Messenger(),
			Profiles:    services.Messenger,
			Processor:   services.Processor,
		}),
	}
	if metrics != nil {
		h.Metrics = httpH.NewMetricsHandler(metrics.Handler())
	}
	return h
}
