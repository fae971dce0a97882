package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/roomfinder-backend/internal/http"
	"github.com/yungbote/roomfinder-backend/internal/observability"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		Metrics:        metrics,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		AppSecret:      cfg.AppSecret,
		WebhookHandler: handlers.Webhook,
		HealthHandler:  handlers.Health,
		MetricsHandler: handlers.Metrics,
	})
}
