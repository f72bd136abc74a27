package routes

import (
	"net/http"

	"github.com/templui/aquabuddy/internal/app"
	"github.com/templui/aquabuddy/internal/handler"
	"github.com/templui/aquabuddy/internal/metrics"
	"github.com/templui/aquabuddy/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	notifications := handler.NewNotificationHandler(app.NotificationService)
	caregiver := handler.NewCaregiverHandler(app.CaregiverService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Operations
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// Notification API. Method checks happen in the handlers so that
	// non-POST requests get the plain 405 body web clients expect.
	mux.HandleFunc("/scheduleNotification", notifications.Schedule)
	mux.HandleFunc("/sendNotification", notifications.Send)

	// Caregiver contact (rate limited)
	rateLimit := middleware.RateLimit(app.CaregiverLimiter, app.Cfg.TrustProxy)
	mux.HandleFunc("/contactCaregiver", rateLimit(caregiver.Contact))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.CORS,
	)
}
