package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/aquabuddy/internal/app"
	"github.com/templui/aquabuddy/internal/config"
	"github.com/templui/aquabuddy/internal/db/dbtest"
	"github.com/templui/aquabuddy/internal/routes"
	"github.com/templui/aquabuddy/internal/service"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		AppName:          "Aqua Buddy",
		AppEnv:           "development",
		DefaultTitle:     "Aqua Buddy 💧",
		DrainInterval:    time.Minute,
		DrainBatchSize:   100,
		CleanupInterval:  24 * time.Hour,
		CleanupBatchSize: 500,
		Retention:        7 * 24 * time.Hour,
		EmailFrom:        "noreply@example.com",
	}
	push, err := service.NewPushService(context.Background(), "", "", "", true)
	require.NoError(t, err)
	return app.Assemble(cfg, dbtest.New(t), push)
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	h := routes.SetupRoutes(newApp(t))

	rec := serve(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aquabuddy_")

	rec = serve(h, http.MethodPost, "/sendNotification", `{"token":"t","message":"m"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messageId":"dev-`)

	rec = serve(h, http.MethodGet, "/scheduleNotification", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(h, http.MethodOptions, "/contactCaregiver", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h, http.MethodGet, "/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleThenDrain(t *testing.T) {
	a := newApp(t)
	h := routes.SetupRoutes(a)

	rec := serve(h, http.MethodPost, "/scheduleNotification", `{"token":"t","message":"m","delayMinutes":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	res, err := a.NotificationService.DrainDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Selected)
	assert.Equal(t, 1, res.Succeeded)

	res, err = a.NotificationService.DrainDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Selected)
}

func TestCaregiverRateLimited(t *testing.T) {
	h := routes.SetupRoutes(newApp(t))

	body := `{"email":"care@example.com","name":"Sam"}`
	for range 5 {
		rec := serve(h, http.MethodPost, "/contactCaregiver", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := serve(h, http.MethodPost, "/contactCaregiver", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
