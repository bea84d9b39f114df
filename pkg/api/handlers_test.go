package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/artusm/funny-learn-notifier/pkg/api"
	"github.com/artusm/funny-learn-notifier/pkg/config"
	"github.com/artusm/funny-learn-notifier/pkg/models"
	"github.com/artusm/funny-learn-notifier/pkg/store"
)

type fakePipeline struct {
	runs   int
	report models.OutcomeReport
}

func (p *fakePipeline) Run(ctx context.Context, trigger string) models.OutcomeReport {
	p.runs++
	return p.report
}

func newServer(cfg config.Config, pipe api.Pipeline, st store.ImageStore) *echo.Echo {
	e := echo.New()
	api.NewHandlers(cfg, pipe, st, nil).Register(e)
	return e
}

func doRequest(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrigger_DevelopmentSkipsPasswordGate(t *testing.T) {
	pipe := &fakePipeline{report: models.OutcomeReport{Success: true, Message: "photo delivered"}}
	e := newServer(config.Config{Environment: "development"}, pipe, nil)

	rec := doRequest(e, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, pipe.runs)

	var report models.OutcomeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.True(t, report.Success)
	require.Equal(t, "photo delivered", report.Message)
}

func TestTrigger_ProductionRequiresPassword(t *testing.T) {
	pipe := &fakePipeline{report: models.OutcomeReport{Success: true}}
	cfg := config.Config{Environment: "production", TriggerPassword: "s3cret"}
	e := newServer(cfg, pipe, nil)

	rec := doRequest(e, http.MethodGet, "/")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodGet, "/?password=wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Zero(t, pipe.runs)

	rec = doRequest(e, http.MethodPost, "/?password=s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, pipe.runs)
}

func TestTrigger_ProductionWithoutConfiguredPasswordAlwaysRejects(t *testing.T) {
	pipe := &fakePipeline{report: models.OutcomeReport{Success: true}}
	e := newServer(config.Config{Environment: "production"}, pipe, nil)

	rec := doRequest(e, http.MethodGet, "/?password=anything")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, pipe.runs)
}

func TestTrigger_PipelineFailureBecomes500(t *testing.T) {
	pipe := &fakePipeline{report: models.OutcomeReport{Success: false, Error: "telegram: unexpected status code: 403"}}
	e := newServer(config.Config{Environment: "development"}, pipe, nil)

	rec := doRequest(e, http.MethodPost, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var report models.OutcomeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.False(t, report.Success)
	require.Contains(t, report.Error, "403")
}

func TestTrigger_OtherMethodsGet405(t *testing.T) {
	pipe := &fakePipeline{report: models.OutcomeReport{Success: true}}
	e := newServer(config.Config{Environment: "development"}, pipe, nil)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := doRequest(e, method, "/")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
	require.Zero(t, pipe.runs)
}

func TestImageRoutes_ServeRetainedImages(t *testing.T) {
	st := store.NewMemoryStore(nil)
	e := newServer(config.Config{Environment: "development"}, &fakePipeline{}, st)

	rec := doRequest(e, http.MethodGet, "/images/last")
	require.Equal(t, http.StatusNotFound, rec.Code)

	id, err := st.Save(context.Background(), []byte("png-bytes"), time.Minute)
	require.NoError(t, err)

	rec = doRequest(e, http.MethodGet, "/images/last")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "png-bytes", rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/images/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec = doRequest(e, http.MethodGet, "/images/does-not-exist")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
