package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traini8/traini8/internal/config"
	"github.com/traini8/traini8/internal/handler"
	"github.com/traini8/traini8/internal/logger"
	"github.com/traini8/traini8/internal/middleware"
	"github.com/traini8/traini8/internal/model"
	"github.com/traini8/traini8/internal/service"
)

type sliceStore struct {
	centers []model.TrainingCenter
}

func (s *sliceStore) Save(_ context.Context, tc *model.TrainingCenter) (*model.TrainingCenter, error) {
	saved := *tc
	saved.ID = int64(len(s.centers) + 1)
	s.centers = append(s.centers, saved)
	return &saved, nil
}

func (s *sliceStore) FindAll(_ context.Context) ([]model.TrainingCenter, error) {
	return s.centers, nil
}

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	cfg := &config.Config{
		RateLimiting: config.RateLimitingConfig{Enabled: true, Backend: "memory", Limit: limit, Window: time.Minute},
	}
	log := logger.Nop()
	svc := service.NewTrainingCenterService(&sliceStore{}, nil, log)
	h := handler.New(log, svc, nil)
	mw := middleware.New(nil, log, cfg)
	return New(h, mw, "/api/training-centers", []string{"*"})
}

const validBody = `{
	"centerName": "Skyline Academy",
	"centerCode": "SKY123456789",
	"address": {"detailedAddress": "4 Park St", "city": "Kolkata", "state": "West Bengal", "pincode": "700016"},
	"coursesOffered": ["Go"],
	"contactEmail": "hello@skyline.example",
	"contactPhone": "9123456780"
}`

func TestRouter_CreateThenList(t *testing.T) {
	r := newTestRouter(t, 10)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/training-centers/add", strings.NewReader(validBody)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/training-centers/get", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var centers []model.TrainingCenter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &centers))
	require.Len(t, centers, 1)
	assert.Equal(t, "SKY123456789", centers[0].CenterCode)
}

func TestRouter_MethodAndPathMatching(t *testing.T) {
	r := newTestRouter(t, 10)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/training-centers/add", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListIsNotRateLimited(t *testing.T) {
	r := newTestRouter(t, 1)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/training-centers/get", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/training-centers/add", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/training-centers/add", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_WriteLimitKeysOnHost(t *testing.T) {
	r := newTestRouter(t, 1)

	post := func(remoteAddr, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/training-centers/add", strings.NewReader(validBody))
		req.RemoteAddr = remoteAddr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, post("10.0.0.1:40001", ""))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:40002", ""))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:40003", "1.1.1.1"))
}
