package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/reasons"
	"github.com/aristath/limitup/internal/modules/review"
	"github.com/aristath/limitup/internal/modules/streaks"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource map[string][]domain.Record

func (s stubSource) Fetch(_ context.Context, date time.Time) (domain.RecordSet, error) {
	records, ok := s[domain.DateKey(date)]
	if !ok {
		return domain.RecordSet{}, domain.ErrSnapshotNotFound
	}
	return domain.RecordSet{TradeDate: date, Records: records}, nil
}

type stubCalendar struct{}

func (stubCalendar) PreviousTradingDay(date time.Time) (time.Time, error) {
	if date.Year() < 2020 {
		return time.Time{}, domain.ErrNoTradingDay
	}
	return date.AddDate(0, 0, -1), nil
}

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	tags := "AI+Chip"
	source := stubSource{
		"2024-10-08": {{Code: "600000", StreakDays: 2, ReasonTags: &tags}, {Code: "000001", StreakDays: 1}},
		"2024-10-07": {{Code: "600000", StreakDays: 1}},
		"2019-06-04": {},
	}
	service := review.NewService(source, stubCalendar{},
		reasons.NewAggregator(5, logger), streaks.NewGrouper(streaks.LocaleZH), nil, logger)

	router := chi.NewRouter()
	router.Route("/api", NewHandler(service, time.UTC, logger).RegisterRoutes)
	return router
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGetReview(t *testing.T) {
	router := setupRouter(t)

	w := get(t, router, "/api/reviews/2024-10-08")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "2024-10-07", data["previous_date"])

	metrics := data["metrics"].(map[string]interface{})
	assert.Equal(t, float64(2), metrics["total"])
	assert.Equal(t, float64(1), metrics["delta"])
	assert.Equal(t, "50", metrics["streak_ratio"])

	groups := data["groups"].([]interface{})
	require.Len(t, groups, 2)
	assert.Equal(t, "2连板", groups[0].(map[string]interface{})["label"])
	assert.Equal(t, "首板", groups[1].(map[string]interface{})["label"])
}

func TestHandleGetReview_Errors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"bad date", "/api/reviews/someday", http.StatusBadRequest},
		{"not ingested", "/api/reviews/2024-10-10", http.StatusNotFound},
		{"previous not ingested", "/api/reviews/2024-10-07", http.StatusNotFound},
		{"calendar failure", "/api/reviews/2019-06-04", http.StatusUnprocessableEntity},
		{"groups not ingested", "/api/reviews/2024-10-10/groups", http.StatusNotFound},
		{"history bad limit", "/api/reviews/history?limit=-1", http.StatusBadRequest},
		{"archived without archive", "/api/reviews/history/2024-10-08", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, get(t, router, tt.path).Code)
		})
	}
}

func TestHandleGetGroupsAndReasons(t *testing.T) {
	router := setupRouter(t)

	w := get(t, router, "/api/reviews/20241008/groups")
	require.Equal(t, http.StatusOK, w.Code)
	var groups map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
	assert.Len(t, groups["data"].([]interface{}), 2)

	w = get(t, router, "/api/reviews/2024-10-08/reasons")
	require.Equal(t, http.StatusOK, w.Code)
	var reasonsResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reasonsResp))
	counts := reasonsResp["data"].([]interface{})
	// AI:1 Chip:1 unknown:1
	assert.Len(t, counts, 3)
}

func TestHandleGetHistory_Empty(t *testing.T) {
	w := get(t, setupRouter(t), "/api/reviews/history")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["data"])
}
