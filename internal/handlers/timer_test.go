package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/KUKARAF/webtimer/internal/clock"
	"github.com/KUKARAF/webtimer/internal/models"
	"github.com/KUKARAF/webtimer/pkg/response"
	"github.com/KUKARAF/webtimer/pkg/timersync"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *clock.Manual) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.TimerRecord{}))

	clk := clock.NewManual(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	router := gin.New()
	th := NewTimerHandler(db, clk)
	router.POST("/timers", th.Create)
	router.GET("/timers", th.List)
	router.GET("/timers/:identifier", th.Get)
	router.DELETE("/timers/:identifier", th.Delete)
	router.GET("/health", NewHealthHandler(db).Check)
	return router, clk
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) timersync.TimerView {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view timersync.TimerView
	require.NoError(t, json.Unmarshal(raw, &view))
	return view
}

func decodeViews(t *testing.T, w *httptest.ResponseRecorder) []timersync.TimerView {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var views []timersync.TimerView
	require.NoError(t, json.Unmarshal(raw, &views))
	return views
}

func TestCreateTimer_JSON(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 300, "name": "coffee"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	view := decodeView(t, w)
	assert.NotEmpty(t, view.ID)
	require.NotNil(t, view.Name)
	assert.Equal(t, "coffee", *view.Name)
	assert.Equal(t, int64(300), view.TimeLeftSeconds)
	assert.False(t, view.Expired)
}

func TestCreateTimer_Form(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{}
	form.Set("duration_seconds", "120")
	form.Set("timer_name", "tea")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/timers", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeView(t, w)
	require.NotNil(t, view.Name)
	assert.Equal(t, "tea", *view.Name)
}

func TestCreateTimer_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing duration", `{"name": "x"}`},
		{"zero duration", `{"duration_seconds": 0}`},
		{"negative duration", `{"duration_seconds": -1}`},
		{"non-numeric duration", `{"duration_seconds": "soon"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/timers", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	// None of the failed creates persisted anything.
	w := doJSON(router, "GET", "/timers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeViews(t, w))
}

func TestCreateTimer_DuplicateName(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 60, "name": "dup"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/timers", `{"duration_seconds": 90, "name": "dup"}`)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestGetTimer_ByIDAndName(t *testing.T) {
	router, clk := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 60, "name": "lookup"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeView(t, w)

	clk.Advance(10 * time.Second)

	w = doJSON(router, "GET", "/timers/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(50), decodeView(t, w).TimeLeftSeconds)

	w = doJSON(router, "GET", "/timers/lookup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeView(t, w).ID)

	w = doJSON(router, "GET", "/timers/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTimer_ExpiredView(t *testing.T) {
	router, clk := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 5, "name": "done"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	clk.Advance(6 * time.Second)

	w = doJSON(router, "GET", "/timers/done", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeView(t, w)
	assert.True(t, view.Expired)
	assert.Equal(t, int64(0), view.TimeLeftSeconds)
}

func TestDeleteTimer(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 60, "name": "gone"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeView(t, w)

	w = doJSON(router, "DELETE", "/timers/gone", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/timers/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "second delete resolves nothing")

	w = doJSON(router, "GET", "/timers/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTimers_CreationOrder(t *testing.T) {
	router, clk := newTestRouter(t)

	w := doJSON(router, "POST", "/timers", `{"duration_seconds": 60, "name": "a"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/timers", `{"duration_seconds": 30, "name": "b"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	clk.Advance(5 * time.Second)

	w = doJSON(router, "GET", "/timers", "")
	require.Equal(t, http.StatusOK, w.Code)
	views := decodeViews(t, w)
	require.Len(t, views, 2)
	assert.Equal(t, "a", *views[0].Name)
	assert.Equal(t, "b", *views[1].Name)
	assert.Equal(t, int64(55), views[0].TimeLeftSeconds)
	assert.Equal(t, int64(25), views[1].TimeLeftSeconds)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "webtimer", body["service"])
}

func TestHealthDegradedWhenDatabaseUnavailable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.TimerRecord{}))

	router := gin.New()
	router.GET("/health", NewHealthHandler(db).Check)

	require.NoError(t, sqlDB.Close())

	w := doJSON(router, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])

	components, ok := body["components"].(map[string]interface{})
	require.True(t, ok)
	count, ok := components["live_timers"].(string)
	require.True(t, ok, "live_timers should carry an error string when the count fails")
	assert.Contains(t, count, "error:")
}
