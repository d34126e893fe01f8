package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/handlers"
	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/server"
	"github.com/mapleroad/mapleroad-backend/internal/services"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(
		&types.User{},
		&types.RoadmapStep{},
		&types.Entry{},
		&types.UserStepProgress{},
		&types.UserStepMetric{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	userRepo := repos.NewUserRepo(database, log)
	entryRepo := repos.NewEntryRepo(database, log)
	stepRepo := repos.NewRoadmapStepRepo(database, log)
	progressRepo := repos.NewUserStepProgressRepo(database, log)
	metricRepo := repos.NewUserStepMetricRepo(database, log)

	return server.NewRouter(server.RouterConfig{
		EntryHandler:    handlers.NewEntryHandler(log, services.NewEntryService(database, log, entryRepo)),
		StepHandler:     handlers.NewRoadmapStepHandler(log, services.NewRoadmapStepService(database, log, stepRepo)),
		ProgressHandler: handlers.NewProgressHandler(log, services.NewProgressService(database, log, progressRepo)),
		MetricHandler:   handlers.NewMetricHandler(log, services.NewMetricService(database, log, metricRepo)),
		UserHandler:     handlers.NewUserHandler(log, services.NewUserService(database, log, userRepo)),
	})
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	router := newTestServer(t)
	w := do(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Fatalf("got %+v", body)
	}
}

func entryPayload(date string) map[string]any {
	return map[string]any{
		"date":     date,
		"type":     "expense",
		"name":     "Groceries",
		"category": "Food",
		"amount":   42.50,
	}
}

func TestEntryCreateReturnsDerivedFields(t *testing.T) {
	router := newTestServer(t)
	w := do(t, router, http.MethodPost, "/entries", entryPayload("2024-12-31"))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	decode(t, w, &body)
	if body["year"] != float64(2024) || body["month"] != float64(12) {
		t.Fatalf("derived fields wrong: %+v", body)
	}
	if body["currency"] != "CAD" {
		t.Fatalf("currency default missing: %+v", body)
	}
	if body["id"] == "" || body["id"] == nil {
		t.Fatalf("missing id: %+v", body)
	}
}

func TestEntryAmountSerializesAsNumber(t *testing.T) {
	router := newTestServer(t)
	w := do(t, router, http.MethodPost, "/entries", entryPayload("2024-12-31"))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	raw := w.Body.String()
	if !strings.Contains(raw, `"amount":42.5`) {
		t.Fatalf("amount not a JSON number: %s", raw)
	}
	if strings.Contains(raw, `"amount":"`) {
		t.Fatalf("amount serialized as a quoted string: %s", raw)
	}
}

func TestEntryCreateValidation(t *testing.T) {
	router := newTestServer(t)

	bad := entryPayload("2024-12-31")
	bad["amount"] = -5
	if w := do(t, router, http.MethodPost, "/entries", bad); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative amount: got %d", w.Code)
	}

	bad = entryPayload("2024-12-31")
	bad["type"] = "transfer"
	if w := do(t, router, http.MethodPost, "/entries", bad); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad type: got %d", w.Code)
	}

	bad = entryPayload("2024-02-30")
	if w := do(t, router, http.MethodPost, "/entries", bad); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("impossible date: got %d", w.Code)
	}

	bad = entryPayload("2024-12-31")
	delete(bad, "name")
	if w := do(t, router, http.MethodPost, "/entries", bad); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing name: got %d", w.Code)
	}
}

func TestEntryListLimitCeiling(t *testing.T) {
	router := newTestServer(t)

	if w := do(t, router, http.MethodGet, "/entries?limit=501", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("limit=501: got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/entries?limit=500", nil); w.Code != http.StatusOK {
		t.Fatalf("limit=500: got %d", w.Code)
	}
}

func TestEntryPatchRecomputesYearMonth(t *testing.T) {
	router := newTestServer(t)

	w := do(t, router, http.MethodPost, "/entries", entryPayload("2024-06-10"))
	var created map[string]any
	decode(t, w, &created)
	id := created["id"].(string)

	w = do(t, router, http.MethodPatch, "/entries/"+id, map[string]any{"date": "2023-06-15"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: got %d: %s", w.Code, w.Body.String())
	}
	var patched map[string]any
	decode(t, w, &patched)
	if patched["year"] != float64(2023) || patched["month"] != float64(6) {
		t.Fatalf("year/month not recomputed: %+v", patched)
	}
	if patched["name"] != "Groceries" {
		t.Fatalf("untouched field changed: %+v", patched)
	}
}

func TestEntryDeleteContract(t *testing.T) {
	router := newTestServer(t)

	if w := do(t, router, http.MethodDelete, "/entries/6b1e6a6e-2f8f-4a3c-9d5e-0f1a2b3c4d5e", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing id: got %d", w.Code)
	}

	w := do(t, router, http.MethodPost, "/entries", entryPayload("2024-06-10"))
	var created map[string]any
	decode(t, w, &created)
	id := created["id"].(string)

	w = do(t, router, http.MethodDelete, "/entries/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: got %d", w.Code)
	}
	var body map[string]any
	decode(t, w, &body)
	if body["deleted"] != true || body["mode"] != "hard" || body["id"] != id {
		t.Fatalf("delete envelope wrong: %+v", body)
	}

	if w := do(t, router, http.MethodDelete, "/entries/"+id, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", w.Code)
	}
}

func TestRoadmapStepConflict(t *testing.T) {
	router := newTestServer(t)

	payload := map[string]any{
		"key":        "debt",
		"title":      "Eliminate High-Interest Debt",
		"subtitle":   "Stop interest bleeding",
		"step_order": 2,
	}
	if w := do(t, router, http.MethodPost, "/roadmap-steps", payload); w.Code != http.StatusOK {
		t.Fatalf("create: got %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/roadmap-steps", payload); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: got %d, want 409", w.Code)
	}

	var steps []map[string]any
	list := do(t, router, http.MethodGet, "/roadmap-steps", nil)
	decode(t, list, &steps)
	if len(steps) != 1 {
		t.Fatalf("duplicate row created: %d", len(steps))
	}
}

func TestProgressEndpoints(t *testing.T) {
	router := newTestServer(t)

	// user_id is mandatory on every progress route
	if w := do(t, router, http.MethodGet, "/user-steps-progress", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing user_id: got %d", w.Code)
	}

	upsert := map[string]any{"user_id": "u1", "step_key": "debt", "progress": 40}
	w := do(t, router, http.MethodPut, "/user-steps-progress", upsert)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: got %d: %s", w.Code, w.Body.String())
	}
	var created map[string]any
	decode(t, w, &created)

	upsert["progress"] = 90
	w = do(t, router, http.MethodPut, "/user-steps-progress", upsert)
	var updated map[string]any
	decode(t, w, &updated)
	if updated["id"] != created["id"] {
		t.Fatalf("upsert changed row identity")
	}
	if updated["progress"] != float64(90) {
		t.Fatalf("progress not updated: %+v", updated)
	}

	upsert["progress"] = 150
	if w := do(t, router, http.MethodPut, "/user-steps-progress", upsert); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("progress=150: got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/user-steps-progress/debt?user_id=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/user-steps-progress/missing?user_id=u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: got %d", w.Code)
	}

	w = do(t, router, http.MethodDelete, "/user-steps-progress/debt?user_id=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: got %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/user-steps-progress/debt?user_id=u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", w.Code)
	}
}

func TestMetricEndpoints(t *testing.T) {
	router := newTestServer(t)

	upsert := map[string]any{
		"user_id":    "u1",
		"step_key":   "starter-fund",
		"metric_key": "savings_balance",
		"value_num":  1000.00,
	}
	w := do(t, router, http.MethodPut, "/user-step-metrics", upsert)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"value_num":1000`) {
		t.Fatalf("value_num not a JSON number: %s", w.Body.String())
	}

	bulk := []map[string]any{
		{"user_id": "u1", "step_key": "debt", "metric_key": "debt_balance", "value_num": 4000},
		{"user_id": "u1", "step_key": "debt", "metric_key": "monthly_payment", "value_num": 350},
	}
	w = do(t, router, http.MethodPut, "/user-step-metrics/bulk", bulk)
	if w.Code != http.StatusOK {
		t.Fatalf("bulk upsert: got %d: %s", w.Code, w.Body.String())
	}
	var rows []map[string]any
	decode(t, w, &rows)
	if len(rows) != 2 || rows[0]["metric_key"] != "debt_balance" || rows[1]["metric_key"] != "monthly_payment" {
		t.Fatalf("bulk order wrong: %+v", rows)
	}

	w = do(t, router, http.MethodGet, "/user-step-metrics?user_id=u1&step_key=debt", nil)
	decode(t, w, &rows)
	if len(rows) != 2 {
		t.Fatalf("step filter: got %d rows", len(rows))
	}
	w = do(t, router, http.MethodGet, "/user-step-metrics?user_id=u1", nil)
	decode(t, w, &rows)
	if len(rows) != 3 {
		t.Fatalf("full list: got %d rows", len(rows))
	}
}

func TestUserCreateEndpoint(t *testing.T) {
	router := newTestServer(t)

	payload := map[string]any{"email": "a@example.com", "password": "hunter2hunter2"}
	w := do(t, router, http.MethodPost, "/users", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("create: got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}

	if w := do(t, router, http.MethodPost, "/users", payload); w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: got %d", w.Code)
	}
	bad := map[string]any{"email": "not-an-email", "password": "hunter2hunter2"}
	if w := do(t, router, http.MethodPost, "/users", bad); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad email: got %d", w.Code)
	}
}
