package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmwork/database"
	"farmwork/entities"
	asgCtrlImp "farmwork/pkg/assignment/controllerImp"
	asgRepoImp "farmwork/pkg/assignment/repositoryImp"
	asgSvcImp "farmwork/pkg/assignment/serviceImp"
	authCtrlImp "farmwork/pkg/auth/controllerImp"
	healthCtrlImp "farmwork/pkg/health/controllerImp"
	"farmwork/pkg/logging"
	"farmwork/pkg/metrics"
	"farmwork/pkg/middleware"
)

var jwtSecret = []byte("router-test")

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Data          json.RawMessage `json:"data"`
	Meta          json.RawMessage `json:"meta"`
	Error         string          `json:"error"`
	Path          string          `json:"path"`
	StatusCode    int             `json:"statusCode"`
	Field         string          `json:"field"`
	ConflictingID string          `json:"conflictingId"`
}

type harness struct {
	t *testing.T
	e *echo.Echo
}

func newHarness(t *testing.T, withJWT bool) *harness {
	t.Helper()
	db, err := database.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.Create(&entities.Zone{ID: "zone-1", Name: "East"}).Error)
	require.NoError(t, db.Create(&entities.LandPlot{ID: "plot-1", Name: "North", Area: 500, ZoneID: "zone-1"}).Error)
	require.NoError(t, db.Create(&entities.Worker{ID: "worker-1", Name: "Ana", Email: "ana@example.com", Role: entities.RoleWorker}).Error)

	log := logging.NewTest(t)
	reg := prometheus.NewRegistry()
	svc := asgSvcImp.NewAssignmentService(asgRepoImp.New(db),
		asgSvcImp.WithLogger(log),
		asgSvcImp.WithMetrics(metrics.NewPrometheus(reg, "farmwork")))

	opt := Options{
		Log:      log,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		DevToken: true,
	}
	if withJWT {
		opt.Auth = middleware.JWT(jwtSecret)
	}
	e := New(echo.New(), asgCtrlImp.New(svc), authCtrlImp.NewAuthController(jwtSecret),
		healthCtrlImp.NewHealthCtrl(db, log), opt)
	return &harness{t: t, e: e}
}

func (h *harness) do(method, path, body string, header ...string) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

const soilPrep = `{
	"workerId": "worker-1",
	"landPlotId": "plot-1",
	"workDate": "2024-01-20",
	"startTime": "2024-01-20T08:00:00Z",
	"endTime": "2024-01-20T12:00:00Z",
	"hourlyRate": 15,
	"task": "Soil Prep",
	"landArea": 100
}`

func TestAssignmentScenarioOverHTTP(t *testing.T) {
	h := newHarness(t, false)

	rec, env := h.do(http.MethodPost, "/api/v1/assignments", soilPrep)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)
	var a entities.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, entities.StatusAssigned, a.Status)
	assert.Equal(t, entities.PaymentPending, a.PaymentStatus)
	assert.Equal(t, "Ana", a.Worker.Name)
	assert.Equal(t, "East", a.LandPlot.Zone.Name)

	clash := strings.Replace(strings.Replace(soilPrep, "T08:00", "T10:00", 1), "T12:00", "T11:00", 1)
	rec, env = h.do(http.MethodPost, "/api/v1/assignments", clash)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "CONFLICT", env.Error)
	assert.Equal(t, "Time conflict with existing assignment on this land plot", env.Message)
	assert.Equal(t, a.ID, env.ConflictingID)
	assert.Equal(t, "/api/v1/assignments", env.Path)
	assert.Equal(t, http.StatusConflict, env.StatusCode)

	rec, _ = h.do(http.MethodPost, "/api/v1/assignments/"+a.ID+"/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = h.do(http.MethodPost, "/api/v1/assignments/"+a.ID+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, entities.StatusCompleted, a.Status)

	rec, env = h.do(http.MethodDelete, "/api/v1/assignments/"+a.ID, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Cannot delete completed assignment", env.Message)

	rec, env = h.do(http.MethodPost, "/api/v1/assignments/"+a.ID+"/start", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error)
}

func TestCreateValidationOverHTTP(t *testing.T) {
	h := newHarness(t, false)

	rec, env := h.do(http.MethodPost, "/api/v1/assignments", strings.Replace(soilPrep, `"landArea": 100`, `"landArea": 0`, 1))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Equal(t, "landArea", env.Field)

	rec, env = h.do(http.MethodPost, "/api/v1/assignments", strings.Replace(soilPrep, "T12:00", "T07:00", 1))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "endTime", env.Field)

	rec, _ = h.do(http.MethodPost, "/api/v1/assignments", `{"workerId":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = h.do(http.MethodPost, "/api/v1/assignments", strings.Replace(soilPrep, "worker-1", "ghost", 1))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", env.Error)
	assert.Equal(t, "Worker with id ghost not found", env.Message)
}

func TestListAndQueriesOverHTTP(t *testing.T) {
	h := newHarness(t, false)
	rec, _ := h.do(http.MethodPost, "/api/v1/assignments", soilPrep)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := h.do(http.MethodGet, "/api/v1/assignments?limit=5&sortBy=startTime&sortOrder=asc&status=assigned", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []entities.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
	assert.JSONEq(t, `{"page":1,"limit":5,"total":1,"totalPages":1,"hasNext":false,"hasPrev":false}`, string(env.Meta))

	rec, env = h.do(http.MethodGet, "/api/v1/assignments?limit=500", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit", env.Field)

	rec, env = h.do(http.MethodGet, "/api/v1/assignments?page=two", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page", env.Field)

	rec, env = h.do(http.MethodGet, "/api/v1/assignments/by-date?date=2024-01-20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)

	rec, env = h.do(http.MethodGet, "/api/v1/assignments/worker/worker-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)

	rec, _ = h.do(http.MethodGet, "/api/v1/assignments/worker/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = h.do(http.MethodGet, "/api/v1/assignments/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"totalAssignments": 1,
		"assignmentsByStatus": [{"status":"ASSIGNED","count":1}],
		"assignmentsByPaymentStatus": [{"paymentStatus":"PENDING","count":1}]
	}`, string(env.Data))

	rec, _ = h.do(http.MethodGet, "/api/v1/assignments/payroll.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "payroll.xlsx")
	assert.Equal(t, "PK", rec.Body.String()[:2], "xlsx is a zip archive")
}

func TestPatchOverHTTP(t *testing.T) {
	h := newHarness(t, false)
	_, env := h.do(http.MethodPost, "/api/v1/assignments", soilPrep)
	var a entities.Assignment
	require.NoError(t, json.Unmarshal(env.Data, &a))

	rec, env := h.do(http.MethodPatch, "/api/v1/assignments/"+a.ID, `{"endTime":"2024-01-20T13:00:00Z","paymentStatus":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.True(t, a.EndTime.Equal(time.Date(2024, 1, 20, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, entities.PaymentPaid, a.PaymentStatus)

	rec, env = h.do(http.MethodPatch, "/api/v1/assignments/"+a.ID+"/status", `{"status":"CANCELLED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, entities.StatusCancelled, a.Status)

	rec, env = h.do(http.MethodPatch, "/api/v1/assignments/"+a.ID+"/status", `{"status":"DONE"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status", env.Field)

	rec, _ = h.do(http.MethodDelete, "/api/v1/assignments/"+a.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = h.do(http.MethodGet, "/api/v1/assignments/"+a.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleGate(t *testing.T) {
	h := newHarness(t, true)

	rec, env := h.do(http.MethodGet, "/api/v1/assignments", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	worker, err := middleware.IssueToken(jwtSecret, "worker-1", entities.RoleWorker, time.Hour)
	require.NoError(t, err)
	rec, env = h.do(http.MethodPost, "/api/v1/assignments", soilPrep, echo.HeaderAuthorization, "Bearer "+worker)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	rec, _ = h.do(http.MethodGet, "/api/v1/assignments", "", echo.HeaderAuthorization, "Bearer "+worker)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = h.do(http.MethodGet, "/devlogin?uid=owner-1&role=FARM_OWNER", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct{ Token string }
	require.NoError(t, json.Unmarshal(env.Data, &tok))

	rec, _ = h.do(http.MethodPost, "/api/v1/assignments", soilPrep, echo.HeaderAuthorization, "Bearer "+tok.Token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = h.do(http.MethodGet, "/whoami", "", echo.HeaderAuthorization, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sub":"owner-1","role":"FARM_OWNER"}`, string(env.Data))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, false)

	rec, _ := h.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"overlap_guards":{"ok":true}`)

	h.do(http.MethodPost, "/api/v1/assignments", soilPrep)
	h.do(http.MethodPost, "/api/v1/assignments", soilPrep)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	h.e.ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	body := mrec.Body.String()
	assert.Contains(t, body, "farmwork_assignments_created_total 1")
	assert.Contains(t, body, `farmwork_assignments_conflicts_total{kind="time_overlap"} 1`)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newHarness(t, false)
	rec, env := h.do(http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", env.Error)
	assert.Equal(t, "/nope", env.Path)
}
