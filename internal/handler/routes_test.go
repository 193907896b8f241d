package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/dispatch"
	"github.com/eduerp-dev/eduerp-api/internal/kv"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/service"
	"github.com/eduerp-dev/eduerp-api/internal/state"
	"github.com/eduerp-dev/eduerp-api/pkg/jobs"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
	"github.com/eduerp-dev/eduerp-api/pkg/storage"
)

type testApp struct {
	router *gin.Engine
	store  *state.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	validate := validator.New()
	gw := state.NewGateway(kv.NewMemory(), logger)
	store, report, err := state.Open(context.Background(), gw, logger)
	require.NoError(t, err)
	require.False(t, report.Corrupt())

	sessions := service.NewSessionService(gw, "test-secret", time.Hour, "eduerp-test", validate, logger)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	tracker := service.NewArtifactTracker()
	queueCfg := jobs.QueueConfig{Workers: 1, BufferSize: 4, Logger: logger}

	backups := service.NewBackupService(store, files, signer, tracker, queueCfg, logger)
	reports := service.NewReportService(store, files, signer, tracker, queueCfg, validate, logger)
	backups.Start(context.Background())
	reports.Start(context.Background())
	t.Cleanup(backups.Stop)
	t.Cleanup(reports.Stop)

	dispatcher := dispatch.New(logger)

	h := Handlers{
		Auth:       NewAuthHandler(sessions, nil),
		Navigation: NewNavigationHandler(dispatcher),
		Dashboard:  NewDashboardHandler(service.NewDashboardService(store, logger)),
		Students:   NewStudentHandler(service.NewStudentService(store, validate, logger)),
		Teachers:   NewTeacherHandler(service.NewTeacherService(store, validate, logger)),
		Courses:    NewCourseHandler(service.NewCourseService(store, validate, logger)),
		Attendance: NewAttendanceHandler(service.NewAttendanceService(store, validate, logger)),
		Fees:       NewFeeHandler(service.NewFeeService(store, validate, logger)),
		Exams:      NewExamHandler(service.NewExamService(store, validate, logger)),
		Library:    NewLibraryHandler(service.NewLibraryService(store, validate, logger)),
		Settings:   NewSettingsHandler(service.NewSettingsService(store, validate, logger)),
		Reports:    NewReportHandler(reports),
		Admin:      NewAdminHandler(service.NewImportService(store, logger), backups),
	}

	router := gin.New()
	RegisterRoutes(router, h, sessions)
	return &testApp{router: router, store: store}
}

func (a *testApp) login(t *testing.T, role models.UserRole) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"role": string(role)})
	w := a.do(t, http.MethodPost, "/auth/login", "", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	result, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	token, ok := result["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func (a *testApp) do(t *testing.T, method, path, token string, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/students", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, models.RoleAdmin)

	w := app.do(t, http.MethodGet, "/students", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "john.doe@email.com")

	payload := bytes.NewReader([]byte(`{"name":"Alice Green","email":"alice.green@email.com","course":"Biology","year":"1"}`))
	w = app.do(t, http.MethodPut, "/students", admin, payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":4`)

	w = app.do(t, http.MethodDelete, "/students/4", admin, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodGet, "/students/4", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModuleMiddlewareRefusesHiddenModules(t *testing.T) {
	app := newTestApp(t)
	student := app.login(t, models.RoleStudent)
	teacher := app.login(t, models.RoleTeacher)

	w := app.do(t, http.MethodGet, "/students", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "MODULE_HIDDEN")

	w = app.do(t, http.MethodGet, "/fees", teacher, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Students can see fees but the store refuses writes on readonly modules.
	w = app.do(t, http.MethodGet, "/fees", student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	payload := bytes.NewReader([]byte(`{"studentId":1,"amount":100,"status":"pending"}`))
	w = app.do(t, http.MethodPut, "/fees", student, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "READ_ONLY")
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	app := newTestApp(t)
	teacher := app.login(t, models.RoleTeacher)

	w := app.do(t, http.MethodPost, "/admin/backups", teacher, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/admin/factory-reset", teacher, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsUpdateOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, models.RoleAdmin)
	student := app.login(t, models.RoleStudent)

	w := app.do(t, http.MethodGet, "/settings", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EduERP School")

	payload := bytes.NewReader([]byte(`{"schoolName":"Northside Academy"}`))
	w = app.do(t, http.MethodPut, "/settings", student, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	payload = bytes.NewReader([]byte(`{"schoolName":"Northside Academy"}`))
	w = app.do(t, http.MethodPut, "/settings", admin, payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Northside Academy")
	// Untouched fields survive the merge.
	assert.Contains(t, w.Body.String(), "2024-2025")
}

func TestCSVImportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, models.RoleAdmin)

	csv := strings.Join([]string{
		"name,email,type,course,year",
		"Carol White,carol.white@email.com,student,History,2",
		"Bad Row,,student,History,2",
	}, "\n")
	w := app.do(t, http.MethodPost, "/admin/import/users", admin, bytes.NewReader([]byte(csv)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":1`)
	assert.Contains(t, w.Body.String(), `"errors":1`)

	_, found, err := app.store.FindStudent(models.RoleAdmin, "carol.white@email.com")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBackupRoundTripOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, models.RoleAdmin)

	w := app.do(t, http.MethodPost, "/admin/backups", admin, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)

	var token string
	require.Eventually(t, func() bool {
		w := app.do(t, http.MethodGet, "/admin/backups/"+id, admin, nil)
		if w.Code != http.StatusOK {
			return false
		}
		var env response.Envelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			return false
		}
		data, _ := env.Data.(map[string]interface{})
		if data["status"] != string(service.ArtifactCompleted) {
			return false
		}
		token, _ = data["token"].(string)
		return token != ""
	}, 3*time.Second, 20*time.Millisecond)

	w = app.do(t, http.MethodGet, "/admin/backups/download?token="+token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var bundle models.Backup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Len(t, bundle.Students, 3)
	assert.Len(t, bundle.Books, 2)
}
