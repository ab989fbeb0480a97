package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/auth"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/files"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/http/middleware"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/logger"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/service"
)

const testSecret = "handler-test-secret"

const testDescription = "The intersection was completely blocked by an overturned lorry so I had no choice but to divert through the closed lane."

func init() {
	gin.SetMode(gin.TestMode)
}

type httpEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	citizen *model.User
	admin   *model.User
	admin2  *model.User
}

func newHTTPEnv(t *testing.T) *httpEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Appeal{},
		&model.AppealStatusHistory{},
		&model.AuditLog{},
		&model.Notification{},
	))

	citizen := &model.User{FullName: "Jane Perera", Email: "jane@example.com", Role: model.UserRoleCitizen, IsActive: true}
	admin := &model.User{FullName: "Admin One", Email: "admin1@example.com", Role: model.UserRoleAdmin, IsActive: true}
	admin2 := &model.User{FullName: "Admin Two", Email: "admin2@example.com", Role: model.UserRoleAdmin, IsActive: true}
	for _, u := range []*model.User{citizen, admin, admin2} {
		require.NoError(t, db.Create(u).Error)
	}

	log := logger.New("test")
	appealRepo := repository.NewAppealRepository(db)
	userRepo := repository.NewUserRepository(db)
	appealService := service.NewAppealService(
		appealRepo,
		service.NewAuditRecorder(repository.NewAuditLogRepository(db), log),
		service.NewNotifier(repository.NewNotificationRepository(db), userRepo, log),
	)
	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db))

	store, err := files.NewEvidenceStore(t.TempDir(), 5<<20)
	require.NoError(t, err)

	handler := NewHandler(appealService, notificationService, store, log)
	router := NewRouter(handler, middleware.Auth(auth.NewParser(testSecret)), "test")

	return &httpEnv{router: router, db: db, citizen: citizen, admin: admin, admin2: admin2}
}

func tokenFor(t *testing.T, u *model.User) string {
	t.Helper()
	claims := auth.Claims{
		UserID:   u.ID,
		Role:     u.Role,
		FullName: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (e *httpEnv) do(t *testing.T, req *http.Request, as *model.User) *httptest.ResponseRecorder {
	t.Helper()
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, as))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *httpEnv) createAppeal(t *testing.T, as *model.User, violationID string, withEvidence bool) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("violation_id", violationID))
	require.NoError(t, writer.WriteField("appeal_reason", "road-obstruction"))
	require.NoError(t, writer.WriteField("description", testDescription))
	if withEvidence {
		part, err := writer.CreateFormFile("evidence", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appeals", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.do(t, req, as)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestHealthz(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/appeals", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appeals", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeBody(t, rec)["error"])
}

func TestCreateAppealEndpoint(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.createAppeal(t, env.citizen, "TRF2026ABC", true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	appeal := body["data"].(map[string]interface{})["appeal"].(map[string]interface{})
	assert.Equal(t, "TRF2026ABC", appeal["violation_id"])
	assert.Equal(t, "pending", appeal["status"])
	assert.NotContains(t, appeal, "evidence_file")
}

func TestCreateAppealMissingEvidence(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.createAppeal(t, env.citizen, "TRF2026ABC", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fields := body["errors"].(map[string]interface{})
	assert.Equal(t, "Evidence upload is mandatory for all appeals. Please provide supporting documents.", fields["evidence"])
}

func TestCreateAppealRejectsMalformedViolationDate(t *testing.T) {
	env := newHTTPEnv(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("violation_id", "TRF2026ABC"))
	require.NoError(t, writer.WriteField("appeal_reason", "road-obstruction"))
	require.NoError(t, writer.WriteField("description", testDescription))
	require.NoError(t, writer.WriteField("violation_date", "31-12-2025"))
	part, err := writer.CreateFormFile("evidence", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appeals", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := env.do(t, req, env.citizen)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody(t, rec)["errors"].(map[string]interface{})
	assert.Equal(t, "Violation date must be an RFC 3339 timestamp or a YYYY-MM-DD date", fields["violation_date"])

	// nothing persisted on a rejected date
	var count int64
	require.NoError(t, env.db.Model(&model.Appeal{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateAppealRejectsBadFileType(t *testing.T) {
	env := newHTTPEnv(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("violation_id", "TRF2026ABC"))
	require.NoError(t, writer.WriteField("appeal_reason", "road-obstruction"))
	require.NoError(t, writer.WriteField("description", testDescription))
	part, err := writer.CreateFormFile("evidence", "malware.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appeals", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := env.do(t, req, env.citizen)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "only image files")
}

func TestDuplicateConflictShape(t *testing.T) {
	env := newHTTPEnv(t)

	first := env.createAppeal(t, env.citizen, "TRF2026ABC", true)
	require.Equal(t, http.StatusCreated, first.Code)
	firstID := decodeBody(t, first)["data"].(map[string]interface{})["appeal"].(map[string]interface{})["id"].(string)

	rec := env.createAppeal(t, env.citizen, "TRF2026ABC", true)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeBody(t, rec)
	existing := body["existing_appeal"].(map[string]interface{})
	assert.Equal(t, firstID, existing["id"])
	assert.Equal(t, "pending", existing["status"])
}

func TestTransitionErrorShape(t *testing.T) {
	env := newHTTPEnv(t)

	created := env.createAppeal(t, env.citizen, "TRF2026ABC", true)
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["data"].(map[string]interface{})["appeal"].(map[string]interface{})["id"].(string)

	payload := strings.NewReader(`{"status":"approved"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/appeals/%s/status", id), payload)
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(t, req, env.admin)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "pending", body["current_status"])
	assert.Equal(t, []interface{}{"under-review"}, body["allowed_transitions"])
}

func TestSelfReviewForbidden(t *testing.T) {
	env := newHTTPEnv(t)

	created := env.createAppeal(t, env.admin, "TRF2026ABC", true)
	require.Equal(t, http.StatusCreated, created.Code)
	id := decodeBody(t, created)["data"].(map[string]interface{})["appeal"].(map[string]interface{})["id"].(string)

	payload := strings.NewReader(`{"status":"under-review"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/appeals/%s/status", id), payload)
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(t, req, env.admin)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "cannot review your own appeal")
}

func TestGetAppealInvalidID(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/appeals/not-a-uuid", nil), env.citizen)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid appeal id", decodeBody(t, rec)["error"])
}

func TestGetAppealNotFound(t *testing.T) {
	env := newHTTPEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/appeals/"+uuid.NewString(), nil), env.citizen)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesForbiddenForCitizens(t *testing.T) {
	env := newHTTPEnv(t)

	for _, path := range []string{"/api/v1/appeals/admin/all", "/api/v1/appeals/admin/statistics"} {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, path, nil), env.citizen)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestListMyAppealsPagination(t *testing.T) {
	env := newHTTPEnv(t)

	for _, id := range []string{"ABC11111", "ABC22222", "ABC33333"} {
		rec := env.createAppeal(t, env.citizen, id, true)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/appeals?page=2&limit=2", nil), env.citizen)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total"])
	assert.EqualValues(t, 1, data["count"])
	assert.EqualValues(t, 2, data["pages"])
}
