package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/config"
	"fitnote/planner/internal/repository/file"
	"fitnote/planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)
	kv, err := file.NewFileKVRepository(afero.NewMemMapFs(), "/store")
	require.NoError(t, err)

	user := config.AuthConfig{UserID: "test-user-123", Email: "test@example.com", Name: "Test User"}
	authService := service.NewAuthService(kv, user, "test-secret", time.Hour)
	planService := service.NewPlanService(context.Background(), service.NewPlanStore(kv, time.Second), catalog.Default())

	router := gin.New()
	SetupRoutes(router, authService, planService, catalog.Default(), nil)
	api := &testAPI{router: router}

	w := api.do(t, http.MethodPost, "/api/v1/auth/signin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SignInResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	api.token = resp.Token
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/v1/plan", nil).Code)

	api.token = "not.a.jwt"
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/v1/plan", nil).Code)
}

func TestSignOutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/v1/plan", nil).Code)

	session := decode[SessionResponse](t, api.do(t, http.MethodGet, "/api/v1/auth/session", nil))
	assert.Equal(t, "test-user-123", session.UserID)

	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodPost, "/api/v1/auth/signout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/v1/plan", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/auth/session", nil).Code)
}

func TestCatalogSearch(t *testing.T) {
	api := newTestAPI(t)

	all := decode[[]CatalogEntryResponse](t, api.do(t, http.MethodGet, "/api/v1/catalog", nil))
	assert.Len(t, all, catalog.Default().Len())

	bench := decode[[]CatalogEntryResponse](t, api.do(t, http.MethodGet, "/api/v1/catalog?q=BENCH", nil))
	require.NotEmpty(t, bench)
	assert.Equal(t, "Bench Press", bench[0].Name)

	none := decode[[]CatalogEntryResponse](t, api.do(t, http.MethodGet, "/api/v1/catalog?q=zzz", nil))
	assert.Empty(t, none)

	categories := decode[[]string](t, api.do(t, http.MethodGet, "/api/v1/catalog/categories", nil))
	assert.Contains(t, categories, "Resistance Band")
}

func TestBuildPlanOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/plan/sections", gin.H{"title": "Leg Day"})
	require.Equal(t, http.StatusCreated, w.Code)
	section := decode[SectionResponse](t, w)
	assert.Empty(t, section.Workouts)

	base := "/api/v1/plan/sections/" + section.ID + "/workouts"
	w = api.do(t, http.MethodPost, base, gin.H{"catalogName": "squat"})
	require.Equal(t, http.StatusCreated, w.Code)
	squat := decode[WorkoutResponse](t, w)
	assert.Equal(t, "Squat", squat.Name)
	assert.Nil(t, squat.Detail)

	w = api.do(t, http.MethodPost, base, gin.H{"name": "Farmer Carry", "category": "Strength"})
	require.Equal(t, http.StatusCreated, w.Code)
	carry := decode[WorkoutResponse](t, w)

	w = api.do(t, http.MethodPatch, base+"/"+squat.ID, gin.H{"sets": "3", "reps": "10"})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodPatch, base+"/"+carry.ID, gin.H{"detail": "40 m"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, base+"/reorder", gin.H{"from": 1, "to": 0})
	require.Equal(t, http.StatusOK, w.Code)

	plan := decode[PlanResponse](t, api.do(t, http.MethodGet, "/api/v1/plan", nil))
	require.Len(t, plan.Sections, 1)
	workouts := plan.Sections[0].Workouts
	require.Len(t, workouts, 2)
	assert.Equal(t, carry.ID, workouts[0].ID)
	require.NotNil(t, workouts[0].Detail)
	assert.Equal(t, "40 m", *workouts[0].Detail)
	require.NotNil(t, workouts[1].Detail)
	assert.Equal(t, "3 sets x 10 reps", *workouts[1].Detail)

	w = api.do(t, http.MethodPatch, base+"/"+carry.ID, gin.H{"detail": "  "})
	require.Equal(t, http.StatusOK, w.Code)
	plan = decode[PlanResponse](t, w)
	assert.Nil(t, plan.Sections[0].Workouts[0].Detail)

	w = api.do(t, http.MethodDelete, base+"/"+carry.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PlanResponse](t, w).Sections[0].Workouts, 1)

	w = api.do(t, http.MethodDelete, "/api/v1/plan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[PlanResponse](t, w).Sections)
}

func TestValidationStatusCodes(t *testing.T) {
	api := newTestAPI(t)
	section := decode[SectionResponse](t, api.do(t, http.MethodPost, "/api/v1/plan/sections", gin.H{"title": "A"}))
	missing := uuid.NewString()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"blank title", http.MethodPost, "/api/v1/plan/sections", gin.H{"title": "  "}, http.StatusBadRequest},
		{"missing title", http.MethodPost, "/api/v1/plan/sections", gin.H{}, http.StatusBadRequest},
		{"bad section id", http.MethodDelete, "/api/v1/plan/sections/nope", nil, http.StatusBadRequest},
		{"unknown section", http.MethodPatch, "/api/v1/plan/sections/" + missing, gin.H{"title": "B"}, http.StatusNotFound},
		{"unknown workout", http.MethodDelete, "/api/v1/plan/sections/" + section.ID + "/workouts/" + missing, nil, http.StatusNotFound},
		{"unknown catalog name", http.MethodPost, "/api/v1/plan/sections/" + section.ID + "/workouts", gin.H{"catalogName": "Moon Walk"}, http.StatusBadRequest},
		{"unknown category", http.MethodPost, "/api/v1/plan/sections/" + section.ID + "/workouts", gin.H{"name": "Row", "category": "Rowing"}, http.StatusBadRequest},
		{"ambiguous workout", http.MethodPost, "/api/v1/plan/sections/" + section.ID + "/workouts", gin.H{"name": "Row", "catalogName": "Squat"}, http.StatusBadRequest},
		{"empty update", http.MethodPatch, "/api/v1/plan/sections/" + section.ID + "/workouts/" + missing, gin.H{}, http.StatusBadRequest},
		{"reorder out of range", http.MethodPost, "/api/v1/plan/sections/reorder", gin.H{"from": 0, "to": 5}, http.StatusBadRequest},
		{"reorder missing field", http.MethodPost, "/api/v1/plan/sections/reorder", gin.H{"from": 0}, http.StatusBadRequest},
		{"export without s3", http.MethodGet, "/api/v1/plan/export", nil, http.StatusNotImplemented},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestStreamPlanEvents(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/plan/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	nextPlan := func() PlanResponse {
		for scanner.Scan() {
			if data, ok := strings.CutPrefix(scanner.Text(), "data:"); ok {
				var p PlanResponse
				require.NoError(t, json.Unmarshal([]byte(data), &p))
				return p
			}
		}
		t.Fatalf("stream ended: %v", scanner.Err())
		return PlanResponse{}
	}

	assert.Empty(t, nextPlan().Sections)

	w := api.do(t, http.MethodPost, "/api/v1/plan/sections", gin.H{"title": "Streamed"})
	require.Equal(t, http.StatusCreated, w.Code)

	p := nextPlan()
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "Streamed", p.Sections[0].Title)
}
