package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pantrychef/internal/api"
	"pantrychef/internal/chef"
	"pantrychef/internal/config"
	"pantrychef/internal/pantry"
	"pantrychef/internal/platform/gemini"
	"pantrychef/internal/platform/openai"
)

// newTestRouter wires the real service to a model client that has no API key, so every
// model call fails as unauthorized without touching the network.
func newTestRouter(t *testing.T) (*gin.Engine, *pantry.Workspaces) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	log := zap.NewNop()
	model := openai.NewClient(cfg.OpenAI.BaseURL, "", cfg.OpenAI.Model, log)
	workspaces := pantry.NewWorkspaces(log)
	handler := api.NewHandler(chef.NewService(model, nil, log), workspaces, log, api.Settings{
		Provider:       cfg.Provider,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Timeout:        cfg.RequestTimeout,
	})
	return newRouter(cfg, handler), workspaces
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAnalyzeImage_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := post(r, "/api/analyze-image", `{}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"No image provided"}`, rr.Body.String())
}

func TestRecipes_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := post(r, "/api/recipes", `{"ingredients":[]}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"No ingredients provided"}`, rr.Body.String())
}

func TestDemoModeWithoutCredential(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := post(r, "/api/analyze-image", `{"image":"data:image/jpeg;base64,/9j/4AAQ"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var ingredients struct {
		Ingredients []string `json:"ingredients"`
		Demo        bool     `json:"demo"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ingredients))
	assert.True(t, ingredients.Demo)
	assert.Len(t, ingredients.Ingredients, 5)

	rr = post(r, "/api/recipes", `{"ingredients":[{"name":"tomatoes","quantity":"4"}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var recipes struct {
		Recipes []json.RawMessage `json:"recipes"`
		Demo    bool              `json:"demo"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recipes))
	assert.True(t, recipes.Demo)
	assert.Len(t, recipes.Recipes, 1)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"openai"}`, rr.Body.String())
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPageRoutes(t *testing.T) {
	r, workspaces := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/pantry", strings.NewReader("name=rice&quantity=1+cup"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	// Without a credential the page falls back to the sample recipe.
	req = httptest.NewRequest(http.MethodPost, "/pantry/recipes", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	ws := workspaces.Get(cookies[0].Value)
	assert.Equal(t, 1, ws.Pantry.Len())
	view := ws.Recipes.Snapshot()
	assert.True(t, view.Demo)
	assert.Equal(t, pantry.StatePopulated, view.State())
}

func TestNewModel(t *testing.T) {
	cfg := config.Default()

	model, closeModel, err := newModel(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeModel()
	assert.IsType(t, &openai.Client{}, model)

	cfg.Provider = config.ProviderGemini
	model, closeGemini, err := newModel(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeGemini()
	assert.IsType(t, &gemini.Client{}, model)
}

func TestSweep_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweep(ctx, pantry.NewWorkspaces(zap.NewNop()), time.Minute)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}
}
