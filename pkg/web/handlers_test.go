package web_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/nutriflow/nutriflow/pkg/mocks"
	"github.com/nutriflow/nutriflow/pkg/models"
	"github.com/nutriflow/nutriflow/pkg/persistence/file"
	"github.com/nutriflow/nutriflow/pkg/services"
	"github.com/nutriflow/nutriflow/pkg/session"
	"github.com/nutriflow/nutriflow/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-1"

func setupTestApp(t *testing.T) (*fiber.App, *mocks.MockPreferenceClient) {
	t.Helper()

	client := &mocks.MockPreferenceClient{}
	surveyService := services.NewSurvey(services.SurveyConfig{
		Persistence: file.NewPersistence(t.TempDir()),
		Sessions:    session.NewMemoryStore(&session.Identity{UserID: "user-1", Token: testToken}),
		Client:      client,
	})

	handlers := web.NewSurveyHandlers(surveyService, validator.New(validator.WithRequiredStructEnabled()), nil)

	app := fiber.New()
	handlers.Register(app)

	return app, client
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))

	return resp.StatusCode, decoded
}

func answer(value string) web.AnswerRequest {
	return web.AnswerRequest{Value: value}
}

func TestSurveyHandlers_Unauthorized(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "unknown token", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/survey", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "identity_missing", body["type"])

			nav, ok := body["navigation"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "sign_in", nav["action"])
		})
	}
}

func TestSurveyHandlers_GetSurveyAndSteps(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/survey", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "name", body["state"])

	progress := body["progress"].(map[string]any)
	assert.InDelta(t, 1, progress["position"], 0)
	assert.InDelta(t, 22, progress["total"], 0)

	status, body = doRequest(t, app, http.MethodGet, "/survey/steps", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 22, body["total"], 0)
	assert.Len(t, body["steps"], 22)
}

func TestSurveyHandlers_PostAnswer(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/survey/answers", answer("Ada Lovelace"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "email", body["state"])
	assert.Equal(t, "Ada Lovelace", body["draft"].(map[string]any)["full_name"])
	assert.Equal(t, "advance", body["navigation"].(map[string]any)["action"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/answers", answer("not-an-email"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_rejected", body["type"])
	assert.Equal(t, "email", body["step"])
	assert.Equal(t, "email", body["flow"].(map[string]any)["state"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/answers", web.AnswerRequest{Step: "name", Value: "Ada"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "wrong_step", body["type"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/answers", "{invalid")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["type"])
}

func TestSurveyHandlers_BackAndForward(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/survey/answers", answer("Ada Lovelace"))
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodPost, "/survey/back", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "name", body["state"])
	assert.Equal(t, "Ada Lovelace", body["draft"].(map[string]any)["full_name"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/forward", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "email", body["state"])
}

func TestSurveyHandlers_PostIngredients(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	tests := []struct {
		name           string
		path           string
		body           any
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "empty ids",
			path:           "/survey/ingredients/favorite/toggle",
			body:           web.IngredientsRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:           "unknown kind",
			path:           "/survey/ingredients/loved/toggle",
			body:           web.IngredientsRequest{IDs: []string{"ing-rice"}},
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:           "not on an ingredient step",
			path:           "/survey/ingredients/favorite/toggle",
			body:           web.IngredientsRequest{IDs: []string{"ing-rice"}},
			expectedStatus: http.StatusConflict,
			expectedType:   "wrong_step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedType, body["type"])
		})
	}
}

func TestSurveyHandlers_SubmitFromWrongStep(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/survey/submit", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "wrong_step", body["type"])
}

func TestSurveyHandlers_FullFlow(t *testing.T) {
	t.Parallel()

	app, client := setupTestApp(t)

	answers := []web.AnswerRequest{
		answer("Ada Lovelace"), answer("ada@example.com"), answer("female"), answer("36"),
		answer("165"), answer("70"), answer("64"), answer("lose_weight"), answer("moderate"),
		answer("vegetarian"), {Values: []string{"none"}}, answer("3"), answer("beginner"),
		answer("30"), answer("low"), {Values: []string{"thai"}},
	}

	for _, a := range answers {
		status, body := doRequest(t, app, http.MethodPost, "/survey/answers", a)
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body := doRequest(t, app, http.MethodPost, "/survey/ingredients/favorite/toggle",
		web.IngredientsRequest{IDs: []string{"ing-rice"}})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "favorite_ingredients", body["state"])
	assert.Equal(t, []any{"ing-rice"}, body["draft"].(map[string]any)["favorite_ingredient_ids"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/forward", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "hated_ingredients", body["state"])

	for _, a := range []web.AnswerRequest{{Values: []string{"ing-okra"}}, answer("2"), answer("25"), answer("7.5")} {
		status, body := doRequest(t, app, http.MethodPost, "/survey/answers", a)
		require.Equal(t, http.StatusOK, status, body)
	}

	client.On("Create", mock.Anything, testToken, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	status, body = doRequest(t, app, http.MethodPost, "/survey/answers", web.AnswerRequest{Step: "consent", Value: "yes"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "remote_submission_failed", body["type"])
	assert.Equal(t, "consent", body["flow"].(map[string]any)["state"])

	client.On("Create", mock.Anything, testToken, mock.Anything).
		Return(&models.RemoteRecord{ID: "pref-1"}, nil).Once()

	status, body = doRequest(t, app, http.MethodPost, "/survey/submit", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "terminal", body["state"])
	assert.Equal(t, "pref-1", body["record"].(map[string]any)["id"])

	nav := body["navigation"].(map[string]any)
	assert.Equal(t, "exit", nav["action"])
	assert.Equal(t, "home", nav["screen"])

	status, body = doRequest(t, app, http.MethodPost, "/survey/back", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "flow_completed", body["type"])

	client.AssertExpectations(t)
}

func TestSurveyHandlers_DeleteSurvey(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	for _, a := range []web.AnswerRequest{answer("Ada Lovelace"), answer("ada@example.com")} {
		status, _ := doRequest(t, app, http.MethodPost, "/survey/answers", a)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := doRequest(t, app, http.MethodDelete, "/survey", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "name", body["state"])
	assert.Empty(t, body["draft"].(map[string]any)["full_name"])
}

func TestSurveyHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Persistence layer is healthy", body["checkers"].(map[string]any)["repository"])
}
