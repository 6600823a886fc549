package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carsurvey/internal/cache"
	"carsurvey/internal/config"
	"carsurvey/internal/model"
	"carsurvey/internal/repository"
	"carsurvey/internal/service"
	"carsurvey/internal/transport/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := repository.NewMemoryResponseRepo()
	authSvc := service.NewAuthService("admin", "password123", "test-secret", time.Hour)
	statsSvc := service.NewStatisticsService(repo)
	questionnaireSvc := service.NewQuestionnaireService(repo, cache.NewMemorySessionCache(time.Hour), statsSvc, authSvc)
	hub := ws.NewHub()
	questionnaireSvc.SetBroadcaster(hub)

	srv := httptest.NewServer(NewRouter(&Container{
		AuthService:          authSvc,
		QuestionnaireService: questionnaireSvc,
		StatisticsService:    statsSvc,
		WSHub:                hub,
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PATCH, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestQuestionnaireFlow(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/v1"

	var started model.StartSessionResponse
	require.Equal(t, http.StatusCreated, do(t, "POST", api+"/sessions", "", nil, &started))
	id, token := started.Session.ID, started.Token
	assert.Equal(t, model.StateAgeGender, started.Session.State)

	var other model.StartSessionResponse
	require.Equal(t, http.StatusCreated, do(t, "POST", api+"/sessions", "", nil, &other))

	assert.Equal(t, http.StatusUnauthorized, do(t, "GET", api+"/sessions/"+id, "", nil, nil))
	assert.Equal(t, http.StatusForbidden, do(t, "GET", api+"/sessions/"+id, other.Token, nil, nil))

	// Raw form values: numbers as strings or numbers
	patch := map[string]interface{}{
		"age":                    "30",
		"gender":                 "Other",
		"hasLicense":             "Yes",
		"drivetrainOption":       "RWD",
		"isWorriedFuelEmissions": "No",
		"carNumber":              1,
	}
	var session model.Session
	require.Equal(t, http.StatusOK, do(t, "PATCH", api+"/sessions/"+id+"/answers", token, patch, &session))
	assert.Equal(t, model.StateCarDetails, session.State)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, "POST", api+"/sessions/"+id+"/submit", token, nil, nil))

	cars := map[string]interface{}{
		"cars": []map[string]interface{}{{"index": 0, "make": "BMW", "model": "X3"}},
	}
	require.Equal(t, http.StatusOK, do(t, "PATCH", api+"/sessions/"+id+"/answers", token, cars, &session))
	assert.Equal(t, model.StateReady, session.State)
	require.NotNil(t, session.Cars[0].ValidModel)
	assert.True(t, *session.Cars[0].ValidModel)

	var fetched model.Session
	require.Equal(t, http.StatusOK, do(t, "GET", api+"/sessions/"+id, token, nil, &fetched))
	assert.Equal(t, model.StateReady, fetched.State)

	var result model.SubmitResult
	require.Equal(t, http.StatusOK, do(t, "POST", api+"/sessions/"+id+"/submit", token, nil, &result))
	assert.Equal(t, model.OutcomeCompleted, result.Outcome)
	assert.Equal(t, service.NoticeCompleted, result.Notice)
	require.NotNil(t, result.Statistics)
	assert.Equal(t, 1, result.Statistics.TotalRespondents)

	assert.Equal(t, http.StatusConflict, do(t, "POST", api+"/sessions/"+id+"/submit", token, nil, nil))
	assert.Equal(t, http.StatusConflict, do(t, "PATCH", api+"/sessions/"+id+"/answers", token, patch, nil))

	// Disqualify the second respondent
	require.Equal(t, http.StatusOK, do(t, "PATCH", api+"/sessions/"+other.Session.ID+"/answers", other.Token,
		map[string]interface{}{"age": 15}, &session))
	assert.Equal(t, model.StateDisqualified, session.State)
	assert.Equal(t, service.NoticeUnderAge, session.Notice)

	// Host reporting
	assert.Equal(t, http.StatusUnauthorized, do(t, "GET", api+"/statistics", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, "GET", api+"/statistics", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, "POST", api+"/auth/login", "",
		model.LoginRequest{Username: "admin", Password: "nope"}, nil))

	var login model.LoginResponse
	require.Equal(t, http.StatusOK, do(t, "POST", api+"/auth/login", "",
		model.LoginRequest{Username: "admin", Password: "password123"}, &login))

	var stats model.Statistics
	require.Equal(t, http.StatusOK, do(t, "GET", api+"/statistics", login.Token, nil, &stats))
	assert.Equal(t, 2, stats.TotalRespondents)
	assert.Equal(t, 1, stats.Adolescents)
	assert.Equal(t, 1, stats.Targetables)
	assert.InDelta(t, 50.0, stats.PercentageTargetables, 0.001)

	var listed struct {
		Responses []model.Response `json:"responses"`
	}
	require.Equal(t, http.StatusOK, do(t, "GET", api+"/responses", login.Token, nil, &listed))
	require.Len(t, listed.Responses, 2)
	assert.Equal(t, "BMW", listed.Responses[0].Make)
	assert.Equal(t, model.OutcomeUnderAge, listed.Responses[1].Outcome)
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t)
	auth := service.NewAuthService("admin", "password123", "test-secret", time.Hour)
	token, err := auth.GenerateRespondentToken("missing")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, do(t, "GET", srv.URL+"/v1/sessions/missing", token, nil, nil))
}

func TestValidateBMWEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Model string `json:"model"`
		Valid bool   `json:"valid"`
	}
	require.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/v1/validate/bmw?model=M550i", "", nil, &body))
	assert.Equal(t, "M550i", body.Model)
	assert.True(t, body.Valid)

	require.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/v1/validate/bmw?model=Mustang", "", nil, &body))
	assert.False(t, body.Valid)
}

func TestCORSAndHealth(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest("OPTIONS", srv.URL+"/v1/statistics", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var health map[string]string
	require.Equal(t, http.StatusOK, do(t, "GET", srv.URL+"/v1/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])
}
