package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/briareus/pkg/controller/http"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/service/event"
	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Memory) {
	t.Helper()

	repo := memory.New()
	bus := event.New(event.WithSync())
	bus.Subscribe(notify.New(repo).HandleTransition)

	uc := usecase.New(repo, bus, usecase.WithAuth(usecase.NewTokenAuthUseCase(repo)))

	srv := httptest.NewServer(httpctrl.New(uc))
	t.Cleanup(srv.Close)

	for _, user := range []*model.User{
		{ID: "u-alice", Name: "Alice", Role: types.RoleAnalyst},
		{ID: "u-bob", Name: "Bob", Role: types.RoleViewer},
	} {
		_, err := repo.User().Put(context.Background(), user)
		gt.NoError(t, err).Required()
	}

	return srv, repo
}

func login(t *testing.T, srv *httptest.Server, userID string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"userId": userID})
	gt.NoError(t, err).Required()

	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

	cookies := resp.Cookies()
	gt.Number(t, len(cookies)).Equal(2)
	return cookies
}

func doJSON(t *testing.T, srv *httptest.Server, cookies []*http.Cookie, method, path string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	gt.NoError(t, err).Required()
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Auth(t *testing.T) {
	t.Run("request without session is rejected", func(t *testing.T) {
		srv, _ := newTestServer(t)

		resp, err := http.Get(srv.URL + "/api/v1/cases")
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Number(t, resp.StatusCode).Equal(http.StatusUnauthorized)
	})

	t.Run("login rejects unknown users", func(t *testing.T) {
		srv, _ := newTestServer(t)

		body := bytes.NewReader([]byte(`{"userId":"u-ghost"}`))
		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", body)
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)
	})

	t.Run("me reflects the directory role", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-alice")

		resp := doJSON(t, srv, cookies, http.MethodGet, "/api/auth/me", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

		var me struct {
			Sub  string `json:"sub"`
			Role string `json:"role"`
		}
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&me)).Required()
		gt.Value(t, me.Sub).Equal("u-alice")
		gt.Value(t, me.Role).Equal("analyst")
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-alice")

		resp := doJSON(t, srv, cookies, http.MethodPost, "/api/auth/logout", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

		resp = doJSON(t, srv, cookies, http.MethodGet, "/api/v1/cases", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusUnauthorized)
	})
}

func TestServer_CaseLifecycle(t *testing.T) {
	t.Run("create, resolve and double-resolve", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-alice")

		resp := doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases", map[string]string{
			"title":      "Suspicious login",
			"severity":   "high",
			"assignedTo": "u-bob",
		})
		gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)

		var created model.Case
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&created)).Required()
		gt.Value(t, created.Status).Equal(types.CaseStatusOpen)

		resp = doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases/1/resolve", map[string]string{})
		gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)

		resp = doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases/1/resolve", map[string]string{
			"resolutionSummary": "Confirmed travel, no compromise",
		})
		gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

		resp = doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases/1/resolve", map[string]string{
			"resolutionSummary": "again",
		})
		gt.Number(t, resp.StatusCode).Equal(http.StatusConflict)
	})

	t.Run("viewer may not create cases", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-bob")

		resp := doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases", map[string]string{
			"title": "Nope",
		})
		gt.Number(t, resp.StatusCode).Equal(http.StatusForbidden)
	})

	t.Run("missing case returns 404, bad ID returns 400", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-alice")

		resp := doJSON(t, srv, cookies, http.MethodGet, "/api/v1/cases/999", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)

		resp = doJSON(t, srv, cookies, http.MethodGet, "/api/v1/cases/abc", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)
	})
}

func TestServer_ErrorEnvelope(t *testing.T) {
	t.Run("errors render the JSON envelope", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-bob")

		resp := doJSON(t, srv, cookies, http.MethodPost, "/api/v1/cases", map[string]string{
			"title": "Nope",
		})
		gt.Number(t, resp.StatusCode).Equal(http.StatusForbidden)
		gt.Value(t, resp.Header.Get("Content-Type")).Equal("application/json")

		var body struct {
			Error string `json:"error"`
		}
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body)).Required()
		gt.Value(t, body.Error != "").Equal(true)
	})

	t.Run("not found renders the JSON envelope", func(t *testing.T) {
		srv, _ := newTestServer(t)
		cookies := login(t, srv, "u-alice")

		resp := doJSON(t, srv, cookies, http.MethodGet, "/api/v1/cases/999", nil)
		gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)
		gt.Value(t, resp.Header.Get("Content-Type")).Equal("application/json")
	})
}

func TestServer_NoAuthn(t *testing.T) {
	repo := memory.New()
	bus := event.New(event.WithSync())
	uc := usecase.New(repo, bus, usecase.WithAuth(usecase.NewNoAuthnUseCase("u-dev", types.RoleAdmin)))

	srv := httptest.NewServer(httpctrl.New(uc))
	t.Cleanup(srv.Close)

	t.Run("requests carry the fixed user", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/auth/me")
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

		var me struct {
			Sub  string `json:"sub"`
			Role string `json:"role"`
		}
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&me)).Required()
		gt.Value(t, me.Sub).Equal("u-dev")
		gt.Value(t, me.Role).Equal("admin")
	})
}
