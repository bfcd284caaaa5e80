package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
)

type testServer struct {
	t      *testing.T
	repo   *sqlite.SQLiteRepository
	logs   *bytes.Buffer
	router http.Handler
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo, err := sqlite.NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	cfg := &config.Config{JWTSecret: "router-test", FrontendURL: "http://localhost"}
	linkSvc := services.NewLinkService(repo, repo, "salt")
	profileSvc := services.NewProfileService(repo, linkSvc)
	logs := &bytes.Buffer{}

	return &testServer{
		t:      t,
		repo:   repo,
		logs:   logs,
		router: NewRouter(cfg, linkSvc, profileSvc, zerolog.New(logs)),
		cookie: &http.Cookie{Name: "auth_token", Value: generateTestToken(t, cfg.JWTSecret, time.Now().Add(time.Hour))},
	}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(s.cookie)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func (s *testServer) createProfile(slug string) domain.Profile {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/v1/profiles", map[string]string{"slug": slug})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[domain.Profile](s.t, rr)
}

func (s *testServer) createLink(ownerID, title, url string) domain.Link {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/v1/profiles/"+ownerID+"/links", map[string]any{"title": title, "url": url, "icon": "github"})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[domain.Link](s.t, rr)
}

type listResponse struct {
	Data  []domain.Link `json:"data"`
	Total int           `json:"total"`
}

func linkIDs(links []domain.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func TestRouter_CreateListReorder(t *testing.T) {
	s := newTestServer(t)
	owner := s.createProfile("alice")
	assert.Equal(t, "test@example.com", owner.Email)

	a := s.createLink(owner.ID, "GitHub", "https://github.com/alice")
	b := s.createLink(owner.ID, "Blog", "https://blog.example.com")
	c := s.createLink(owner.ID, "YouTube", "https://youtube.com/@alice")
	assert.Equal(t, []int{0, 1, 2}, []int{a.Order, b.Order, c.Order})
	assert.Equal(t, domain.PredefinedIcon("github"), a.Icon)

	rr := s.do(http.MethodPut, "/api/v1/profiles/"+owner.ID+"/links/order", ReorderRequest{IDs: []string{c.ID, a.ID, b.ID}})
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/v1/profiles/"+owner.ID+"/links", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[listResponse](t, rr)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, linkIDs(list.Data))

	rr = s.do(http.MethodGet, "/api/v1/profiles/"+owner.ID+"/links?q=git", nil)
	list = decode[listResponse](t, rr)
	assert.Equal(t, []string{a.ID}, linkIDs(list.Data))
}

func TestRouter_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	owner := s.createProfile("alice")
	link := s.createLink(owner.ID, "GitHub", "https://github.com/alice")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"invalid url", http.MethodPost, "/api/v1/profiles/" + owner.ID + "/links", map[string]string{"title": "x", "url": "ftp://x.y"}, http.StatusBadRequest},
		{"blank title", http.MethodPost, "/api/v1/profiles/" + owner.ID + "/links", map[string]string{"title": "  ", "url": "https://x.y"}, http.StatusBadRequest},
		{"unknown owner", http.MethodPost, "/api/v1/profiles/ghost/links", map[string]string{"title": "x", "url": "https://x.y"}, http.StatusNotFound},
		{"duplicate reorder ids", http.MethodPut, "/api/v1/profiles/" + owner.ID + "/links/order", ReorderRequest{IDs: []string{link.ID, link.ID}}, http.StatusBadRequest},
		{"unknown link", http.MethodDelete, "/api/v1/links/missing", nil, http.StatusNotFound},
		{"slug taken", http.MethodPost, "/api/v1/profiles", map[string]string{"slug": "alice"}, http.StatusConflict},
		{"bad slug", http.MethodPost, "/api/v1/profiles", map[string]string{"slug": "A!"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_UpdateToggleDelete(t *testing.T) {
	s := newTestServer(t)
	owner := s.createProfile("alice")
	link := s.createLink(owner.ID, "GitHub", "https://github.com/alice")

	rr := s.do(http.MethodPatch, "/api/v1/links/"+link.ID, map[string]any{"title": "Code"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[domain.Link](t, rr)
	assert.Equal(t, "Code", updated.Title)
	assert.Equal(t, link.URL, updated.URL)

	rr = s.do(http.MethodPut, "/api/v1/links/"+link.ID+"/enabled", ToggleRequest{Enabled: false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[domain.Link](t, rr).Enabled)

	rr = s.do(http.MethodGet, "/api/v1/profiles/"+owner.ID+"/links?visible=true", nil)
	assert.Empty(t, decode[listResponse](t, rr).Data)

	rr = s.do(http.MethodDelete, "/api/v1/links/"+link.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRouter_PublicPageAndRedirect(t *testing.T) {
	s := newTestServer(t)
	owner := s.createProfile("alice")
	shown := s.createLink(owner.ID, "GitHub", "https://github.com/alice")
	hidden := s.createLink(owner.ID, "Drafts", "https://drafts.example.com")
	s.do(http.MethodPut, "/api/v1/links/"+hidden.ID+"/enabled", ToggleRequest{Enabled: false})

	// Public routes need no cookie.
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/u/alice", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[domain.Profile](t, rr)
	assert.Empty(t, page.Email)
	assert.Equal(t, []string{shown.ID}, linkIDs(page.Links))

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/u/nobody", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/go/"+shown.ID+"?no_stat=1", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://github.com/alice", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/go/"+hidden.ID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/go/"+shown.ID+"/track", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, rr)["click_count"])
}

func TestRouter_InternalErrorsAreLogged(t *testing.T) {
	s := newTestServer(t)
	owner := s.createProfile("alice")
	link := s.createLink(owner.ID, "GitHub", "https://github.com/alice")
	require.NoError(t, s.repo.Close())
	s.logs.Reset()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"update", http.MethodPatch, "/api/v1/links/" + link.ID, map[string]string{"title": "Code"}},
		{"toggle", http.MethodPut, "/api/v1/links/" + link.ID + "/enabled", ToggleRequest{Enabled: false}},
		{"list", http.MethodGet, "/api/v1/profiles/" + owner.ID + "/links", nil},
		{"get profile", http.MethodGet, "/api/v1/profiles/" + owner.ID, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.logs.Reset()
			rr := s.do(tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.NotContains(t, rr.Body.String(), "closed")
			assert.Contains(t, s.logs.String(), "database is closed")
			assert.Contains(t, s.logs.String(), `"message":"request failed"`)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.InvalidInput("title", "blank")))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.NewPersistenceError("op", errors.New("boom"))))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&domain.ReorderError{Err: errors.New("boom")}))
}
