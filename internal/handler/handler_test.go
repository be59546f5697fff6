package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/hackwoo/internal/auth"
	"github.com/Jamolkhon5/hackwoo/internal/models"
	"github.com/Jamolkhon5/hackwoo/internal/repository"
)

func newServer(t *testing.T, id auth.Identity) http.Handler {
	t.Helper()
	db, err := repository.Connect(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	r := chi.NewRouter()
	r.Use(auth.Middleware(auth.Static{Identity: id}, nil))
	NewHandler(repo, nil).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func ideas(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp models.SavedIdeasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Ideas
}

func TestSignIn_Upserts(t *testing.T) {
	h := newServer(t, auth.Identity{UserID: "u-1", Email: "ana@example.com", FirstName: "Ana"})

	first := do(t, h, http.MethodPost, "/v1/session", "")
	second := do(t, h, http.MethodPost, "/v1/session", "")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &u))
	assert.Equal(t, "u-1", u.ExternalID)
	assert.Equal(t, "Ana", u.FirstName)
}

func TestSavedIdeas_Flow(t *testing.T) {
	h := newServer(t, auth.LocalIdentity)

	rec := do(t, h, http.MethodGet, "/v1/ideas/saved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{}, ideas(t, rec))

	for _, idea := range []string{"a", "b", "c"} {
		rec = do(t, h, http.MethodPost, "/v1/ideas/saved", `{"idea":"`+idea+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/v1/ideas/saved/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "c"}, ideas(t, rec))

	rec = do(t, h, http.MethodGet, "/v1/ideas/saved", "")
	assert.Equal(t, []string{"a", "c"}, ideas(t, rec))
}

func TestSavedIdeas_BadInput(t *testing.T) {
	h := newServer(t, auth.LocalIdentity)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/ideas/saved", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/ideas/saved", `{"idea":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodDelete, "/v1/ideas/saved/x", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/v1/ideas/saved/0", "").Code)
}

func TestSaveIdea_ConcurrentRequestsKeepEveryIdea(t *testing.T) {
	h := newServer(t, auth.LocalIdentity)

	const n = 8
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/ideas/saved", strings.NewReader(fmt.Sprintf(`{"idea":"idea-%d"}`, i))))
			codes <- rec.Code
		}(i)
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusCreated, code)
	}

	rec := do(t, h, http.MethodGet, "/v1/ideas/saved", "")
	assert.Len(t, ideas(t, rec), n)
}
