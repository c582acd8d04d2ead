package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-admin/internal/model"
)

type staticToken struct {
	token string
	err   error
	calls int
	mu    sync.Mutex
}

func (s *staticToken) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.token, s.err
}

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	reqID  string
	body   []byte
}

func newServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get(requestIDHeader),
			body:   b,
		})
		mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsBearerTokenPerCall(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Section{{ID: "s1", Title: "Intro", Order: 1}})
	})
	tokens := &staticToken{token: "tok-1"}
	c := New(Options{BaseURL: srv.URL, Tokens: tokens})

	got, err := c.ListSections(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	tokens.token = "tok-2"
	_, err = c.ListSections(context.Background(), "c1")
	require.NoError(t, err)

	require.Len(t, *reqs, 2)
	assert.Equal(t, "/api/admin/courses/c1/sections", (*reqs)[0].path)
	assert.Equal(t, "Bearer tok-1", (*reqs)[0].auth)
	assert.Equal(t, "Bearer tok-2", (*reqs)[1].auth)
	assert.NotEmpty(t, (*reqs)[0].reqID)
	assert.NotEqual(t, (*reqs)[0].reqID, (*reqs)[1].reqID)
	assert.Equal(t, 2, tokens.calls)
}

func TestClient_401IsUnauthorizedAndNotRetried(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})
	c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{token: "t"}})

	err := c.DeleteChapter(context.Background(), "ch1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Len(t, *reqs, 1)
}

func TestClient_MissingTokenNeverHitsNetwork(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})
	c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{err: errors.New("not logged in")}})

	err := c.Reorder(context.Background(), model.ReorderRequest{Type: model.ReorderSection})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Empty(t, *reqs)
}

func TestClient_HTTPErrorCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{name: "message", status: http.StatusBadRequest, body: map[string]string{"message": "title is required"}, want: "title is required"},
		{name: "error key", status: http.StatusConflict, body: map[string]string{"error": "duplicate slug"}, want: "duplicate slug"},
		{name: "no body", status: http.StatusInternalServerError, body: nil, want: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{token: "t"}})

			_, err := c.CreateSection(context.Background(), "c1", model.NewSection{Title: "x", Order: 1})
			var he *HTTPError
			require.True(t, errors.As(err, &he), "expected HTTPError, got %v", err)
			assert.Equal(t, tt.status, he.Status)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestClient_UpdateChapterSendsNullForUnset(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Chapter{ID: "ch1", Title: "New"})
	})
	c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{token: "t"}})

	p := model.ChapterPatch{Title: model.Set("New"), AccessTill: model.Unset[int]()}
	got, err := c.UpdateChapter(context.Background(), "ch1", p)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	require.Len(t, *reqs, 1)
	r := (*reqs)[0]
	assert.Equal(t, http.MethodPut, r.method)
	assert.Equal(t, "/api/admin/content/ch1", r.path)
	assert.JSONEq(t, `{"title":"New","accessTill":null}`, string(r.body))
}

func TestClient_ReorderBody(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{token: "t"}})

	err := c.Reorder(context.Background(), model.ReorderRequest{
		Type:        model.ReorderContent,
		SortedOrder: []model.OrderEntry{{ID: "b", Order: 1}, {ID: "a", Order: 2}},
	})
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/api/admin/sort-order", (*reqs)[0].path)
	assert.JSONEq(t, `{"type":"content","sortedOrder":[{"id":"b","order":1},{"id":"a","order":2}]}`, string((*reqs)[0].body))
}

func TestClient_ListFiltersSkipEmptyQuery(t *testing.T) {
	srv, reqs := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.User{})
	})
	c := New(Options{BaseURL: srv.URL, Tokens: &staticToken{token: "t"}})

	_, err := c.ListUsers(context.Background(), UserFilter{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "role=admin", (*reqs)[0].query)
}
