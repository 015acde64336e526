package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/GevorkovG/go-shortener-web/config"
	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/GevorkovG/go-shortener-web/internal/cookies"
	"github.com/GevorkovG/go-shortener-web/internal/objects"
	"github.com/GevorkovG/go-shortener-web/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "s1"

// backend поднимает фейковый сервис сокращения с заданным ответом.
func backend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, srv *httptest.Server) (*App, *storage.InMemoryStorage) {
	t.Helper()
	store := storage.NewInMemoryStorage()
	return NewAppWith(config.Default(), store, client.New(srv.URL)), store
}

func withSession(r *http.Request) *http.Request {
	return r.WithContext(cookies.WithSessionID(r.Context(), testSession))
}

func formRequest(target, value string) *http.Request {
	form := url.Values{"url": {value}}
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withSession(r)
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		backendStatus int
		backendBody   string
		wantStatus    int
		wantBody      string
	}{
		{
			name:          "success redirects",
			input:         "  https://example.com/long  ",
			backendStatus: http.StatusOK,
			backendBody:   "Short URL: https://sho.rt/abc",
			wantStatus:    http.StatusSeeOther,
		},
		{
			name:       "empty input",
			input:      "   ",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Please enter a URL",
		},
		{
			name:       "invalid url",
			input:      "ftp://example.com",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Please enter a valid URL starting with http:// or https://",
		},
		{
			name:          "service error",
			input:         "https://example.com",
			backendStatus: http.StatusTooManyRequests,
			backendBody:   "rate limited",
			wantStatus:    http.StatusBadGateway,
			wantBody:      "rate limited",
		},
		{
			name:          "invalid response",
			input:         "https://example.com",
			backendStatus: http.StatusOK,
			backendBody:   "no link here",
			wantStatus:    http.StatusBadGateway,
			wantBody:      "Invalid response from URL shortening service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store := newTestApp(t, backend(t, tt.backendStatus, tt.backendBody))

			w := httptest.NewRecorder()
			a.Shorten(w, formRequest("/shorten", tt.input))

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}

			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/", res.Header.Get("Location"))

				short, err := store.Get(context.Background(), testSession+":lastShortUrl")
				require.NoError(t, err)
				assert.Equal(t, "https://sho.rt/abc", short)

				original, err := store.Get(context.Background(), testSession+":lastOriginalUrl")
				require.NoError(t, err)
				assert.Equal(t, "https://example.com/long", original)
			} else {
				assert.Equal(t, 0, store.Len())
			}
		})
	}
}

func TestShorten_NetworkError(t *testing.T) {
	srv := backend(t, http.StatusOK, "")
	a, _ := newTestApp(t, srv)
	srv.Close()

	w := httptest.NewRecorder()
	a.Shorten(w, formRequest("/shorten", "https://example.com"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Network error. Please check your connection and try again.")
}

func TestIndex(t *testing.T) {
	a, _ := newTestApp(t, backend(t, http.StatusOK, "Short URL: https://sho.rt/abc"))

	w := httptest.NewRecorder()
	a.Shorten(w, formRequest("/shorten", "https://example.com"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = httptest.NewRecorder()
	a.Index(w, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `data-copy="https://sho.rt/abc"`)
	assert.NotContains(t, w.Body.String(), "How it works</h3>")

	w = httptest.NewRecorder()
	a.Index(w, withSession(httptest.NewRequest(http.MethodGet, "/?info=1", nil)))
	assert.Contains(t, w.Body.String(), "How it works</h3>")
}

func TestIndex_RestoresStoredResult(t *testing.T) {
	a, store := newTestApp(t, backend(t, http.StatusOK, ""))
	store.Load(map[string]string{
		testSession + ":lastShortUrl":    "https://sho.rt/old",
		testSession + ":lastOriginalUrl": "https://example.com/old",
	})

	w := httptest.NewRecorder()
	a.Index(w, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Contains(t, w.Body.String(), `value="https://example.com/old"`)
	assert.Contains(t, w.Body.String(), `data-copy="https://sho.rt/old"`)
}

func TestClear(t *testing.T) {
	a, store := newTestApp(t, backend(t, http.StatusOK, "Short URL: https://sho.rt/abc"))

	w := httptest.NewRecorder()
	a.Shorten(w, formRequest("/shorten", "https://example.com"))
	require.Equal(t, 2, store.Len())

	w = httptest.NewRecorder()
	a.Clear(w, withSession(httptest.NewRequest(http.MethodPost, "/clear", nil)))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, store.Len())

	_, err := store.Get(context.Background(), testSession+":lastShortUrl")
	assert.ErrorIs(t, err, objects.ErrNotFound)
}

func TestInput_HidesError(t *testing.T) {
	a, _ := newTestApp(t, backend(t, http.StatusOK, ""))

	w := httptest.NewRecorder()
	a.Shorten(w, formRequest("/shorten", ""))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	a.Input(w, formRequest("/input", "https://exa"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	a.APIState(w, withSession(httptest.NewRequest(http.MethodGet, "/api/state", nil)))

	var st map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "https://exa", st["url"])
	assert.Equal(t, "", st["error"])
	assert.Equal(t, "idle", st["phase"])
}

func TestAPIShorten(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       map[string]string
	}{
		{
			name:       "success",
			body:       `{"url":"https://example.com"}`,
			wantStatus: http.StatusCreated,
			want:       map[string]string{"short_url": "https://sho.rt/abc", "original_url": "https://example.com"},
		},
		{
			name:       "bad json",
			body:       `{"url":`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]string{"error": "Cannot parse body"},
		},
		{
			name:       "invalid url",
			body:       `{"url":"example.com"}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]string{"error": "Please enter a valid URL starting with http:// or https://"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, backend(t, http.StatusOK, "Short URL: https://sho.rt/abc"))

			r := withSession(httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(tt.body)))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			a.APIShorten(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIClear(t *testing.T) {
	a, store := newTestApp(t, backend(t, http.StatusOK, "Short URL: https://sho.rt/abc"))

	r := withSession(httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url":"https://example.com"}`)))
	w := httptest.NewRecorder()
	a.APIShorten(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	a.APIClear(w, withSession(httptest.NewRequest(http.MethodPost, "/api/clear", nil)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestSubmit_ClearedDuringSubmission(t *testing.T) {
	tests := []struct {
		name       string
		submit     func(a *App, w http.ResponseWriter)
		wantStatus int
		wantBody   string
	}{
		{
			name: "form",
			submit: func(a *App, w http.ResponseWriter) {
				a.Shorten(w, formRequest("/shorten", "https://example.com"))
			},
			wantStatus: http.StatusSeeOther,
		},
		{
			name: "api",
			submit: func(a *App, w http.ResponseWriter) {
				a.APIShorten(w, withSession(httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url":"https://example.com"}`))))
			},
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"Submission was cleared"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := make(chan struct{}, 1)
			release := make(chan struct{})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				started <- struct{}{}
				<-release
				_, _ = io.WriteString(w, "Short URL: https://sho.rt/late")
			}))
			defer srv.Close()

			a, store := newTestApp(t, srv)

			done := make(chan *httptest.ResponseRecorder, 1)
			go func() {
				w := httptest.NewRecorder()
				tt.submit(a, w)
				done <- w
			}()
			<-started

			w := httptest.NewRecorder()
			a.APIClear(w, withSession(httptest.NewRequest(http.MethodPost, "/api/clear", nil)))
			require.Equal(t, http.StatusNoContent, w.Code)

			close(release)
			res := <-done

			assert.Equal(t, tt.wantStatus, res.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, res.Body.String())
			}
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a, _ := newTestApp(t, backend(t, http.StatusOK, "Short URL: https://sho.rt/abc"))

	w := httptest.NewRecorder()
	a.Shorten(w, formRequest("/shorten", "https://example.com"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	r = r.WithContext(cookies.WithSessionID(r.Context(), "other"))
	w = httptest.NewRecorder()
	a.APIState(w, r)

	var st map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "", st["short_url"])
	// сессия без результата в памяти не остается
	assert.Equal(t, 1, a.Workflows.Len())
}

func TestPing(t *testing.T) {
	a, _ := newTestApp(t, backend(t, http.StatusOK, ""))

	w := httptest.NewRecorder()
	a.Ping(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfigureStorage(t *testing.T) {
	t.Run("memory by default", func(t *testing.T) {
		a := &App{cfg: config.Default()}
		require.NoError(t, a.ConfigureStorage())
		assert.IsType(t, &storage.InMemoryStorage{}, a.Storage)
		assert.NoError(t, a.Close())
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.FilePATH = t.TempDir() + "/kv.json"
		a := &App{cfg: cfg}
		require.NoError(t, a.ConfigureStorage())
		assert.IsType(t, &storage.FileStorage{}, a.Storage)
	})

	t.Run("redis", func(t *testing.T) {
		cfg := config.Default()
		cfg.RedisAddress = "127.0.0.1:0"
		a := &App{cfg: cfg}
		require.NoError(t, a.ConfigureStorage())
		assert.IsType(t, &storage.RedisStorage{}, a.Storage)
		assert.NoError(t, a.Close())
	})
}
