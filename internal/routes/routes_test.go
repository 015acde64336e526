package routes

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/GevorkovG/go-shortener-web/config"
	"github.com/GevorkovG/go-shortener-web/internal/app"
	"github.com/GevorkovG/go-shortener-web/internal/client"
	"github.com/GevorkovG/go-shortener-web/internal/cookies"
	"github.com/GevorkovG/go-shortener-web/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, trustedSubnet string) *httptest.Server {
	srv, _ := newServerWithApp(t, trustedSubnet)
	return srv
}

func newServerWithApp(t *testing.T, trustedSubnet string) (*httptest.Server, *app.App) {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Short URL: https://sho.rt/xyz")
	}))
	t.Cleanup(backend.Close)

	cfg := config.Default()
	cfg.TrustedSubnet = trustedSubnet
	a := app.NewAppWith(cfg, storage.NewInMemoryStorage(), client.New(backend.URL))

	srv := httptest.NewServer(Router(a))
	t.Cleanup(srv.Close)
	return srv, a
}

func TestRouter_SessionFlow(t *testing.T) {
	srv := newServer(t, "")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar}

	res, err := c.PostForm(srv.URL+"/shorten", url.Values{"url": {"https://example.com"}})
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	// редирект уже выполнен клиентом, это страница GET /
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `data-copy="https://sho.rt/xyz"`)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	var names []string
	for _, ck := range jar.Cookies(u) {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, cookies.CookieName)

	res, err = c.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Contains(t, string(body), `"short_url":"https://sho.rt/xyz"`)

	// без cookie это другая сессия
	res, err = http.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Contains(t, string(body), `"short_url":""`)
}

func TestRouter_Endpoints(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		trustedSubnet string
		wantStatus    int
		wantBody      string
	}{
		{name: "ping", method: http.MethodGet, path: "/ping", wantStatus: http.StatusOK},
		{name: "static js", method: http.MethodGet, path: "/static/app.js", wantStatus: http.StatusOK},
		{name: "static css", method: http.MethodGet, path: "/static/style.css", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/shorten", wantStatus: http.StatusMethodNotAllowed},
		{name: "metrics closed without subnet", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusForbidden},
		{
			name:          "metrics from trusted subnet",
			method:        http.MethodGet,
			path:          "/metrics",
			trustedSubnet: "127.0.0.0/8",
			wantStatus:    http.StatusOK,
			wantBody:      "shortener_web_http_requests_total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.trustedSubnet)

			// запрос, который попадет в счетчик запросов
			pre, err := http.Get(srv.URL + "/ping")
			require.NoError(t, err)
			pre.Body.Close()

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantBody != "" {
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.True(t, strings.Contains(string(body), tt.wantBody))
			}
		})
	}
}

func TestRouter_CookielessVisitsAreNotKept(t *testing.T) {
	srv, a := newServerWithApp(t, "")

	for i := 0; i < 100; i++ {
		for _, path := range []string{"/", "/api/state"} {
			res, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			res.Body.Close()
			require.Equal(t, http.StatusOK, res.StatusCode)
		}
	}

	assert.Zero(t, a.Workflows.Len())
}

func TestRouter_UnmatchedPathsShareMetricsLabel(t *testing.T) {
	srv := newServer(t, "127.0.0.0/8")

	for i := 0; i < 20; i++ {
		res, err := http.Get(srv.URL + "/scan-" + strconv.Itoa(i))
		require.NoError(t, err)
		res.Body.Close()
	}

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	assert.Contains(t, string(body), `route="unmatched"`)
	assert.NotContains(t, string(body), "/scan-")
}
