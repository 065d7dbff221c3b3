package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/jrsteele09/go-inventory-dashboard/internal/config"
	"github.com/jrsteele09/go-inventory-dashboard/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
}

// fakeAPI is a minimal inventory backend. Every path except the token
// endpoint requires "Bearer <validToken>".
type fakeAPI struct {
	mu         sync.Mutex
	validToken string
	calls      []backendCall
	responses  map[string]string
	statuses   map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		validToken: "A",
		statuses:   map[string]int{},
		responses:  map[string]string{
			"POST /api/auth/token/": `{"access":"A","refresh":"R"}`,
			"GET /api/users/me/":    `{"id":1,"email":"admin@example.com","first_name":"Admin","empresa":1,"is_active":true}`,
			"GET /api/products/":    `{"count":42,"next":null,"previous":null,"results":[{"id":3,"codigo":"PROD-001","nombre":"Paracetamol","precio_venta":"12.50","precio_costo":"8.00","categoria":1}]}`,
			"GET /api/movements/":   `{"count":7,"next":null,"previous":null,"results":[]}`,
			"GET /api/users/":       `{"count":3,"next":null,"previous":null,"results":[]}`,
			"GET /api/categories/":  `[{"id":1,"nombre":"Analgésicos","is_active":true}]`,
			"POST /api/movements/":  `{"id":10,"producto":3,"tipo":"SALIDA","cantidad":5,"razon":"venta"}`,
			"POST /api/products/":   `{"id":11,"codigo":"PROD-002","nombre":"Ibuprofeno","categoria":1}`,
			"PUT /api/users/1/":     `{"id":1,"email":"admin@example.com","first_name":"Ana","empresa":1,"is_active":true}`,
			"GET /api/empresas/me/": `{"id":1,"nombre":"Farmacia Central","nicho":"farmacia","is_active":true}`,
		},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls = append(f.calls, backendCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: string(body)})
	valid := f.validToken
	response, ok := f.responses[key]
	status := f.statuses[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/api/auth/token/" && r.Header.Get("Authorization") != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Given token not valid for any token type"}`)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"No encontrado."}`)
		return
	}
	if status == 0 && r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = io.WriteString(w, response)
}

func (f *fakeAPI) setValidToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validToken = token
}

func (f *fakeAPI) setResponse(key string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = body
	f.statuses[key] = status
}

func (f *fakeAPI) callsTo(method, path string) []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []backendCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testFixture struct {
	api     *fakeAPI
	backend *credentials.MemoryBackend
	site    *httptest.Server
	browser *http.Client
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	api := newFakeAPI()
	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_URL", apiServer.URL+"/api")
	t.Setenv("ENV", "TEST")
	cfg, err := config.Load("")
	require.NoError(t, err)

	backend := credentials.NewMemoryBackend()
	srv, err := server.New(cfg, backend, server.WithMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)

	site := httptest.NewServer(srv)
	t.Cleanup(site.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testFixture{api: api, backend: backend, site: site, browser: browser}
}

func (f *testFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.browser.Get(f.site.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *testFixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.browser.PostForm(f.site.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	resp, _ := f.post(t, "/login", url.Values{"email": {"admin@example.com"}, "password": {"admin123"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

// storage returns the credential slot of the test browser
func (f *testFixture) storage(t *testing.T) credentials.Storage {
	t.Helper()
	u, err := url.Parse(f.site.URL)
	require.NoError(t, err)
	for _, c := range f.browser.Jar.Cookies(u) {
		if c.Name == "inventario_browser" {
			return f.backend.Scope(c.Value)
		}
	}
	t.Fatal("browser cookie not set")
	return nil
}

func (f *testFixture) requireStored(t *testing.T, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	s := f.storage(t)
	for key, want := range map[string]string{credentials.AccessTokenKey: access, credentials.RefreshTokenKey: refresh} {
		got, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		if want == "" {
			require.False(t, ok, key)
			continue
		}
		require.Equal(t, want, got, key)
	}
}

func TestProtectedPages_RedirectAnonymous(t *testing.T) {
	f := setupTestFixture(t)
	for _, path := range []string{"/", "/dashboard", "/products", "/products/new", "/products/3", "/movements", "/movements/new", "/categories", "/profile"} {
		resp, _ := f.get(t, path)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		if path != "/" {
			require.Equal(t, "/login", resp.Header.Get("Location"), path)
		}
	}
	require.Zero(t, f.api.callCount())
}

func TestLogin(t *testing.T) {
	t.Run("login page", func(t *testing.T) {
		f := setupTestFixture(t)
		resp, body := f.get(t, "/login")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Inventario SaaS")
		require.Contains(t, body, "admin@example.com")
	})

	t.Run("empty fields make no backend call", func(t *testing.T) {
		f := setupTestFixture(t)
		resp, body := f.post(t, "/login", url.Values{"email": {"admin@example.com"}, "password": {""}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "Por favor completa todos los campos")
		require.Zero(t, f.api.callCount())
	})

	t.Run("success stores both tokens", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		f.requireStored(t, "A", "R")

		calls := f.api.callsTo(http.MethodPost, "/api/auth/token/")
		require.Len(t, calls, 1)
		require.JSONEq(t, `{"email":"admin@example.com","password":"admin123"}`, calls[0].Body)

		resp, _ := f.get(t, "/login")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	})

	t.Run("rejected credentials show the backend detail", func(t *testing.T) {
		f := setupTestFixture(t)
		f.api.setResponse("POST /api/auth/token/", http.StatusUnauthorized, `{"detail":"No active account found with the given credentials"}`)

		resp, body := f.post(t, "/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, body, "No active account found with the given credentials")
		require.Contains(t, body, `value="admin@example.com"`)
		f.requireStored(t, "", "")
		require.Empty(t, f.api.callsTo(http.MethodGet, "/api/users/me/"))
	})

	t.Run("backend without detail falls back to the generic message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.api.setResponse("POST /api/auth/token/", http.StatusInternalServerError, `<html>oops</html>`)

		resp, body := f.post(t, "/login", url.Values{"email": {"admin@example.com"}, "password": {"admin123"}})
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)
		require.Contains(t, body, "Error al iniciar sesión")
	})
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, _ := f.post(t, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	f.requireStored(t, "", "")

	resp, _ = f.get(t, "/dashboard")
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogout_GetNotAllowed(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, _ := f.get(t, "/logout")
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Allow"), http.MethodPost)
	f.requireStored(t, "A", "R")

	resp, _ = f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func browserCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "inventario_browser" {
			return c
		}
	}
	return nil
}

func TestBrowserCookie_Renewed(t *testing.T) {
	f := setupTestFixture(t)
	ttl := int((168 * time.Hour).Seconds())

	resp, _ := f.get(t, "/login")
	minted := browserCookie(resp)
	require.NotNil(t, minted)
	require.Equal(t, ttl, minted.MaxAge)

	resp, _ = f.get(t, "/login")
	require.Nil(t, browserCookie(resp), "anonymous browsers keep their cookie as is")

	resp, _ = f.post(t, "/login", url.Values{"email": {"admin@example.com"}, "password": {"admin123"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	renewed := browserCookie(resp)
	require.NotNil(t, renewed)
	require.Equal(t, minted.Value, renewed.Value)
	require.Equal(t, ttl, renewed.MaxAge)
	require.Len(t, resp.Header.Values("Set-Cookie"), 1)

	resp, _ = f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	renewed = browserCookie(resp)
	require.NotNil(t, renewed)
	require.Equal(t, minted.Value, renewed.Value)
	require.Equal(t, ttl, renewed.MaxAge)
}

func TestDashboard(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Bienvenido, Admin!")
	require.Contains(t, body, "Total de Productos")
	require.Contains(t, body, `data-stat="products">42<`)
	require.Contains(t, body, `data-stat="movements">7<`)
	require.Contains(t, body, `data-stat="users">3<`)
	require.Contains(t, body, "Usuarios Activos")

	for _, path := range []string{"/api/products/", "/api/movements/", "/api/users/"} {
		calls := f.api.callsTo(http.MethodGet, path)
		require.Len(t, calls, 1, path)
		require.Equal(t, "1", calls[0].Query.Get("limit"), path)
	}
}

func TestDashboard_StatsFailureStillRenders(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.api.setResponse("GET /api/users/", http.StatusForbidden, `{"detail":"No tiene permiso para realizar esta acción."}`)

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "No tiene permiso para realizar esta acción.")
	require.Contains(t, body, `data-stat="products">0<`)
}

func TestProducts(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, body := f.get(t, "/products")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "PROD-001")
		require.Contains(t, body, "Paracetamol")
		require.Contains(t, body, "12,50")
	})

	t.Run("missing fields never reach the backend", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, body := f.post(t, "/products", url.Values{"codigo": {"PROD-002"}, "nombre": {""}, "categoria": {"1"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "Por favor completa todos los campos requeridos")
		require.Contains(t, body, "Analgésicos")
		require.Empty(t, f.api.callsTo(http.MethodPost, "/api/products/"))
	})

	t.Run("create defaults unparseable prices to zero", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, _ := f.post(t, "/products", url.Values{
			"codigo": {"PROD-002"}, "nombre": {"Ibuprofeno"}, "categoria": {"1"},
			"precio_venta": {"abc"}, "precio_costo": {"3,5"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/products"))

		calls := f.api.callsTo(http.MethodPost, "/api/products/")
		require.Len(t, calls, 1)
		require.JSONEq(t, `{"codigo":"PROD-002","nombre":"Ibuprofeno","descripcion":"","precio_venta":0,"precio_costo":3.5,"categoria":1}`, calls[0].Body)
	})
}

func TestMovements(t *testing.T) {
	t.Run("create redirects to the list", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, _ := f.post(t, "/movements", url.Values{
			"producto": {"3"}, "tipo": {"SALIDA"}, "cantidad": {"5"}, "razon": {"venta"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/movements", location.Path)

		calls := f.api.callsTo(http.MethodPost, "/api/movements/")
		require.Len(t, calls, 1)
		require.JSONEq(t, `{"producto":3,"tipo":"SALIDA","cantidad":5,"razon":"venta"}`, calls[0].Body)
	})

	t.Run("omitted quantity is sent as 1", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, _ := f.post(t, "/movements", url.Values{"producto": {"3"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		calls := f.api.callsTo(http.MethodPost, "/api/movements/")
		require.Len(t, calls, 1)
		var sent map[string]any
		require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
		require.Equal(t, float64(1), sent["cantidad"])
		require.Equal(t, "ENTRADA", sent["tipo"])
	})

	t.Run("quantity keeps its leading integer", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, _ := f.post(t, "/movements", url.Values{"producto": {"3"}, "cantidad": {"5abc"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		calls := f.api.callsTo(http.MethodPost, "/api/movements/")
		require.Len(t, calls, 1)
		var sent map[string]any
		require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
		require.Equal(t, float64(5), sent["cantidad"])
	})

	t.Run("negative quantity shows the backend error", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		f.api.setResponse("POST /api/movements/", http.StatusBadRequest, `{"cantidad":["La cantidad debe ser mayor a 0"]}`)
		resp, body := f.post(t, "/movements", url.Values{"producto": {"3"}, "cantidad": {"-2"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "La cantidad debe ser mayor a 0")

		calls := f.api.callsTo(http.MethodPost, "/api/movements/")
		require.Len(t, calls, 1)
		require.Contains(t, calls[0].Body, `"cantidad":-2`)
	})

	t.Run("missing product", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		resp, body := f.post(t, "/movements", url.Values{"cantidad": {"2"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "Por favor completa los campos requeridos")
		require.Empty(t, f.api.callsTo(http.MethodPost, "/api/movements/"))
	})
}

func TestBackend401_LogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	// the access token expires on the backend
	f.api.setValidToken("A-new")

	resp, _ := f.get(t, "/products")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	f.requireStored(t, "", "")

	resp, _ = f.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	// a fresh server over the same credential backend restores the session
	cfg, err := config.Load("")
	require.NoError(t, err)
	srv, err := server.New(cfg, f.backend, server.WithMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	// cookies are scoped by host, not port, so the browser keeps its id
	site := httptest.NewServer(srv)
	t.Cleanup(site.Close)
	f.site = site

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Bienvenido, Admin!")
}

func TestProfileUpdate(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, body := f.get(t, "/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Farmacia Central")

	resp, _ = f.post(t, "/profile", url.Values{"first_name": {"Ana"}, "last_name": {""}, "telefono": {""}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	calls := f.api.callsTo(http.MethodPut, "/api/users/1/")
	require.Len(t, calls, 1)
	require.JSONEq(t, `{"first_name":"Ana","last_name":"","is_active":true}`, calls[0].Body)

	_, body = f.get(t, "/dashboard")
	require.Contains(t, body, "Bienvenido, Ana!")
}

func TestProfile_TokenExpiry(t *testing.T) {
	t.Run("shown for a JWT access token", func(t *testing.T) {
		f := setupTestFixture(t)
		exp := time.Now().Add(time.Hour)
		access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		f.api.setResponse("POST /api/auth/token/", 0, `{"access":"`+access+`","refresh":"R"}`)
		f.api.setValidToken(access)
		f.login(t)

		resp, body := f.get(t, "/profile")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "data-token-expiry")
		require.Contains(t, body, exp.Local().Format("02/01/2006 15:04"))
	})

	t.Run("hidden for an opaque token", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		_, body := f.get(t, "/profile")
		require.NotContains(t, body, "data-token-expiry")
	})
}

func TestOpsEndpoints(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, body := f.get(t, "/livez")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)

	resp, _ = f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "inventario_gateway_requests_total")
	require.Contains(t, body, `inventario_session_logins_total{result="success"} 1`)
}

func TestStaticCSS(t *testing.T) {
	f := setupTestFixture(t)
	resp, _ := f.get(t, "/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")

	resp, _ = f.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategories(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	resp, body := f.get(t, "/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Analgésicos")

	resp, body = f.post(t, "/categories", url.Values{"nombre": {"  "}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "El nombre de la categoría es obligatorio")
	require.Empty(t, f.api.callsTo(http.MethodPost, "/api/categories/"))

	f.api.setResponse("POST /api/categories/", http.StatusCreated, `{"id":2,"nombre":"Vacunas","is_active":true}`)
	resp, _ = f.post(t, "/categories", url.Values{"nombre": {"Vacunas"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	calls := f.api.callsTo(http.MethodPost, "/api/categories/")
	require.Len(t, calls, 1)
	require.JSONEq(t, `{"nombre":"Vacunas"}`, calls[0].Body)

	// the flash survives the redirect
	_, body = f.get(t, resp.Header.Get("Location"))
	require.Contains(t, body, "Categoría creada")
}
