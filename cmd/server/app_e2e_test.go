package main

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-facturas/internal/config"
	"github.com/diewo77/go-facturas/internal/db"
	"github.com/diewo77/go-facturas/internal/handlers"
	"github.com/diewo77/go-facturas/internal/middleware"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type e2e struct {
	srv    *httptest.Server
	client *http.Client
	runner *handlers.Runner
	logs   *observer.ObservedLogs
}

func newE2E(t *testing.T) *e2e {
	t.Helper()
	dbConn, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}, false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbConn))
	require.NoError(t, db.Seed(dbConn))

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	api := services.NewInvoiceService(dbConn, services.Latency{}, log)
	reg := screens.NewRegistry(api, 4, time.Hour, log)
	runner := handlers.NewRunner(log)
	app := NewApp(dbConn, api, reg, runner, session.NewManager("test-secret", time.Hour, false), 4, log)

	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		runner.Wait()
	})
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &e2e{srv: srv, client: &http.Client{Jar: jar}, runner: runner, logs: logs}
}

func (e *e2e) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(t, err)
	return read(t, resp)
}

func (e *e2e) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	require.NoError(t, err)
	return read(t, resp)
}

func read(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

// settle waits for background actions and reloads path.
func (e *e2e) settle(t *testing.T, path string) string {
	t.Helper()
	e.runner.Wait()
	code, body := e.get(t, path)
	require.Equal(t, http.StatusOK, code)
	return body
}

func TestCustomerPaysInvoice(t *testing.T) {
	e := newE2E(t)

	code, body := e.get(t, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Consulta tus facturas")

	// Submitting follows the redirect into the invoice view.
	code, _ = e.post(t, "/", url.Values{"idCliente": {"123"}})
	require.Equal(t, http.StatusOK, code)
	body = e.settle(t, "/facturas/123")
	assert.Contains(t, body, "Agua")
	assert.Contains(t, body, "Luz")

	code, body = e.post(t, "/facturas/123/pago", url.Values{"id": {"2"}})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Confirmar pago")
	assert.Contains(t, body, "Bs. 120.50")

	code, _ = e.post(t, "/facturas/123/pago/confirmar", url.Values{})
	require.Equal(t, http.StatusOK, code)
	body = e.settle(t, "/facturas/123")
	assert.NotContains(t, body, "<dialog")
	assert.Equal(t, 2, strings.Count(body, ">PAGADO</span>"))

	code, body = e.post(t, "/facturas/123/detalle", url.Values{"id": {"2"}})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "SIM-2-202601")
	assert.Contains(t, body, time.Now().Format("02/01/2006"))
}

func TestEntryErrorsStayOnPage(t *testing.T) {
	e := newE2E(t)
	code, body := e.post(t, "/", url.Values{"idCliente": {"789"}})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "No se encontraron facturas asociadas a ese idCliente.")
	assert.Contains(t, body, `value="789"`)
}

func TestFacturasWithoutIDRedirectsHome(t *testing.T) {
	e := newE2E(t)
	for _, p := range []string{"/facturas", "/facturas/"} {
		code, body := e.get(t, p)
		require.Equal(t, http.StatusOK, code, p)
		assert.Contains(t, body, "Consulta tus facturas", p)
	}
}

func TestAdminSearch(t *testing.T) {
	e := newE2E(t)
	code, _ := e.post(t, "/facturasAdmin/buscar", url.Values{"idCliente": {"456"}})
	require.Equal(t, http.StatusOK, code)
	body := e.settle(t, "/facturasAdmin")
	assert.Contains(t, body, "Internet")
	assert.NotContains(t, body, ">Pagar</button>")
}

func TestSessionCookieAndRequestID(t *testing.T) {
	e := newE2E(t)
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "6f1c2a8e-5b7d-4e0a-9c3f-2d8b1a4e7c90")
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	code, body := read(t, resp)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
	assert.Equal(t, "6f1c2a8e-5b7d-4e0a-9c3f-2d8b1a4e7c90", resp.Header.Get(middleware.RequestIDHeader))

	u, _ := url.Parse(e.srv.URL)
	var found bool
	for _, c := range e.client.Jar.Cookies(u) {
		found = found || c.Name == session.CookieName
	}
	assert.True(t, found, "session cookie issued")
	assert.NotZero(t, e.logs.FilterField(zap.String("path", "/healthz")).Len())
}

func TestStaticStylesheet(t *testing.T) {
	e := newE2E(t)
	resp, err := e.client.Get(e.srv.URL + "/static/app.css")
	require.NoError(t, err)
	code, body := read(t, resp)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Contains(t, body, ".cdt-table")
}
