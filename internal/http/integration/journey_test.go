package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/geocoder89/lentpath/internal/config"
	apphttp "github.com/geocoder89/lentpath/internal/http"
	"github.com/geocoder89/lentpath/internal/observability"
	"github.com/geocoder89/lentpath/internal/session"
	"github.com/geocoder89/lentpath/internal/sheets"
)

const (
	usersSheet   = "Utilisateurs LaCroixglorieuse"
	contentSheet = "Contenu Carême LaCroixglorieuse"
)

var today = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		UsersSheet:     usersSheet,
		ContentSheet:   contentSheet,
		SheetsBackend:  config.BackendMemory,
		SheetsTimeout:  time.Second,
		SessionSecret:  "test-secret-key-test-secret-key!",
		SessionBackend: config.SessionCookie,
		WorkspaceTTL:   time.Hour,
		MaxBodyBytes:   64 << 10,
	}
}

func seededGateway() *sheets.MemoryGateway {
	g := sheets.NewMemoryGateway()
	g.AddTable(usersSheet, []string{"Email", "Mot_de_Passe_Haché", "Date_Inscription"})
	g.AddTable(contentSheet,
		[]string{"Date", "Jour", "URL_Image", "Texte_Cure_dArs", "Citation_Parole", "Effort_Jour"},
		[]string{"2025-03-05", "Mercredi des Cendres", "https://img.example/cendres.jpg",
			"**Jean-Marie Vianney** naît en 1786.", "Revenez à moi de tout votre cœur.", "Jeûner et prier."},
	)
	return g
}

type app struct {
	srv    *httptest.Server
	client *http.Client
	prom   *observability.Prom
}

func newApp(t *testing.T, cfg config.Config, g sheets.Gateway) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, closeStore, err := session.NewStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	t.Cleanup(func() { _ = closeStore() })

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	observed := sheets.NewObservedGateway(g, prom)
	workspaces := session.NewManager(observed, session.Options{
		UsersSheet:   cfg.UsersSheet,
		ContentSheet: cfg.ContentSheet,
		Timeout:      cfg.SheetsTimeout,
		TTL:          cfg.WorkspaceTTL,
		Location:     time.UTC,
		Now:          func() time.Time { return today },
	}, logger, prom)

	handler, err := apphttp.NewRouter(apphttp.Deps{
		Cfg:        cfg,
		Log:        logger,
		Sessions:   store,
		Workspaces: workspaces,
		Prom:       prom,
		Gatherer:   reg,
		Ready:      observed.Ping,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &app{srv: srv, client: &http.Client{Jar: jar}, prom: prom}
}

func (a *app) get(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := a.client.Get(a.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return readBody(t, resp)
}

func (a *app) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()

	resp, err := a.client.PostForm(a.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(b)
}

func mustContain(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(body, w) {
			t.Fatalf("expected page to contain %q\n%s", w, body)
		}
	}
}

func mustNotContain(t *testing.T, body string, unwanted string) {
	t.Helper()
	if strings.Contains(body, unwanted) {
		t.Fatalf("page must not contain %q\n%s", unwanted, body)
	}
}

func TestJourney_RegisterLoginContentLogout(t *testing.T) {
	g := seededGateway()
	a := newApp(t, testConfig(), g)

	status, body := a.get(t, "/")
	if status != http.StatusOK {
		t.Fatalf("GET / status %d", status)
	}
	mustContain(t, body, "Connexion", "La base d")

	_, body = a.post(t, "/register/start", nil)
	mustContain(t, body, "Inscription", "Retour à la connexion")

	_, body = a.post(t, "/register", url.Values{"email": {"  Alice@Example.com "}, "password": {"carême2025"}})
	mustContain(t, body, "Inscription réussie", "Se Connecter")

	tbl, _ := g.Table(usersSheet)
	rows := tbl.Values()
	if len(rows) != 2 || rows[1][0] != "alice@example.com" || rows[1][2] != "2025-03-05" {
		t.Fatalf("unexpected users sheet: %v", rows)
	}
	if rows[1][1] == "carême2025" {
		t.Fatalf("password stored in clear")
	}

	_, body = a.post(t, "/login", url.Values{"email": {"ALICE@example.com"}, "password": {"carême2025"}})
	mustContain(t, body,
		"Connecté : <strong>alice@example.com</strong>",
		"Bienvenue sur votre parcours, alice!",
		"Parcours du Jour : 2025-03-05",
		"Image du jour : Mercredi des Cendres",
		"<strong>Jean-Marie Vianney</strong>",
		"<pre>Revenez à moi de tout votre cœur.</pre>",
		"Que cette journée de Carême soit fructueuse, alice!",
	)

	// refresh keeps the visitor logged in
	_, body = a.get(t, "/")
	mustContain(t, body, "Bienvenue sur votre parcours")

	_, body = a.post(t, "/logout", nil)
	mustContain(t, body, "Se Connecter")
	mustNotContain(t, body, "Bienvenue")
}

func TestJourney_LoginRejections(t *testing.T) {
	g := seededGateway()
	a := newApp(t, testConfig(), g)

	a.post(t, "/register/start", nil)
	a.post(t, "/register", url.Values{"email": {"bob@example.com"}, "password": {"right"}})

	_, body := a.post(t, "/login", url.Values{"email": {"bob@example.com"}, "password": {"wrong"}})
	mustContain(t, body, "Mot de passe incorrect.")

	_, body = a.post(t, "/login", url.Values{"email": {"nobody@example.com"}, "password": {"right"}})
	mustContain(t, body, "Utilisateur non trouvé.")

	// the flash is shown once
	_, body = a.get(t, "/")
	mustNotContain(t, body, "Utilisateur non trouvé.")
}

func TestJourney_DuplicateAndEmptyRegistration(t *testing.T) {
	a := newApp(t, testConfig(), seededGateway())

	a.post(t, "/register/start", nil)
	a.post(t, "/register", url.Values{"email": {"carol@example.com"}, "password": {"pw"}})

	a.post(t, "/register/start", nil)
	_, body := a.post(t, "/register", url.Values{"email": {"CAROL@example.com"}, "password": {"other"}})
	mustContain(t, body, "est déjà utilisé", "Inscription")

	_, body = a.post(t, "/register", url.Values{"email": {""}, "password": {"pw"}})
	mustContain(t, body, "sont obligatoires")

	_, body = a.post(t, "/register/cancel", nil)
	mustContain(t, body, "Se Connecter")
}

func TestJourney_InvalidTransitionsAreIgnored(t *testing.T) {
	a := newApp(t, testConfig(), seededGateway())

	// registering while logged out is not allowed, nothing is written
	status, body := a.post(t, "/register", url.Values{"email": {"eve@example.com"}, "password": {"pw"}})
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, "Se Connecter")
	mustNotContain(t, body, "Inscription réussie")

	_, body = a.post(t, "/logout", nil)
	mustContain(t, body, "Se Connecter")
}

func TestJourney_NoContentToday(t *testing.T) {
	g := sheets.NewMemoryGateway()
	g.AddTable(usersSheet, []string{"Email", "Mot_de_Passe_Haché", "Date_Inscription"})
	g.AddTable(contentSheet, []string{"Date", "Jour"}, []string{"2025-03-04", "Mardi gras"})

	a := newApp(t, testConfig(), g)
	a.post(t, "/register/start", nil)
	a.post(t, "/register", url.Values{"email": {"dan@example.com"}, "password": {"pw"}})

	_, body := a.post(t, "/login", url.Values{"email": {"dan@example.com"}, "password": {"pw"}})
	mustContain(t, body,
		"Parcours du Jour : 2025-03-05",
		"En attendant le contenu...",
		"Nous vous invitons à la prière",
	)
}

func TestJourney_DegradedWhenUsersDenied(t *testing.T) {
	g := seededGateway()
	g.FailOpen(usersSheet, sheets.ErrPermissionDenied)

	a := newApp(t, testConfig(), g)

	_, body := a.get(t, "/")
	mustContain(t, body, "Accès refusé à la feuille", "compte de service memory")

	_, body = a.post(t, "/login", url.Values{"email": {"a@example.com"}, "password": {"pw"}})
	mustContain(t, body, "Service indisponible")

	status, _ := a.get(t, "/healthz")
	if status != http.StatusOK {
		t.Fatalf("process must keep serving, healthz %d", status)
	}
}

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func TestJourney_CSRF(t *testing.T) {
	cfg := testConfig()
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	a := newApp(t, cfg, seededGateway())

	status, _ := a.post(t, "/register/start", nil)
	if status != http.StatusForbidden {
		t.Fatalf("POST without token: status %d, want 403", status)
	}

	_, body := a.get(t, "/")
	m := csrfInput.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("login page has no csrf field\n%s", body)
	}

	_, body = a.post(t, "/register/start", url.Values{"csrf_token": {m[1]}})
	mustContain(t, body, "Créez un Mot de Passe")
}

func TestOperationalEndpoints(t *testing.T) {
	a := newApp(t, testConfig(), seededGateway())

	a.get(t, "/")

	status, _ := a.get(t, "/readyz")
	if status != http.StatusOK {
		t.Fatalf("readyz %d", status)
	}

	status, body := a.get(t, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("metrics %d", status)
	}
	mustContain(t, body, "lentpath_http_requests_total", "lentpath_sheets_op_duration_seconds", "lentpath_sessions_workspaces_built_total")
}

func TestOversizedFormIsRefused(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 128
	a := newApp(t, cfg, seededGateway())

	status, _ := a.post(t, "/login", url.Values{"email": {strings.Repeat("a", 512) + "@x.com"}, "password": {"pw"}})
	if status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", status)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	a := newApp(t, testConfig(), seededGateway())

	req, err := http.NewRequest(http.MethodGet, a.srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-Id", "req-42")

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("request id not echoed: %q", got)
	}
}
