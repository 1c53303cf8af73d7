package page

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/janisto/greet-playground/internal/form"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

const testSession = "7d3c1f0e-4d8a-4c55-9a51-0d6c3d8b6a11"

func newTestRouter(t *testing.T, svc greeter.Service, opts ...Option) (chi.Router, *Handler) {
	t.Helper()
	h, err := New(svc, opts...)
	if err != nil {
		t.Fatalf("new page handler: %v", err)
	}
	router := chi.NewRouter()
	h.Register(router)
	return router, h
}

func postName(name string) *http.Request {
	body := url.Values{"name": {name}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testSession})
	return req
}

func TestShowRendersForm(t *testing.T) {
	router, _ := newTestRouter(t, greeter.NewMock())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`<input id="name" name="name"`,
		`<button type="submit">Greet</button>`,
		`<p id="greeting"></p>`,
		`<p id="error" role="alert"></p>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "wasm_exec.js") {
		t.Error("expected no wasm bootstrap without a static dir")
	}
}

func TestShowIssuesSessionCookie(t *testing.T) {
	router, _ := newTestRouter(t, greeter.NewMock())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("expected one %s cookie, got %v", SessionCookie, cookies)
	}
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Fatalf("expected uuid session id, got %q", cookies[0].Value)
	}
	if !cookies[0].HttpOnly || cookies[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}
}

func TestShowKeepsValidSession(t *testing.T) {
	router, _ := newTestRouter(t, greeter.NewMock())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testSession})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if cookies := resp.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("expected no new cookie, got %v", cookies)
	}
}

func TestSubmitRendersGreeting(t *testing.T) {
	mock := greeter.NewMock()
	router, _ := newTestRouter(t, mock)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName("Ada"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `<p id="greeting">Hello, Ada!</p>`) {
		t.Fatalf("expected greeting in body, got:\n%s", body)
	}
	if !strings.Contains(body, `value="Ada"`) {
		t.Error("expected the name to stay in the input")
	}
	if strings.Contains(body, " disabled") {
		t.Error("expected button to be enabled after the call")
	}
	if diff := cmp.Diff([]string{"Ada"}, mock.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitPassesEmptyName(t *testing.T) {
	mock := greeter.NewMock()
	router, _ := newTestRouter(t, mock)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName(""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if diff := cmp.Diff([]string{""}, mock.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(resp.Body.String(), `<p id="greeting">Hello, !</p>`) {
		t.Fatal("expected empty-name greeting")
	}
}

func TestSubmitEscapesGreeting(t *testing.T) {
	router, _ := newTestRouter(t, greeter.NewMock())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName("<b>Ada</b>"))

	body := resp.Body.String()
	if strings.Contains(body, "<b>Ada</b>") {
		t.Fatal("expected markup in the greeting to be escaped")
	}
	if !strings.Contains(body, "Hello, &lt;b&gt;Ada&lt;/b&gt;!") {
		t.Fatalf("expected escaped greeting, got:\n%s", body)
	}
}

func TestSubmitFailureShowsError(t *testing.T) {
	mock := greeter.NewMock()
	mock.Err = greeter.NewCallError(greeter.CallErrorKindUpstream, http.StatusInternalServerError, nil)
	router, _ := newTestRouter(t, mock)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName("Ada"))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `<p id="greeting"></p>`) {
		t.Error("expected greeting to stay empty")
	}
	if !strings.Contains(body, form.ErrorMessage(mock.Err)) {
		t.Errorf("expected error message in body, got:\n%s", body)
	}
	if strings.Contains(body, " disabled") {
		t.Error("expected button to be re-enabled after failure")
	}
}

func TestSubmitBusySession(t *testing.T) {
	guard := form.NewGuard()
	mock := greeter.NewMock()
	router, _ := newTestRouter(t, mock, WithGuard(guard))

	release, ok := guard.TryAcquire(testSession)
	if !ok {
		t.Fatal("expected to acquire guard")
	}
	defer release()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName("Ada"))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), busyMessage) {
		t.Fatal("expected busy message in body")
	}
	if len(mock.Calls()) != 0 {
		t.Fatalf("expected no collaborator call, got %v", mock.Calls())
	}
}

func TestSubmitGuardIsPerSession(t *testing.T) {
	guard := form.NewGuard()
	router, _ := newTestRouter(t, greeter.NewMock(), WithGuard(guard))

	release, _ := guard.TryAcquire(uuid.NewString())
	defer release()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postName("Ada"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if guard.InFlight(testSession) {
		t.Fatal("expected guard to be released after the request")
	}
}

func TestStaticStylesheet(t *testing.T) {
	router, _ := newTestRouter(t, greeter.NewMock())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
}

func TestWasmAssetsFromStaticDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{wasmExecFile, wasmFile} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// "+name), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	router, h := newTestRouter(t, greeter.NewMock(), WithStaticDir(dir))
	if !h.WasmEnabled() {
		t.Fatal("expected wasm to be enabled")
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	body := resp.Body.String()
	for _, want := range []string{`src="/static/wasm_exec.js"`, `src="/static/boot.js"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/static/greet.wasm", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for greet.wasm, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/wasm" {
		t.Fatalf("expected application/wasm, got %q", ct)
	}
}

func TestWasmDisabledWhenAssetMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, wasmExecFile), []byte("//"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, h := newTestRouter(t, greeter.NewMock(), WithStaticDir(dir))
	if h.WasmEnabled() {
		t.Fatal("expected wasm to stay disabled without greet.wasm")
	}
}

func TestNewRequiresService(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestModelDrivesForm(t *testing.T) {
	m := &model{name: "Grace"}
	h, err := form.NewHandler(greeter.NewMock(), m.elements())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	if err := h.Submit(t.Context(), form.EventFunc(m.prevent)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := model{name: "Grace", greeting: "Hello, Grace!", prevented: true}
	if diff := cmp.Diff(want, *m, cmp.AllowUnexported(model{})); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
}
