// Package page serves the greeting form as server-rendered HTML. Without
// JavaScript the form posts back to the same URL and the submission runs
// server side through form.Handler; when the wasm assets are present the
// browser runs the same handler against the live DOM instead.
package page

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janisto/greet-playground/internal/form"
	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

const (
	// SessionCookie keys the in-flight guard for no-JS submissions.
	SessionCookie = "greet_session"

	// Front is the audit name of this front end.
	Front = "page"

	defaultTitle  = "Greet"
	maxNameLength = 256
	wasmExecFile  = "wasm_exec.js"
	wasmFile      = "greet.wasm"
	busyMessage   = "A greeting is already on its way. Please wait for it."
)

var (
	//go:embed templates/*.html
	templateFiles embed.FS

	//go:embed static
	staticFiles embed.FS
)

// Option configures a Handler.
type Option func(*Handler)

// WithGuard rejects a POST while the same session already has one in flight.
func WithGuard(g *form.Guard) Option {
	return func(h *Handler) {
		h.guard = g
	}
}

// WithStaticDir serves wasm_exec.js and greet.wasm from dir. The page loads
// the wasm front end only when both files exist.
func WithStaticDir(dir string) Option {
	return func(h *Handler) {
		h.staticDir = dir
	}
}

// WithTimeout bounds each collaborator call made for a POST.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

// WithTitle overrides the page heading.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if title != "" {
			h.title = title
		}
	}
}

// Handler renders and processes the greeting form.
type Handler struct {
	svc       greeter.Service
	guard     *form.Guard
	staticDir string
	timeout   time.Duration
	title     string
	wasm      bool
	tpl       *pongo2.Template
}

// New parses the embedded templates and probes the static dir.
func New(svc greeter.Service, opts ...Option) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("page: greeter service is required")
	}
	h := &Handler{svc: svc, title: defaultTitle}
	for _, opt := range opts {
		opt(h)
	}

	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("page: templates: %w", err)
	}
	set := pongo2.NewSet("page", pongo2.NewFSLoader(sub))
	tpl, err := set.FromFile("index.html")
	if err != nil {
		return nil, fmt.Errorf("page: parse index.html: %w", err)
	}
	h.tpl = tpl

	if h.staticDir != "" {
		h.wasm = fileExists(filepath.Join(h.staticDir, wasmExecFile)) &&
			fileExists(filepath.Join(h.staticDir, wasmFile))
	}
	return h, nil
}

// WasmEnabled reports whether the page bootstraps the wasm front end.
func (h *Handler) WasmEnabled() bool {
	return h.wasm
}

// Register mounts the page and its assets on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/", h.submit)

	assets, _ := fs.Sub(staticFiles, "static")
	embedded := http.StripPrefix("/static/", http.FileServerFS(assets))
	r.Handle("/static/style.css", embedded)
	r.Handle("/static/boot.js", embedded)
	if h.staticDir != "" {
		dir := http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir)))
		r.Handle("/static/"+wasmExecFile, dir)
		r.Handle("/static/"+wasmFile, dir)
	}
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	h.session(w, r)
	h.render(w, r, http.StatusOK, &model{})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.LogWarn(r.Context(), "invalid form body", zap.Error(err))
		h.render(w, r, http.StatusBadRequest, &model{errText: "The form could not be read."})
		return
	}
	session := h.session(w, r)

	m := &model{name: r.PostFormValue("name")}
	opts := []form.Option{form.WithAudit(Front, session)}
	if h.guard != nil {
		opts = append(opts, form.WithGuard(h.guard, session))
	}
	if h.timeout > 0 {
		opts = append(opts, form.WithTimeout(h.timeout))
	}
	handler, err := form.NewHandler(h.svc, m.elements(), opts...)
	if err != nil {
		applog.LogError(r.Context(), "form handler setup failed", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	err = handler.Submit(r.Context(), form.EventFunc(m.prevent))
	switch {
	case errors.Is(err, form.ErrBusy):
		m.errText = busyMessage
		h.render(w, r, http.StatusConflict, m)
	case err != nil:
		h.render(w, r, http.StatusBadGateway, m)
	default:
		h.render(w, r, http.StatusOK, m)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, m *model) {
	body, err := h.tpl.ExecuteBytes(pongo2.Context{
		"title":    h.title,
		"wasm":     h.wasm,
		"max_name": maxNameLength,
		"name":     m.name,
		"greeting": m.greeting,
		"error":    m.errText,
		"disabled": m.disabled,
	})
	if err != nil {
		applog.LogError(r.Context(), "render page failed", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// session returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
