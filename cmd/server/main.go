package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/greet-playground/internal/form"
	"github.com/janisto/greet-playground/internal/http/page"
	"github.com/janisto/greet-playground/internal/http/v1/routes"
	"github.com/janisto/greet-playground/internal/platform/config"
	applog "github.com/janisto/greet-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/greet-playground/internal/platform/middleware"
	"github.com/janisto/greet-playground/internal/platform/respond"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogError(context.Background(), "invalid configuration", err)
		os.Exit(1)
	}
	svc, err := cfg.NewGreeter("greet-playground/" + Version)
	if err != nil {
		applog.LogError(context.Background(), "greeter setup failed", err)
		os.Exit(1)
	}
	handler, err := newRouter(cfg, svc)
	if err != nil {
		applog.LogError(context.Background(), "router setup failed", err)
		os.Exit(1)
	}

	srv := newServer(cfg, handler)
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("greeter", cfg.GreeterMode()),
			zap.Bool("submit_guard", cfg.SubmitGuard),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newRouter assembles the middleware stack, the greet API and the page.
func newRouter(cfg config.Config, svc greeter.Service) (http.Handler, error) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	humaCfg := huma.DefaultConfig("Greet Playground API", Version)
	humaCfg.DocsPath = "/api-docs"
	api := humachi.New(router, humaCfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	pageOpts := []page.Option{
		page.WithStaticDir(cfg.StaticDir),
		page.WithTimeout(cfg.GreeterTimeout),
	}
	if cfg.SubmitGuard {
		pageOpts = append(pageOpts, page.WithGuard(form.NewGuard()))
	}
	pageHandler, err := page.New(svc, pageOpts...)
	if err != nil {
		return nil, err
	}

	routes.Register(router, api, routes.Deps{
		Greeter:     svc,
		Page:        pageHandler,
		Version:     Version,
		GreeterMode: cfg.GreeterMode(),
	})
	return router, nil
}

// addCBORContent advertises application/cbor next to every JSON body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

func newServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		// Leaves room for a full greeter timeout on POST /.
		WriteTimeout:   cfg.GreeterTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10, // 64 KB
	}
}
