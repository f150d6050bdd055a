package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/terraclip/terraclip/pkg/cache"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/observability"
	"github.com/terraclip/terraclip/pkg/pipeline"
	"github.com/terraclip/terraclip/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		mongoDB   string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipping pipeline as an HTTP service",
		Long: `Start an HTTP server exposing the clipping pipeline.

Endpoints:
  POST   /v1/clip        run the pipeline, returns the run and its artifacts
  GET    /v1/runs        list recorded runs, newest first
  GET    /v1/runs/{id}   fetch one run
  DELETE /v1/runs/{id}   delete a run record
  GET    /healthz        liveness check

Runs are kept in memory unless --mongo points at a MongoDB instance. With
--redis the pipeline cache is shared across server instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pipelineCache, err := newServeCache(ctx, redisAddr, noCache)
			if err != nil {
				return err
			}

			runStore, err := newServeStore(ctx, mongoURI, mongoDB)
			if err != nil {
				return err
			}
			defer runStore.Close(context.Background())

			runner := pipeline.NewRunner(pipelineCache, nil, c.Logger)
			defer runner.Close()

			srv := &server{runner: runner, store: runStore, logger: c.Logger}
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("Server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared pipeline cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for persistent run records")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "terraclip", "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

// newServeCache picks the pipeline cache backend for the server.
func newServeCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	return newCache(noCache), nil
}

// newServeStore picks the run store backend for the server.
func newServeStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI != "" {
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	}
	return store.NewMemoryStore(), nil
}

// =============================================================================
// HTTP Server
// =============================================================================

// server handles HTTP requests against the pipeline.
type server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/clip", s.handleClip)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
	})
	return r
}

// observe reports requests through the observability hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clipResponse is the POST /v1/clip response body. Artifacts are base64
// encoded by encoding/json.
type clipResponse struct {
	Run       *store.Run        `json:"run"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

func (s *server) handleClip(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	run := store.NewRun(opts)
	run.Status = store.StatusRunning
	if err := s.store.Create(r.Context(), run); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		run.Fail(err)
		if updateErr := s.store.Update(r.Context(), run); updateErr != nil {
			s.logger.Error("Failed to record run failure", "run", run.ID, "error", updateErr)
		}
		s.writeError(w, r, statusForError(err), err)
		return
	}

	run.Complete(result.Stats)
	if err := s.store.Update(r.Context(), run); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, clipResponse{Run: run, Artifacts: result.Artifacts})
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List(r.Context(), 100)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err == store.ErrNotFound {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusForError maps pipeline error codes to HTTP statuses.
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRect, errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInterval, errors.ErrCodeInvalidJob,
		errors.ErrCodeNoElevationField:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
