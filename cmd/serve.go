package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/extract"
	"github.com/sells-group/foresight-cli/internal/jobs"
	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/store"
)

// maxUploadBytes caps uploaded document size.
const maxUploadBytes = 32 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for job submission and polling",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(env *appEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/metrics", func(w http.ResponseWriter, req *http.Request) {
		snap, err := env.Collector.Collect(req.Context(), 24)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "metrics collection failed")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	r.Post("/api/analyze", handleAnalyze(env))
	r.Get("/api/jobs/{id}", handleGetJob(env))
	r.Post("/api/jobs/{id}/clarifications", handleClarifications(env))
	r.Get("/api/jobs/{id}/report", handleGetReport(env))

	return r
}

func handleAnalyze(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSubmit(w, r)
		if !ok {
			return
		}
		req.DemoMode = env.Offline

		job, err := env.Manager.Submit(r.Context(), req)
		if err != nil {
			if extract.IsInputError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			zap.L().Error("submit failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "submission failed")
			return
		}
		writeJSON(w, http.StatusAccepted, jobSummary(job))
	}
}

// decodeSubmit accepts either a JSON body {"text": ...} or a multipart form
// with a "file" part.
func decodeSubmit(w http.ResponseWriter, r *http.Request) (jobs.SubmitRequest, bool) {
	ct := r.Header.Get("Content-Type")

	if ct == "" || strings.HasPrefix(ct, "application/json") {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return jobs.SubmitRequest{}, false
		}
		return jobs.SubmitRequest{Text: body.Text}, true
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return jobs.SubmitRequest{}, false
	}
	if text := r.FormValue("text"); text != "" {
		return jobs.SubmitRequest{Text: text}, true
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "provide text or a file part")
		return jobs.SubmitRequest{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return jobs.SubmitRequest{}, false
	}
	return jobs.SubmitRequest{FileName: header.Filename, FileBytes: data}, true
}

func handleGetJob(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := loadJob(env, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleClarifications(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answers []model.ClarificationAnswer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Answers) == 0 {
			writeError(w, http.StatusBadRequest, "provide a non-empty answers array")
			return
		}

		job, err := env.Manager.SubmitClarifications(r.Context(), chi.URLParam(r, "id"), body.Answers)
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "job not found")
				return
			}
			zap.L().Error("clarification submit failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "clarification submission failed")
			return
		}
		writeJSON(w, http.StatusAccepted, jobSummary(job))
	}
}

func handleGetReport(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := loadJob(env, w, r)
		if !ok {
			return
		}
		if job.Status != model.JobStatusSucceeded || job.Report == nil {
			writeError(w, http.StatusConflict, fmt.Sprintf("job is %s, report not available", job.Status))
			return
		}
		writeJSON(w, http.StatusOK, job.Report)
	}
}

func loadJob(env *appEnv, w http.ResponseWriter, r *http.Request) (*model.Job, bool) {
	job, err := env.Manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return nil, false
		}
		zap.L().Error("load job failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading job failed")
		return nil, false
	}
	return job, true
}

func jobSummary(job *model.Job) map[string]any {
	return map[string]any{
		"id":       job.ID,
		"status":   job.Status,
		"progress": job.Progress,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
