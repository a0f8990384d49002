package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/ingest"
	"github.com/sells-group/enrich-cli/internal/model"
)

var servePort int

// batchSession is the server's view of the one batch run it allows at a
// time. The tracker inside is safe for concurrent reads; the session
// lock only guards starting and finishing.
type batchSession struct {
	mu      sync.Mutex
	tracker *enrich.Tracker
	running bool
	stats   *model.BatchStats
	outFile string
}

func newBatchSession() *batchSession {
	return &batchSession{tracker: enrich.NewTracker()}
}

func (s *batchSession) start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.stats = nil
	s.outFile = ""
	s.tracker.Reset()
	return true
}

func (s *batchSession) finish(stats model.BatchStats, outFile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.stats = &stats
	s.outFile = outFile
	s.tracker.Finish()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the enrichment progress API",
	Long:  "Starts an HTTP server exposing batch enrichment over POST /enrich, live progress over GET /progress, and cooperative cancellation over POST /cancel.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rules, err := loadRules()
		if err != nil {
			return err
		}
		registry := initSources()
		session := newBatchSession()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/enrich", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				File     string `json:"file"`
				Enhanced bool   `json:"enhanced"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.File == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
				return
			}

			records, err := ingest.LoadFile(body.File)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}

			if !session.start() {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "a batch is already running"})
				return
			}

			go func() {
				orch := enrich.NewOrchestrator(registry.Resolve(rules.Sources), rules.RequiredFields)
				runner := enrich.NewRunner(orch, session.tracker)

				var stats model.BatchStats
				if body.Enhanced {
					flow := enrich.NewEnhanced(newScrapeClient(), runner, session.tracker, cfg.Scrape.MaxDiscovery)
					stats = flow.Run(ctx, records)
				} else {
					stats = runner.Run(ctx, records)
				}

				out := body.File + ".enriched.csv"
				if err := ingest.WriteFile(out, records); err != nil {
					zap.L().Error("serve: write output failed", zap.Error(err))
					out = ""
				}
				session.finish(stats, out)
				zap.L().Info("serve: batch complete",
					zap.Int("total", stats.Total),
					zap.Int("success", stats.Success),
				)
			}()

			writeJSON(w, http.StatusAccepted, map[string]any{
				"status": "accepted",
				"total":  len(records),
			})
		})

		r.Get("/progress", func(w http.ResponseWriter, _ *http.Request) {
			session.mu.Lock()
			running := session.running
			stats := session.stats
			outFile := session.outFile
			session.mu.Unlock()

			writeJSON(w, http.StatusOK, map[string]any{
				"running":  running,
				"progress": session.tracker.Snapshot(),
				"messages": session.tracker.Messages(),
				"stats":    stats,
				"out_file": outFile,
			})
		})

		r.Post("/cancel", func(w http.ResponseWriter, _ *http.Request) {
			session.tracker.RequestStop()
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
