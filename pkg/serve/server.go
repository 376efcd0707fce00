// Package serve exposes a fitted churn pipeline over HTTP.
//
// Routes:
//
//	POST /predict   {"records": [{...}, ...]} -> {"predictions": [p1, ...]}
//	GET  /healthz   liveness, loaded model id and uptime
//	GET  /metrics   Prometheus metrics
//
// The pipeline is loaded once at startup and only read afterwards, so
// concurrent requests share it without locking.
package serve

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Natan-Ledur/Churn-ML-ap/pkg/bundle"
	"github.com/Natan-Ledur/Churn-ML-ap/pkg/pipeline"
)

// DefaultMaxBodyBytes caps the size of a prediction request.
const DefaultMaxBodyBytes = 8 << 20

// Config is the explicit serving configuration.
type Config struct {
	ModelPath    string
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server answers prediction requests with one pipeline.
type Server struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	modelID  string
	started  time.Time
	metrics  *metrics
	handler  http.Handler
}

// New returns a server for the fitted pipeline p.
func New(cfg Config, p *pipeline.Pipeline) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		started:  time.Now(),
		metrics:  newMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", s.metrics.handler())
	s.handler = s.logRequests(mux)
	return s
}

// Open loads the bundle at cfg.ModelPath and returns a server for it.
func Open(cfg Config) (*Server, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("serve: model path is not set")
	}
	b, err := bundle.Load(cfg.ModelPath)
	if err != nil {
		return nil, errors.WithMessage(err, "serve: load model")
	}
	s := New(cfg, b.Pipeline)
	s.modelID = b.ID
	klog.Infof("serving model %s from %s (%d input columns)", b.ID, cfg.ModelPath, len(b.Schema.FeatureNames))
	return s, nil
}

// Handler returns the root handler, including request logging.
func (s *Server) Handler() http.Handler { return s.handler }

// ModelID is the id of the loaded bundle, empty when the pipeline was passed in directly.
func (s *Server) ModelID() string { return s.modelID }

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		klog.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return errors.Wrapf(err, "serve: listen on %s", s.cfg.Addr)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "serve: shutdown")
	}
	klog.Info("server stopped")
	return nil
}
