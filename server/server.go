// Package server exposes the compiler over HTTP: POST source text, get the
// generated program back.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/nilq/oelscript/compiler"
	"github.com/nilq/oelscript/diag"
)

// Server answers compile requests. Every request compiles independently;
// the Server holds only its configuration.
type Server struct {
	cfg Config
	log *log.Logger
}

// New returns a Server for cfg. A nil logger uses the standard logger.
func New(cfg Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, log: logger}, nil
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	return s.cors(mux)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHeader(w.Header(), "Access-Control-Allow-Origin", s.cfg.CORS.AllowOrigin)
		setHeader(w.Header(), "Access-Control-Allow-Methods", s.cfg.CORS.AllowMethods)
		setHeader(w.Header(), "Access-Control-Allow-Headers", s.cfg.CORS.AllowHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setHeader leaves unset headers out instead of sending them empty.
func setHeader(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := s.compile(w, r)
	s.log.Printf("%s %s %d %s", r.Method, r.URL.RequestURI(), status, time.Since(start).Round(time.Microsecond))
}

// compile serves one request and returns the status it wrote.
func (s *Server) compile(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	c, err := s.compilerFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return http.StatusBadRequest
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return http.StatusRequestEntityTooLarge
		}
		http.Error(w, "reading request body", http.StatusBadRequest)
		return http.StatusBadRequest
	}

	res, err := c.Compile("<request>", string(body))
	if err != nil {
		if s.cfg.Lenient {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			return http.StatusOK
		}
		var msg bytes.Buffer
		if l := diag.From(err); l != nil {
			diag.Render(&msg, l, false)
		} else {
			msg.WriteString(err.Error())
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(msg.Bytes())
		return http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Oel-Target", res.Target.String())
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, res.Output)
	return http.StatusOK
}

// compilerFor applies the request's target and fold overrides to the
// configured defaults.
func (s *Server) compilerFor(r *http.Request) (compiler.Compiler, error) {
	q := r.URL.Query()
	name := s.cfg.Target
	if v := q.Get("target"); v != "" {
		name = v
	}
	target, err := compiler.ParseTarget(name)
	if err != nil {
		return compiler.Compiler{}, err
	}
	fold := s.cfg.Fold
	if v := q.Get("fold"); v != "" {
		if fold, err = strconv.ParseBool(v); err != nil {
			return compiler.Compiler{}, fmt.Errorf("invalid fold value %q", v)
		}
	}
	return compiler.Compiler{Target: target, Fold: fold}, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down, giving
// in-flight requests up to five seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.log,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Printf("listening on %s (target %s, env %s)", s.cfg.Addr, s.cfg.Target, s.cfg.Environment)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
