// Package server provides a status REST API of the bot: loaded trigger rules and throttle state.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/prandsen/telebot/lib/trigger"
)

//go:generate moq --out mocks/triggers.go --pkg mocks --with-resets --skip-ensure . Triggers

// Server is a status REST API server
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string        // version to show in app info headers
	ListenAddr string        // listen address
	Triggers   Triggers      // trigger rules and throttle state
	SpamDelay  time.Duration // throttle cooldown, reported as is
	SpamLimit  int           // allowed consecutive replies, reported as is
}

// Triggers provides loaded rules and throttle stats, satisfied by bot.Triggers
type Triggers interface {
	Rules() []trigger.Rule
	Stats() trigger.Stats
}

// NewServer makes a new status server
func NewServer(cfg Config) *Server {
	return &Server{Config: cfg}
}

// Run starts the server, blocks until ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown status server: %v", err)
			return
		}
		log.Printf("[INFO] status server stopped")
	}()

	log.Printf("[INFO] start status server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	lmt := tollbooth.NewLimiter(10, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("telebot", "prandsen", s.Version), rest.Ping)
	router.Use(func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) })

	router.HandleFunc("GET /rules", s.rulesHandler)
	router.HandleFunc("GET /throttle", s.throttleHandler)
	return router
}

// rulesHandler handles GET /rules, returns currently loaded rules
func (s *Server) rulesHandler(w http.ResponseWriter, _ *http.Request) {
	rules := s.Triggers.Rules()
	rest.RenderJSON(w, rest.JSON{"count": len(rules), "rules": rules})
}

// throttleHandler handles GET /throttle, returns throttle params and the number of tracked replies
func (s *Server) throttleHandler(w http.ResponseWriter, _ *http.Request) {
	st := s.Triggers.Stats()
	rest.RenderJSON(w, rest.JSON{
		"rules":           st.Rules,
		"tracked_replies": st.TrackedReplies,
		"spam_delay":      s.SpamDelay.String(),
		"spam_limit":      s.SpamLimit,
	})
}
