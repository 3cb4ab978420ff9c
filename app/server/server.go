// Package server receives OneBot 11 events pushed in HTTP POST mode and passes them to the listener.
package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // sha1 is required by OneBot signature
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/antiflood/app/events"
	"github.com/umputun/antiflood/lib/floodcheck"
)

//go:generate moq --out mocks/event_handler.go --pkg mocks --with-resets --skip-ensure . EventHandler

// Server is OneBot event receiver
type Server struct {
	Params
}

// Params defines server parameters
type Params struct {
	ListenAddr string        // listen address
	Secret     string        // OneBot secret to verify X-Signature, empty to skip verification
	Version    string        // version to show in headers
	Handler    EventHandler  // event handler, usually events.Listener
	Timeout    time.Duration // handling timeout for a single event
}

// EventHandler handles a single OneBot event
type EventHandler interface {
	Handle(ctx context.Context, ev events.Event) (floodcheck.Response, error)
}

const maxBodySize = 1024 * 1024

// NewServer makes OneBot receiver
func NewServer(params Params) *Server {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	return &Server{Params: params}
}

// Run starts the server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout: s.Timeout + 5*time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown onebot server: %v", err)
		} else {
			log.Printf("[INFO] onebot server stopped")
		}
	}()

	log.Printf("[INFO] start onebot server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	lmt := tollbooth.NewLimiter(100, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("antiflood", "umputun", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(lmt))
	router.Use(rest.SizeLimit(maxBodySize))
	router.HandleFunc("POST /onebot", s.eventHandler)
	return router
}

// eventHandler handles POST /onebot, verifies signature and passes decoded event to the handler
func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't read request")
		return
	}

	if s.Secret != "" && !s.validSignature(body, r.Header.Get("X-Signature")) {
		log.Printf("[WARN] invalid signature from %s", r.RemoteAddr)
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusForbidden, errors.New("signature mismatch"), "invalid signature")
		return
	}

	var ev events.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't decode event")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()
	if _, err := s.Handler.Handle(ctx, ev); err != nil {
		// event accepted, errors are on our side and retrying delivery won't help
		log.Printf("[WARN] failed to handle event %s from group %s: %v", ev.MessageID, ev.GroupID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// validSignature checks X-Signature header, sha1=<hex of HMAC-SHA1(secret, body)>
func (s *Server) validSignature(body []byte, header string) bool {
	sig, ok := strings.CutPrefix(header, "sha1=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, sign(s.Secret, body))
}

// sign returns HMAC-SHA1 of body with secret
func sign(secret string, body []byte) []byte {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
