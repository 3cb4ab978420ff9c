// Package webapi provides admin API of antiflood service: settings, statistics and manual checks.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/antiflood/app/config"
	"github.com/umputun/antiflood/app/storage"
	"github.com/umputun/antiflood/lib/antiflood"
	"github.com/umputun/antiflood/lib/floodcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/history_store.go --pkg mocks --with-resets --skip-ensure . HistoryStore
//go:generate moq --out mocks/journal.go --pkg mocks --with-resets --skip-ensure . Journal
//go:generate moq --out mocks/settings_store.go --pkg mocks --with-resets --skip-ensure . SettingsStore

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version       string           // version to show in /ping
	ListenAddr    string           // listen address
	Detector      Detector         // flood detector
	History       HistoryStore     // records store of the detector
	Settings      *config.Holder   // current settings
	SettingsStore SettingsStore    // optional, settings persistence
	Journal       Journal          // optional, detections journal
	AuthPasswd    string           // basic auth password for user "antiflood", empty disables auth
	Now           func() time.Time // time source for checks, time.Now if nil
}

// Detector is a flood detector interface.
type Detector interface {
	Evaluate(rec floodcheck.Record) floodcheck.Response
	Recent(n int) []floodcheck.Detection
	DetectionsTotal() int
}

// HistoryStore provides read access to the records store.
type HistoryStore interface {
	Stats() antiflood.Stats
	Groups() []string
	Users(groupID string) map[string]int
}

// Journal is a persistent detections journal.
type Journal interface {
	Read(ctx context.Context, limit int) ([]storage.DetectionInfo, error)
	Count(ctx context.Context) (int, error)
}

// GroupInfo is a summary of a single group history
type GroupInfo struct {
	GroupID string         `json:"group_id"`
	Enabled bool           `json:"enabled"`
	Users   int            `json:"users"`
	Records int            `json:"records"`
	History map[string]int `json:"history,omitempty"` // records per user, only for a single group request
}

const (
	authUser          = "antiflood"
	defaultListLimit  = 100
	maxRequestSize    = 1024 * 1024
	requestsPerSecond = 50
)

// NewServer creates a new web API server.
func NewServer(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{Config: cfg}
}

// Run starts server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout: 30 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	lmt := tollbooth.NewLimiter(requestsPerSecond, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.Throttle(1000))
	router.Use(rest.AppInfo("antiflood", "umputun", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(lmt))
	router.Use(rest.SizeLimit(maxRequestSize))

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		if s.AuthPasswd != "" {
			api.Use(rest.BasicAuthWithUserPasswd(authUser, s.AuthPasswd))
		}
		api.HandleFunc("GET /config", s.getConfigHandler)
		api.HandleFunc("PUT /config", s.updateConfigHandler)
		api.HandleFunc("POST /config", s.updateConfigHandler)
		api.HandleFunc("DELETE /config", s.resetConfigHandler)
		api.HandleFunc("GET /stats", s.statsHandler)
		api.HandleFunc("GET /groups", s.groupsHandler)
		api.HandleFunc("GET /groups/{group}", s.groupHandler)
		api.HandleFunc("POST /check", s.checkHandler)
		api.HandleFunc("GET /detections", s.detectionsHandler)
		api.HandleFunc("GET /recent", s.recentHandler)
	})
	return router
}

// statsHandler handles GET /api/stats, returns store statistics and detections counters
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	st := s.History.Stats()
	res := rest.JSON{"groups": st.Groups, "users": st.Users, "records": st.Records,
		"detections": s.Detector.DetectionsTotal()}
	if s.Journal != nil {
		count, err := s.Journal.Count(r.Context())
		if err != nil {
			rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't count detections")
			return
		}
		res["journal"] = count
	}
	rest.RenderJSON(w, res)
}

// groupsHandler handles GET /api/groups, returns all groups with history
func (s *Server) groupsHandler(w http.ResponseWriter, _ *http.Request) {
	settings := s.Settings.Get()
	res := []GroupInfo{}
	for _, gid := range s.History.Groups() {
		info := GroupInfo{GroupID: gid, Enabled: settings.IsGroupEnabled(gid)}
		for _, n := range s.History.Users(gid) {
			info.Users++
			info.Records += n
		}
		res = append(res, info)
	}
	rest.RenderJSON(w, res)
}

// groupHandler handles GET /api/groups/{group}, returns history length per user of the group.
// Unknown group gives empty history.
func (s *Server) groupHandler(w http.ResponseWriter, r *http.Request) {
	gid := r.PathValue("group")
	users := s.History.Users(gid)
	res := GroupInfo{GroupID: gid, Enabled: s.Settings.Get().IsGroupEnabled(gid), Users: len(users), History: users}
	for _, n := range users {
		res.Records += n
	}
	rest.RenderJSON(w, res)
}

// checkHandler handles POST /api/check, classifies the record against current history without storing it
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	var rec floodcheck.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't decode request")
		return
	}
	if rec.GroupID == "" || rec.UserID == "" {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, errors.New("missing ids"),
			"group_id and user_id are required")
		return
	}
	if rec.Time.IsZero() {
		rec.Time = s.Now()
	}
	rest.RenderJSON(w, s.Detector.Evaluate(rec))
}

// detectionsHandler handles GET /api/detections?limit=N, returns journal rows, newest first
func (s *Server) detectionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := listLimit(r)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid limit")
		return
	}
	if s.Journal == nil {
		rest.RenderJSON(w, []storage.DetectionInfo{})
		return
	}
	res, err := s.Journal.Read(r.Context(), limit)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't read detections")
		return
	}
	rest.RenderJSON(w, res)
}

// recentHandler handles GET /api/recent?limit=N, returns in-memory detections since start, oldest first
func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := listLimit(r)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid limit")
		return
	}
	res := s.Detector.Recent(limit)
	if res == nil {
		res = []floodcheck.Detection{}
	}
	rest.RenderJSON(w, res)
}

// listLimit returns limit query parameter, defaultListLimit if not set
func listLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("can't parse limit %q: %w", v, err)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("limit should be positive, got %d", limit)
	}
	return limit, nil
}
