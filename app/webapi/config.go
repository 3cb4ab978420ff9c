package webapi

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/antiflood/app/config"
)

// SettingsStore persists settings, implemented by config.Store
type SettingsStore interface {
	Save(ctx context.Context, settings config.Settings) error
	Delete(ctx context.Context) error
}

// getConfigHandler handles GET /api/config, returns current settings
func (s *Server) getConfigHandler(w http.ResponseWriter, _ *http.Request) {
	rest.RenderJSON(w, s.Settings.Get())
}

// updateConfigHandler handles PUT|POST /api/config. Missing or invalid fields of the request
// take defaults, the result replaces current settings and is saved if the store is set.
func (s *Server) updateConfigHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't read request")
		return
	}
	settings, err := config.Parse(data)
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "can't parse settings")
		return
	}

	s.Settings.Replace(settings)
	log.Printf("[INFO] settings updated, action:%s, policy: %s", settings.Action, settings.Spam)

	if s.SettingsStore != nil {
		if err := s.SettingsStore.Save(r.Context(), settings); err != nil {
			rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "settings applied but not saved")
			return
		}
	}
	rest.RenderJSON(w, settings)
}

// resetConfigHandler handles DELETE /api/config, resets settings to defaults and removes saved ones
func (s *Server) resetConfigHandler(w http.ResponseWriter, r *http.Request) {
	settings := config.New()
	s.Settings.Replace(settings)
	log.Printf("[INFO] settings reset to defaults")

	if s.SettingsStore != nil {
		if err := s.SettingsStore.Delete(r.Context()); err != nil {
			rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "settings reset but not deleted")
			return
		}
	}
	rest.RenderJSON(w, settings)
}
