package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/umputun/antiflood/app/config"
	"github.com/umputun/antiflood/app/events"
	"github.com/umputun/antiflood/lib/floodcheck"
)

//go:generate moq --out mocks/onebot_api.go --pkg mocks --with-resets --skip-ensure . OneBotAPI

// OneBotAPI is an interface for OneBot actions, implemented by OneBotClient
type OneBotAPI interface {
	Call(ctx context.Context, action string, params any) error
}

// Moderator applies the configured action to flooding users. Thread safe.
// Actions for the same user in the same group are not repeated within cooldown period.
type Moderator struct {
	api      OneBotAPI
	settings *config.Holder
	dry      bool
	cooldown cache.Cache[string, struct{}]
}

// WarnParams are fields available in warn message template
type WarnParams struct {
	GroupID string
	UserID  string
	Kind    floodcheck.Kind
	Details string
	Text    string
}

const maxCooldownKeys = 10000

// NewModerator makes a moderator. Cooldown <= 0 disables the cooldown, dry mode only logs actions.
func NewModerator(api OneBotAPI, settings *config.Holder, cooldown time.Duration, dry bool) *Moderator {
	res := &Moderator{api: api, settings: settings, dry: dry}
	if cooldown > 0 {
		res.cooldown = cache.NewCache[string, struct{}]().WithMaxKeys(maxCooldownKeys).WithTTL(cooldown)
	}
	return res
}

// Moderate applies the action from current settings to the user of detection
func (m *Moderator) Moderate(ctx context.Context, det floodcheck.Detection) error {
	rec := det.Record
	key := rec.GroupID + ":" + rec.UserID
	if m.cooldown != nil {
		if _, found := m.cooldown.Get(key); found {
			log.Printf("[DEBUG] user %s in group %s already moderated, skip", rec.UserID, rec.GroupID)
			return nil
		}
		m.cooldown.Set(key, struct{}{}, 0)
	}

	s := m.settings.Get()
	if m.dry {
		log.Printf("[INFO] dry mode, %s for user %s in group %s skipped, %s", s.Action, rec.UserID, rec.GroupID, det.Response)
		return nil
	}

	group, user := events.ID(rec.GroupID), events.ID(rec.UserID)
	errs := new(multierror.Error)
	switch s.Action {
	case config.ActionMute:
		params := map[string]any{"group_id": group, "user_id": user, "duration": int(s.MuteDuration.Seconds())}
		if err := m.api.Call(ctx, "set_group_ban", params); err != nil {
			return fmt.Errorf("can't mute user %s: %w", rec.UserID, err)
		}
		log.Printf("[INFO] user %s muted in group %s for %v, %s", rec.UserID, rec.GroupID, s.MuteDuration, det.Response)
		notice := fmt.Sprintf(" muted for %v, %s", s.MuteDuration, det.Response.Details)
		if err := m.send(ctx, group, user, notice); err != nil {
			errs = multierror.Append(errs, err)
		}
	case config.ActionKick:
		params := map[string]any{"group_id": group, "user_id": user, "reject_add_request": false}
		if err := m.api.Call(ctx, "set_group_kick", params); err != nil {
			return fmt.Errorf("can't kick user %s: %w", rec.UserID, err)
		}
		log.Printf("[INFO] user %s kicked from group %s, %s", rec.UserID, rec.GroupID, det.Response)
		if err := m.send(ctx, group, user, " removed from the group, "+det.Response.Details); err != nil {
			errs = multierror.Append(errs, err)
		}
	default:
		text := m.warnText(s.WarnMessage, det)
		if err := m.send(ctx, group, user, " "+text); err != nil {
			return fmt.Errorf("can't warn user %s: %w", rec.UserID, err)
		}
		log.Printf("[INFO] user %s warned in group %s, %s", rec.UserID, rec.GroupID, det.Response)
	}
	return errs.ErrorOrNil()
}

// send posts group message mentioning the user
func (m *Moderator) send(ctx context.Context, group, user events.ID, text string) error {
	msg := events.Message{events.MentionSegment{QQ: string(user)}, events.TextSegment{Text: text}}
	if err := m.api.Call(ctx, "send_group_msg", map[string]any{"group_id": group, "message": msg}); err != nil {
		return fmt.Errorf("can't send message to group %s: %w", group, err)
	}
	return nil
}

// warnText renders warn template, broken template falls back to the default one
func (m *Moderator) warnText(tmpl string, det floodcheck.Detection) string {
	params := WarnParams{GroupID: det.Record.GroupID, UserID: det.Record.UserID, Kind: det.Response.Kind,
		Details: det.Response.Details, Text: det.Record.Text}
	render := func(tmpl string) (string, error) {
		t, err := template.New("warn").Parse(tmpl)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if err := t.Execute(&sb, params); err != nil {
			return "", err
		}
		return sb.String(), nil
	}

	res, err := render(tmpl)
	if err != nil {
		log.Printf("[WARN] can't render warn message %q, default used: %v", tmpl, err)
		res, _ = render(config.DefaultWarnMessage)
	}
	return res
}
