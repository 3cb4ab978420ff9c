package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/umputun/antiflood/app/config"
	"github.com/umputun/antiflood/lib/floodcheck"
)

// Listener handles OneBot events, checks group messages for flood and moderates detected flood.
// Thread safe if all collaborators are thread safe.
type Listener struct {
	Detector   Detector
	Moderator  Moderator
	SpamLogger SpamLogger
	Journal    Journal // optional
	Settings   *config.Holder
	Now        func() time.Time // optional, time.Now by default
}

// Handle processes a single event. Events other than group messages, events from disabled groups,
// whitelisted users and the bot itself are ignored and return ham.
// Errors of journal and moderator are aggregated, the response is returned in any case.
func (l *Listener) Handle(ctx context.Context, ev Event) (floodcheck.Response, error) {
	if ev.PostType != PostTypeMessage || ev.MessageType != MessageTypeGroup {
		return floodcheck.Response{}, nil
	}

	settings := l.Settings.Get()
	switch {
	case !settings.Enabled:
		return floodcheck.Response{}, nil
	case !settings.IsGroupEnabled(string(ev.GroupID)):
		log.Printf("[DEBUG] group %s disabled, message %s ignored", ev.GroupID, ev.MessageID)
		return floodcheck.Response{}, nil
	case settings.IsWhitelisted(string(ev.UserID)):
		log.Printf("[DEBUG] user %s whitelisted, message %s ignored", ev.UserID, ev.MessageID)
		return floodcheck.Response{}, nil
	case ev.SelfID != "" && ev.UserID == ev.SelfID:
		return floodcheck.Response{}, nil
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	rec := ev.Record(now())
	resp := l.Detector.Check(rec)

	level := "DEBUG"
	if settings.Debug {
		level = "INFO"
	}
	log.Printf("[%s] checked message %s, %s, result: %s", level, ev.MessageID, rec, resp)

	if !resp.Spam {
		return resp, nil
	}

	det := floodcheck.Detection{Record: rec, Response: resp}
	if l.SpamLogger != nil {
		l.SpamLogger.Save(det)
	}

	errs := new(multierror.Error)
	if l.Journal != nil {
		if err := l.Journal.Write(ctx, det); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to write detection: %w", err))
		}
	}
	if err := l.Moderator.Moderate(ctx, det); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to moderate user %s in group %s: %w", rec.UserID, rec.GroupID, err))
	}
	return resp, errs.ErrorOrNil()
}
