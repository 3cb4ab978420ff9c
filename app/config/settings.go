// Package config provides runtime settings of the flood filter: typed settings with defaults, an atomic holder
// notifying subscribers on replacement, a database store and a watcher for the settings file.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/umputun/antiflood/lib/antiflood"
)

// Action is a moderation action applied to a flooding user
type Action string

// enum of actions
const (
	ActionWarn Action = "warn"
	ActionMute Action = "mute"
	ActionKick Action = "kick"
)

// Settings represents runtime configuration independent of source (file, DB, API).
// A Settings value is never modified after it is handed to Holder, replace it as a whole.
type Settings struct {
	Enabled      bool                     // process-wide switch
	Debug        bool                     // log every classification at info level
	Action       Action                   // action on detected flood
	MuteDuration time.Duration            // mute duration for ActionMute
	WarnMessage  string                   // warn template, see bot.Moderator
	Whitelist    []string                 // user ids never checked
	Groups       map[string]GroupSettings // per-group settings, by group id
	Spam         antiflood.Policy         // detection policy
}

// GroupSettings represents per-group settings
type GroupSettings struct {
	Enabled *bool `json:"enabled,omitempty"` // nil means enabled
}

// default values of settings
const (
	DefaultMuteDuration = 10 * time.Minute
	DefaultWarnMessage  = "please don't flood the chat ({{.Details}})"
)

// New makes settings with all defaults
func New() Settings {
	return Settings{
		Enabled:      true,
		Action:       ActionWarn,
		MuteDuration: DefaultMuteDuration,
		WarnMessage:  DefaultWarnMessage,
		Whitelist:    []string{},
		Groups:       map[string]GroupSettings{},
		Spam:         antiflood.DefaultPolicy(),
	}
}

// Parse makes settings from json, missing or invalid fields are replaced by defaults.
// Only malformed json is an error.
func Parse(data []byte) (Settings, error) {
	res := New()
	if err := json.Unmarshal(data, &res); err != nil {
		return New(), fmt.Errorf("can't parse settings: %w", err)
	}
	return res, nil
}

// IsGroupEnabled checks if the group is enabled, groups without settings are enabled
func (s Settings) IsGroupEnabled(groupID string) bool {
	g, ok := s.Groups[groupID]
	if !ok || g.Enabled == nil {
		return true
	}
	return *g.Enabled
}

// IsWhitelisted checks if the user is in the whitelist
func (s Settings) IsWhitelisted(userID string) bool {
	return slices.Contains(s.Whitelist, userID)
}

// rawSettings is the json form of settings, mute duration in seconds
type rawSettings struct {
	Enabled      *bool                    `json:"enabled,omitempty"`
	Debug        *bool                    `json:"debug,omitempty"`
	Action       *string                  `json:"action,omitempty"`
	MuteDuration *float64                 `json:"mute_duration,omitempty"`
	WarnMessage  *string                  `json:"warn_message,omitempty"`
	Whitelist    json.RawMessage          `json:"whitelist,omitempty"`
	Groups       map[string]GroupSettings `json:"groups,omitempty"`
	Spam         *antiflood.Policy        `json:"spam,omitempty"`
}

// MarshalJSON encodes settings with mute duration in seconds
func (s Settings) MarshalJSON() ([]byte, error) {
	wl, err := json.Marshal(s.Whitelist)
	if err != nil {
		return nil, fmt.Errorf("can't marshal whitelist: %w", err)
	}
	action := string(s.Action)
	mute := s.MuteDuration.Seconds()
	return json.Marshal(rawSettings{
		Enabled:      &s.Enabled,
		Debug:        &s.Debug,
		Action:       &action,
		MuteDuration: &mute,
		WarnMessage:  &s.WarnMessage,
		Whitelist:    wl,
		Groups:       s.Groups,
		Spam:         &s.Spam,
	})
}

// UnmarshalJSON decodes settings applying defaults field by field, a mistyped or invalid field
// is replaced by its default without affecting other fields.
// Whitelist accepts both an array of strings and a comma separated string.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("can't parse settings: %w", err)
	}

	res := New()
	if v, ok := jsonField[bool](fields, "enabled"); ok {
		res.Enabled = v
	}
	if v, ok := jsonField[bool](fields, "debug"); ok {
		res.Debug = v
	}
	if v, ok := jsonField[string](fields, "action"); ok {
		switch a := Action(strings.ToLower(strings.TrimSpace(v))); a {
		case ActionWarn, ActionMute, ActionKick:
			res.Action = a
		default:
			log.Printf("[WARN] invalid action %q, %s used", v, ActionWarn)
		}
	}
	if v, ok := antiflood.JSONNumber(fields, "mute_duration"); ok {
		if d, valid := antiflood.SecondsToDuration(v); valid {
			res.MuteDuration = d
		} else {
			log.Printf("[WARN] invalid mute_duration %v, default %v used", v, DefaultMuteDuration)
		}
	}
	if v, ok := jsonField[string](fields, "warn_message"); ok && strings.TrimSpace(v) != "" {
		res.WarnMessage = v
	}
	if raw, ok := fields["whitelist"]; ok {
		res.Whitelist = parseWhitelist(raw)
	}
	if raw, ok := fields["groups"]; ok {
		res.Groups = parseGroups(raw)
	}
	if raw, ok := fields["spam"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &res.Spam); err != nil {
			log.Printf("[WARN] invalid spam policy %s, defaults used", string(raw))
			res.Spam = antiflood.DefaultPolicy()
		}
	}
	*s = res
	return nil
}

// jsonField decodes the named field, missing and null fields are not ok silently, mistyped ones with a warning
func jsonField[T any](fields map[string]json.RawMessage, name string) (T, bool) {
	var res T
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return res, false
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Printf("[WARN] invalid %s=%s, default used", name, string(raw))
		return res, false
	}
	return res, true
}

// parseGroups decodes per-group settings, a group with invalid settings is ignored
func parseGroups(data json.RawMessage) map[string]GroupSettings {
	res := map[string]GroupSettings{}
	var groups map[string]json.RawMessage
	if err := json.Unmarshal(data, &groups); err != nil {
		log.Printf("[WARN] invalid groups %s, ignored", string(data))
		return res
	}
	for id, raw := range groups {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			log.Printf("[WARN] invalid settings of group %s: %s, ignored", id, string(raw))
			continue
		}
		gs := GroupSettings{}
		if v, ok := jsonField[bool](fields, "enabled"); ok {
			gs.Enabled = &v
		}
		res[id] = gs
	}
	return res
}

// parseWhitelist accepts ["id1", "id2"] or "id1, id2", anything else gives an empty list
func parseWhitelist(data json.RawMessage) []string {
	res := []string{}
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		for _, v := range list {
			switch id := v.(type) {
			case string:
				if id = strings.TrimSpace(id); id != "" {
					res = append(res, id)
				}
			case float64:
				res = append(res, fmt.Sprintf("%.0f", id))
			}
		}
		return res
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		for _, id := range strings.Split(str, ",") {
			if id = strings.TrimSpace(id); id != "" {
				res = append(res, id)
			}
		}
		return res
	}
	log.Printf("[WARN] invalid whitelist %s, ignored", string(data))
	return res
}
