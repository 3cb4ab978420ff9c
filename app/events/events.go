// Package events provides OneBot event types and the listener which turns group messages into flood
// checks. It normalizes messages, sends them to the detector and passes positive results to the
// spam logger, the detections journal and the moderator.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/umputun/antiflood/lib/floodcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/moderator.go --pkg mocks --with-resets --skip-ensure . Moderator
//go:generate moq --out mocks/spam_logger.go --pkg mocks --with-resets --skip-ensure . SpamLogger
//go:generate moq --out mocks/journal.go --pkg mocks --with-resets --skip-ensure . Journal

// Detector is an interface for flood detector
type Detector interface {
	Check(rec floodcheck.Record) floodcheck.Response
}

// Moderator is an interface for moderation of detected flood
type Moderator interface {
	Moderate(ctx context.Context, det floodcheck.Detection) error
}

// SpamLogger is an interface for spam logger
type SpamLogger interface {
	Save(det floodcheck.Detection)
}

// SpamLoggerFunc is a function that implements SpamLogger interface
type SpamLoggerFunc func(det floodcheck.Detection)

// Save is a function that implements SpamLogger interface
func (f SpamLoggerFunc) Save(det floodcheck.Detection) {
	f(det)
}

// Journal is an interface for persistent detections journal
type Journal interface {
	Write(ctx context.Context, det floodcheck.Detection) error
}

// enum of post and message types used by the listener
const (
	PostTypeMessage    = "message"
	MessageTypeGroup   = "group"
	MessageTypePrivate = "private"
)

// Event is a OneBot 11 event, only fields used by the listener
type Event struct {
	Time        int64   `json:"time"`
	SelfID      ID      `json:"self_id"`
	PostType    string  `json:"post_type"`
	MessageType string  `json:"message_type,omitempty"`
	SubType     string  `json:"sub_type,omitempty"`
	MessageID   ID      `json:"message_id,omitempty"`
	GroupID     ID      `json:"group_id,omitempty"`
	UserID      ID      `json:"user_id,omitempty"`
	RawMessage  string  `json:"raw_message,omitempty"`
	Message     Message `json:"message,omitempty"`
}

// Record makes flood check record from the event. Text is taken from message segments,
// raw_message is used if the event has no segments.
func (e Event) Record(now time.Time) floodcheck.Record {
	msg := e.Message
	if len(msg) == 0 && e.RawMessage != "" {
		msg = ParseCQ(e.RawMessage)
	}
	return floodcheck.Record{
		GroupID:  string(e.GroupID),
		UserID:   string(e.UserID),
		Text:     SegmentsText(msg),
		Time:     now,
		HasMedia: HasMedia(msg),
		Mentions: MentionCount(msg),
		HasLink:  HasLink(msg),
	}
}

// ID is a OneBot id, decoded from json number or string
type ID string

// UnmarshalJSON decodes id from number or string
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("can't decode id %s: %w", string(data), err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("can't decode id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON encodes numeric ids as numbers, others as strings
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
