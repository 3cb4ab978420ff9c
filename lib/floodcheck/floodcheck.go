// Package floodcheck defines the values exchanged with the flood detector: the normalized record of a single
// group message and the classification result.
package floodcheck

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the heuristic which classified a record as spam.
type Kind string

// enum of heuristics, in the order they are evaluated
const (
	KindRepeat        Kind = "repeat"
	KindFrequency     Kind = "frequency"
	KindSimilarity    Kind = "similarity"
	KindKeyword       Kind = "keyword"
	KindMedia         Kind = "media"
	KindMentionSingle Kind = "at_single"
	KindMentionWindow Kind = "at_window"
	KindLink          Kind = "link"
)

// Kinds returns all heuristics in evaluation order.
func Kinds() []Kind {
	return []Kind{KindRepeat, KindFrequency, KindSimilarity, KindKeyword, KindMedia,
		KindMentionSingle, KindMentionWindow, KindLink}
}

// Record is an immutable fact about one group message.
type Record struct {
	GroupID  string    `json:"group_id"`  // group the message was posted to
	UserID   string    `json:"user_id"`   // author of the message
	Text     string    `json:"text"`      // normalized text body, may be empty
	Time     time.Time `json:"time"`      // ingestion time
	HasMedia bool      `json:"has_media"` // image or video attached
	Mentions int       `json:"mentions"`  // number of user mentions
	HasLink  bool      `json:"has_link"`  // text contains a url
}

func (r Record) String() string {
	return fmt.Sprintf("group:%s, user:%s, text:%q, media:%v, mentions:%d, link:%v",
		r.GroupID, r.UserID, r.Text, r.HasMedia, r.Mentions, r.HasLink)
}

// Response is a result of a flood check.
type Response struct {
	Spam    bool   `json:"spam"`              // true if spam
	Kind    Kind   `json:"kind,omitempty"`    // heuristic triggered, empty for ham
	Details string `json:"details,omitempty"` // human-readable evidence
}

func (r Response) String() string {
	if !r.Spam {
		return "ham"
	}
	return fmt.Sprintf("%s: spam, %s", r.Kind, r.Details)
}

// Detection is a spam record together with the response which flagged it.
type Detection struct {
	Record   Record   `json:"record"`
	Response Response `json:"response"`
}

// DetectionsToString converts a slice of detections to a string
func DetectionsToString(dd []Detection) string {
	elems := []string{}
	for _, d := range dd {
		elems = append(elems, "{"+d.Record.UserID+"@"+d.Record.GroupID+" "+d.Response.String()+"}")
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
