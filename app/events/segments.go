package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Segment is a single part of OneBot message. Implemented by TextSegment, ImageSegment, VideoSegment,
// MentionSegment and OtherSegment only.
type Segment interface {
	segment()
}

// TextSegment is a plain text
type TextSegment struct {
	Text string
}

// ImageSegment is an image
type ImageSegment struct {
	File string
}

// VideoSegment is a video
type VideoSegment struct {
	File string
}

// MentionSegment is a mention of a user, QQ is "all" for mention of everyone
type MentionSegment struct {
	QQ string
}

// OtherSegment is any segment without special handling (face, reply, record, json and so on)
type OtherSegment struct {
	Type string
	Data map[string]string
}

func (TextSegment) segment()    {}
func (ImageSegment) segment()   {}
func (VideoSegment) segment()   {}
func (MentionSegment) segment() {}
func (OtherSegment) segment()   {}

// Message is a OneBot message, list of segments
type Message []Segment

// wireSegment is json form of a segment
type wireSegment struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// UnmarshalJSON decodes message from array of segments or from string with CQ codes
func (m *Message) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*m = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("can't decode message: %w", err)
		}
		*m = ParseCQ(s)
		return nil
	}

	var raw []struct {
		Type string                     `json:"type"`
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("can't decode message: %w", err)
	}
	res := make(Message, 0, len(raw))
	for _, r := range raw {
		fields := make(map[string]string, len(r.Data))
		for k, v := range r.Data {
			fields[k] = rawString(v)
		}
		res = append(res, newSegment(r.Type, fields))
	}
	*m = res
	return nil
}

// MarshalJSON encodes message as array of segments
func (m Message) MarshalJSON() ([]byte, error) {
	res := make([]wireSegment, 0, len(m))
	for _, s := range m {
		switch v := s.(type) {
		case TextSegment:
			res = append(res, wireSegment{Type: "text", Data: map[string]string{"text": v.Text}})
		case ImageSegment:
			res = append(res, wireSegment{Type: "image", Data: map[string]string{"file": v.File}})
		case VideoSegment:
			res = append(res, wireSegment{Type: "video", Data: map[string]string{"file": v.File}})
		case MentionSegment:
			res = append(res, wireSegment{Type: "at", Data: map[string]string{"qq": v.QQ}})
		case OtherSegment:
			data := v.Data
			if data == nil {
				data = map[string]string{}
			}
			res = append(res, wireSegment{Type: v.Type, Data: data})
		}
	}
	return json.Marshal(res)
}

// rawString returns json string value as is and any other json value as its text, ids are often numbers
func rawString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(v))
}

func newSegment(typ string, data map[string]string) Segment {
	switch typ {
	case "text":
		return TextSegment{Text: data["text"]}
	case "image":
		return ImageSegment{File: data["file"]}
	case "video":
		return VideoSegment{File: data["file"]}
	case "at":
		return MentionSegment{QQ: data["qq"]}
	default:
		return OtherSegment{Type: typ, Data: data}
	}
}

var cqRe = regexp.MustCompile(`\[CQ:([a-zA-Z0-9_.-]+)((?:,[^\]]*)?)\]`)

var cqUnescaper = strings.NewReplacer("&#44;", ",", "&#91;", "[", "&#93;", "]", "&amp;", "&")

// ParseCQ parses string message with CQ codes, like "hi [CQ:at,qq=123] [CQ:image,file=a.jpg]", into segments
func ParseCQ(s string) Message {
	res := Message{}
	pos := 0
	for _, loc := range cqRe.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > pos {
			res = append(res, TextSegment{Text: cqUnescaper.Replace(s[pos:loc[0]])})
		}
		data := map[string]string{}
		if params := s[loc[4]:loc[5]]; params != "" {
			for _, kv := range strings.Split(strings.TrimPrefix(params, ","), ",") {
				k, v, _ := strings.Cut(kv, "=")
				data[k] = cqUnescaper.Replace(v)
			}
		}
		res = append(res, newSegment(s[loc[2]:loc[3]], data))
		pos = loc[1]
	}
	if pos < len(s) {
		res = append(res, TextSegment{Text: cqUnescaper.Replace(s[pos:])})
	}
	return res
}

var linkRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s]+|\b[a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com|net|org|io|cn|ru|me|xyz|top|cc|co|info)\b`)

// SegmentsText returns text of all text segments joined and trimmed
func SegmentsText(m Message) string {
	var sb strings.Builder
	for _, s := range m {
		switch v := s.(type) {
		case TextSegment:
			sb.WriteString(v.Text)
		case ImageSegment, VideoSegment, MentionSegment, OtherSegment:
		}
	}
	return strings.TrimSpace(sb.String())
}

// HasMedia checks if the message has image or video
func HasMedia(m Message) bool {
	for _, s := range m {
		switch s.(type) {
		case ImageSegment, VideoSegment:
			return true
		case TextSegment, MentionSegment, OtherSegment:
		}
	}
	return false
}

// MentionCount returns the number of mentions in the message, each mention counted separately
func MentionCount(m Message) int {
	res := 0
	for _, s := range m {
		switch s.(type) {
		case MentionSegment:
			res++
		case TextSegment, ImageSegment, VideoSegment, OtherSegment:
		}
	}
	return res
}

// HasLink checks if the message text has a link
func HasLink(m Message) bool {
	return linkRe.MatchString(SegmentsText(m))
}
