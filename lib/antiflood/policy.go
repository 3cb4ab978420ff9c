package antiflood

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"
)

// Rule is a trailing window and the number of occurrences, including the current message, which triggers a heuristic.
type Rule struct {
	Window    time.Duration
	Threshold int
}

// Policy is a set of windows and thresholds for all heuristics. A Policy value is a snapshot,
// the detector replaces it as a whole and never modifies it in place.
type Policy struct {
	Repeat          Rule    // identical messages
	Frequency       Rule    // any messages
	Similarity      Rule    // messages with similarity >= SimilarityRatio
	SimilarityRatio float64 // 0..1, minimal similarity for messages to be counted as similar
	Keyword         Rule    // messages containing the same keyword
	Media           Rule    // messages with images or videos
	MentionSingle   int     // mentions in a single message
	Mention         Rule    // sum of mentions, Threshold is the total mentions limit
	Link            Rule    // messages with links
}

// DefaultPolicy returns the policy used for missing or invalid settings.
func DefaultPolicy() Policy {
	return Policy{
		Repeat:          Rule{Window: 60 * time.Second, Threshold: 3},
		Frequency:       Rule{Window: 10 * time.Second, Threshold: 8},
		Similarity:      Rule{Window: 60 * time.Second, Threshold: 4},
		SimilarityRatio: 0.8,
		Keyword:         Rule{Window: 60 * time.Second, Threshold: 6},
		Media:           Rule{Window: 30 * time.Second, Threshold: 5},
		MentionSingle:   5,
		Mention:         Rule{Window: 60 * time.Second, Threshold: 10},
		Link:            Rule{Window: 60 * time.Second, Threshold: 3},
	}
}

// MaxWindow returns the longest window of all heuristics, records older than this are never used.
func (p Policy) MaxWindow() time.Duration {
	res := p.Repeat.Window
	for _, w := range []time.Duration{p.Frequency.Window, p.Similarity.Window, p.Keyword.Window,
		p.Media.Window, p.Mention.Window, p.Link.Window} {
		res = max(res, w)
	}
	return res
}

// String returns compact representation of the policy, used for logging.
func (p Policy) String() string {
	rule := func(r Rule) string { return fmt.Sprintf("%d/%s", r.Threshold, r.Window) }
	return fmt.Sprintf("repeat:%s, frequency:%s, similarity:%s@%.2f, keyword:%s, media:%s, at_single:%d, at_window:%s, link:%s",
		rule(p.Repeat), rule(p.Frequency), rule(p.Similarity), p.SimilarityRatio, rule(p.Keyword), rule(p.Media),
		p.MentionSingle, rule(p.Mention), rule(p.Link))
}

// rawPolicy is the json form of the policy, windows in seconds
type rawPolicy struct {
	RepeatWindow        float64 `json:"repeat_window"`
	RepeatCount         int     `json:"repeat_count"`
	FrequencyWindow     float64 `json:"frequency_window"`
	FrequencyCount      int     `json:"frequency_count"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	SimilarityWindow    float64 `json:"similarity_window"`
	SimilarityCount     int     `json:"similarity_count"`
	KeywordWindow       float64 `json:"keyword_window"`
	KeywordCount        int     `json:"keyword_count"`
	MediaWindow         float64 `json:"media_window"`
	MediaCount          int     `json:"media_count"`
	AtSingleLimit       int     `json:"at_single_limit"`
	AtWindow            float64 `json:"at_window"`
	AtWindowLimit       int     `json:"at_window_limit"`
	LinkWindow          float64 `json:"link_window"`
	LinkCount           int     `json:"link_count"`
}

// ParsePolicy makes a policy from json object. Missing, mistyped or invalid fields are replaced
// by defaults one by one, the list of replaced fields is returned. Only malformed json is an error.
func ParsePolicy(data []byte) (p Policy, replaced []string, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return DefaultPolicy(), nil, fmt.Errorf("can't parse policy: %w", err)
	}
	p, replaced = policyFromFields(fields)
	return p, replaced, nil
}

// MarshalJSON encodes the policy in its json form with windows in seconds.
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawPolicy{
		RepeatWindow:        p.Repeat.Window.Seconds(),
		RepeatCount:         p.Repeat.Threshold,
		FrequencyWindow:     p.Frequency.Window.Seconds(),
		FrequencyCount:      p.Frequency.Threshold,
		SimilarityThreshold: p.SimilarityRatio,
		SimilarityWindow:    p.Similarity.Window.Seconds(),
		SimilarityCount:     p.Similarity.Threshold,
		KeywordWindow:       p.Keyword.Window.Seconds(),
		KeywordCount:        p.Keyword.Threshold,
		MediaWindow:         p.Media.Window.Seconds(),
		MediaCount:          p.Media.Threshold,
		AtSingleLimit:       p.MentionSingle,
		AtWindow:            p.Mention.Window.Seconds(),
		AtWindowLimit:       p.Mention.Threshold,
		LinkWindow:          p.Link.Window.Seconds(),
		LinkCount:           p.Link.Threshold,
	})
}

// UnmarshalJSON decodes the policy, substituting defaults for missing, mistyped or invalid fields.
// Replaced fields which were present in the input are logged.
func (p *Policy) UnmarshalJSON(data []byte) error {
	res, _, err := ParsePolicy(data)
	if err != nil {
		return err
	}
	*p = res
	return nil
}

// MaxWindowSeconds is the longest window accepted from json, larger values overflow time.Duration
const MaxWindowSeconds = float64(math.MaxInt64 / int64(time.Second))

// maxCount is the largest threshold accepted from json
const maxCount = math.MaxInt32

// policyFromFields builds Policy field by field, falling back to DefaultPolicy for missing or invalid values.
func policyFromFields(fields map[string]json.RawMessage) (res Policy, replaced []string) {
	def := DefaultPolicy()

	window := func(name string, dflt time.Duration) time.Duration {
		v, ok := JSONNumber(fields, name)
		if !ok {
			replaced = append(replaced, name)
			return dflt
		}
		d, ok := SecondsToDuration(v)
		if !ok {
			log.Printf("[WARN] invalid policy %s=%v, default %v used", name, v, dflt)
			replaced = append(replaced, name)
			return dflt
		}
		return d
	}
	count := func(name string, dflt int) int {
		v, ok := JSONNumber(fields, name)
		if !ok {
			replaced = append(replaced, name)
			return dflt
		}
		if v < 1 || v > maxCount {
			log.Printf("[WARN] invalid policy %s=%v, default %d used", name, v, dflt)
			replaced = append(replaced, name)
			return dflt
		}
		return int(v) // fractional counts truncated
	}

	res.Repeat = Rule{Window: window("repeat_window", def.Repeat.Window), Threshold: count("repeat_count", def.Repeat.Threshold)}
	res.Frequency = Rule{Window: window("frequency_window", def.Frequency.Window),
		Threshold: count("frequency_count", def.Frequency.Threshold)}
	res.Similarity = Rule{Window: window("similarity_window", def.Similarity.Window),
		Threshold: count("similarity_count", def.Similarity.Threshold)}
	res.Keyword = Rule{Window: window("keyword_window", def.Keyword.Window), Threshold: count("keyword_count", def.Keyword.Threshold)}
	res.Media = Rule{Window: window("media_window", def.Media.Window), Threshold: count("media_count", def.Media.Threshold)}
	res.MentionSingle = count("at_single_limit", def.MentionSingle)
	res.Mention = Rule{Window: window("at_window", def.Mention.Window), Threshold: count("at_window_limit", def.Mention.Threshold)}
	res.Link = Rule{Window: window("link_window", def.Link.Window), Threshold: count("link_count", def.Link.Threshold)}

	res.SimilarityRatio = def.SimilarityRatio
	ratio, ok := JSONNumber(fields, "similarity_threshold")
	switch {
	case !ok:
		replaced = append(replaced, "similarity_threshold")
	case ratio <= 0 || ratio > 1:
		log.Printf("[WARN] invalid policy similarity_threshold=%v, default %v used", ratio, def.SimilarityRatio)
		replaced = append(replaced, "similarity_threshold")
	default:
		res.SimilarityRatio = ratio
	}
	return res, replaced
}

// JSONNumber returns the named field as a number. Missing and null fields are not ok silently,
// fields of other types are not ok with a warning.
func JSONNumber(fields map[string]json.RawMessage, name string) (float64, bool) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("[WARN] invalid %s=%s, not a number", name, string(raw))
		return 0, false
	}
	return v, true
}

// SecondsToDuration converts positive seconds to duration. Not ok for non-positive values and for values
// over MaxWindowSeconds.
func SecondsToDuration(secs float64) (time.Duration, bool) {
	if secs <= 0 || secs > MaxWindowSeconds {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
