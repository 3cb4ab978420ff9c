package antiflood

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/antiflood/lib/floodcheck"
)

// Classify checks the record against its history with all heuristics in fixed order and returns
// the first match. History is filtered by each heuristic window relative to rec.Time, so it may
// contain records older than any window. Classify has no side effects.
func Classify(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	for _, check := range []func(floodcheck.Record, []floodcheck.Record, Policy) floodcheck.Response{
		checkRepeat, checkFrequency, checkSimilarity, checkKeyword, checkMedia,
		checkMentionSingle, checkMentionWindow, checkLink,
	} {
		if resp := check(rec, history, p); resp.Spam {
			return resp
		}
	}
	return floodcheck.Response{Spam: false}
}

// countWithin returns the number of history records inside the window which satisfy the match function
func countWithin(rec floodcheck.Record, history []floodcheck.Record, window time.Duration,
	match func(h floodcheck.Record) bool) (count int) {
	for _, h := range history {
		if rec.Time.Sub(h.Time) < window && match(h) {
			count++
		}
	}
	return count
}

func spam(kind floodcheck.Kind, format string, args ...any) floodcheck.Response {
	return floodcheck.Response{Spam: true, Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// checkRepeat and checkSimilarity skip messages without text even with media or links,
// those are covered by media, link and mention checks
func checkRepeat(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	if rec.Text == "" {
		return floodcheck.Response{}
	}
	count := countWithin(rec, history, p.Repeat.Window, func(h floodcheck.Record) bool { return h.Text == rec.Text })
	if count+1 >= p.Repeat.Threshold {
		return spam(floodcheck.KindRepeat, "%d identical messages in %s", count+1, p.Repeat.Window)
	}
	return floodcheck.Response{}
}

func checkFrequency(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	count := countWithin(rec, history, p.Frequency.Window, func(floodcheck.Record) bool { return true })
	if count+1 >= p.Frequency.Threshold {
		return spam(floodcheck.KindFrequency, "%d messages in %s", count+1, p.Frequency.Window)
	}
	return floodcheck.Response{}
}

func checkSimilarity(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	if rec.Text == "" {
		return floodcheck.Response{}
	}
	count := countWithin(rec, history, p.Similarity.Window, func(h floodcheck.Record) bool {
		return Similarity(h.Text, rec.Text) >= p.SimilarityRatio
	})
	if count+1 >= p.Similarity.Threshold {
		return spam(floodcheck.KindSimilarity, "%d similar messages in %s", count+1, p.Similarity.Window)
	}
	return floodcheck.Response{}
}

func checkKeyword(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	for _, kw := range Keywords(rec.Text) {
		count := countWithin(rec, history, p.Keyword.Window, func(h floodcheck.Record) bool {
			return strings.Contains(h.Text, kw)
		})
		if count+1 >= p.Keyword.Threshold {
			return spam(floodcheck.KindKeyword, "keyword %q repeated %d times in %s", kw, count+1, p.Keyword.Window)
		}
	}
	return floodcheck.Response{}
}

func checkMedia(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	if !rec.HasMedia {
		return floodcheck.Response{}
	}
	count := countWithin(rec, history, p.Media.Window, func(h floodcheck.Record) bool { return h.HasMedia })
	if count+1 >= p.Media.Threshold {
		return spam(floodcheck.KindMedia, "%d images or videos in %s", count+1, p.Media.Window)
	}
	return floodcheck.Response{}
}

func checkMentionSingle(rec floodcheck.Record, _ []floodcheck.Record, p Policy) floodcheck.Response {
	if rec.Mentions >= p.MentionSingle {
		return spam(floodcheck.KindMentionSingle, "%d mentions in a single message", rec.Mentions)
	}
	return floodcheck.Response{}
}

// checkMentionWindow is evaluated for any message with content, even without mentions of its own
func checkMentionWindow(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	if rec.Mentions == 0 && rec.Text == "" && !rec.HasMedia && !rec.HasLink {
		return floodcheck.Response{}
	}
	total := rec.Mentions
	for _, h := range history {
		if rec.Time.Sub(h.Time) < p.Mention.Window {
			total += h.Mentions
		}
	}
	if total >= p.Mention.Threshold {
		return spam(floodcheck.KindMentionWindow, "%d mentions in %s", total, p.Mention.Window)
	}
	return floodcheck.Response{}
}

func checkLink(rec floodcheck.Record, history []floodcheck.Record, p Policy) floodcheck.Response {
	if !rec.HasLink {
		return floodcheck.Response{}
	}
	count := countWithin(rec, history, p.Link.Window, func(h floodcheck.Record) bool { return h.HasLink })
	if count+1 >= p.Link.Threshold {
		return spam(floodcheck.KindLink, "%d links in %s", count+1, p.Link.Window)
	}
	return floodcheck.Response{}
}
