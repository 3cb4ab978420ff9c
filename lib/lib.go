// Package lib provides functionality for flood detection in group chats. The primary type is
// antiflood.Detector, which keeps a short history of messages for each (group, user) pair and
// classifies every new message with a fixed sequence of windowed heuristics.
//
// The Detector is thread-safe and supports concurrent usage. Records of different users are
// processed independently, records of the same user are checked and stored atomically.
//
// Heuristics are checked in this order, the first match wins:
//
//   - repeat: identical text sent Policy.Repeat.Threshold times within Policy.Repeat.Window.
//
//   - frequency: any Policy.Frequency.Threshold messages within the window.
//
//   - similarity: messages with Levenshtein similarity >= Policy.SimilarityRatio.
//
//   - keyword: the same keyword (2+ CJK or latin letters) found in several messages.
//
//   - media: messages with images or videos.
//
//   - at_single: too many mentions in a single message, history is not used.
//
//   - at_window: too many mentions within the window, evaluated for messages with mentions.
//
//   - link: messages with links.
//
// Each threshold counts the current message, so a threshold of 3 triggers on the third matching message.
// Windows are trailing and exclusive, a record exactly Window old is not counted.
//
// The policy can be replaced at any time with Detector.SetPolicy, checks in flight finish with the
// snapshot they started with. antiflood.ParsePolicy reads policy from json, substituting defaults for
// missing or invalid values.
//
// History is trimmed by antiflood.Janitor, which periodically removes records older than the longest
// window of the active policy. Use Detector.NewJanitor to make one and Janitor.Start / Janitor.Stop
// to control it.
//
// Package floodcheck contains the types shared with callers: Record, Response and Detection.
package lib
