// Package antiflood implements flood detection for group chats. The Detector keeps a short history of records
// for each (group, user) and classifies every new record with eight windowed heuristics, in fixed order:
// repeat, frequency, similarity, keyword, media, at_single, at_window and link. The first match wins.
package antiflood

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/umputun/antiflood/lib/floodcheck"
)

// Detector is a flood detector, thread-safe.
// It owns the record store and the active policy snapshot.
type Detector struct {
	store  *Store
	policy atomic.Pointer[Policy]
	recent *floodcheck.LastDetections
}

// NewDetector makes a detector with the given policy and an empty store.
// historySize is the number of recent detections to keep for reporting.
func NewDetector(p Policy, historySize int) *Detector {
	res := &Detector{store: NewStore(), recent: floodcheck.NewLastDetections(historySize)}
	res.policy.Store(&p)
	return res
}

// Check classifies the record against the user history and adds it to the history.
// Lookup, classification and append run atomically for the record's key.
func (d *Detector) Check(rec floodcheck.Record) (resp floodcheck.Response) {
	p := d.Policy()
	d.store.Track(rec, func(history []floodcheck.Record) {
		resp = Classify(rec, history, p)
	})
	if resp.Spam {
		d.recent.Push(floodcheck.Detection{Record: rec, Response: resp})
		log.Printf("[DEBUG] flood detected, %s, %s", rec, resp)
	}
	return resp
}

// Evaluate classifies the record against the user history without storing it.
func (d *Detector) Evaluate(rec floodcheck.Record) floodcheck.Response {
	return Classify(rec, d.store.Lookup(rec.GroupID, rec.UserID), d.Policy())
}

// Policy returns the active policy snapshot.
func (d *Detector) Policy() Policy {
	return *d.policy.Load()
}

// SetPolicy replaces the active policy. Checks in flight keep using the snapshot they started with.
func (d *Detector) SetPolicy(p Policy) {
	d.policy.Store(&p)
	log.Printf("[INFO] policy updated: %s", p)
}

// MaxAge returns the retention horizon of the active policy.
func (d *Detector) MaxAge() time.Duration {
	return d.Policy().MaxWindow()
}

// Store returns the record store.
func (d *Detector) Store() *Store {
	return d.store
}

// Recent returns up to n most recent detections, oldest first.
func (d *Detector) Recent(n int) []floodcheck.Detection {
	return d.recent.Last(n)
}

// DetectionsTotal returns the number of detections since start.
func (d *Detector) DetectionsTotal() int {
	return d.recent.Total()
}

// NewJanitor makes a janitor sweeping the detector store with the active policy horizon.
func (d *Detector) NewJanitor(interval time.Duration) *Janitor {
	return NewJanitor(d.store, d.MaxAge, interval)
}
