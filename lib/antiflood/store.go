package antiflood

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/umputun/antiflood/lib/floodcheck"
)

// Store keeps recent records partitioned by group and then by user. Thread-safe.
// Operations on different users never wait for each other, except for short periods
// when group or user entries are created or removed.
type Store struct {
	groups map[string]*groupRecords
	lock   sync.RWMutex
}

// Stats is a summary of the store content.
type Stats struct {
	Groups  int `json:"groups"`
	Users   int `json:"users"`
	Records int `json:"records"`
}

type groupRecords struct {
	users map[string]*userRecords
	lock  sync.RWMutex
}

type userRecords struct {
	records []floodcheck.Record
	lock    sync.Mutex
}

// NewStore makes an empty store.
func NewStore() *Store {
	return &Store{groups: make(map[string]*groupRecords)}
}

// Append adds a record to the history of (rec.GroupID, rec.UserID).
func (s *Store) Append(rec floodcheck.Record) {
	s.withUser(rec.GroupID, rec.UserID, func(u *userRecords) {
		u.records = append(u.records, rec)
	})
}

// Track calls fn with the current history of the record's key and then appends the record.
// Both steps run under the key lock, so concurrent Track calls for the same user are serialized.
// fn must not call the store or keep the history after return.
func (s *Store) Track(rec floodcheck.Record, fn func(history []floodcheck.Record)) {
	s.withUser(rec.GroupID, rec.UserID, func(u *userRecords) {
		fn(slices.Clip(u.records))
		u.records = append(u.records, rec)
	})
}

// Lookup returns a copy of the history for the given group and user, in insertion order.
// Returns nil for unknown keys.
func (s *Store) Lookup(groupID, userID string) []floodcheck.Record {
	s.lock.RLock()
	defer s.lock.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil
	}

	g.lock.RLock()
	defer g.lock.RUnlock()
	u, ok := g.users[userID]
	if !ok {
		return nil
	}

	u.lock.Lock()
	defer u.lock.Unlock()
	return slices.Clone(u.records)
}

// Sweep removes records with now - Time >= maxAge. Users without records and groups without users are removed.
// Returns the number of removed records.
func (s *Store) Sweep(maxAge time.Duration, now time.Time) (removed int) {
	expired := func(r floodcheck.Record) bool { return now.Sub(r.Time) >= maxAge }

	emptyGroups, removed := s.sweepRecords(expired)
	if len(emptyGroups) == 0 {
		return removed
	}

	// remove empty groups, re-checking as records could be appended in between
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, gid := range emptyGroups {
		g, ok := s.groups[gid]
		if !ok {
			continue
		}
		if g.isEmpty() {
			delete(s.groups, gid)
		}
	}
	return removed
}

// sweepRecords drops expired records under read lock of the store, so other groups keep working.
// Returns ids of groups left without users.
func (s *Store) sweepRecords(expired func(floodcheck.Record) bool) (emptyGroups []string, removed int) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	for gid, g := range s.groups {
		n, empty := g.sweep(expired)
		removed += n
		if empty {
			emptyGroups = append(emptyGroups, gid)
		}
	}
	return emptyGroups, removed
}

// sweep drops expired records of all users and removes users without records
func (g *groupRecords) sweep(expired func(floodcheck.Record) bool) (removed int, empty bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	for uid, u := range g.users {
		n, left := u.sweep(expired)
		removed += n
		if left == 0 {
			delete(g.users, uid)
		}
	}
	return removed, len(g.users) == 0
}

func (g *groupRecords) isEmpty() bool {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.users) == 0
}

// sweep drops expired records, returns the number of removed and left records
func (u *userRecords) sweep(expired func(floodcheck.Record) bool) (removed, left int) {
	u.lock.Lock()
	defer u.lock.Unlock()
	if !slices.ContainsFunc(u.records, expired) {
		return 0, len(u.records)
	}
	kept := make([]floodcheck.Record, 0, len(u.records))
	for _, r := range u.records {
		if !expired(r) {
			kept = append(kept, r)
		}
	}
	removed = len(u.records) - len(kept)
	u.records = kept
	return removed, len(kept)
}

// Stats returns the number of groups, users and records in the store.
func (s *Store) Stats() Stats {
	s.lock.RLock()
	defer s.lock.RUnlock()
	res := Stats{Groups: len(s.groups)}
	for _, g := range s.groups {
		g.lock.RLock()
		res.Users += len(g.users)
		for _, u := range g.users {
			u.lock.Lock()
			res.Records += len(u.records)
			u.lock.Unlock()
		}
		g.lock.RUnlock()
	}
	return res
}

// Groups returns sorted ids of all groups with records.
func (s *Store) Groups() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	res := make([]string, 0, len(s.groups))
	for gid := range s.groups {
		res = append(res, gid)
	}
	sort.Strings(res)
	return res
}

// Users returns history length for each user of the group.
func (s *Store) Users(groupID string) map[string]int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return map[string]int{}
	}
	g.lock.RLock()
	defer g.lock.RUnlock()
	res := make(map[string]int, len(g.users))
	for uid, u := range g.users {
		u.lock.Lock()
		res[uid] = len(u.records)
		u.lock.Unlock()
	}
	return res
}

// withUser runs fn with the user entry locked, creating group and user entries as needed.
// The store read lock and the group lock are held for the whole call, so Sweep can't remove
// the group or the user in between.
func (s *Store) withUser(groupID, userID string, fn func(u *userRecords)) {
	s.lock.RLock()
	g, ok := s.groups[groupID]
	if !ok {
		// upgrade to write lock to create the group
		s.lock.RUnlock()
		s.lock.Lock()
		if _, ok = s.groups[groupID]; !ok {
			s.groups[groupID] = &groupRecords{users: make(map[string]*userRecords)}
		}
		s.lock.Unlock()
		s.withUser(groupID, userID, fn)
		return
	}
	defer s.lock.RUnlock()

	g.lock.RLock()
	if u, ok := g.users[userID]; ok {
		defer g.lock.RUnlock()
		u.lock.Lock()
		defer u.lock.Unlock()
		fn(u)
		return
	}
	g.lock.RUnlock()

	// new user, keep the group write-locked until the first record is in
	g.lock.Lock()
	defer g.lock.Unlock()
	u, ok := g.users[userID]
	if !ok {
		u = &userRecords{}
		g.users[userID] = u
	}
	u.lock.Lock()
	defer u.lock.Unlock()
	fn(u)
}
