package antiflood

import (
	"context"
	"log"
	"sync"
	"time"
)

// Janitor periodically removes expired records from the store. The retention horizon is requested
// on every tick, so policy changes are picked up without restart.
type Janitor struct {
	store    *Store
	maxAge   func() time.Duration
	interval time.Duration
	now      func() time.Time

	lock   sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

const defaultSweepInterval = time.Minute

// NewJanitor makes a janitor for the store. maxAge is called on each tick to get the retention horizon,
// interval <= 0 means default (1 minute).
func NewJanitor(store *Store, maxAge func() time.Duration, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Janitor{store: store, maxAge: maxAge, interval: interval, now: time.Now}
}

// Start runs the sweep loop in background until Stop is called or ctx is canceled.
// Calling Start on a running janitor does nothing.
func (j *Janitor) Start(ctx context.Context) {
	j.lock.Lock()
	defer j.lock.Unlock()
	if j.cancel != nil {
		return
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.run(ctx, j.done)
	log.Printf("[DEBUG] janitor started, interval %v", j.interval)
}

// Stop cancels the sweep loop and waits for a sweep in progress to finish.
func (j *Janitor) Stop() {
	j.lock.Lock()
	defer j.lock.Unlock()
	if j.cancel == nil {
		return
	}
	j.cancel()
	<-j.done
	j.cancel, j.done = nil, nil
	log.Printf("[DEBUG] janitor stopped")
}

func (j *Janitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			j.sweep()
		}
	}
}

// sweep runs a single store sweep, a panic is logged and doesn't stop the loop
func (j *Janitor) sweep() (removed int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] sweep failed, %v", r)
		}
	}()
	maxAge := j.maxAge()
	removed = j.store.Sweep(maxAge, j.now())
	if removed > 0 {
		log.Printf("[DEBUG] sweep removed %d records older than %v", removed, maxAge)
	}
	return removed
}
