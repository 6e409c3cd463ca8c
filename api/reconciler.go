/*
reconciler.go - Background used-hours reconciliation

PURPOSE:
  Periodically re-derives the used-hours columns on projects and tasks
  from the activity log. The handlers keep them in sync on every write,
  but rows edited outside the API (imports, manual SQL) would drift;
  the reconciler is the backstop that restores the invariant
  used_hours == sum of linked activity hours.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Recomputes every project and task each pass; writes only on drift
  - Start/Stop are idempotent enough for the server shutdown path

USAGE:
  rec := NewReconciler(store)
  rec.Start()
  // ... later
  rec.Stop()

SEE ALSO:
  - handlers.go: recomputeUsedHours (the per-request sync)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Jaliko05/time-flow-sub000/tracking"
)

// Reconciler re-derives used hours from the activity log in the background.
type Reconciler struct {
	Store         tracking.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReconciler creates a reconciler with the default hourly interval.
func NewReconciler(store tracking.Store) *Reconciler {
	return &Reconciler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the background loop.
func (rc *Reconciler) Start() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if !rc.Enabled {
		log.Println("[Reconciler] Disabled, not starting")
		return
	}

	rc.ticker = time.NewTicker(rc.CheckInterval)
	rc.wg.Add(1)

	go rc.run()

	log.Printf("[Reconciler] Started with check interval: %v", rc.CheckInterval)
}

// Stop stops the background loop and waits for the current pass.
func (rc *Reconciler) Stop() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.ticker != nil {
		rc.ticker.Stop()
		close(rc.stop)
		rc.wg.Wait()
		log.Println("[Reconciler] Stopped")
	}
}

func (rc *Reconciler) run() {
	defer rc.wg.Done()

	// Run immediately on start
	rc.reconcile()

	for {
		select {
		case <-rc.ticker.C:
			rc.reconcile()
		case <-rc.stop:
			return
		}
	}
}

// RunNow triggers an immediate pass (for testing/admin).
func (rc *Reconciler) RunNow() {
	rc.reconcile()
}

func (rc *Reconciler) reconcile() {
	ctx := context.Background()

	fixed, err := ReconcileUsedHours(ctx, rc.Store)
	if err != nil {
		log.Printf("[Reconciler] Error: %v", err)
		return
	}
	if fixed > 0 {
		log.Printf("[Reconciler] Completed: %d records corrected", fixed)
	}
}

// ReconcileUsedHours recomputes used hours for every project and task and
// returns how many records had drifted.
func ReconcileUsedHours(ctx context.Context, store tracking.Store) (int, error) {
	fixed := 0

	projects, err := store.ListProjects(ctx)
	if err != nil {
		return fixed, err
	}
	for _, p := range projects {
		pid := p.ID
		activities, err := store.ListActivities(ctx, tracking.ActivityFilter{ProjectID: &pid})
		if err != nil {
			return fixed, err
		}
		if sum := tracking.SumHours(activities); !p.UsedHours.Equal(sum) {
			p.UsedHours = sum
			if err := store.SaveProject(ctx, p); err != nil {
				return fixed, err
			}
			fixed++
		}
	}

	tasks, err := store.ListTasks(ctx, nil)
	if err != nil {
		return fixed, err
	}
	for _, task := range tasks {
		tid := task.ID
		activities, err := store.ListActivities(ctx, tracking.ActivityFilter{TaskID: &tid})
		if err != nil {
			return fixed, err
		}
		if sum := tracking.SumHours(activities); !task.UsedHours.Equal(sum) {
			task.UsedHours = sum
			if err := store.SaveTask(ctx, task); err != nil {
				return fixed, err
			}
			fixed++
		}
	}

	return fixed, nil
}
