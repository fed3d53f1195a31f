package trace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"coros/internal/eventbus"
	"coros/pkg/kernel"
	logx "coros/pkg/logx"
)

// Recorder drains kernel events from the bus into a Store.
//
// Step events can arrive at pass frequency; they are shed with a token
// bucket so the database stays small. Lifecycle events are never shed.
type Recorder struct {
	store Store
	bus   eventbus.Bus
	log   logx.Logger

	limiter   *rate.Limiter
	retention time.Duration
	schedule  cron.Schedule

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRecorder(cfg Config, store Store, bus eventbus.Bus, log logx.Logger) (*Recorder, error) {
	r := &Recorder{
		store:     store,
		bus:       bus,
		log:       log,
		retention: cfg.Retention,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if cfg.RatePerSec > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}

	if cfg.PruneSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		sched, err := parser.Parse(cfg.PruneSchedule)
		if err != nil {
			return nil, fmt.Errorf("trace prune schedule: %w", err)
		}
		r.schedule = sched
	}

	return r, nil
}

// Start begins draining the bus. It returns immediately; call Close to
// flush and stop.
func (r *Recorder) Start(ctx context.Context) {
	r.started = true
	ch, unsub := r.bus.Subscribe(256)
	go r.run(ctx, ch, unsub)
}

func (r *Recorder) run(ctx context.Context, ch <-chan eventbus.Event, unsub func()) {
	defer close(r.done)
	defer unsub()

	var pruneC <-chan time.Time
	var pruneTimer *time.Timer
	if r.schedule != nil && r.retention > 0 {
		pruneTimer = time.NewTimer(time.Until(r.schedule.Next(time.Now())))
		pruneC = pruneTimer.C
		defer pruneTimer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			r.drain(ch)
			return
		case <-r.stop:
			r.drain(ch)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.record(ctx, e)
		case now := <-pruneC:
			r.prune(ctx)
			pruneTimer.Reset(time.Until(r.schedule.Next(now)))
		}
	}
}

// drain empties whatever is already buffered so a shutdown doesn't lose
// the tail of the run.
func (r *Recorder) drain(ch <-chan eventbus.Event) {
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.record(context.Background(), e)
		default:
			return
		}
	}
}

func (r *Recorder) record(ctx context.Context, e eventbus.Event) {
	ke, ok := e.Data.(kernel.Event)
	if !ok {
		return
	}

	// Shed only the high-frequency step stream.
	if ke.Type == kernel.EventTaskStep && r.limiter != nil && !r.limiter.Allow() {
		return
	}

	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	err := r.store.Append(wctx, Entry{
		At:       ke.Time,
		Event:    ke.Type,
		TaskID:   uint64(ke.Task),
		Priority: ke.Priority,
		Pass:     ke.Pass,
	})
	cancel()
	if err != nil {
		r.log.Warn("trace append failed", logx.String("event", ke.Type), logx.Err(err))
	}
}

func (r *Recorder) prune(ctx context.Context) {
	cutoff := time.Now().Add(-r.retention)
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	n, err := r.store.Prune(pctx, cutoff)
	cancel()
	if err != nil {
		r.log.Warn("trace prune failed", logx.Err(err))
		return
	}
	if n > 0 {
		r.log.Info("trace pruned", logx.Int64("deleted", n), logx.Time("cutoff", cutoff))
	}
}

// Close stops the recorder, flushes buffered events, and closes the store.
func (r *Recorder) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	if r.started {
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
			r.log.Warn("trace recorder did not flush in time")
		}
	}
	return r.store.Close()
}
