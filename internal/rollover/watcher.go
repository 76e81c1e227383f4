package rollover

import (
	"sync"
	"sync/atomic"
	"time"
)

// DayChange is emitted once per local-midnight boundary. Date holds the
// key of the day that just started, formatted as 2006-01-02.
type DayChange struct {
	Date string
	At   time.Time
}

// Watcher fires a DayChange when the wall clock crosses local midnight.
// Consumers that fall behind lose events rather than block the loop;
// Dropped reports how many were lost.
type Watcher struct {
	mu      sync.Mutex
	now     func() time.Time
	out     chan DayChange
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewWatcher(bufferSize int) *Watcher {
	return NewWatcherWithClock(bufferSize, time.Now)
}

func NewWatcherWithClock(bufferSize int, now func() time.Time) *Watcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Watcher{
		now:    now,
		out:    make(chan DayChange, bufferSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (w *Watcher) C() <-chan DayChange {
	return w.out
}

func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

func (w *Watcher) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	defer close(w.out)

	var timer *time.Timer
	for {
		now := w.now()
		boundary := nextMidnight(now)

		wait := boundary.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			at := w.now()
			ev := DayChange{Date: at.Format("2006-01-02"), At: at}
			select {
			case w.out <- ev:
			default:
				atomic.AddUint64(&w.dropped, 1)
			}
		case <-w.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

// nextMidnight returns the first instant of the day after t, in t's
// location. DST transitions are handled by time.Date normalization.
func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
