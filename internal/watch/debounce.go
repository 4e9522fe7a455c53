package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one relevant filesystem change.
type Event struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// Debounce coalesces events into batches. A batch is emitted once no new
// event has arrived for delay. Repeated events for the same path keep only
// the latest. The output channel is closed when in is closed or ctx is done;
// a pending batch is flushed when in closes.
func Debounce(ctx context.Context, in <-chan Event, delay time.Duration) <-chan []Event {
	out := make(chan []Event)

	go func() {
		defer close(out)

		var (
			pending []Event
			index   = map[string]int{}
			timer   *time.Timer
			fire    <-chan time.Time
		)

		reset := func() {
			pending = nil
			index = map[string]int{}
			fire = nil
		}

		emit := func() bool {
			batch := pending
			reset()
			select {
			case out <- batch:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case ev, ok := <-in:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					if len(pending) > 0 {
						emit()
					}
					return
				}
				if i, seen := index[ev.Path]; seen {
					pending[i] = ev
				} else {
					index[ev.Path] = len(pending)
					pending = append(pending, ev)
				}
				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Stop()
					timer.Reset(delay)
				}
				fire = timer.C
			case <-fire:
				if !emit() {
					return
				}
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	return out
}
