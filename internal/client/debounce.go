package client

import "time"

// DefaultDebounceWindow is the quiescence window for search input.
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer turns raw input that changes at arbitrary frequency into a value
// stream that only emits once the input has been stable for a full window.
// A new input while a timer is pending discards the pending emission and
// restarts the window; intermediate values are never emitted.
type Debouncer struct {
	window time.Duration
	in     chan string
	out    chan string
	stop   chan struct{}
}

// NewDebouncer creates and starts a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	d := &Debouncer{
		window: window,
		in:     make(chan string),
		out:    make(chan string),
		stop:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Debouncer) run() {
	var (
		pending string
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	for {
		select {
		case v := <-d.in:
			pending = v
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(d.window)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			timer = nil
			select {
			case d.out <- pending:
			case <-d.stop:
				return
			}
		case <-d.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Observe feeds a new raw value into the debouncer.
func (d *Debouncer) Observe(value string) {
	select {
	case d.in <- value:
	case <-d.stop:
	}
}

// Values returns the debounced value stream.
func (d *Debouncer) Values() <-chan string {
	return d.out
}

// Stop cancels any pending emission and shuts the debouncer down.
func (d *Debouncer) Stop() {
	close(d.stop)
}
