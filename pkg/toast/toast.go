// Package toast holds the single transient notification shown to admins.
package toast

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultDelay = 3 * time.Second

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type State struct {
	Visible bool
	Message string
	Kind    Kind
}

type Listener func(State)

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// Controller shows one toast at a time. A new toast replaces the current one
// and restarts the hide timer.
type Controller struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	delay     time.Duration
	state     State
	seq       uint64
	timer     clockwork.Timer
	listeners []Listener
}

func New(opts ...Option) *Controller {
	c := &Controller{
		clock: clockwork.NewRealClock(),
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Show(message string, kind Kind) {
	if kind == "" {
		kind = KindInfo
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.state = State{Visible: true, Message: message, Kind: kind}
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.hide(seq)
	})
	state, listeners := c.state, c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, state)
}

func (c *Controller) Info(message string)    { c.Show(message, KindInfo) }
func (c *Controller) Success(message string) { c.Show(message, KindSuccess) }
func (c *Controller) Error(message string)   { c.Show(message, KindError) }

// Dismiss hides the current toast immediately.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	seq := c.seq
	c.mu.Unlock()
	c.hide(seq)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers a listener called after every change, outside the lock.
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) hide(seq uint64) {
	c.mu.Lock()
	// a timer from a superseded toast
	if seq != c.seq || !c.state.Visible {
		c.mu.Unlock()
		return
	}
	c.state.Visible = false
	c.timer = nil
	state, listeners := c.state, c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, state)
}

func (c *Controller) snapshotListeners() []Listener {
	return append([]Listener(nil), c.listeners...)
}

func notify(listeners []Listener, state State) {
	for _, l := range listeners {
		l(state)
	}
}
