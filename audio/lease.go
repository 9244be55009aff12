package audio

import (
	"sync"
	"time"

	"github.com/simukka/skyisle/common"
)

// Lease keeps transient nodes connected for a fixed time-to-live, then
// disconnects them whether or not they finished playing.
type Lease struct {
	nodes    []Node
	once     sync.Once
	released chan struct{}
}

// NewLease schedules nodes for release after ttl.
func NewLease(clock common.Clock, ttl time.Duration, nodes ...Node) *Lease {
	l := &Lease{
		nodes:    nodes,
		released: make(chan struct{}),
	}
	clock.AfterFunc(ttl, l.Release)
	return l
}

// Release disconnects the nodes. Safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		for _, n := range l.nodes {
			n.Disconnect()
		}
		close(l.released)
	})
}

// Released is closed once the nodes have been disconnected.
func (l *Lease) Released() <-chan struct{} {
	return l.released
}
