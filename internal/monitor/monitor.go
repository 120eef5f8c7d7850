// Package monitor produces the live system telemetry stream behind the
// security monitoring WebSocket.
package monitor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often a new sample is produced.
const DefaultInterval = 2 * time.Second

// Sample is one telemetry snapshot.
type Sample struct {
	CPU         float64   `json:"cpu"`
	Memory      float64   `json:"memory"`
	Disk        float64   `json:"disk"`
	NetworkIn   float64   `json:"network_in"`
	NetworkOut  float64   `json:"network_out"`
	Connections int       `json:"connections"`
	Timestamp   time.Time `json:"timestamp"`
}

// Status is the point-in-time monitoring summary.
type Status struct {
	Monitoring  bool      `json:"monitoring"`
	Subscribers int       `json:"subscribers"`
	Interval    string    `json:"interval"`
	StartedAt   time.Time `json:"started_at"`
	Last        Sample    `json:"last"`
}

// subscriberBuffer bounds each subscriber channel. A subscriber that falls
// this far behind starts losing samples rather than blocking the hub.
const subscriberBuffer = 8

// Hub generates telemetry samples on a fixed interval and fans them out to
// subscribers.
type Hub struct {
	logger   zerolog.Logger
	interval time.Duration

	mu        sync.RWMutex
	subs      map[chan Sample]struct{}
	last      Sample
	running   bool
	startedAt time.Time
}

func NewHub(logger zerolog.Logger, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Hub{
		logger:   logger,
		interval: interval,
		subs:     make(map[chan Sample]struct{}),
	}
}

// Run produces samples until the context is canceled. It owns the walk state,
// so a Hub supports at most one Run at a time.
func (h *Hub) Run(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	walk := newWalkState(rng)

	h.mu.Lock()
	h.running = true
	h.startedAt = time.Now().UTC()
	h.last = walk.sample()
	h.mu.Unlock()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
			return
		case <-ticker.C:
			walk.step(rng)
			h.broadcast(walk.sample())
		}
	}
}

func (h *Hub) broadcast(s Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = s
	for ch := range h.subs {
		select {
		case ch <- s:
		default:
			// Slow subscriber, drop the sample for it.
		}
	}
}

// Subscribe registers a new listener. The returned cancel func must be called
// when the listener goes away.
func (h *Hub) Subscribe() (<-chan Sample, func()) {
	ch := make(chan Sample, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug().Int("subscribers", count).Msg("monitor subscriber added")

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Status returns the current monitoring summary.
func (h *Hub) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Status{
		Monitoring:  h.running,
		Subscribers: len(h.subs),
		Interval:    h.interval.String(),
		StartedAt:   h.startedAt,
		Last:        h.last,
	}
}

// walkState is a bounded random walk over each metric, so consecutive samples
// look like a live system instead of white noise.
type walkState struct {
	cpu, memory, disk float64
	netIn, netOut     float64
	connections       int
}

func newWalkState(rng *rand.Rand) *walkState {
	return &walkState{
		cpu:         20 + rng.Float64()*30,
		memory:      40 + rng.Float64()*20,
		disk:        50 + rng.Float64()*10,
		netIn:       5 + rng.Float64()*20,
		netOut:      2 + rng.Float64()*10,
		connections: 50 + rng.Intn(100),
	}
}

func (w *walkState) step(rng *rand.Rand) {
	w.cpu = clamp(w.cpu+(rng.Float64()-0.5)*10, 1, 99)
	w.memory = clamp(w.memory+(rng.Float64()-0.5)*4, 10, 95)
	w.disk = clamp(w.disk+(rng.Float64()-0.45)*0.5, 20, 95)
	w.netIn = clamp(w.netIn+(rng.Float64()-0.5)*8, 0, 1000)
	w.netOut = clamp(w.netOut+(rng.Float64()-0.5)*4, 0, 1000)
	w.connections += rng.Intn(21) - 10
	if w.connections < 0 {
		w.connections = 0
	}
}

func (w *walkState) sample() Sample {
	return Sample{
		CPU:         w.cpu,
		Memory:      w.memory,
		Disk:        w.disk,
		NetworkIn:   w.netIn,
		NetworkOut:  w.netOut,
		Connections: w.connections,
		Timestamp:   time.Now().UTC(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
