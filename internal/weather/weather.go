// Package weather serves the dashboard's calendar widget. Readings are
// simulated: a random temperature and condition stand in for a real
// forecast provider, which is outside this project's scope.
package weather

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

type Condition string

const (
	Sunny  Condition = "sunny"
	Cloudy Condition = "cloudy"
	Rainy  Condition = "rainy"
)

var icons = map[Condition]string{
	Sunny:  "☀️",
	Cloudy: "☁️",
	Rainy:  "🌧️",
}

type Reading struct {
	Temperature int       `json:"temperature"` // degrees Fahrenheit
	Condition   Condition `json:"condition"`
	Icon        string    `json:"icon"`
}

// Source produces the current reading. A real provider would sit behind
// this interface.
type Source interface {
	Fetch(ctx context.Context) (Reading, error)
}

// Simulated draws uniformly from 65-84°F and the three conditions.
type Simulated struct {
	rand *rand.Rand
}

// NewSimulated seeds from the wall clock. Tests pass their own source for
// repeatable readings.
func NewSimulated() *Simulated {
	return NewSimulatedFrom(rand.NewSource(time.Now().UnixNano()))
}

func NewSimulatedFrom(src rand.Source) *Simulated {
	return &Simulated{rand: rand.New(src)}
}

func (s *Simulated) Fetch(_ context.Context) (Reading, error) {
	conditions := []Condition{Sunny, Cloudy, Rainy}
	c := conditions[s.rand.Intn(len(conditions))]
	return Reading{
		Temperature: 65 + s.rand.Intn(20),
		Condition:   c,
		Icon:        icons[c],
	}, nil
}

// Poller refreshes a reading on a fixed interval and keeps the latest one
// available to handlers. A failed fetch is logged and the previous reading
// stays in place.
type Poller struct {
	source   Source
	interval time.Duration

	mu      sync.RWMutex
	current Reading
	ready   bool
}

func NewPoller(source Source, interval time.Duration) *Poller {
	return &Poller{source: source, interval: interval}
}

// Run fetches once immediately, then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	r, err := p.source.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch weather reading", "error", err)
		return
	}
	p.mu.Lock()
	p.current = r
	p.ready = true
	p.mu.Unlock()
}

// Current returns the latest reading; ok is false before the first
// successful fetch.
func (p *Poller) Current() (Reading, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.ready
}
