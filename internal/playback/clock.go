package playback

import (
	"sync"
	"time"
)

// ClockMedia is a headless media element whose clock advances in real time
// while playing. The agent uses it in place of a real player surface; tests
// use it as a deterministic reconciliation target by injecting a clock.
type ClockMedia struct {
	mu      sync.Mutex
	base    float64
	setAt   time.Time
	playing bool
	now     func() time.Time
}

func NewClockMedia() *ClockMedia {
	return &ClockMedia{now: time.Now}
}

// NewClockMediaAt builds a ClockMedia with an injected clock, positioned at
// the given time.
func NewClockMediaAt(position float64, now func() time.Time) *ClockMedia {
	return &ClockMedia{base: position, setAt: now(), now: now}
}

func (m *ClockMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position()
}

func (m *ClockMedia) position() float64 {
	if !m.playing {
		return m.base
	}
	return m.base + m.now().Sub(m.setAt).Seconds()
}

func (m *ClockMedia) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = seconds
	m.setAt = m.now()
}

func (m *ClockMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		m.base = m.position()
		m.setAt = m.now()
		m.playing = true
	}
	return nil
}

func (m *ClockMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playing {
		m.base = m.position()
		m.playing = false
	}
}

func (m *ClockMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.playing
}
