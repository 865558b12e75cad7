// Package stub provides a cooperative sensor.Adapter test double, the
// sensor-side analogue of transportif/stub's transport test double: it
// lets core tests drive START/POLL/ERROR sequencing deterministically
// instead of depending on real hardware timing.
package stub

import (
	"sync"

	"github.com/powerscope/streamcore/sensor"
)

// Adapter is a configurable sensor.Adapter double. Zero value is a sensor
// that is immediately Ready and fills an empty sample; configure fields
// before handing it to a core.
type Adapter struct {
	mu sync.Mutex

	// StartStatus is returned by the next Start() call.
	StartStatus sensor.Status
	// PollSequence is consumed one status per Poll() call; once
	// exhausted, Poll keeps returning the last entry (or Ready if empty).
	PollSequence []sensor.Status
	pollIdx      int

	// Sample is copied out by Fill, whatever Start/Poll last returned.
	Sample []byte

	typeID     uint8
	sampleSize int

	starts int
	polls  int
	fills  int
}

// New creates a stub adapter reporting typeID and sampleSize, defaulting
// to an immediately-Ready, always-fills-sample behaviour.
func New(typeID uint8, sampleSize int) *Adapter {
	return &Adapter{
		StartStatus: sensor.Ready,
		Sample:      make([]byte, sampleSize),
		typeID:      typeID,
		sampleSize:  sampleSize,
	}
}

func (a *Adapter) Start() sensor.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
	a.pollIdx = 0
	return a.StartStatus
}

func (a *Adapter) Poll() sensor.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.polls++
	if len(a.PollSequence) == 0 {
		return sensor.Ready
	}
	if a.pollIdx >= len(a.PollSequence) {
		return a.PollSequence[len(a.PollSequence)-1]
	}
	s := a.PollSequence[a.pollIdx]
	a.pollIdx++
	return s
}

func (a *Adapter) Fill(dst []byte, max int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fills++
	n := len(a.Sample)
	if n > max {
		n = max
	}
	if n > len(dst) {
		n = len(dst)
	}
	if n <= 0 {
		return 0
	}
	copy(dst, a.Sample[:n])
	return n
}

func (a *Adapter) SampleSize() int { return a.sampleSize }
func (a *Adapter) TypeID() uint8   { return a.typeID }

// Counts returns the number of Start/Poll/Fill calls observed so far, for
// assertions in core tests.
func (a *Adapter) Counts() (starts, polls, fills int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.starts, a.polls, a.fills
}

var _ sensor.Adapter = (*Adapter)(nil)
