// Package motor generates the periodic control signals that drive each joint.
package motor

import (
	"math"

	"github.com/pthm-cable/morphogen/morphology"
)

// Type selects the waveform of a motor.
type Type uint8

const (
	Pulse Type = iota + 1 // square wave: +1 for the first half period, -1 for the second
	Sine
)

// String returns the waveform name.
func (t Type) String() string {
	switch t {
	case Pulse:
		return "pulse"
	case Sine:
		return "sine"
	default:
		return "unknown"
	}
}

// pulseThreshold splits the waveform channel between pulse and sine motors.
const pulseThreshold = 0.5

// Motor is a phase-accumulating signal generator.
// Each call to Sample advances the phase, so a Motor is not safe for concurrent use.
type Motor struct {
	kind      Type
	amplitude float64
	frequency float64
	phase     float64
}

// New creates a motor from a node's control channels.
func New(waveform, amplitude, frequency float64) *Motor {
	kind := Sine
	if waveform <= pulseThreshold {
		kind = Pulse
	}
	return &Motor{
		kind:      kind,
		amplitude: amplitude,
		frequency: frequency,
	}
}

// FromSkeleton creates one motor per non-root node of an expanded skeleton,
// in skeleton order.
func FromSkeleton(expanded []morphology.Node) []*Motor {
	if len(expanded) <= 1 {
		return nil
	}
	motors := make([]*Motor, 0, len(expanded)-1)
	for _, n := range expanded[1:] {
		motors = append(motors, New(n.Waveform, n.Amplitude, n.Frequency))
	}
	return motors
}

// Sample advances the phase by the motor frequency, wraps it into [0, 2π)
// and returns the output for the new phase.
func (m *Motor) Sample() float64 {
	m.phase = math.Mod(m.phase+m.frequency, 2*math.Pi)
	if m.phase < 0 {
		m.phase += 2 * math.Pi
	}

	switch m.kind {
	case Pulse:
		if m.phase < math.Pi {
			return 1
		}
		return -1
	case Sine:
		return math.Sin(m.phase)
	default:
		return 0
	}
}

// Reset returns the phase to zero.
func (m *Motor) Reset() {
	m.phase = 0
}

// Type returns the waveform selected at construction.
func (m *Motor) Type() Type { return m.kind }

// Phase returns the current phase in [0, 2π).
func (m *Motor) Phase() float64 { return m.phase }

// Amplitude returns the control-amp value. Sample does not apply it.
func (m *Motor) Amplitude() float64 { return m.amplitude }

// Frequency returns the phase increment per sample.
func (m *Motor) Frequency() float64 { return m.frequency }
