// Package genome implements the creature genetic encoding: the gene catalog,
// random seeds, decoding into named values, genetic operators and CSV persistence.
package genome

import (
	"fmt"
	"math"
)

// Channel names of the default catalog, in catalog order.
const (
	LinkShape        = "link-shape"
	LinkLength       = "link-length"
	LinkRadius       = "link-radius"
	LinkRecurrence   = "link-recurrence"
	LinkMass         = "link-mass"
	JointType        = "joint-type"
	JointParent      = "joint-parent"
	JointAxisXYZ     = "joint-axis-xyz"
	JointOriginRPY1  = "joint-origin-rpy-1"
	JointOriginRPY2  = "joint-origin-rpy-2"
	JointOriginRPY3  = "joint-origin-rpy-3"
	JointOriginXYZ1  = "joint-origin-xyz-1"
	JointOriginXYZ2  = "joint-origin-xyz-2"
	JointOriginXYZ3  = "joint-origin-xyz-3"
	ControlWaveform  = "control-waveform"
	ControlAmplitude = "control-amp"
	ControlFrequency = "control-freq"
)

// MaxRecurrenceScale bounds the link-recurrence scale. Each flat link is
// copied up to floor(scale)+1 times, and copies multiply down the tree.
const MaxRecurrenceScale = 8

// Channel is one named gene channel.
type Channel struct {
	Name  string
	Scale float64
	Index int
}

// defaultChannels is the default catalog. Index is filled in by BuildSpec.
var defaultChannels = []Channel{
	{Name: LinkShape, Scale: 1},
	{Name: LinkLength, Scale: 2},
	{Name: LinkRadius, Scale: 1},
	{Name: LinkRecurrence, Scale: 3},
	{Name: LinkMass, Scale: 1},
	{Name: JointType, Scale: 1},
	{Name: JointParent, Scale: 1},
	{Name: JointAxisXYZ, Scale: 1},
	{Name: JointOriginRPY1, Scale: 2 * math.Pi},
	{Name: JointOriginRPY2, Scale: 2 * math.Pi},
	{Name: JointOriginRPY3, Scale: 2 * math.Pi},
	{Name: JointOriginXYZ1, Scale: 1},
	{Name: JointOriginXYZ2, Scale: 1},
	{Name: JointOriginXYZ3, Scale: 1},
	{Name: ControlWaveform, Scale: 1},
	{Name: ControlAmplitude, Scale: 0.25},
	{Name: ControlFrequency, Scale: 1},
}

// Spec is an immutable, ordered gene catalog.
// Build one with BuildSpec and pass it to every decoding call.
type Spec struct {
	channels []Channel
	byName   map[string]int
}

// DefaultSpec returns the default catalog with no scale overrides.
func DefaultSpec() *Spec {
	spec, _ := BuildSpec(nil)
	return spec
}

// BuildSpec returns the default catalog with individual scale factors replaced
// by overrides. Indices follow catalog order.
func BuildSpec(overrides map[string]float64) (*Spec, error) {
	s := &Spec{
		channels: make([]Channel, len(defaultChannels)),
		byName:   make(map[string]int, len(defaultChannels)),
	}
	for i, ch := range defaultChannels {
		ch.Index = i
		s.channels[i] = ch
		s.byName[ch.Name] = i
	}

	for name, scale := range overrides {
		idx, ok := s.byName[name]
		if !ok {
			return nil, fmt.Errorf("gene spec: %w: %q", ErrUnknownChannel, name)
		}
		if math.IsNaN(scale) || math.IsInf(scale, 0) {
			return nil, fmt.Errorf("gene spec: %w: %q scale %v", ErrInvalidScale, name, scale)
		}
		if err := checkScaleRange(name, scale); err != nil {
			return nil, fmt.Errorf("gene spec: %w", err)
		}
		s.channels[idx].Scale = scale
	}

	return s, nil
}

// Len returns the number of channels, which is also the width of every Seed.
func (s *Spec) Len() int {
	return len(s.channels)
}

// Channels returns a copy of the catalog in index order.
func (s *Spec) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// Names returns the channel names in index order.
func (s *Spec) Names() []string {
	names := make([]string, len(s.channels))
	for i, ch := range s.channels {
		names[i] = ch.Name
	}
	return names
}

// Lookup returns the channel with the given name.
func (s *Spec) Lookup(name string) (Channel, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return Channel{}, false
	}
	return s.channels[idx], true
}

// Index returns the seed position of a channel, or -1 if unknown.
func (s *Spec) Index(name string) int {
	idx, ok := s.byName[name]
	if !ok {
		return -1
	}
	return idx
}

// checkScaleRange bounds the channels that flattening depends on. A
// joint-parent scale above 1 selects parents that do not exist yet.
func checkScaleRange(name string, scale float64) error {
	switch name {
	case JointParent:
		if scale < 0 || scale > 1 {
			return fmt.Errorf("%w: %q scale %v outside [0,1]", ErrInvalidScale, name, scale)
		}
	case LinkRecurrence:
		if scale < 0 || scale > MaxRecurrenceScale {
			return fmt.Errorf("%w: %q scale %v outside [0,%d]", ErrInvalidScale, name, scale, MaxRecurrenceScale)
		}
	}
	return nil
}
