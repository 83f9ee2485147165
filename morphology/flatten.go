package morphology

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pthm-cable/morphogen/genome"
)

// NodeName returns the flat-list name of the node decoded from gene i.
func NodeName(i int) string {
	return "L" + strconv.Itoa(i)
}

// Flatten decodes one Node per gene dict. Dict 0 becomes the root. For every
// later dict i the joint-parent value, scaled onto [0, i), selects the parent
// among the nodes already built, so the result is always a tree rooted at 0.
// In the flat list Parent holds the parent's flat index.
func Flatten(dicts []genome.Dict) ([]Node, error) {
	if len(dicts) == 0 {
		return nil, fmt.Errorf("flatten: %w", ErrNoNodes)
	}

	nodes := make([]Node, 0, len(dicts))
	for i, d := range dicts {
		n, err := nodeFromDict(d)
		if err != nil {
			return nil, fmt.Errorf("flatten: gene %d: %w", i, err)
		}
		n.Name = NodeName(i)
		n.Gene = i
		n.Parent = -1

		if i > 0 {
			p := int(math.Floor(d[genome.JointParent] * float64(i)))
			if p < 0 || p >= i {
				return nil, fmt.Errorf("flatten: gene %d: %w: joint-parent %v selects %d",
					i, ErrDanglingParent, d[genome.JointParent], p)
			}
			n.Parent = p
			n.ParentName = nodes[p].Name
		}

		nodes = append(nodes, n)
	}
	return nodes, nil
}

// recurrence maps the link-recurrence value to a copy count of at least 1.
// Values above genome.MaxRecurrenceScale, or NaN, are rejected.
func recurrence(v float64) (int, error) {
	if math.IsNaN(v) || v > genome.MaxRecurrenceScale {
		return 0, fmt.Errorf("%w: %v", ErrRecurrence, v)
	}
	if v < 0 {
		return 1, nil
	}
	return int(math.Floor(v)) + 1, nil
}

func nodeFromDict(d genome.Dict) (Node, error) {
	get := func(name string) (float64, error) {
		v, ok := d[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingChannel, name)
		}
		return v, nil
	}

	var (
		n   Node
		err error
	)
	fields := []struct {
		name string
		dst  *float64
	}{
		{genome.LinkShape, &n.Shape},
		{genome.LinkLength, &n.Length},
		{genome.LinkRadius, &n.Radius},
		{genome.LinkMass, &n.Mass},
		{genome.JointType, &n.JointType},
		{genome.JointAxisXYZ, &n.JointAxis},
		{genome.JointOriginRPY1, &n.OriginRPY[0]},
		{genome.JointOriginRPY2, &n.OriginRPY[1]},
		{genome.JointOriginRPY3, &n.OriginRPY[2]},
		{genome.JointOriginXYZ1, &n.OriginXYZ[0]},
		{genome.JointOriginXYZ2, &n.OriginXYZ[1]},
		{genome.JointOriginXYZ3, &n.OriginXYZ[2]},
		{genome.ControlWaveform, &n.Waveform},
		{genome.ControlAmplitude, &n.Amplitude},
		{genome.ControlFrequency, &n.Frequency},
	}
	for _, f := range fields {
		if *f.dst, err = get(f.name); err != nil {
			return Node{}, err
		}
	}

	rec, err := get(genome.LinkRecurrence)
	if err != nil {
		return Node{}, err
	}
	if _, err := get(genome.JointParent); err != nil {
		return Node{}, err
	}
	if n.Recurrence, err = recurrence(rec); err != nil {
		return Node{}, err
	}
	n.SiblingIndex = 1
	return n, nil
}
