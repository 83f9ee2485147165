package genome

import "fmt"

// Dict maps channel names to decoded values.
type Dict map[string]float64

// Decode scales each seed component by its channel scale factor.
func Decode(seed Seed, spec *Spec) (Dict, error) {
	if len(seed) != spec.Len() {
		return nil, fmt.Errorf("decode: %w: want %d, got %d", ErrSeedWidth, spec.Len(), len(seed))
	}
	d := make(Dict, spec.Len())
	for _, ch := range spec.channels {
		d[ch.Name] = seed[ch.Index] * ch.Scale
	}
	return d, nil
}

// DecodeAll decodes every gene independently, preserving order.
func DecodeAll(g Genome, spec *Spec) ([]Dict, error) {
	if len(g) == 0 {
		return nil, fmt.Errorf("decode: %w", ErrEmptyGenome)
	}
	dicts := make([]Dict, len(g))
	for i, seed := range g {
		d, err := Decode(seed, spec)
		if err != nil {
			return nil, fmt.Errorf("gene %d: %w", i, err)
		}
		dicts[i] = d
	}
	return dicts, nil
}
