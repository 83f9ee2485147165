package genome

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// GeneRecord is the CSV row layout of one gene, one column per channel.
type GeneRecord struct {
	LinkShape        float64 `csv:"link-shape"`
	LinkLength       float64 `csv:"link-length"`
	LinkRadius       float64 `csv:"link-radius"`
	LinkRecurrence   float64 `csv:"link-recurrence"`
	LinkMass         float64 `csv:"link-mass"`
	JointType        float64 `csv:"joint-type"`
	JointParent      float64 `csv:"joint-parent"`
	JointAxisXYZ     float64 `csv:"joint-axis-xyz"`
	JointOriginRPY1  float64 `csv:"joint-origin-rpy-1"`
	JointOriginRPY2  float64 `csv:"joint-origin-rpy-2"`
	JointOriginRPY3  float64 `csv:"joint-origin-rpy-3"`
	JointOriginXYZ1  float64 `csv:"joint-origin-xyz-1"`
	JointOriginXYZ2  float64 `csv:"joint-origin-xyz-2"`
	JointOriginXYZ3  float64 `csv:"joint-origin-xyz-3"`
	ControlWaveform  float64 `csv:"control-waveform"`
	ControlAmplitude float64 `csv:"control-amp"`
	ControlFrequency float64 `csv:"control-freq"`
}

// columns returns pointers to the record fields keyed by channel name.
func (r *GeneRecord) columns() map[string]*float64 {
	return map[string]*float64{
		LinkShape:        &r.LinkShape,
		LinkLength:       &r.LinkLength,
		LinkRadius:       &r.LinkRadius,
		LinkRecurrence:   &r.LinkRecurrence,
		LinkMass:         &r.LinkMass,
		JointType:        &r.JointType,
		JointParent:      &r.JointParent,
		JointAxisXYZ:     &r.JointAxisXYZ,
		JointOriginRPY1:  &r.JointOriginRPY1,
		JointOriginRPY2:  &r.JointOriginRPY2,
		JointOriginRPY3:  &r.JointOriginRPY3,
		JointOriginXYZ1:  &r.JointOriginXYZ1,
		JointOriginXYZ2:  &r.JointOriginXYZ2,
		JointOriginXYZ3:  &r.JointOriginXYZ3,
		ControlWaveform:  &r.ControlWaveform,
		ControlAmplitude: &r.ControlAmplitude,
		ControlFrequency: &r.ControlFrequency,
	}
}

func recordFromSeed(seed Seed, spec *Spec) (GeneRecord, error) {
	var rec GeneRecord
	if len(seed) != spec.Len() {
		return rec, fmt.Errorf("%w: want %d, got %d", ErrSeedWidth, spec.Len(), len(seed))
	}
	cols := rec.columns()
	for _, ch := range spec.channels {
		*cols[ch.Name] = seed[ch.Index]
	}
	return rec, nil
}

func (r *GeneRecord) seed(spec *Spec) Seed {
	cols := r.columns()
	seed := make(Seed, spec.Len())
	for _, ch := range spec.channels {
		seed[ch.Index] = *cols[ch.Name]
	}
	return seed
}

// WriteCSV writes g as a header row of channel names followed by one row per gene.
func WriteCSV(w io.Writer, g Genome, spec *Spec) error {
	if len(g) == 0 {
		return fmt.Errorf("csv: %w", ErrEmptyGenome)
	}
	records := make([]GeneRecord, len(g))
	for i, seed := range g {
		rec, err := recordFromSeed(seed, spec)
		if err != nil {
			return fmt.Errorf("csv: gene %d: %w", i, err)
		}
		records[i] = rec
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("csv: writing genome: %w", err)
	}
	return nil
}

// ReadCSV parses a genome written by WriteCSV. The header must list the
// catalog channels in order and every row must have exactly one column per
// channel.
func ReadCSV(r io.Reader, spec *Spec) (Genome, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = spec.Len()

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: %w", ErrEmptyGenome)
	}
	if err != nil {
		return nil, fmt.Errorf("csv: reading header: %w", wrapFieldCount(err))
	}
	for i, name := range spec.Names() {
		if header[i] != name {
			return nil, fmt.Errorf("csv: %w: column %d is %q, want %q", ErrHeader, i, header[i], name)
		}
	}

	var records []GeneRecord
	if err := gocsv.UnmarshalCSVWithoutHeaders(reader, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, fmt.Errorf("csv: %w", ErrEmptyGenome)
		}
		return nil, fmt.Errorf("csv: reading genes: %w", wrapFieldCount(err))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %w", ErrEmptyGenome)
	}

	g := make(Genome, len(records))
	for i := range records {
		g[i] = records[i].seed(spec)
	}
	if err := g.Validate(spec); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return g, nil
}

// wrapFieldCount tags csv field-count errors with ErrColumnCount.
func wrapFieldCount(err error) error {
	if errors.Is(err, csv.ErrFieldCount) {
		return fmt.Errorf("%w: %w", ErrColumnCount, err)
	}
	return err
}

// ToCSV writes g to the file at path.
func ToCSV(g Genome, spec *Spec, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: creating %s: %w", path, err)
	}
	if err := WriteCSV(f, g, spec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FromCSV reads a genome from the file at path.
func FromCSV(path string, spec *Spec) (Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, spec)
}
