package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/morphogen/config"
)

// OutputManager handles structured survey output with CSV logging.
type OutputManager struct {
	dir        string
	bodiesFile *os.File
	perfFile   *os.File

	// Track if headers have been written
	bodiesHeaderWritten bool
	perfHeaderWritten   bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "bodies.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating bodies.csv: %w", err)
	}
	om.bodiesFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.bodiesFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteBodies appends body records to bodies.csv.
func (om *OutputManager) WriteBodies(bodies []BodyStats) error {
	if om == nil || len(bodies) == 0 {
		return nil
	}

	if !om.bodiesHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(bodies, om.bodiesFile); err != nil {
			return fmt.Errorf("writing bodies: %w", err)
		}
		om.bodiesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(bodies, om.bodiesFile); err != nil {
			return fmt.Errorf("writing bodies: %w", err)
		}
	}

	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, creatures int) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(creatures)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.bodiesFile != nil {
		if err := om.bodiesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
