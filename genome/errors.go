package genome

import "errors"

var (
	// ErrUnknownChannel is returned when a scale override names no catalog channel.
	ErrUnknownChannel = errors.New("unknown gene channel")
	// ErrInvalidScale is returned for NaN or infinite scale overrides.
	ErrInvalidScale = errors.New("invalid scale factor")
	// ErrGeneCount is returned when asked for fewer than one gene.
	ErrGeneCount = errors.New("gene count must be at least 1")
	// ErrEmptyGenome is returned when a genome has no genes.
	ErrEmptyGenome = errors.New("genome has no genes")
	// ErrSeedWidth is returned when a seed does not match the catalog size.
	ErrSeedWidth = errors.New("seed width does not match gene spec")
	// ErrSeedRange is returned when a seed component lies outside [0,1).
	ErrSeedRange = errors.New("seed value outside [0,1)")
	// ErrHeader is returned when a genome CSV header does not match the catalog.
	ErrHeader = errors.New("csv header does not match gene spec")
	// ErrColumnCount is returned when a genome CSV row has the wrong column count.
	ErrColumnCount = errors.New("csv column count does not match gene spec")
)
