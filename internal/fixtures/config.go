package fixtures

import "runtime"

// Config describes a synthetic docking run.
type Config struct {
	Dir            string // output directory
	NamePrefix     string // molecule name prefix, e.g. "ZINC"
	Molecules      int    // molecules in the run
	ScoreFiles     int    // score tables to split the molecules over
	StructureFiles int    // SD files to split the molecules over
	ScoreExt       string // e.g. ".txt" or ".txt.gz"
	StructureExt   string // e.g. ".sdf" or ".sdf.zst"
	Header         bool   // write a "Name Score" header line
	Malformed      bool   // add a bad score row and a hypervalent record to every file
	Workers        int    // concurrent file writers
	Seed           uint64 // score distribution seed
}

// DefaultConfig returns a small run rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		NamePrefix:     "ZINC",
		Molecules:      120,
		ScoreFiles:     3,
		StructureFiles: 4,
		ScoreExt:       ".txt",
		StructureExt:   ".sdf",
		Header:         true,
		Workers:        runtime.NumCPU(),
		Seed:           1,
	}
}

// Dataset lists what Generate wrote.
type Dataset struct {
	ScoreFiles     []string
	StructureFiles []string
	Names          []string           // in generation order
	Scores         map[string]float64 // by name
	Templates      map[string]Template
}
