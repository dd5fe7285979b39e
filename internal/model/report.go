package model

import "time"

// Report summarizes one minimization run. It is printed as a table at the
// end of a run and persisted by the report store.
type Report struct {
	Target     Path          `yaml:"target"`
	StartedAt  time.Time     `yaml:"started_at"`
	Duration   time.Duration `yaml:"duration"`
	Builds     int           `yaml:"builds"`
	NoVerify   bool          `yaml:"no_verify"`
	Passes     []PassReport  `yaml:"passes"`
}

// PassReport aggregates what one pass achieved across all files.
type PassReport struct {
	Name      string `yaml:"name"`
	Rounds    int    `yaml:"rounds"`
	Committed int    `yaml:"committed"`
	Failed    int    `yaml:"failed"`
}

// CandidateCount is one row of the `list` command output: how many
// minimization sites a pass finds in a file.
type CandidateCount struct {
	File  Path
	Pass  string
	Count int
}
