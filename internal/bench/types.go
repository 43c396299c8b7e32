package bench

import "time"

// Fixed leading columns of the benchmark table, in order. Any columns after
// time_unit are carried through untouched.
const (
	ColName       = "name"
	ColIterations = "iterations"
	ColRealTime   = "real_time"
	ColCPUTime    = "cpu_time"
	ColTimeUnit   = "time_unit"

	// ColRelativeChange is the computed column added by Compare. It is
	// placed immediately after time_unit in rendered output.
	ColRelativeChange = "relative_change"
)

// Record is a single benchmark measurement keyed by Name.
type Record struct {
	Name       string  `json:"name"`
	Iterations int64   `json:"iterations"`
	RealTime   float64 `json:"real_time"`
	CPUTime    float64 `json:"cpu_time"`
	TimeUnit   string  `json:"time_unit"`
	// Extra holds the values of any columns after time_unit, verbatim,
	// aligned with ResultSet.Header[5:].
	Extra []string `json:"extra,omitempty"`
}

// ResultSet is the ordered set of records produced by one benchmark run.
type ResultSet struct {
	Header    []string  `json:"header"`
	Records   []Record  `json:"records"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ComparisonRow is a record optionally annotated with its change relative
// to the baseline. RelativeChange is nil when the baseline had no record
// with the same name.
type ComparisonRow struct {
	Record
	RelativeChange *float64 `json:"relative_change,omitempty"`
}

// Comparison is the output of Compare. Header is the rendered column
// order: the current run's header with relative_change inserted after
// time_unit when a baseline was available.
type Comparison struct {
	Header    []string        `json:"header"`
	Rows      []ComparisonRow `json:"rows"`
	Timestamp time.Time       `json:"timestamp,omitempty"`

	// HasBaseline reports whether a baseline was aligned against. When
	// false the relative_change column is absent entirely.
	HasBaseline bool `json:"has_baseline"`
}
