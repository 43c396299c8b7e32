package bench

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// tableHeaderPrefix marks the switch from the free-form metadata block to
// the benchmark table inside a results file.
const tableHeaderPrefix = "name,iterations,real_time,cpu_time"

// timestampLayout is the format of the run timestamp embedded in the
// metadata block.
const timestampLayout = "2006-01-02 15:04:05"

// ErrNoTable is returned by Split when the input never reaches a table
// header line. Every downstream step needs a table, so callers treat this
// as fatal.
var ErrNoTable = errors.New("bench: no benchmark table header found in input")

// SplitResult is the outcome of separating a results file into its
// metadata block and its benchmark table.
type SplitResult struct {
	Metadata  string
	Table     string
	Timestamp time.Time
}

// Split reads a combined results stream line by line. Once a line matches
// the table header it and every following line belong to the table;
// everything before it is metadata. Metadata lines beginning with "20" are
// parsed as the run timestamp.
func Split(r io.Reader) (SplitResult, error) {
	var (
		res     SplitResult
		meta    strings.Builder
		table   strings.Builder
		inTable bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if !inTable && strings.HasPrefix(line, tableHeaderPrefix) {
			inTable = true
		}

		if inTable {
			table.WriteString(line)
			table.WriteString("\n")
			continue
		}

		meta.WriteString(line)
		meta.WriteString("\n")
		if strings.HasPrefix(line, "20") {
			ts, err := time.Parse(timestampLayout, strings.TrimSpace(line))
			if err != nil {
				return SplitResult{}, fmt.Errorf("bench: malformed timestamp line %q: %w", line, err)
			}
			res.Timestamp = ts
		}
	}
	if err := scanner.Err(); err != nil {
		return SplitResult{}, fmt.Errorf("bench: reading results: %w", err)
	}

	if !inTable {
		return SplitResult{}, ErrNoTable
	}

	res.Metadata = meta.String()
	res.Table = table.String()
	return res, nil
}

// ParseTable decodes the CSV benchmark table into a ResultSet. The header
// must start with the five fixed columns; anything after time_unit is
// preserved as extra columns.
func ParseTable(table string) (*ResultSet, error) {
	reader := csv.NewReader(strings.NewReader(table))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("bench: parsing table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("bench: empty table")
	}

	header := rows[0]
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	rs := &ResultSet{Header: header}
	for i, row := range rows[1:] {
		if len(row) < 5 {
			return nil, fmt.Errorf("bench: row %d: expected at least 5 fields, got %d", i+1, len(row))
		}

		rec := Record{
			Name:     row[0],
			TimeUnit: row[4],
		}
		if rec.Iterations, err = strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64); err != nil {
			return nil, fmt.Errorf("bench: row %d (%s): bad iterations %q: %w", i+1, row[0], row[1], err)
		}
		if rec.RealTime, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err != nil {
			return nil, fmt.Errorf("bench: row %d (%s): bad real_time %q: %w", i+1, row[0], row[2], err)
		}
		if rec.CPUTime, err = strconv.ParseFloat(strings.TrimSpace(row[3]), 64); err != nil {
			return nil, fmt.Errorf("bench: row %d (%s): bad cpu_time %q: %w", i+1, row[0], row[3], err)
		}
		if len(row) > 5 {
			rec.Extra = row[5:]
		}
		rs.Records = append(rs.Records, rec)
	}

	return rs, nil
}

func validateHeader(header []string) error {
	want := []string{ColName, ColIterations, ColRealTime, ColCPUTime, ColTimeUnit}
	if len(header) < len(want) {
		return fmt.Errorf("bench: table header has %d columns, want at least %d", len(header), len(want))
	}
	for i, col := range want {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("bench: table header column %d is %q, want %q", i, header[i], col)
		}
	}
	return nil
}
