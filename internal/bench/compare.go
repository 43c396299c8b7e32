package bench

import "sort"

// Dedupe removes records with a name already seen earlier in the set,
// keeping the first occurrence. It returns the names that were dropped.
// Duplicates are an anomaly worth warning about, never an error.
func Dedupe(rs *ResultSet) []string {
	seen := make(map[string]bool, len(rs.Records))
	var dropped []string

	kept := rs.Records[:0]
	for _, rec := range rs.Records {
		if seen[rec.Name] {
			dropped = append(dropped, rec.Name)
			continue
		}
		seen[rec.Name] = true
		kept = append(kept, rec)
	}
	rs.Records = kept
	return dropped
}

// Compare aligns current against baseline by record name and computes the
// relative cpu_time change for every record with a baseline counterpart.
// Records present only in the current run keep a nil RelativeChange. A nil
// baseline yields a pass-through comparison with no relative_change column.
func Compare(current, baseline *ResultSet) *Comparison {
	cmp := &Comparison{
		Timestamp:   current.Timestamp,
		HasBaseline: baseline != nil,
	}

	if baseline == nil {
		cmp.Header = append([]string(nil), current.Header...)
		for _, rec := range current.Records {
			cmp.Rows = append(cmp.Rows, ComparisonRow{Record: rec})
		}
		return cmp
	}

	// relative_change slots in right after time_unit; everything else
	// keeps its original position.
	cmp.Header = make([]string, 0, len(current.Header)+1)
	cmp.Header = append(cmp.Header, current.Header[:5]...)
	cmp.Header = append(cmp.Header, ColRelativeChange)
	cmp.Header = append(cmp.Header, current.Header[5:]...)

	base := make(map[string]Record, len(baseline.Records))
	for _, rec := range baseline.Records {
		if _, ok := base[rec.Name]; !ok {
			base[rec.Name] = rec
		}
	}

	for _, rec := range current.Records {
		row := ComparisonRow{Record: rec}
		if b, ok := base[rec.Name]; ok {
			change := (rec.CPUTime - b.CPUTime) / b.CPUTime
			row.RelativeChange = &change
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}

// TopNByAbsChange returns a copy of cmp truncated to the n rows with the
// largest absolute relative change, sorted descending. Ties keep their
// original order; rows without a relative change sort last.
func TopNByAbsChange(cmp *Comparison, n int) *Comparison {
	out := &Comparison{
		Header:      append([]string(nil), cmp.Header...),
		Rows:        append([]ComparisonRow(nil), cmp.Rows...),
		Timestamp:   cmp.Timestamp,
		HasBaseline: cmp.HasBaseline,
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		return absChange(out.Rows[i]) > absChange(out.Rows[j])
	})

	if n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out
}

func absChange(row ComparisonRow) float64 {
	if row.RelativeChange == nil {
		return -1
	}
	v := *row.RelativeChange
	if v < 0 {
		return -v
	}
	return v
}
