package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultSet(records ...Record) *ResultSet {
	return &ResultSet{
		Header:  []string{ColName, ColIterations, ColRealTime, ColCPUTime, ColTimeUnit},
		Records: records,
	}
}

func TestDedupe(t *testing.T) {
	rs := resultSet(
		Record{Name: "Y", CPUTime: 1.0},
		Record{Name: "X", CPUTime: 2.0},
		Record{Name: "Y", CPUTime: 9.0},
	)

	dropped := Dedupe(rs)

	assert.Equal(t, []string{"Y"}, dropped)
	require.Len(t, rs.Records, 2)
	// First occurrence wins regardless of the duplicate's values.
	assert.Equal(t, 1.0, rs.Records[0].CPUTime)
	assert.Equal(t, "X", rs.Records[1].Name)
}

func TestDedupe_Idempotent(t *testing.T) {
	rs := resultSet(
		Record{Name: "Y", CPUTime: 1.0},
		Record{Name: "Y", CPUTime: 9.0},
	)
	Dedupe(rs)
	again := Dedupe(rs)

	assert.Empty(t, again)
	require.Len(t, rs.Records, 1)
	assert.Equal(t, 1.0, rs.Records[0].CPUTime)
}

func TestCompare_RelativeChange(t *testing.T) {
	baseline := resultSet(Record{Name: "X", CPUTime: 100})
	current := resultSet(Record{Name: "X", CPUTime: 120})

	cmp := Compare(current, baseline)

	require.Len(t, cmp.Rows, 1)
	require.NotNil(t, cmp.Rows[0].RelativeChange)
	assert.InDelta(t, 0.2, *cmp.Rows[0].RelativeChange, 1e-9)
}

func TestCompare_UnmatchedKeysKeepNoChange(t *testing.T) {
	baseline := resultSet(Record{Name: "X", CPUTime: 100})
	current := resultSet(
		Record{Name: "X", CPUTime: 90},
		Record{Name: "onlyhere", CPUTime: 50},
	)

	cmp := Compare(current, baseline)

	require.Len(t, cmp.Rows, 2)
	assert.NotNil(t, cmp.Rows[0].RelativeChange)
	// Absent means nil, not zero.
	assert.Nil(t, cmp.Rows[1].RelativeChange)
}

func TestCompare_NoBaselinePassThrough(t *testing.T) {
	current := resultSet(
		Record{Name: "a", Iterations: 1, RealTime: 1, CPUTime: 1, TimeUnit: "ns"},
		Record{Name: "b", Iterations: 2, RealTime: 2, CPUTime: 2, TimeUnit: "ns"},
	)

	cmp := Compare(current, nil)

	assert.False(t, cmp.HasBaseline)
	assert.Equal(t, current.Header, cmp.Header)
	assert.NotContains(t, cmp.Header, ColRelativeChange)
	require.Len(t, cmp.Rows, len(current.Records))
	for i, row := range cmp.Rows {
		assert.Equal(t, current.Records[i], row.Record)
		assert.Nil(t, row.RelativeChange)
	}
}

func TestCompare_ColumnPlacement(t *testing.T) {
	baseline := resultSet(Record{Name: "X", CPUTime: 100})
	current := &ResultSet{
		Header: []string{ColName, ColIterations, ColRealTime, ColCPUTime, ColTimeUnit, "items_per_second"},
		Records: []Record{
			{Name: "X", CPUTime: 110, TimeUnit: "ns", Extra: []string{"42"}},
		},
	}

	cmp := Compare(current, baseline)

	assert.Equal(t, []string{
		ColName, ColIterations, ColRealTime, ColCPUTime, ColTimeUnit,
		ColRelativeChange, "items_per_second",
	}, cmp.Header)
}

func relPtr(v float64) *float64 { return &v }

func TestTopNByAbsChange(t *testing.T) {
	cmp := &Comparison{
		Header:      []string{ColName},
		HasBaseline: true,
		Rows: []ComparisonRow{
			{Record: Record{Name: "small"}, RelativeChange: relPtr(0.01)},
			{Record: Record{Name: "bigneg"}, RelativeChange: relPtr(-0.5)},
			{Record: Record{Name: "tie1"}, RelativeChange: relPtr(0.2)},
			{Record: Record{Name: "tie2"}, RelativeChange: relPtr(-0.2)},
			{Record: Record{Name: "nobase"}},
		},
	}

	top := TopNByAbsChange(cmp, 3)

	require.Len(t, top.Rows, 3)
	assert.Equal(t, "bigneg", top.Rows[0].Name)
	// Equal magnitudes keep their original order.
	assert.Equal(t, "tie1", top.Rows[1].Name)
	assert.Equal(t, "tie2", top.Rows[2].Name)

	// The input order is untouched.
	assert.Equal(t, "small", cmp.Rows[0].Name)
}

func TestTopNByAbsChange_NLargerThanRows(t *testing.T) {
	cmp := &Comparison{
		Header:      []string{ColName},
		HasBaseline: true,
		Rows: []ComparisonRow{
			{Record: Record{Name: "a"}, RelativeChange: relPtr(0.1)},
		},
	}
	top := TopNByAbsChange(cmp, 10)
	assert.Len(t, top.Rows, 1)
}
