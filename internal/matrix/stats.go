package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// column returns the known (non-missing) values of a column.
func (m *Matrix) column(col int) []float64 {
	out := make([]float64, 0, m.rows)
	for i := 0; i < m.rows; i++ {
		if v := m.At(i, col); v != UnknownValue {
			out = append(out, v)
		}
	}
	return out
}

// ColumnMean returns the mean of the known values of a column, NaN if there
// are none.
func (m *Matrix) ColumnMean(col int) float64 {
	vals := m.column(col)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// ColumnMin returns the smallest known value of a column, +Inf if there are none.
func (m *Matrix) ColumnMin(col int) float64 {
	vals := m.column(col)
	if len(vals) == 0 {
		return math.Inf(1)
	}
	return floats.Min(vals)
}

// ColumnMax returns the largest known value of a column, -Inf if there are none.
func (m *Matrix) ColumnMax(col int) float64 {
	vals := m.column(col)
	if len(vals) == 0 {
		return math.Inf(-1)
	}
	return floats.Max(vals)
}

// MostCommonValue returns the most frequent known value of a column. Ties go
// to the smallest value; a column with no known values yields 0.
func (m *Matrix) MostCommonValue(col int) float64 {
	counts := make(map[float64]int)
	for _, v := range m.column(col) {
		counts[v]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	var best float64
	bestCount := 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// Ranges returns the known min and max of every column. Nominal columns and
// columns with no known values report NaN for both.
func (m *Matrix) Ranges() (lo, hi []float64) {
	lo = make([]float64, m.Cols())
	hi = make([]float64, m.Cols())
	for col := range m.attrs {
		lo[col], hi[col] = math.NaN(), math.NaN()
		if m.ValueCount(col) != 0 {
			continue
		}
		if mn := m.ColumnMin(col); !math.IsInf(mn, 0) {
			lo[col], hi[col] = mn, m.ColumnMax(col)
		}
	}
	return lo, hi
}

// Normalize rescales every continuous column to [0, 1] using its min and max.
// Constant columns become 0. Missing entries and nominal columns are left as-is.
func (m *Matrix) Normalize() {
	lo, hi := m.Ranges()
	_ = m.NormalizeWith(lo, hi)
}

// NormalizeWith rescales continuous columns by (v-lo)/(hi-lo) using ranges
// taken from another matrix, typically the training set. Values outside the
// range map outside [0, 1]. A NaN range leaves its column untouched and a
// zero-width range maps the column to 0.
func (m *Matrix) NormalizeWith(lo, hi []float64) error {
	if len(lo) != m.Cols() || len(hi) != m.Cols() {
		return fmt.Errorf("%w: ranges for %d/%d columns, want %d", ErrColMismatch, len(lo), len(hi), m.Cols())
	}
	for col := range m.attrs {
		if m.ValueCount(col) != 0 || math.IsNaN(lo[col]) || math.IsNaN(hi[col]) {
			continue
		}
		span := hi[col] - lo[col]
		for i := 0; i < m.rows; i++ {
			v := m.At(i, col)
			if v == UnknownValue {
				continue
			}
			if span == 0 {
				m.Set(i, col, 0)
				continue
			}
			m.Set(i, col, (v-lo[col])/span)
		}
	}
	return nil
}
