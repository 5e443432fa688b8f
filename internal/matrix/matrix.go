// Package matrix provides the tabular data container consumed by the
// learners: a dense table of float64 values plus per-column attribute
// metadata.
//
// Nominal columns store the index of their value (0, 1, 2, ...) and report
// the number of possible values through ValueCount. Continuous columns report
// a ValueCount of 0. Missing entries hold UnknownValue.
package matrix

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// UnknownValue marks a missing entry.
const UnknownValue = -1e308

// Common errors.
var (
	ErrOutOfRange   = errors.New("matrix: out of range")
	ErrRowMismatch  = errors.New("matrix: row count mismatch")
	ErrColMismatch  = errors.New("matrix: column mismatch")
	ErrIncompatible = errors.New("matrix: incompatible attributes")
)

// Attribute describes one column.
type Attribute struct {
	Name   string
	Values []string // nominal values in index order; empty for continuous columns
}

// Continuous returns a continuous attribute.
func Continuous(name string) Attribute {
	return Attribute{Name: name}
}

// Nominal returns a nominal attribute with the given values.
func Nominal(name string, values ...string) Attribute {
	return Attribute{Name: name, Values: values}
}

// ValueCount returns the number of nominal values, or 0 for a continuous column.
func (a Attribute) ValueCount() int {
	return len(a.Values)
}

func (a Attribute) clone() Attribute {
	return Attribute{Name: a.Name, Values: append([]string(nil), a.Values...)}
}

// Matrix is a rows x cols table of float64 values with attribute metadata.
//
// Rows are stored in a gonum *mat.Dense. A matrix with zero rows or zero
// columns has no Dense at all, since gonum does not allow empty matrices.
type Matrix struct {
	relation string
	attrs    []Attribute
	rows     int
	dense    *mat.Dense
}

// New creates a zero-filled matrix with the given attributes and row count.
func New(attrs []Attribute, rows int) *Matrix {
	if rows < 0 {
		panic(fmt.Sprintf("matrix: negative row count %d", rows))
	}
	m := &Matrix{attrs: cloneAttrs(attrs), rows: rows}
	if rows > 0 && len(attrs) > 0 {
		m.dense = mat.NewDense(rows, len(attrs), nil)
	}
	return m
}

// FromRows builds a matrix from row slices. Every row must have one value per
// attribute.
func FromRows(attrs []Attribute, rows [][]float64) (*Matrix, error) {
	m := New(attrs, len(rows))
	for i, r := range rows {
		if len(r) != len(attrs) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrColMismatch, i, len(r), len(attrs))
		}
		if m.dense != nil {
			m.dense.SetRow(i, r)
		}
	}
	return m, nil
}

func cloneAttrs(attrs []Attribute) []Attribute {
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a.clone()
	}
	return out
}

// Relation returns the dataset name.
func (m *Matrix) Relation() string { return m.relation }

// SetRelation sets the dataset name.
func (m *Matrix) SetRelation(name string) { m.relation = name }

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.attrs) }

// Attributes returns a copy of the column metadata.
func (m *Matrix) Attributes() []Attribute {
	return cloneAttrs(m.attrs)
}

// Attribute returns the metadata of one column.
func (m *Matrix) Attribute(col int) Attribute {
	return m.attrs[col].clone()
}

// AttrName returns the name of a column.
func (m *Matrix) AttrName(col int) string {
	return m.attrs[col].Name
}

// ValueCount returns the number of nominal values of a column, 0 if continuous.
func (m *Matrix) ValueCount(col int) int {
	return m.attrs[col].ValueCount()
}

// AttrValue returns the name of nominal value v in column col, or "" if the
// column is continuous or v is not one of its values.
func (m *Matrix) AttrValue(col int, v float64) string {
	vals := m.attrs[col].Values
	i := int(v)
	if float64(i) != v || i < 0 || i >= len(vals) {
		return ""
	}
	return vals[i]
}

// Row returns row i as a view: writes through it change the matrix.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range [0, %d)", i, m.rows))
	}
	if m.dense == nil {
		return []float64{}
	}
	return m.dense.RawRowView(i)
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.dense.Set(i, j, v)
}

// SetAll sets every entry to v.
func (m *Matrix) SetAll(v float64) {
	for i := 0; i < m.rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = v
		}
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{relation: m.relation, attrs: cloneAttrs(m.attrs), rows: m.rows}
	if m.dense != nil {
		c.dense = mat.DenseCopyOf(m.dense)
	}
	return c
}

// ShuffleRows permutes the rows with a Fisher-Yates shuffle driven by rng.
//
// When buddy is non-nil its rows are permuted in lock-step, which keeps a
// label matrix aligned with its features. buddy must have the same row count.
func (m *Matrix) ShuffleRows(rng *rand.Rand, buddy *Matrix) error {
	if buddy != nil && buddy.rows != m.rows {
		return fmt.Errorf("%w: %d rows vs buddy %d rows", ErrRowMismatch, m.rows, buddy.rows)
	}
	for n := m.rows; n > 0; n-- {
		i := rng.IntN(n)
		m.swapRows(i, n-1)
		if buddy != nil {
			buddy.swapRows(i, n-1)
		}
	}
	return nil
}

func (m *Matrix) swapRows(i, j int) {
	if i == j || m.dense == nil {
		return
	}
	a, b := m.dense.RawRowView(i), m.dense.RawRowView(j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// Part copies the rowCount x colCount block starting at (rowBegin, colBegin)
// into a new matrix, together with the metadata of the copied columns.
func (m *Matrix) Part(rowBegin, colBegin, rowCount, colCount int) (*Matrix, error) {
	if rowBegin < 0 || colBegin < 0 || rowCount < 0 || colCount < 0 ||
		rowBegin+rowCount > m.rows || colBegin+colCount > m.Cols() {
		return nil, fmt.Errorf("%w: block (%d, %d) %dx%d of %dx%d matrix",
			ErrOutOfRange, rowBegin, colBegin, rowCount, colCount, m.rows, m.Cols())
	}

	p := New(m.attrs[colBegin:colBegin+colCount], rowCount)
	p.relation = m.relation
	if p.dense != nil {
		p.dense.Copy(m.dense.Slice(rowBegin, rowBegin+rowCount, colBegin, colBegin+colCount))
	}
	return p, nil
}

// SplitLast copies all but the last column into features and the last
// column into labels, the layout of a dataset whose label comes last.
func (m *Matrix) SplitLast() (features, labels *Matrix, err error) {
	if m.Cols() < 2 {
		return nil, nil, fmt.Errorf("%w: need a feature and a label column, have %d", ErrColMismatch, m.Cols())
	}
	n := m.Cols() - 1
	if features, err = m.Part(0, 0, m.rows, n); err != nil {
		return nil, nil, err
	}
	if labels, err = m.Part(0, n, m.rows, 1); err != nil {
		return nil, nil, err
	}
	return features, labels, nil
}

// Append returns a new matrix holding the rows of m followed by the rows of
// other. Both must have compatible attributes.
func (m *Matrix) Append(other *Matrix) (*Matrix, error) {
	if err := m.CheckCompatibility(other); err != nil {
		return nil, err
	}
	out := New(m.attrs, m.rows+other.rows)
	out.relation = m.relation
	for i := 0; i < m.rows; i++ {
		copy(out.Row(i), m.Row(i))
	}
	for i := 0; i < other.rows; i++ {
		copy(out.Row(m.rows+i), other.Row(i))
	}
	return out, nil
}

// CheckCompatibility reports whether other has the same column count and the
// same number of nominal values per column.
func (m *Matrix) CheckCompatibility(other *Matrix) error {
	if m.Cols() != other.Cols() {
		return fmt.Errorf("%w: %d columns vs %d", ErrIncompatible, m.Cols(), other.Cols())
	}
	for i := range m.attrs {
		if m.ValueCount(i) != other.ValueCount(i) {
			return fmt.Errorf("%w: column %d has %d values vs %d",
				ErrIncompatible, i, m.ValueCount(i), other.ValueCount(i))
		}
	}
	return nil
}
