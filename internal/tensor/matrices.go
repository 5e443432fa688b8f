package tensor

import "fmt"

// Matrices holds one row-major matrix per layer, indexed by (layer, row, col).
//
// For a weight tensor the row is the source node in layer l and the column is
// the destination node in layer l+1.
type Matrices struct {
	data    []float64
	offsets []int
	rows    Shape
	cols    Shape
}

// NewMatrices allocates a zero-filled tensor whose layer i is rows[i] x cols[i].
// It panics if the shapes differ in length or contain a negative width.
func NewMatrices(rows, cols Shape) *Matrices {
	if len(rows) != len(cols) {
		panic(fmt.Sprintf("tensor: %d row widths but %d column widths", len(rows), len(cols)))
	}
	if err := rows.Validate(); err != nil {
		panic(err)
	}
	if err := cols.Validate(); err != nil {
		panic(err)
	}

	sizes := make([]int, len(rows))
	for i := range rows {
		sizes[i] = rows[i] * cols[i]
	}
	off := offsets(sizes)

	return &Matrices{
		data:    make([]float64, off[len(sizes)]),
		offsets: off,
		rows:    rows.Clone(),
		cols:    cols.Clone(),
	}
}

// Len returns the number of layers.
func (m *Matrices) Len() int {
	return len(m.rows)
}

// Dims returns the row and column count of layer.
func (m *Matrices) Dims(layer int) (rows, cols int) {
	return m.rows[layer], m.cols[layer]
}

// Rows returns a copy of the per-layer row counts.
func (m *Matrices) Rows() Shape {
	return m.rows.Clone()
}

// Cols returns a copy of the per-layer column counts.
func (m *Matrices) Cols() Shape {
	return m.cols.Clone()
}

// Layer returns the row-major storage of one layer as a view.
func (m *Matrices) Layer(layer int) []float64 {
	return m.data[m.offsets[layer]:m.offsets[layer+1]:m.offsets[layer+1]]
}

// Row returns row i of layer as a view.
func (m *Matrices) Row(layer, i int) []float64 {
	c := m.cols[layer]
	start := m.offsets[layer] + i*c
	return m.data[start : start+c : start+c]
}

// At returns the value at (layer, i, j).
func (m *Matrices) At(layer, i, j int) float64 {
	return m.data[m.index(layer, i, j)]
}

// Set stores x at (layer, i, j).
func (m *Matrices) Set(layer, i, j int, x float64) {
	m.data[m.index(layer, i, j)] = x
}

func (m *Matrices) index(layer, i, j int) int {
	if i < 0 || i >= m.rows[layer] || j < 0 || j >= m.cols[layer] {
		panic(fmt.Sprintf("tensor: index (%d, %d, %d) out of range for %dx%d layer",
			layer, i, j, m.rows[layer], m.cols[layer]))
	}
	return m.offsets[layer] + i*m.cols[layer] + j
}

// Data returns the backing slice.
func (m *Matrices) Data() []float64 {
	return m.data
}

// SameShape reports whether m and other have identical per-layer dimensions.
func (m *Matrices) SameShape(other *Matrices) bool {
	return m.rows.Equal(other.rows) && m.cols.Equal(other.cols)
}

// Clone returns a deep copy.
func (m *Matrices) Clone() *Matrices {
	c := &Matrices{
		data:    make([]float64, len(m.data)),
		offsets: append([]int(nil), m.offsets...),
		rows:    m.rows.Clone(),
		cols:    m.cols.Clone(),
	}
	copy(c.data, m.data)
	return c
}

// CopyFrom overwrites m with the contents of src. Both must have the same shape.
func (m *Matrices) CopyFrom(src *Matrices) error {
	if !m.SameShape(src) {
		return fmt.Errorf("%w: %vx%v vs %vx%v", ErrShapeMismatch, m.rows, m.cols, src.rows, src.cols)
	}
	copy(m.data, src.data)
	return nil
}
