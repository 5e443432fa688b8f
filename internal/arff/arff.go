// Package arff reads datasets in the Attribute-Relation File Format.
//
// Supported subset:
//
//	% comment
//	@relation iris
//	@attribute sepal_length numeric
//	@attribute class {setosa, versicolor, virginica}
//	@data
//	5.1,3.5,setosa
//	?,3.0,virginica
//
// Numeric, real, integer and continuous attributes load as continuous
// columns; brace lists load as nominal columns. "?" loads as
// matrix.UnknownValue.
package arff

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/backprop/internal/matrix"
)

// ErrSyntax is returned for malformed ARFF input.
var ErrSyntax = errors.New("arff: syntax error")

// Load reads an ARFF file from disk.
func Load(filename string) (*matrix.Matrix, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	m, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Parse reads an ARFF document.
func Parse(r io.Reader) (*matrix.Matrix, error) {
	br := bufio.NewReader(r)

	var (
		relation string
		attrs    []matrix.Attribute
		lineNum  int
	)

	// Header: everything up to @data.
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		lineNum++
		text := strings.TrimSpace(line)
		lower := strings.ToLower(text)

		switch {
		case text == "" || strings.HasPrefix(text, "%"):
		case strings.HasPrefix(lower, "@relation"):
			relation = unquote(strings.TrimSpace(text[len("@relation"):]))
		case strings.HasPrefix(lower, "@attribute"):
			attr, perr := parseAttribute(strings.TrimSpace(text[len("@attribute"):]))
			if perr != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, perr)
			}
			attrs = append(attrs, attr)
		case strings.HasPrefix(lower, "@data"):
			rows, derr := parseData(br, attrs, lineNum)
			if derr != nil {
				return nil, derr
			}
			m, ferr := matrix.FromRows(attrs, rows)
			if ferr != nil {
				return nil, ferr
			}
			m.SetRelation(relation)
			return m, nil
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrSyntax, lineNum, text)
		}

		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing @data section", ErrSyntax)
		}
	}
}

// parseAttribute parses the part after "@attribute": a name followed by a
// type or a brace-enclosed value list.
func parseAttribute(decl string) (matrix.Attribute, error) {
	name, rest, err := splitName(decl)
	if err != nil {
		return matrix.Attribute{}, err
	}

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return matrix.Attribute{}, fmt.Errorf("%w: unterminated value list for %q", ErrSyntax, name)
		}
		values, err := splitValues(rest[1:end])
		if err != nil {
			return matrix.Attribute{}, fmt.Errorf("%w: value list for %q: %v", ErrSyntax, name, err)
		}
		if len(values) == 0 {
			return matrix.Attribute{}, fmt.Errorf("%w: empty value list for %q", ErrSyntax, name)
		}
		return matrix.Nominal(name, values...), nil
	}

	switch strings.ToLower(rest) {
	case "numeric", "real", "integer", "continuous":
		return matrix.Continuous(name), nil
	default:
		return matrix.Attribute{}, fmt.Errorf("%w: unsupported type %q for %q", ErrSyntax, rest, name)
	}
}

// splitValues splits a nominal value list, dropping empty entries.
func splitValues(list string) ([]string, error) {
	fields, err := splitFields(list)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, v := range fields {
		if v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// requote rewrites single-quoted fields of a comma-separated list as
// double-quoted ones so encoding/csv can read them.
func requote(list string) string {
	var b strings.Builder
	start := true
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case start && c == ' ', start && c == '\t':
			b.WriteByte(c)
			continue
		case start && c == '\'':
			end := strings.IndexByte(list[i+1:], '\'')
			if end < 0 {
				b.WriteString(list[i:])
				return b.String()
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(list[i+1:i+1+end], `"`, `""`))
			b.WriteByte('"')
			i += end + 1
			start = false
			continue
		}
		b.WriteByte(c)
		start = c == ','
	}
	return b.String()
}

// splitName separates a possibly quoted attribute name from its type.
func splitName(decl string) (name, rest string, err error) {
	if decl == "" {
		return "", "", fmt.Errorf("%w: missing attribute name", ErrSyntax)
	}
	if q := decl[0]; q == '\'' || q == '"' {
		end := strings.IndexByte(decl[1:], q)
		if end < 0 {
			return "", "", fmt.Errorf("%w: unterminated quote in %q", ErrSyntax, decl)
		}
		return decl[1 : end+1], strings.TrimSpace(decl[end+2:]), nil
	}
	i := strings.IndexAny(decl, " \t")
	if i < 0 {
		return "", "", fmt.Errorf("%w: missing type for attribute %q", ErrSyntax, decl)
	}
	return decl[:i], strings.TrimSpace(decl[i:]), nil
}

// parseData reads the comma-separated rows after @data.
func parseData(br *bufio.Reader, attrs []matrix.Attribute, lineNum int) ([][]float64, error) {
	lookup := make([]map[string]int, len(attrs))
	for i, a := range attrs {
		if a.ValueCount() == 0 {
			continue
		}
		lookup[i] = make(map[string]int, a.ValueCount())
		for k, v := range a.Values {
			lookup[i][v] = k
		}
	}

	var rows [][]float64
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read data: %w", err)
		}
		lineNum++
		text := strings.TrimSpace(line)

		if text != "" && !strings.HasPrefix(text, "%") {
			record, rerr := splitFields(text)
			if rerr != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNum, rerr)
			}
			if len(record) != len(attrs) {
				return nil, fmt.Errorf("%w: line %d: expected %d values, found %d",
					ErrSyntax, lineNum, len(attrs), len(record))
			}
			row, rerr := parseRow(record, attrs, lookup)
			if rerr != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNum, rerr)
			}
			rows = append(rows, row)
		}

		if errors.Is(err, io.EOF) {
			return rows, nil
		}
	}
}

func parseRow(record []string, attrs []matrix.Attribute, lookup []map[string]int) ([]float64, error) {
	row := make([]float64, len(attrs))
	for j, field := range record {
		if field == "?" {
			row[j] = matrix.UnknownValue
			continue
		}
		if lookup[j] != nil {
			k, ok := lookup[j][field]
			if !ok {
				return nil, fmt.Errorf("unknown value %q for %q", field, attrs[j].Name)
			}
			row[j] = float64(k)
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q for %q", field, attrs[j].Name)
		}
		row[j] = v
	}
	return row, nil
}

// splitFields splits one comma-separated line into trimmed, unquoted fields.
// Single- or double-quoted fields may contain commas.
func splitFields(text string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(requote(text)))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, v := range record {
		record[i] = unquote(strings.TrimSpace(v))
	}
	return record, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
