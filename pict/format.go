package pict

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/maelig/go-cafuzz/ipm"
)

// NegativePrefix marks invalid candidates in model text and negative cells
// in generated arrays.
const NegativePrefix = "~"

// Format identifies a model and covering array text format.
type Format int

// FormatPICT is the format consumed and produced by the PICT generator:
// candidate-list model lines in and tab-separated arrays out.
const FormatPICT Format = iota

// String returns the format identifier.
func (f Format) String() string {
	switch f {
	case FormatPICT:
		return "pict"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat resolves a format identifier, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "pict":
		return FormatPICT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// WriteModel serializes the model's candidate-list columns as generator
// input, one line per column in model order:
//
//	name: tag1,tag2,~tag3
//
// Invalid candidates carry the negative marker. Object columns are
// structural and are not written. A column name or tag starting with the
// marker fails with ErrReservedPrefix.
func WriteModel(w io.Writer, model *ipm.Model) error {
	for _, name := range model.Names() {
		kind, _ := model.Column(name)
		list, ok := kind.(ipm.CandidateList)
		if !ok {
			continue
		}

		line, err := formatColumn(name, list)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write model column %q: %w", name, err)
		}
	}

	return nil
}

func formatColumn(name string, list ipm.CandidateList) (string, error) {
	if strings.HasPrefix(name, NegativePrefix) {
		return "", fmt.Errorf("%w: column %q", ErrReservedPrefix, name)
	}

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(": ")
	for i, c := range list {
		if strings.HasPrefix(c.Tag, NegativePrefix) {
			return "", fmt.Errorf("%w: tag %q in column %q", ErrReservedPrefix, c.Tag, name)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if !c.Valid {
			sb.WriteString(NegativePrefix)
		}
		sb.WriteString(c.Tag)
	}
	sb.WriteByte('\n')

	return sb.String(), nil
}

// Array is a covering array read back from generator output: a header of
// column names and one assignment per row.
type Array struct {
	Params []string
	Rows   [][]string
}

// Column returns the index of the named column, or -1 when absent.
func (a *Array) Column(name string) int {
	for i, p := range a.Params {
		if p == name {
			return i
		}
	}

	return -1
}

// ReadArray parses tab-separated covering array text: the first row names
// the columns, every further row is one assignment with exactly one cell
// per column. Blank lines are ignored. The negative marker is stripped from
// cells; whether an assignment is a negative test case follows from the
// candidate catalog, not from the marker. Empty input and ragged rows fail
// with ErrMalformedArray.
func ReadArray(r io.Reader) (*Array, error) {
	scanner := bufio.NewScanner(r)
	arr := &Array{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		cells := strings.Split(line, "\t")
		if arr.Params == nil {
			arr.Params = cells
			continue
		}
		if len(cells) != len(arr.Params) {
			return nil, fmt.Errorf("%w: row at line %d has %d cells, want %d",
				ErrMalformedArray, lineNo, len(cells), len(arr.Params))
		}
		for i, cell := range cells {
			cells[i] = strings.TrimPrefix(cell, NegativePrefix)
		}
		arr.Rows = append(arr.Rows, cells)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read covering array: %w", err)
	}
	if arr.Params == nil {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedArray)
	}

	return arr, nil
}
