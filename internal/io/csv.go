package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/types"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// Read parses the CSV input into a frame. Empty fields read as NA; each
// column gets the narrowest of bool8, int64, float64 or str32 that fits
// every non-empty value.
func (r *CSVReader) Read() (*frame.Frame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.NewIOError("csv", "reading input: %v", err)
	}
	if len(records) == 0 {
		return frame.New()
	}

	var headers []string
	var rows [][]string
	if r.options.Header {
		headers = records[0]
		rows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("C%d", i)
		}
		rows = records
	}

	pairs := make([]frame.NamedColumn, len(headers))
	for ci, name := range headers {
		cells := make([]string, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				cells[ri] = row[ci]
			}
		}
		pairs[ci] = frame.NamedColumn{Name: name, Col: inferColumn(cells)}
	}
	return frame.New(pairs...)
}

// inferColumn builds a typed column from raw CSV cells.
func inferColumn(cells []string) *column.Column {
	st := inferSType(cells)
	vals := make([]any, len(cells))
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		switch st {
		case types.Bool8:
			vals[i] = strings.EqualFold(cell, trueStr)
		case types.Int64:
			v, _ := strconv.ParseInt(cell, 10, 64)
			vals[i] = v
		case types.Float64:
			v, _ := strconv.ParseFloat(cell, 64)
			vals[i] = v
		default:
			vals[i] = cell
		}
	}
	return column.FromAnys(st, vals)
}

// inferSType picks the narrowest stype that parses every non-empty cell.
// All-empty columns stay void.
func inferSType(cells []string) types.SType {
	canBool, canInt, canFloat := true, true, true
	nonEmpty := false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty = true
		if canBool {
			lower := strings.ToLower(cell)
			if lower != trueStr && lower != falseStr {
				canBool = false
			}
		}
		if canInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				canInt = false
			}
		}
		if canFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				canFloat = false
			}
		}
	}
	switch {
	case !nonEmpty:
		return types.Void
	case canBool:
		return types.Bool8
	case canInt:
		return types.Int64
	case canFloat:
		return types.Float64
	default:
		return types.Str32
	}
}

// Write renders the frame as CSV, quoting per RFC 4180 and writing NA as an
// empty field.
func (w *CSVWriter) Write(f *frame.Frame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(f.Names()); err != nil {
			return errors.NewIOError("csv", "writing header: %v", err)
		}
	}
	row := make([]string, f.NCols())
	for r := 0; r < f.NRows(); r++ {
		for ci := 0; ci < f.NCols(); ci++ {
			row[ci] = f.ColAt(ci).Format(r)
		}
		if err := csvWriter.Write(row); err != nil {
			return errors.NewIOError("csv", "writing row %d: %v", r, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
