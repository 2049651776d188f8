// Package io reads and writes frames: CSV with type inference, Parquet and
// Arrow record interchange, and the binary snapshot format used by Save and
// Open. NA round-trips through every format that can represent it; CSV
// renders NA as an empty field.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/coldframe/coldframe/internal/frame"
)

// FrameReader reads a frame from some source.
type FrameReader interface {
	Read() (*frame.Frame, error)
}

// FrameWriter writes a frame to some destination.
type FrameWriter interface {
	Write(f *frame.Frame) error
}

// CSVOptions configures CSV reading and writing.
type CSVOptions struct {
	// Delimiter is the field delimiter (default comma).
	Delimiter rune
	// Comment is the comment character (0 disables).
	Comment rune
	// Header indicates whether the first row holds column names.
	Header bool
}

// DefaultCSVOptions returns the default CSV configuration.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', Header: true}
}

// CSVReader parses CSV into a frame, inferring a column type from the
// values it sees.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a CSV reader with the given options.
func NewCSVReader(r io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{reader: r, options: options}
}

// CSVWriter renders a frame as CSV.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a CSV writer with the given options.
func NewCSVWriter(w io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: w, options: options}
}

// ParquetOptions configures Parquet reading and writing.
type ParquetOptions struct {
	// Compression is one of snappy, gzip, lz4, zstd, uncompressed.
	Compression string
	// BatchSize is the row-group batch size.
	BatchSize int
}

// DefaultParquetOptions returns the default Parquet configuration.
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{Compression: "snappy", BatchSize: 1024}
}

// ParquetReader reads Parquet data into a frame through Arrow.
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a Parquet reader with the given options.
func NewParquetReader(r io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &ParquetReader{reader: r, options: options, mem: mem}
}

// ParquetWriter writes a frame as Parquet.
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
}

// NewParquetWriter creates a Parquet writer with the given options.
func NewParquetWriter(w io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{writer: w, options: options}
}
