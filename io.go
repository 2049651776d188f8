package coldframe

import (
	stdio "io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/coldframe/coldframe/internal/io"
)

// CSVOptions configures CSV reading and writing.
type CSVOptions = io.CSVOptions

// DefaultCSVOptions returns the default CSV configuration: comma delimiter,
// header row on.
func DefaultCSVOptions() CSVOptions { return io.DefaultCSVOptions() }

// ParquetOptions configures Parquet reading and writing.
type ParquetOptions = io.ParquetOptions

// DefaultParquetOptions returns the default Parquet configuration.
func DefaultParquetOptions() ParquetOptions { return io.DefaultParquetOptions() }

// ReadCSV parses CSV input into a frame, inferring a type per column. Empty
// fields read as NA.
func ReadCSV(r stdio.Reader, opts CSVOptions) (*Frame, error) {
	f, err := io.NewCSVReader(r, opts).Read()
	if err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}

// WriteCSV renders the frame as CSV, quoting per RFC 4180 and writing NA as
// an empty field.
func (d *Frame) WriteCSV(w stdio.Writer, opts CSVOptions) error {
	return io.NewCSVWriter(w, opts).Write(d.f)
}

// Save writes the frame's binary snapshot: column blobs with checksums plus
// a metadata footer. Open(Save(f)) equals f, key and NA positions included.
func (d *Frame) Save(w stdio.Writer) error { return io.Save(d.f, w) }

// Open reads a snapshot written by Save.
func Open(r stdio.Reader) (*Frame, error) {
	f, err := io.Open(r)
	if err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}

// ReadParquet reads Parquet data into a frame.
func ReadParquet(r stdio.Reader, opts ParquetOptions) (*Frame, error) {
	f, err := io.NewParquetReader(r, opts, nil).Read()
	if err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}

// WriteParquet writes the frame as a Parquet file.
func (d *Frame) WriteParquet(w stdio.Writer, opts ParquetOptions) error {
	return io.NewParquetWriter(w, opts).Write(d.f)
}

// ToArrow converts the frame to an Arrow record batch; the caller releases
// it.
func (d *Frame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	return io.ToRecord(d.f, mem)
}

// FromArrow converts an Arrow record batch into a frame, nulls becoming NA.
func FromArrow(rec arrow.Record) (*Frame, error) {
	f, err := io.FromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}
