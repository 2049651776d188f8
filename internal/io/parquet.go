package io

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
)

// Read reads Parquet data into a frame.
func (r *ParquetReader) Read() (*frame.Frame, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, errors.NewIOError("parquet", "reading input: %v", err)
	}
	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewIOError("parquet", "opening file: %v", err)
	}
	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, errors.NewIOError("parquet", "creating arrow reader: %v", err)
	}
	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.NewIOError("parquet", "reading table: %v", err)
	}
	defer table.Release()
	return tableToFrame(table)
}

// tableToFrame flattens a possibly-chunked Arrow table into one frame.
func tableToFrame(table arrow.Table) (*frame.Frame, error) {
	schema := table.Schema()
	pairs := make([]frame.NamedColumn, table.NumCols())
	for ci := 0; ci < int(table.NumCols()); ci++ {
		chunked := table.Column(ci).Data()
		var chunkFrames []*frame.Frame
		for _, chunk := range chunked.Chunks() {
			col, err := fromArray(chunk)
			if err != nil {
				return nil, errors.NewTypeError("parquet", schema.Field(ci).Name,
					"unsupported Arrow type %s", schema.Field(ci).Type)
			}
			cf, err := frame.New(frame.NamedColumn{Name: schema.Field(ci).Name, Col: col})
			if err != nil {
				return nil, err
			}
			chunkFrames = append(chunkFrames, cf)
		}
		switch len(chunkFrames) {
		case 0:
			col, err := fromEmptyType(schema.Field(ci).Type)
			if err != nil {
				return nil, err
			}
			pairs[ci] = frame.NamedColumn{Name: schema.Field(ci).Name, Col: col}
			continue
		case 1:
			pairs[ci] = frame.NamedColumn{Name: schema.Field(ci).Name, Col: chunkFrames[0].ColAt(0)}
			continue
		}
		merged, err := chunkFrames[0].Rbind(frame.RbindOptions{}, chunkFrames[1:]...)
		if err != nil {
			return nil, err
		}
		pairs[ci] = frame.NamedColumn{Name: schema.Field(ci).Name, Col: merged.ColAt(0)}
	}
	return frame.New(pairs...)
}

// Write writes the frame as a Parquet file.
func (w *ParquetWriter) Write(f *frame.Frame) error {
	rec, err := ToRecord(f, nil)
	if err != nil {
		return err
	}
	defer rec.Release()

	var compression compress.Compression
	switch w.options.Compression {
	case "gzip":
		compression = compress.Codecs.Gzip
	case "lz4":
		compression = compress.Codecs.Lz4Raw
	case "zstd":
		compression = compress.Codecs.Zstd
	case "uncompressed":
		compression = compress.Codecs.Uncompressed
	default:
		compression = compress.Codecs.Snappy
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties()

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return errors.NewIOError("parquet", "creating writer: %v", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return errors.NewIOError("parquet", "writing record: %v", err)
	}
	if err := writer.Close(); err != nil {
		return errors.NewIOError("parquet", "closing writer: %v", err)
	}
	return nil
}
