package io

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/types"
)

// Snapshot container layout:
//
//	magic(8) | column blobs, each padded to 8 bytes | footer JSON | footerLen(8) | magic(8)
//
// The footer records names, stypes, the key, and per-blob offset, length and
// xxhash64 checksum, so each blob can be handed to the column decoder
// without a deserialization pass over the data itself.
var snapshotMagic = [8]byte{'C', 'F', 'S', 'N', 'A', 'P', '0', '1'}

type snapshotBlob struct {
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	Hash   uint64 `json:"hash"`
}

type snapshotColumn struct {
	Name    string        `json:"name"`
	SType   string        `json:"stype"`
	Data    snapshotBlob  `json:"data"`
	StrData *snapshotBlob `json:"strdata,omitempty"`
}

type snapshotFooter struct {
	NRows   int              `json:"nrows"`
	Key     []string         `json:"key,omitempty"`
	Columns []snapshotColumn `json:"columns"`
}

// Save writes the frame's binary snapshot. Round trip: Open(Save(f)) equals
// f, including stypes, NA positions and the key.
func Save(f *frame.Frame, w io.Writer) error {
	footer := snapshotFooter{NRows: f.NRows(), Key: f.Key()}
	offset := int64(len(snapshotMagic))

	var blobs [][]byte
	appendBlob := func(blob []byte) snapshotBlob {
		meta := snapshotBlob{
			Offset: offset,
			Length: int64(len(blob)),
			Hash:   xxhash.Sum64(blob),
		}
		if pad := (8 - len(blob)%8) % 8; pad > 0 {
			blob = append(blob, make([]byte, pad)...)
		}
		blobs = append(blobs, blob)
		offset += int64(len(blob))
		return meta
	}

	for i := 0; i < f.NCols(); i++ {
		c := f.ColAt(i)
		data, strdata, err := c.EncodeBinary()
		if err != nil {
			return errors.NewTypeError("save", f.NameAt(i),
				"%s column cannot be serialized", c.SType())
		}
		sc := snapshotColumn{
			Name:  f.NameAt(i),
			SType: c.SType().String(),
			Data:  appendBlob(data),
		}
		if c.SType().IsString() {
			meta := appendBlob(strdata)
			sc.StrData = &meta
		}
		footer.Columns = append(footer.Columns, sc)
	}

	footerJSON, err := json.Marshal(footer)
	if err != nil {
		return errors.NewIOError("save", "encoding footer: %v", err)
	}

	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return errors.NewIOError("save", "writing header: %v", err)
	}
	for _, blob := range blobs {
		if _, err := w.Write(blob); err != nil {
			return errors.NewIOError("save", "writing column data: %v", err)
		}
	}
	if _, err := w.Write(footerJSON); err != nil {
		return errors.NewIOError("save", "writing footer: %v", err)
	}
	var tail [16]byte
	binary.LittleEndian.PutUint64(tail[:8], uint64(len(footerJSON)))
	copy(tail[8:], snapshotMagic[:])
	if _, err := w.Write(tail[:]); err != nil {
		return errors.NewIOError("save", "writing trailer: %v", err)
	}
	return nil
}

// Open reads a snapshot written by Save and rebuilds the frame, key
// included. Every blob's checksum is verified before decoding.
func Open(r io.Reader) (*frame.Frame, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError("open", "reading input: %v", err)
	}
	if len(raw) < len(snapshotMagic)*2+8 ||
		string(raw[:8]) != string(snapshotMagic[:]) ||
		string(raw[len(raw)-8:]) != string(snapshotMagic[:]) {
		return nil, errors.NewIOError("open", "not a frame snapshot")
	}
	footerLen := int64(binary.LittleEndian.Uint64(raw[len(raw)-16:]))
	footerEnd := int64(len(raw)) - 16
	footerStart := footerEnd - footerLen
	if footerStart < int64(len(snapshotMagic)) {
		return nil, errors.NewIOError("open", "corrupt snapshot footer")
	}

	var footer snapshotFooter
	if err := json.Unmarshal(raw[footerStart:footerEnd], &footer); err != nil {
		return nil, errors.NewIOError("open", "decoding footer: %v", err)
	}

	readBlob := func(meta snapshotBlob) ([]byte, error) {
		if meta.Offset < 0 || meta.Offset+meta.Length > footerStart {
			return nil, errors.NewIOError("open", "blob out of bounds")
		}
		blob := raw[meta.Offset : meta.Offset+meta.Length]
		if xxhash.Sum64(blob) != meta.Hash {
			return nil, errors.NewIOError("open", "blob checksum mismatch")
		}
		return blob, nil
	}

	pairs := make([]frame.NamedColumn, 0, len(footer.Columns))
	for _, sc := range footer.Columns {
		st, ok := parseSType(sc.SType)
		if !ok {
			return nil, errors.NewIOError("open", "unknown stype %q", sc.SType)
		}
		data, err := readBlob(sc.Data)
		if err != nil {
			return nil, err
		}
		var strdata []byte
		if sc.StrData != nil {
			if strdata, err = readBlob(*sc.StrData); err != nil {
				return nil, err
			}
		}
		c, err := column.DecodeBinary(st, footer.NRows, data, strdata)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: sc.Name, Col: c})
	}

	f, err := frame.New(pairs...)
	if err != nil {
		return nil, err
	}
	if len(footer.Key) > 0 {
		if err := f.SetKey(footer.Key...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// parseSType inverts SType.String.
func parseSType(name string) (types.SType, bool) {
	for st := types.Void; st <= types.Time64; st++ {
		if st.String() == name {
			return st, true
		}
	}
	return 0, false
}
