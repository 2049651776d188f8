package frame

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/types"
)

// RbindOptions controls row concatenation.
type RbindOptions struct {
	// ByPosition matches columns by position instead of by name.
	ByPosition bool
	// Force tolerates differing column sets (by name) or counts (by
	// position); missing pieces are null-filled.
	Force bool
}

// Rbind returns the receiver with the other frames' rows appended. Column
// stypes are promoted to the common type across all inputs, which may
// upgrade every participating column's physical representation. Rbinding
// into a keyed frame is rejected: key invariants cannot be cheaply
// maintained incrementally.
func (f *Frame) Rbind(opts RbindOptions, others ...*Frame) (*Frame, error) {
	if len(others) == 0 {
		return f, nil
	}
	if len(f.key) > 0 {
		return nil, errors.NewValueError("Rbind", f.key[0],
			"cannot rbind into a keyed frame; clear the key first")
	}
	inputs := append([]*Frame{f}, others...)

	type piece struct {
		frames []*Frame // aligned with inputs; nil entry = null-fill
		cols   []*column.Column
		name   string
	}
	var pieces []piece

	if opts.ByPosition {
		width := len(f.cols)
		for _, in := range inputs {
			if len(in.cols) != width {
				if !opts.Force {
					return nil, errors.NewShapeError("Rbind",
						"column count mismatch: %d vs %d (use force to null-fill)",
						width, len(in.cols))
				}
				if len(in.cols) > width {
					width = len(in.cols)
				}
			}
		}
		for ci := 0; ci < width; ci++ {
			p := piece{}
			if ci < len(f.names) {
				p.name = f.names[ci]
			} else {
				// Wider input contributes the name.
				for _, in := range inputs {
					if ci < len(in.names) {
						p.name = in.names[ci]
						break
					}
				}
			}
			for _, in := range inputs {
				if ci < len(in.cols) {
					p.cols = append(p.cols, in.cols[ci])
				} else {
					p.cols = append(p.cols, column.NewVoid(in.nrows))
				}
			}
			pieces = append(pieces, p)
		}
	} else {
		// By name: result order is the receiver's names, then new names in
		// first-appearance order.
		var order []string
		seen := make(map[string]bool)
		for _, in := range inputs {
			for _, name := range in.names {
				if !seen[name] {
					seen[name] = true
					order = append(order, name)
				}
			}
		}
		for _, in := range inputs {
			if len(in.names) != len(order) && !opts.Force {
				return nil, errors.NewShapeError("Rbind",
					"column names mismatch: frame has %d of %d columns (use force to null-fill)",
					len(in.names), len(order))
			}
		}
		for _, name := range order {
			p := piece{name: name}
			for _, in := range inputs {
				if idx, ok := in.colIdx[name]; ok {
					p.cols = append(p.cols, in.cols[idx])
				} else {
					p.cols = append(p.cols, column.NewVoid(in.nrows))
				}
			}
			pieces = append(pieces, p)
		}
	}

	total := 0
	for _, in := range inputs {
		total += in.nrows
	}
	out := &Frame{colIdx: make(map[string]int), nrows: total}
	for _, p := range pieces {
		sts := make([]types.SType, len(p.cols))
		for i, c := range p.cols {
			sts[i] = c.SType()
		}
		st := types.PromoteAll(sts)
		merged, err := concatColumns(p.cols, st, total)
		if err != nil {
			return nil, err
		}
		out.appendCol(p.name, merged)
	}
	return out, nil
}

// concatColumns materializes the promoted concatenation of the pieces.
func concatColumns(cols []*column.Column, st types.SType, total int) (*column.Column, error) {
	vals := make([]any, 0, total)
	for _, c := range cols {
		cc := c
		if cc.SType() != st {
			var err error
			cc, err = cc.CastTo(st)
			if err != nil {
				return nil, err
			}
		}
		for i := 0; i < cc.NRows(); i++ {
			vals = append(vals, cc.Get(i))
		}
	}
	return column.FromAnys(st, vals), nil
}

// Cbind returns the receiver with the other frames' columns appended.
// Row counts must match; a 1-row frame broadcasts to the receiver's length.
// Duplicate names are auto-suffixed with a warning, as in construction.
func (f *Frame) Cbind(others ...*Frame) (*Frame, error) {
	out := f.clone()
	for _, in := range others {
		broadcast := false
		if in.nrows != f.nrows {
			if in.nrows == 1 {
				broadcast = true
			} else {
				return nil, errors.NewShapeError("Cbind",
					"row count mismatch: %d vs %d", f.nrows, in.nrows)
			}
		}
		for i, c := range in.cols {
			cc := c
			if broadcast {
				ri, err := column.SliceRI(0, f.nrows, 0)
				if err != nil {
					return nil, err
				}
				cc = c.Slice(ri)
			}
			out.appendCol(in.names[i], cc)
		}
	}
	return out, nil
}
