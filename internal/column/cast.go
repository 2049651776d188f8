package column

import (
	"fmt"
	"strconv"

	"github.com/coldframe/coldframe/internal/types"
)

// CastTo returns a column whose values are the receiver's converted to the
// target stype. The result is a lazy view over owned storage; a virtual
// receiver is materialized first so cast chains never nest.
//
// Conversion policy (permissive by design, for munging workflows):
//   - NA maps to NA in every target type;
//   - float->int truncates toward zero;
//   - int->float may round for very large magnitudes (accepted, not an error);
//   - anything->str produces the canonical textual representation;
//   - str->numeric parses best-effort, malformed values become NA;
//   - to/from obj64 is always permitted but carries opaque values.
func (c *Column) CastTo(target types.SType) (*Column, error) {
	if target == c.st {
		return c, nil
	}
	base := c
	if base.k != owned {
		var err error
		base, err = base.Materialize()
		if err != nil {
			return nil, err
		}
	}
	if target == types.Void {
		return NewVoid(base.n), nil
	}
	if base.k == owned {
		base.buf.retain()
	}
	return &Column{st: target, n: base.n, k: casted, parent: base}, nil
}

// microsPerDay scales between date32 day counts and time64 microsecond
// timestamps.
const microsPerDay = 24 * 60 * 60 * 1_000_000

// castValue converts the parent's row i into the target stype's boxed form.
func castValue(parent *Column, i int, target types.SType) (any, bool) {
	v, ok := parent.valueAt(i)
	if !ok {
		return nil, false
	}
	switch target.LType() {
	case types.LBool:
		switch x := v.(type) {
		case bool:
			return x, true
		case int64:
			return x != 0, true
		case float64:
			return x != 0, true
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return nil, false
			}
			return b, true
		default:
			return nil, false
		}
	case types.LInt, types.LTime:
		var out int64
		switch x := v.(type) {
		case bool:
			if x {
				out = 1
			}
		case int64:
			out = x
		case float64:
			out = int64(x) // truncation toward zero
		case string:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				out = n
			} else if f, okf := ParseNumeric(x); okf {
				out = int64(f)
			} else {
				return nil, false
			}
		default:
			return nil, false
		}
		// date32 counts days, time64 microseconds, both since the Unix epoch;
		// converting between them scales the count. Partial days floor toward
		// the earlier date.
		switch {
		case parent.st == types.Date32 && target == types.Time64:
			out *= microsPerDay
		case parent.st == types.Time64 && target == types.Date32:
			d := out / microsPerDay
			if out%microsPerDay != 0 && out < 0 {
				d--
			}
			out = d
		}
		// Narrowing that lands on the sentinel reads back as NA.
		switch target {
		case types.Int8:
			return int64(int8(out)), int8(out) != types.NAInt8
		case types.Int16:
			return int64(int16(out)), int16(out) != types.NAInt16
		case types.Int32, types.Date32:
			return int64(int32(out)), int32(out) != types.NAInt32
		default:
			return out, true
		}
	case types.LReal:
		var out float64
		switch x := v.(type) {
		case bool:
			if x {
				out = 1
			}
		case int64:
			out = float64(x)
		case float64:
			out = x
		case string:
			f, okf := ParseNumeric(x)
			if !okf {
				return nil, false
			}
			out = f
		default:
			return nil, false
		}
		if target == types.Float32 {
			return float64(float32(out)), true
		}
		return out, true
	case types.LStr:
		return formatValue(v), true
	default: // obj64
		return v, true
	}
}

// formatValue renders the canonical textual representation used by
// anything->str casts and by the CSV writer.
func formatValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Format renders row i as text the way anything->str casts do; NA renders as
// the empty string.
func (c *Column) Format(i int) string {
	v, ok := c.valueAt(i)
	if !ok {
		return ""
	}
	return formatValue(v)
}
