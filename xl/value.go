package xl

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"
)

// ValueOf converts a Go value into a cell Value.
//
// Supported: nil, Value, bool, all integer and float kinds, string,
// []byte, time.Time (zero time is empty), the sql.Null* family,
// driver.Valuer and fmt.Stringer. Anything else is rendered with %v.
func ValueOf(v any) Value {
	if vr, ok := v.(driver.Valuer); ok {
		if vv, err := vr.Value(); err == nil {
			v = vv
		}
	}
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Empty()
		}
		return *x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case time.Time:
		if x.IsZero() {
			return Empty()
		}
		return DateTime(x)
	case sql.NullTime:
		if !x.Valid || x.Time.IsZero() {
			return Empty()
		}
		return DateTime(x.Time)
	case sql.NullFloat64:
		if !x.Valid {
			return Empty()
		}
		return Number(x.Float64)
	case sql.NullInt64:
		if !x.Valid {
			return Empty()
		}
		return Int(x.Int64)
	case sql.NullInt32:
		if !x.Valid {
			return Empty()
		}
		return Int(int64(x.Int32))
	case sql.NullBool:
		if !x.Valid {
			return Empty()
		}
		return Bool(x.Bool)
	case sql.NullString:
		if !x.Valid {
			return Empty()
		}
		return Text(x.String)
	case fmt.Stringer:
		return Text(x.String())
	}
	return Text(fmt.Sprintf("%v", v))
}
