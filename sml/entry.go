package sml

// ValueKind tells which field of a Value is populated.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindOctetString
	KindBool
	KindSigned
	KindUnsigned
)

type Value struct {
	Kind     ValueKind
	Bytes    []byte
	Bool     bool
	Signed   int64
	Unsigned uint64
}

// Numeric reports whether the value is an integer.
func (v Value) Numeric() bool {
	return v.Kind == KindSigned || v.Kind == KindUnsigned
}

// Int64 returns the integer value, with unsigned values reinterpreted.
func (v Value) Int64() int64 {
	if v.Kind == KindUnsigned {
		return int64(v.Unsigned)
	}
	return v.Signed
}

// Entry is a value list entry of a GetList response with a valid object name.
type Entry struct {
	Name   OBIS
	Unit   Unit
	Scaler int
	Value  Value
}
