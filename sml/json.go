package sml

import (
	"encoding/json"
	"strconv"
)

// AppendJSON renders entries as a flat JSON object and appends it to dst.
// Keys are the OBIS short names, suffixed with _<unit> when the entry has
// a unit. Numbers get the scaler applied by moving the decimal point, so no
// floating point rounding is involved.
func AppendJSON(dst []byte, entries []Entry) []byte {
	dst = append(dst, '{')
	for i, e := range entries {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '"')
		dst = append(dst, e.Name.Name()...)
		if sym := e.Unit.String(); sym != "" {
			dst = append(dst, '_')
			dst = append(dst, sym...)
		}
		dst = append(dst, '"', ':')
		dst = appendValue(dst, e)
	}
	return append(dst, '}')
}

// FormatJSON renders entries as a flat JSON object.
func FormatJSON(entries []Entry) string {
	return string(AppendJSON(nil, entries))
}

func appendValue(dst []byte, e Entry) []byte {
	switch e.Value.Kind {
	case KindSigned:
		return AppendDecimal(dst, strconv.FormatInt(e.Value.Signed, 10), e.Scaler)
	case KindUnsigned:
		return AppendDecimal(dst, strconv.FormatUint(e.Value.Unsigned, 10), e.Scaler)
	case KindBool:
		return strconv.AppendBool(dst, e.Value.Bool)
	case KindOctetString:
		s, err := json.Marshal(string(e.Value.Bytes))
		if err != nil {
			return append(dst, `""`...)
		}
		return append(dst, s...)
	}
	return append(dst, "null"...)
}

// AppendDecimal appends the decimal integer digits scaled by 10^scaler,
// inserting a decimal point or appending zeros as needed.
func AppendDecimal(dst []byte, digits string, scaler int) []byte {
	if len(digits) > 0 && digits[0] == '-' {
		dst = append(dst, '-')
		digits = digits[1:]
	}
	if scaler >= 0 {
		dst = append(dst, digits...)
		for i := 0; i < scaler && digits != "0"; i++ {
			dst = append(dst, '0')
		}
		return dst
	}

	frac := -scaler
	if len(digits) <= frac {
		dst = append(dst, '0', '.')
		for i := len(digits); i < frac; i++ {
			dst = append(dst, '0')
		}
		return append(dst, digits...)
	}
	point := len(digits) - frac
	dst = append(dst, digits[:point]...)
	dst = append(dst, '.')
	return append(dst, digits[point:]...)
}

// FormatDecimal renders raw scaled by 10^scaler without floating point.
func FormatDecimal(raw int64, scaler int) string {
	return string(AppendDecimal(nil, strconv.FormatInt(raw, 10), scaler))
}
