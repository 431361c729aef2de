package resp

import (
	"math"
	"strconv"
)

// Encode returns the wire encoding of f.
func Encode(f Frame) []byte {
	return AppendFrame(make([]byte, 0, 64), f)
}

// AppendFrame appends the wire encoding of f to dst.
func AppendFrame(dst []byte, f Frame) []byte {
	switch v := f.(type) {
	case SimpleString:
		dst = append(dst, TypeSimpleString)
		dst = append(dst, string(v)...)
		return append(dst, crlf...)
	case SimpleError:
		dst = append(dst, TypeSimpleError)
		dst = append(dst, string(v)...)
		return append(dst, crlf...)
	case Integer:
		dst = append(dst, TypeInteger)
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, crlf...)
	case BulkString:
		if v.Null {
			return append(dst, "$-1\r\n"...)
		}
		dst = appendHeader(dst, TypeBulkString, len(v.Data))
		dst = append(dst, v.Data...)
		return append(dst, crlf...)
	case Array:
		if v.Null {
			return append(dst, "*-1\r\n"...)
		}
		dst = appendHeader(dst, TypeArray, len(v.Elems))
		for _, e := range v.Elems {
			dst = AppendFrame(dst, e)
		}
		return dst
	case Set:
		dst = appendHeader(dst, TypeSet, len(v))
		for _, e := range v {
			dst = AppendFrame(dst, e)
		}
		return dst
	case Map:
		dst = appendHeader(dst, TypeMap, len(v))
		for _, e := range v {
			dst = appendHeader(dst, TypeBulkString, len(e.Key))
			dst = append(dst, e.Key...)
			dst = append(dst, crlf...)
			dst = AppendFrame(dst, e.Value)
		}
		return dst
	case Boolean:
		if v {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	case Double:
		dst = append(dst, TypeDouble)
		dst = appendDouble(dst, float64(v))
		return append(dst, crlf...)
	default:
		// Unreachable: Frame is sealed.
		panic("resp: unknown frame type")
	}
}

func appendHeader(dst []byte, prefix byte, n int) []byte {
	dst = append(dst, prefix)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, crlf...)
}

func appendDouble(dst []byte, v float64) []byte {
	switch {
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	case math.IsNaN(v):
		return append(dst, "nan"...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 64)
}
