package resp

import (
	"bytes"
	"strconv"
)

var crlf = []byte("\r\n")

// Decode removes one complete frame from the front of buf and returns it.
//
// If buf holds only part of a frame, Decode returns ErrNotComplete and leaves
// buf untouched. Any other error wraps ErrMalformed.
func Decode(buf *bytes.Buffer) (Frame, error) {
	f, n, err := Parse(buf.Bytes())
	if err != nil {
		return nil, err
	}
	buf.Next(n)
	return f, nil
}

// Parse decodes the first frame in b without consuming it and returns the
// frame together with the number of bytes it spans.
func Parse(b []byte) (Frame, int, error) {
	return parse(b, 0)
}

// tooDeep reports aggregates nested beyond MaxDepth. depth is the number of
// aggregates enclosing b.
func tooDeep(b []byte, depth int) error {
	switch b[0] {
	case TypeArray, TypeSet, TypeMap:
		if depth >= MaxDepth {
			return malformed("%w: nesting exceeds %d levels", ErrLimitExceeded, MaxDepth)
		}
	}
	return nil
}

func parse(b []byte, depth int) (Frame, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrNotComplete
	}

	if err := tooDeep(b, depth); err != nil {
		return nil, 0, err
	}

	switch b[0] {
	case TypeSimpleString:
		line, n, err := readLine(b, MaxLineLen)
		if err != nil {
			return nil, 0, err
		}
		return SimpleString(line), n, nil
	case TypeSimpleError:
		line, n, err := readLine(b, MaxLineLen)
		if err != nil {
			return nil, 0, err
		}
		return SimpleError(line), n, nil
	case TypeInteger:
		line, n, err := readLine(b, maxHeaderLen)
		if err != nil {
			return nil, 0, err
		}
		v, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			return nil, 0, malformed("invalid integer %q", line)
		}
		return Integer(v), n, nil
	case TypeBoolean:
		line, n, err := readLine(b, maxHeaderLen)
		if err != nil {
			return nil, 0, err
		}
		switch string(line) {
		case "t":
			return Boolean(true), n, nil
		case "f":
			return Boolean(false), n, nil
		}
		return nil, 0, malformed("invalid boolean %q", line)
	case TypeDouble:
		line, n, err := readLine(b, 64)
		if err != nil {
			return nil, 0, err
		}
		v, err := strconv.ParseFloat(string(line), 64)
		if err != nil {
			return nil, 0, malformed("invalid double %q", line)
		}
		return Double(v), n, nil
	case TypeBulkString:
		return parseBulkString(b)
	case TypeArray:
		elems, null, n, err := parseAggregate(b, 1, true, depth)
		if err != nil {
			return nil, 0, err
		}
		return Array{Elems: elems, Null: null}, n, nil
	case TypeSet:
		elems, _, n, err := parseAggregate(b, 1, false, depth)
		if err != nil {
			return nil, 0, err
		}
		return Set(elems), n, nil
	case TypeMap:
		return parseMap(b, depth)
	default:
		return nil, 0, malformed("unexpected type byte %q", b[0])
	}
}

// ExpectLength returns the number of bytes the first frame in b occupies once
// complete. It does not require the payload of a trailing bulk string to be
// present, only the headers needed to compute the span.
func ExpectLength(b []byte) (int, error) {
	return expectLength(b, 0)
}

func expectLength(b []byte, depth int) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}
	if err := tooDeep(b, depth); err != nil {
		return 0, err
	}

	switch b[0] {
	case TypeSimpleString, TypeSimpleError:
		_, n, err := readLine(b, MaxLineLen)
		return n, err
	case TypeInteger, TypeBoolean:
		_, n, err := readLine(b, maxHeaderLen)
		return n, err
	case TypeDouble:
		_, n, err := readLine(b, 64)
		return n, err
	case TypeBulkString:
		size, hdr, err := parseLength(b, MaxBulkLen, true)
		if err != nil {
			return 0, err
		}
		if size < 0 {
			return hdr, nil
		}
		return hdr + size + len(crlf), nil
	case TypeArray, TypeSet, TypeMap:
		count, hdr, err := parseLength(b, MaxArrayLen, b[0] == TypeArray)
		if err != nil {
			return 0, err
		}
		if count < 0 {
			return hdr, nil
		}
		if b[0] == TypeMap {
			count *= 2
		}
		pos := hdr
		for i := 0; i < count; i++ {
			if pos >= len(b) {
				return 0, ErrNotComplete
			}
			n, err := expectLength(b[pos:], depth+1)
			if err != nil {
				return 0, err
			}
			pos += n
		}
		return pos, nil
	default:
		return 0, malformed("unexpected type byte %q", b[0])
	}
}

func parseBulkString(b []byte) (Frame, int, error) {
	size, hdr, err := parseLength(b, MaxBulkLen, true)
	if err != nil {
		return nil, 0, err
	}
	if size < 0 {
		return NullBulkString(), hdr, nil
	}

	end := hdr + size
	if len(b) < end+len(crlf) {
		return nil, 0, ErrNotComplete
	}
	if !bytes.Equal(b[end:end+len(crlf)], crlf) {
		return nil, 0, malformed("bulk string length %d does not match payload", size)
	}

	data := make([]byte, size)
	copy(data, b[hdr:end])
	return BulkString{Data: data}, end + len(crlf), nil
}

// parseAggregate reads the header and count*perEntry child frames of an
// array, set or map found at the given depth.
func parseAggregate(b []byte, perEntry int, nullable bool, depth int) ([]Frame, bool, int, error) {
	count, hdr, err := parseLength(b, MaxArrayLen, nullable)
	if err != nil {
		return nil, false, 0, err
	}
	if count < 0 {
		return nil, true, hdr, nil
	}

	var elems []Frame
	if count > 0 {
		elems = make([]Frame, 0, count*perEntry)
	}
	pos := hdr
	for i := 0; i < count*perEntry; i++ {
		f, n, err := parse(b[pos:], depth+1)
		if err != nil {
			return nil, false, 0, err
		}
		elems = append(elems, f)
		pos += n
	}
	return elems, false, pos, nil
}

func parseMap(b []byte, depth int) (Frame, int, error) {
	elems, _, n, err := parseAggregate(b, 2, false, depth)
	if err != nil {
		return nil, 0, err
	}

	var m Map
	if len(elems) > 0 {
		m = make(Map, 0, len(elems)/2)
	}
	for i := 0; i < len(elems); i += 2 {
		var key string
		switch k := elems[i].(type) {
		case SimpleString:
			key = string(k)
		case BulkString:
			if k.Null {
				return nil, 0, malformed("null map key")
			}
			key = string(k.Data)
		default:
			return nil, 0, malformed("map key must be a string, got %q", k.Prefix())
		}
		m = append(m, MapEntry{Key: key, Value: elems[i+1]})
	}
	return m, n, nil
}

// parseLength reads "<prefix><n>\r\n" and returns n and the header size.
// n is -1 only when nullable is set and the header is exactly the null form.
func parseLength(b []byte, limit int, nullable bool) (int, int, error) {
	line, hdr, err := readLine(b, maxHeaderLen)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(string(line))
	if err != nil {
		return 0, 0, malformed("invalid length %q", line)
	}
	switch {
	case n == -1 && nullable:
		return -1, hdr, nil
	case n < 0:
		return 0, 0, malformed("invalid length %d", n)
	case n > limit:
		return 0, 0, malformed("%w: length %d exceeds %d", ErrLimitExceeded, n, limit)
	}
	return n, hdr, nil
}

// readLine returns the bytes between the type byte and the first CRLF, and
// the total length including the CRLF. A line longer than maxLen without a
// terminator can never become valid and is reported as malformed.
func readLine(b []byte, maxLen int) ([]byte, int, error) {
	idx := bytes.Index(b, crlf)
	if idx < 0 {
		if len(b) > maxLen+1 {
			return nil, 0, malformed("%w: line exceeds %d bytes", ErrLimitExceeded, maxLen)
		}
		return nil, 0, ErrNotComplete
	}
	if idx > maxLen+1 {
		return nil, 0, malformed("%w: line exceeds %d bytes", ErrLimitExceeded, maxLen)
	}
	line := b[1:idx]
	if bytes.IndexByte(line, '\n') >= 0 {
		return nil, 0, malformed("bare LF in line")
	}
	return line, idx + len(crlf), nil
}
