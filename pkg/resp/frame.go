package resp

import "strings"

// Type prefixes on the wire.
const (
	TypeSimpleString = '+'
	TypeSimpleError  = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
	TypeBoolean      = '#'
	TypeDouble       = ','
	TypeMap          = '%'
	TypeSet          = '~'
)

// Frame is a single RESP value. The set of implementations is closed to
// the types declared in this package.
type Frame interface {
	// Prefix returns the type byte that introduces the frame on the wire.
	Prefix() byte
	frame()
}

// SimpleString is a "+" frame. It must not contain CR or LF.
type SimpleString string

// SimpleError is a "-" frame.
type SimpleError string

// Integer is a ":" frame.
type Integer int64

// BulkString is a length-prefixed binary-safe string, or the null bulk string.
type BulkString struct {
	Data []byte
	Null bool
}

// Array is an ordered list of frames, or the null array.
type Array struct {
	Elems []Frame
	Null  bool
}

// Boolean is a "#" frame.
type Boolean bool

// Double is a "," frame.
type Double float64

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   string
	Value Frame
}

// Map is a "%" frame. Entries are kept in wire order.
type Map []MapEntry

// Set is a "~" frame.
type Set []Frame

func (SimpleString) Prefix() byte { return TypeSimpleString }
func (SimpleError) Prefix() byte  { return TypeSimpleError }
func (Integer) Prefix() byte      { return TypeInteger }
func (BulkString) Prefix() byte   { return TypeBulkString }
func (Array) Prefix() byte        { return TypeArray }
func (Boolean) Prefix() byte      { return TypeBoolean }
func (Double) Prefix() byte       { return TypeDouble }
func (Map) Prefix() byte          { return TypeMap }
func (Set) Prefix() byte          { return TypeSet }

func (SimpleString) frame() {}
func (SimpleError) frame()  {}
func (Integer) frame()      {}
func (BulkString) frame()   {}
func (Array) frame()        {}
func (Boolean) frame()      {}
func (Double) frame()       {}
func (Map) frame()          {}
func (Set) frame()          {}

// NewBulkString returns a non-null bulk string holding s.
func NewBulkString(s string) BulkString {
	return BulkString{Data: []byte(s)}
}

// NullBulkString returns the null bulk string ($-1).
func NullBulkString() BulkString {
	return BulkString{Null: true}
}

// NewArray returns a non-null array of the given frames.
func NewArray(elems ...Frame) Array {
	return Array{Elems: elems}
}

// NullArray returns the null array (*-1).
func NullArray() Array {
	return Array{Null: true}
}

// OK returns the "+OK" acknowledgement.
func OK() SimpleString {
	return SimpleString("OK")
}

// NewError returns an error frame. Line breaks in msg are replaced by spaces
// so the frame stays on one line.
func NewError(msg string) SimpleError {
	return SimpleError(strings.NewReplacer("\r", " ", "\n", " ").Replace(msg))
}

// String returns the payload as a Go string. The null bulk string yields "".
func (b BulkString) String() string {
	return string(b.Data)
}

// Len returns the number of elements; zero for the null array.
func (a Array) Len() int {
	return len(a.Elems)
}

// Clone returns a deep copy of f, so the copy shares no memory with f.
func Clone(f Frame) Frame {
	switch v := f.(type) {
	case BulkString:
		if v.Null {
			return NullBulkString()
		}
		return BulkString{Data: append([]byte{}, v.Data...)}
	case Array:
		if v.Null {
			return NullArray()
		}
		return Array{Elems: cloneAll(v.Elems)}
	case Set:
		return Set(cloneAll(v))
	case Map:
		out := make(Map, len(v))
		for i, e := range v {
			out[i] = MapEntry{Key: e.Key, Value: Clone(e.Value)}
		}
		return out
	default:
		return f
	}
}

func cloneAll(in []Frame) []Frame {
	if in == nil {
		return nil
	}
	out := make([]Frame, len(in))
	for i, f := range in {
		out[i] = Clone(f)
	}
	return out
}

// Equal reports whether two frames have identical wire encodings.
func Equal(a, b Frame) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return string(Encode(a)) == string(Encode(b))
}
