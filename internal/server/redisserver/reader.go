package redisserver

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yndnr/meshkv/pkg/resp"
)

// MaxInlineLen limits the length of an inline command line.
const MaxInlineLen = 64 * 1024

// decodeFrame decodes one complete array request.
var decodeFrame = resp.Decode

// requestBuffer accumulates client input and splits it into requests.
type requestBuffer struct {
	bytes.Buffer

	// need is the encoded size of the array request at the front of the
	// buffer, or 0 while its headers are still arriving.
	need int
}

// next removes the next complete request from the buffer. It returns
// resp.ErrNotComplete when more input is needed; any other error wraps
// resp.ErrMalformed.
//
// An array request is sized with resp.ExpectLength first and decoded only
// once all of its bytes are buffered, so a large request arriving over many
// reads is decoded once.
func (r *requestBuffer) next() (resp.Frame, error) {
	for {
		b := r.Bytes()
		if len(b) == 0 {
			return nil, resp.ErrNotComplete
		}
		if b[0] == resp.TypeArray {
			return r.nextArray()
		}

		f, err := nextInline(&r.Buffer)
		if err != nil {
			return nil, err
		}
		if f.Len() > 0 {
			return f, nil
		}
		// blank line
	}
}

func (r *requestBuffer) nextArray() (resp.Frame, error) {
	if r.need == 0 {
		n, err := resp.ExpectLength(r.Bytes())
		if err != nil {
			return nil, err
		}
		r.need = n
	}
	if r.Len() < r.need {
		return nil, resp.ErrNotComplete
	}

	r.need = 0
	return decodeFrame(&r.Buffer)
}

// pending returns how many more bytes the request at the front needs, or 0
// when that is not known yet.
func (r *requestBuffer) pending() int {
	if r.need == 0 {
		return 0
	}
	return max(r.need-r.Len(), 0)
}

// nextInline splits one whitespace-separated line into bulk strings.
func nextInline(buf *bytes.Buffer) (resp.Array, error) {
	b := buf.Bytes()
	idx := bytes.IndexByte(b, '\n')
	if idx < 0 {
		if len(b) > MaxInlineLen {
			return resp.Array{}, fmt.Errorf("%w: inline command exceeds %d bytes", resp.ErrLimitExceeded, MaxInlineLen)
		}
		return resp.Array{}, resp.ErrNotComplete
	}
	if idx > MaxInlineLen {
		return resp.Array{}, fmt.Errorf("%w: inline command exceeds %d bytes", resp.ErrLimitExceeded, MaxInlineLen)
	}

	fields := bytes.Fields(b[:idx])
	elems := make([]resp.Frame, len(fields))
	for i, f := range fields {
		elems[i] = resp.BulkString{Data: bytes.Clone(f)}
	}
	buf.Next(idx + 1)
	return resp.NewArray(elems...), nil
}

// protocolMessage renders a decode error for the client.
func protocolMessage(err error) string {
	return "ERR Protocol error: " + strings.TrimPrefix(err.Error(), resp.ErrMalformed.Error()+": ")
}
