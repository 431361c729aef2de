// Package resp implements the RESP wire format used by meshkv.
//
// A Frame is one decoded protocol value. The set of frame kinds is closed:
// SimpleString, SimpleError, Integer, BulkString, Array, Boolean, Double, Map
// and Set. BulkString and Array carry a Null flag for the RESP2 null forms
// ($-1 and *-1).
//
// Decoding is incremental. Parse and Decode either return one complete frame
// together with the exact number of bytes it spans, or ErrNotComplete without
// consuming anything, so a caller can append more input and retry the same
// call. Input that can never become a valid frame yields an error wrapping
// ErrMalformed. Declared lengths, nesting depth and simple string lines are
// bounded (MaxArrayLen, MaxBulkLen, MaxDepth, MaxLineLen); exceeding a bound
// yields ErrLimitExceeded.
//
// ExpectLength reports how many bytes the first frame in a buffer will occupy
// once complete, which lets a connection loop size its reads before decoding.
package resp
