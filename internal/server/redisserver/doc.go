// Package redisserver serves the meshkv command set over TCP using RESP.
//
// Each connection owns an input buffer. Bytes read from the socket are
// appended to it and every complete request is decoded, executed against the
// shared backend and answered in order, so pipelined requests are supported.
// Lines that do not start with '*' are treated as inline commands
// ("PING\r\n"). Malformed input is answered with a protocol error and the
// connection is closed; command errors leave the connection usable.
//
// When Config.TLS is set the listener is wrapped with crypto/tls.
//
// QUIT is handled at connection level: the server replies +OK and closes.
package redisserver
