// Package httpserver provides the admin HTTP server of meshkv.
//
// It serves Prometheus metrics and a few operational endpoints next to
// the RESP listener:
//
//	GET /health   liveness
//	GET /ready    readiness (the RESP listener is accepting)
//	GET /stats    key counts per keyspace, as JSON
//	GET /metrics  Prometheus exposition
//
// Every route goes through RequestID and Recover; AccessLog is optional.
package httpserver
