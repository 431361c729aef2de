// Package main provides the entry point for meshkv-cli.
//
// The CLI sends single commands to a meshkv server, opens an interactive
// session when run without a subcommand, and runs load tests:
//
//	meshkv-cli sadd key member1 member2
//	meshkv-cli -s 10.0.0.5:6379 -o json hgetall user:1
//	meshkv-cli
//	meshkv-cli bench --op sadd -n 50 -r 100000
package main
