// Package config provides meshkv-cli configuration.
//
// Settings come from, lowest priority first: built-in defaults,
// ~/.meshkv/cli.yaml (or the file named by --config), MESHKV_CLI_*
// environment variables, and finally command-line flags.
package config
