// Package output renders server replies for meshkv-cli.
//
// The text format follows redis-cli: quoted bulk strings, "(integer) n",
// "(nil)" and numbered aggregate elements. The json format is meant for
// scripting.
package output
