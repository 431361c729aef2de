// Package repl provides the interactive mode of meshkv-cli.
//
//   - repl.go: the read-eval-print loop
//   - args.go: splitting an input line into command arguments
//   - history.go: command history kept in memory and saved on exit
//
// Lines are split like redis-cli input: whitespace separates arguments,
// double quotes allow escapes (\n, \t, \", \xHH) and single quotes are
// taken literally. exit and quit leave the loop; history prints the
// entries of the current session.
package repl
