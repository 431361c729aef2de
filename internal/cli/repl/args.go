package repl

import (
	"errors"
	"strconv"
	"strings"
)

var errUnbalancedQuotes = errors.New("unbalanced quotes")

// splitArgs splits an input line into arguments.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		inArg bool
	)

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch ch {
		case ' ', '\t', '\r', '\n':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		case '"':
			end, err := readQuoted(line, i+1, &cur)
			if err != nil {
				return nil, err
			}
			i = end
			inArg = true
		case '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, errUnbalancedQuotes
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 1
			inArg = true
		default:
			cur.WriteByte(ch)
			inArg = true
		}
	}

	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// readQuoted decodes a double-quoted section starting at line[start] and
// returns the index of the closing quote.
func readQuoted(line string, start int, cur *strings.Builder) (int, error) {
	for j := start; j < len(line); j++ {
		ch := line[j]
		if ch == '"' {
			return j, nil
		}
		if ch != '\\' {
			cur.WriteByte(ch)
			continue
		}

		if j+1 >= len(line) {
			return 0, errUnbalancedQuotes
		}
		j++
		switch line[j] {
		case 'n':
			cur.WriteByte('\n')
		case 'r':
			cur.WriteByte('\r')
		case 't':
			cur.WriteByte('\t')
		case 'x':
			if j+2 < len(line) {
				if b, err := strconv.ParseUint(line[j+1:j+3], 16, 8); err == nil {
					cur.WriteByte(byte(b))
					j += 2
					continue
				}
			}
			cur.WriteByte('x')
		default:
			cur.WriteByte(line[j])
		}
	}
	return 0, errUnbalancedQuotes
}
