package command

import (
	"strings"
	"unicode/utf8"

	"github.com/yndnr/meshkv/internal/core/domain"
	"github.com/yndnr/meshkv/pkg/resp"
)

// validateCommand checks that arr names one of names and carries exactly
// nArgs arguments after the name.
func validateCommand(arr resp.Array, names []string, nArgs int) error {
	name, err := validateName(arr, names)
	if err != nil {
		return err
	}
	if arr.Len()-1 != nArgs {
		return wrongArity(name)
	}
	return nil
}

// validateMultiArgCommand checks that arr names one of names and has at least
// minTotal elements, the name included.
func validateMultiArgCommand(arr resp.Array, names []string, minTotal int) error {
	name, err := validateName(arr, names)
	if err != nil {
		return err
	}
	if arr.Len() < minTotal {
		return wrongArity(name)
	}
	return nil
}

// extractArgs returns the elements after the first skip, in order.
func extractArgs(arr resp.Array, skip int) []resp.Frame {
	if skip >= arr.Len() {
		return nil
	}
	return arr.Elems[skip:]
}

func validateName(arr resp.Array, names []string) (string, error) {
	if arr.Null || arr.Len() == 0 {
		return "", domain.ErrInvalidArgument.WithMessage("empty command")
	}
	bs, ok := arr.Elems[0].(resp.BulkString)
	if !ok || bs.Null {
		return "", domain.ErrInvalidArgument.WithMessage("command name must be a bulk string")
	}
	name := strings.ToLower(string(bs.Data))
	for _, n := range names {
		if name == n {
			return name, nil
		}
	}
	return "", domain.ErrInvalidArgument.WithMessage("invalid command: expected %s, got '%s'", strings.Join(names, " or "), name)
}

func wrongArity(name string) error {
	return domain.ErrInvalidArgument.WithMessage("wrong number of arguments for '%s' command", name)
}

// bulkText returns f as text. f must be a non-null bulk string holding valid
// UTF-8; what names the argument in the error message.
func bulkText(f resp.Frame, what string) (string, error) {
	bs, ok := f.(resp.BulkString)
	if !ok || bs.Null {
		return "", domain.ErrInvalidArgument.WithMessage("invalid %s: expected bulk string", what)
	}
	if !utf8.Valid(bs.Data) {
		return "", domain.ErrInvalidArgument.WithMessage("invalid %s: not valid utf-8", what).WithCause(domain.ErrInvalidText)
	}
	return string(bs.Data), nil
}

// bulkValue returns f as a storable value. Any non-null bulk string is
// accepted, binary payloads included.
func bulkValue(f resp.Frame, what string) (resp.BulkString, error) {
	bs, ok := f.(resp.BulkString)
	if !ok || bs.Null {
		return resp.BulkString{}, domain.ErrInvalidArgument.WithMessage("invalid %s: expected bulk string", what)
	}
	return bs, nil
}
