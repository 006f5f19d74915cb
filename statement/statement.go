// Package statement turns one line of REPL input into a typed command.
// The grammar is fixed: `insert <id> <username> <email>` and `select`.
// Meta commands (leading dot) are dispatched by the REPL, not here.
package statement

import (
	"errors"
	"fmt"
	"strings"

	"tinytable/row"
)

// Kind discriminates prepared statements.
type Kind int

const (
	Insert Kind = iota
	Select
)

// Statement is a parsed command ready for execution. Row is populated
// for Insert only.
type Statement struct {
	Kind Kind
	Row  row.Row
}

var (
	ErrSyntax       = errors.New("could not parse statement")
	ErrUnrecognized = errors.New("unrecognized statement")
)

// Prepare parses one line of input into a statement. Row-level
// validation errors (row.ErrInvalidID, row.ErrStringTooLong) pass
// through untouched so the caller can present them.
func Prepare(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Statement{}, ErrSyntax
	}
	switch strings.ToLower(fields[0]) {
	case "select":
		if len(fields) != 1 {
			return Statement{}, ErrSyntax
		}
		return Statement{Kind: Select}, nil
	case "insert":
		if len(fields) != 4 {
			return Statement{}, ErrSyntax
		}
		r, err := row.New(fields[1], fields[2], fields[3])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Kind: Insert, Row: r}, nil
	default:
		return Statement{}, fmt.Errorf("%w: %q", ErrUnrecognized, fields[0])
	}
}
