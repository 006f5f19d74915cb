package statement

import (
	"errors"
	"fmt"
	"io"

	"tinytable/btree"
	"tinytable/row"
)

// Execute runs a prepared statement against the table. Select writes one
// line per row to w; a corrupt row is reported in place and the scan
// continues.
func Execute(s Statement, t *btree.Table, w io.Writer) error {
	switch s.Kind {
	case Insert:
		return t.Insert(s.Row)
	case Select:
		c, err := t.Scan()
		if err != nil {
			return err
		}
		for !c.End() {
			r, err := c.Value()
			switch {
			case errors.Is(err, row.ErrCorrupt):
				key, kerr := c.Key()
				if kerr != nil {
					return kerr
				}
				fmt.Fprintf(w, "Error: Corrupt row at key %d.\n", key)
			case err != nil:
				return err
			default:
				fmt.Fprintln(w, r.String())
			}
			if err := c.Advance(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: statement kind %d", ErrUnrecognized, s.Kind)
	}
}
