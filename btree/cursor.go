package btree

import "tinytable/row"

// Cursor is a position in the leaf chain: a page number, a cell slot in
// that page, and an end-of-table flag. It is owned by the caller for the
// duration of one scan and is not valid across structural mutation.
type Cursor struct {
	table   *Table
	pageNum uint32
	cellNum uint32
	end     bool
}

// Start positions a cursor at the first row of the table.
func (t *Table) Start() (*Cursor, error) {
	c, err := t.find(0)
	if err != nil {
		return nil, err
	}
	page, err := t.pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	c.end = node(page).leafNumCells() == 0
	return c, nil
}

// End reports whether the cursor has exhausted the table.
func (c *Cursor) End() bool { return c.end }

// Key returns the key at the current position.
func (c *Cursor) Key() (uint32, error) {
	if c.end {
		return 0, ErrEndOfTable
	}
	page, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return 0, err
	}
	return node(page).leafKey(c.cellNum), nil
}

// Value decodes the row at the current position. A malformed cell
// surfaces row.ErrCorrupt without invalidating the rest of the scan.
func (c *Cursor) Value() (row.Row, error) {
	if c.end {
		return row.Row{}, ErrEndOfTable
	}
	page, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return row.Row{}, err
	}
	return row.Deserialize(node(page).leafValue(c.cellNum))
}

// Advance moves one cell forward, following the next-leaf pointer across
// leaf boundaries. A zero next-leaf pointer marks the end of the table.
func (c *Cursor) Advance() error {
	if c.end {
		return nil
	}
	page, err := c.table.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	n := node(page)
	c.cellNum++
	if c.cellNum >= n.leafNumCells() {
		next := n.leafNextLeaf()
		if next == 0 {
			c.end = true
		} else {
			c.pageNum = next
			c.cellNum = 0
		}
	}
	return nil
}
