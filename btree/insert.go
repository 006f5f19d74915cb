package btree

import "tinytable/row"

// Insert adds a row keyed by its id. Inserting an existing key fails
// with ErrDuplicateKey and leaves the table unchanged.
func (t *Table) Insert(r row.Row) error {
	c, err := t.find(r.ID)
	if err != nil {
		return err
	}
	page, err := t.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	leaf := node(page)
	if c.cellNum < leaf.leafNumCells() && leaf.leafKey(c.cellNum) == r.ID {
		return ErrDuplicateKey
	}

	var buf [row.Size]byte
	r.Serialize(buf[:])
	if err := t.leafInsert(c, r.ID, buf[:]); err != nil {
		return err
	}
	t.rowCount++
	return nil
}

// leafInsert writes the cell at the cursor position, splitting first
// when the leaf is full.
func (t *Table) leafInsert(c *Cursor, key uint32, rowBytes []byte) error {
	page, err := t.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	leaf := node(page)
	if leaf.leafNumCells() >= LeafMaxCells {
		return t.leafSplitInsert(c, key, rowBytes)
	}
	return leaf.insertLeafCell(c.cellNum, key, rowBytes)
}
