package btree

import (
	"log/slog"

	"tinytable/pager"
	"tinytable/row"
)

// Table is one B+Tree over one backing file. The root page number lives
// in the pager's header page and changes only when the root splits.
type Table struct {
	pager    *pager.Pager
	rootPage uint32
	rowCount uint32
}

// Open opens or creates the database file. A fresh file is initialized
// with a header page and an empty root leaf at page 1. cachePages <= 0
// selects the pager's default clean-page cache size.
func Open(path string, cachePages int) (*Table, error) {
	p, err := pager.Open(path, cachePages)
	if err != nil {
		return nil, err
	}
	t := &Table{pager: p}

	if p.NumPages() == 0 {
		p.AllocatePage() // header page
		rootNum := p.AllocatePage()
		page, err := p.GetPage(rootNum)
		if err != nil {
			p.Close()
			return nil, err
		}
		root := node(page)
		initLeaf(root)
		root.setRoot(true)
		t.rootPage = rootNum
		if err := t.saveHeader(); err != nil {
			p.Close()
			return nil, err
		}
		slog.Debug("table created", "path", path, "root", rootNum)
		return t, nil
	}

	h, err := p.ReadHeader()
	if err != nil {
		p.Close()
		return nil, err
	}
	t.rootPage = h.RootPage
	t.rowCount = h.RowCount
	slog.Debug("table opened", "path", path, "root", t.rootPage, "rows", t.rowCount)
	return t, nil
}

// Close writes the header, flushes all pages and releases the file.
// Safe to call more than once.
func (t *Table) Close() error {
	if t.pager == nil {
		return nil
	}
	err := t.saveHeader()
	if cerr := t.pager.Close(); err == nil {
		err = cerr
	}
	t.pager = nil
	return err
}

// RowCount reports the number of rows in the table.
func (t *Table) RowCount() uint32 { return t.rowCount }

// RootPage reports the current root page number.
func (t *Table) RootPage() uint32 { return t.rootPage }

func (t *Table) saveHeader() error {
	return t.pager.WriteHeader(pager.Header{
		RootPage:  t.rootPage,
		RowCount:  t.rowCount,
		PageCount: t.pager.NumPages(),
	})
}

// Find reports the row stored under key, if any.
func (t *Table) Find(key uint32) (row.Row, bool, error) {
	c, err := t.find(key)
	if err != nil {
		return row.Row{}, false, err
	}
	page, err := t.pager.GetPage(c.pageNum)
	if err != nil {
		return row.Row{}, false, err
	}
	leaf := node(page)
	if c.cellNum >= leaf.leafNumCells() || leaf.leafKey(c.cellNum) != key {
		return row.Row{}, false, nil
	}
	r, err := row.Deserialize(leaf.leafValue(c.cellNum))
	if err != nil {
		return row.Row{}, false, err
	}
	return r, true, nil
}

// Scan returns a cursor positioned at the first row. Each call starts a
// fresh single-pass scan over the leaf chain.
func (t *Table) Scan() (*Cursor, error) { return t.Start() }
