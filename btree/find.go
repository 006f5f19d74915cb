package btree

import "fmt"

// find descends from the root to the leaf slot for key: the exact match
// when present, otherwise the insertion point. Lower-bound semantics
// throughout.
func (t *Table) find(key uint32) (*Cursor, error) {
	pageNum := t.rootPage
	for {
		page, err := t.pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		n := node(page)
		if n.isLeaf() {
			return &Cursor{table: t, pageNum: pageNum, cellNum: n.leafFind(key)}, nil
		}
		pageNum = n.internalChild(n.internalFindChild(key))
	}
}

// maxKey is the largest key in the subtree rooted at pageNum: the last
// cell of a leaf, recursively the rightmost child's max otherwise.
func (t *Table) maxKey(pageNum uint32) (uint32, error) {
	for {
		page, err := t.pager.GetPage(pageNum)
		if err != nil {
			return 0, err
		}
		n := node(page)
		if n.isLeaf() {
			cells := n.leafNumCells()
			if cells == 0 {
				return 0, fmt.Errorf("%w: empty leaf page %d in max-key walk", ErrTreeInvariant, pageNum)
			}
			return n.leafKey(cells - 1), nil
		}
		pageNum = n.internalRightChild()
	}
}
