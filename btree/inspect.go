package btree

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// Dump writes a human-readable rendering of the tree structure to w,
// leaves with their keys and internal nodes with their separators.
func (t *Table) Dump(w io.Writer) error {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("table (root page %d, %d rows)", t.rootPage, t.rowCount))
	if err := t.dumpNode(tree, t.rootPage); err != nil {
		return err
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

func (t *Table) dumpNode(branch treeprint.Tree, pageNum uint32) error {
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	n := node(page)

	if n.isLeaf() {
		cells := n.leafNumCells()
		leaf := branch.AddBranch(fmt.Sprintf("leaf page %d (%d cells)", pageNum, cells))
		for i := uint32(0); i < cells; i++ {
			leaf.AddNode(fmt.Sprintf("key %d", n.leafKey(i)))
		}
		return nil
	}

	numKeys := n.internalNumKeys()
	inner := branch.AddBranch(fmt.Sprintf("internal page %d (%d keys)", pageNum, numKeys))
	for i := uint32(0); i < numKeys; i++ {
		if err := t.dumpNode(inner, n.internalCellChild(i)); err != nil {
			return err
		}
		inner.AddNode(fmt.Sprintf("separator %d", n.internalKey(i)))
	}
	return t.dumpNode(inner, n.internalRightChild())
}
