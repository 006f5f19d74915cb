package btree

import (
	"fmt"
	"slices"
	"sort"
)

// childEntry pairs a child page with the max key of its subtree.
type childEntry struct {
	child uint32
	key   uint32
}

// internalSplitInsert splits a full internal node around its midpoint
// while admitting one more child. The left node keeps the lower half,
// the right node takes the upper half, moved children get their parent
// headers rewritten, and the left node's new max key is promoted.
func (t *Table) internalSplitInsert(oldPageNum, childPageNum uint32) error {
	oldPage, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldNode := node(oldPage)
	oldMax, err := t.maxKey(oldPageNum)
	if err != nil {
		return err
	}
	childMax, err := t.maxKey(childPageNum)
	if err != nil {
		return err
	}

	// Collect every (child, max-key) pair, rightmost child included,
	// plus the incoming one, in key order.
	numKeys := oldNode.internalNumKeys()
	entries := make([]childEntry, 0, numKeys+2)
	for i := uint32(0); i < numKeys; i++ {
		entries = append(entries, childEntry{oldNode.internalCellChild(i), oldNode.internalKey(i)})
	}
	rightChild := oldNode.internalRightChild()
	rightMax, err := t.maxKey(rightChild)
	if err != nil {
		return err
	}
	entries = append(entries, childEntry{rightChild, rightMax})

	at := sort.Search(len(entries), func(i int) bool { return entries[i].key >= childMax })
	entries = slices.Insert(entries, at, childEntry{childPageNum, childMax})

	for i := 1; i < len(entries); i++ {
		if entries[i-1].key >= entries[i].key {
			return fmt.Errorf("%w: non-increasing separators while splitting internal node %d", ErrTreeInvariant, oldPageNum)
		}
	}

	// Midpoint redistribution; each half's last entry becomes that
	// node's rightmost child, so its key is carried by the subtree
	// rather than a separator cell.
	half := (len(entries) + 1) / 2
	leftEntries, rightEntries := entries[:half], entries[half:]

	newPageNum := t.pager.AllocatePage()
	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newNode := node(newPage)
	initInternal(newNode)
	newNode.setParent(oldNode.parent())

	writeEntries(oldNode, leftEntries)
	writeEntries(newNode, rightEntries)

	for _, e := range rightEntries {
		childPage, err := t.pager.GetPage(e.child)
		if err != nil {
			return err
		}
		node(childPage).setParent(newPageNum)
	}
	if at < half {
		// The incoming child landed in the left half.
		childPage, err := t.pager.GetPage(childPageNum)
		if err != nil {
			return err
		}
		node(childPage).setParent(oldPageNum)
	}

	if oldNode.isRoot() {
		return t.createNewRoot(oldPageNum, newPageNum)
	}

	parentPageNum := oldNode.parent()
	newMax, err := t.maxKey(oldPageNum)
	if err != nil {
		return err
	}
	parentPage, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	node(parentPage).updateInternalKey(oldMax, newMax)
	return t.internalInsert(parentPageNum, newPageNum)
}

// writeEntries rewrites an internal node's cells from an ordered
// (child, max-key) sequence; the last entry becomes the right child.
func writeEntries(n node, entries []childEntry) {
	n.setInternalNumKeys(uint32(len(entries) - 1))
	for i, e := range entries[:len(entries)-1] {
		n.setInternalCellChild(uint32(i), e.child)
		n.setInternalKey(uint32(i), e.key)
	}
	n.setInternalRightChild(entries[len(entries)-1].child)
}
