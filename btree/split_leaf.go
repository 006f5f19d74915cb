package btree

// leafSplitInsert allocates a sibling leaf, redistributes the existing
// cells plus the incoming one across both halves, relinks the next-leaf
// chain, and pushes the new separator up to the parent.
func (t *Table) leafSplitInsert(c *Cursor, key uint32, rowBytes []byte) error {
	oldPage, err := t.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	oldNode := node(oldPage)
	oldMax, err := t.maxKey(c.pageNum)
	if err != nil {
		return err
	}

	newPageNum := t.pager.AllocatePage()
	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newNode := node(newPage)
	initLeaf(newNode)
	newNode.setParent(oldNode.parent())
	newNode.setLeafNextLeaf(oldNode.leafNextLeaf())
	oldNode.setLeafNextLeaf(newPageNum)

	// Every existing cell plus the incoming one, moved highest slot
	// first so nothing is overwritten before it has been relocated.
	// Slot i of the combined sequence lands at i % leafLeftSplitCount
	// in the node owning that half.
	for i := LeafMaxCells; i >= 0; i-- {
		dest := oldNode
		if i >= leafLeftSplitCount {
			dest = newNode
		}
		idx := uint32(i % leafLeftSplitCount)
		switch {
		case uint32(i) == c.cellNum:
			dest.setLeafKey(idx, key)
			copy(dest.leafValue(idx), rowBytes)
		case uint32(i) > c.cellNum:
			copy(dest.leafCell(idx), oldNode.leafCell(uint32(i-1)))
		default:
			copy(dest.leafCell(idx), oldNode.leafCell(uint32(i)))
		}
	}
	oldNode.setLeafNumCells(leafLeftSplitCount)
	newNode.setLeafNumCells(leafRightSplitCount)

	if oldNode.isRoot() {
		return t.createNewRoot(c.pageNum, newPageNum)
	}

	parentPageNum := oldNode.parent()
	newMax, err := t.maxKey(c.pageNum)
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
