package btree

import "fmt"

// createNewRoot allocates a fresh internal root with exactly two
// children. This is the only path that changes the table's root page.
func (t *Table) createNewRoot(leftPageNum, rightPageNum uint32) error {
	rootNum := t.pager.AllocatePage()
	rootPage, err := t.pager.GetPage(rootNum)
	if err != nil {
		return err
	}
	root := node(rootPage)
	initInternal(root)
	root.setRoot(true)

	leftPage, err := t.pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	left := node(leftPage)
	left.setRoot(false)
	left.setParent(rootNum)

	rightPage, err := t.pager.GetPage(rightPageNum)
	if err != nil {
		return err
	}
	right := node(rightPage)
	right.setRoot(false)
	right.setParent(rootNum)

	leftMax, err := t.maxKey(leftPageNum)
	if err != nil {
		return err
	}
	root.setInternalNumKeys(1)
	root.setInternalCellChild(0, leftPageNum)
	root.setInternalKey(0, leftMax)
	root.setInternalRightChild(rightPageNum)

	t.rootPage = rootNum
	return t.saveHeader()
}

// internalInsert routes a freshly split-off child into parentPageNum,
// splitting the parent when it is already at capacity.
func (t *Table) internalInsert(parentPageNum, childPageNum uint32) error {
	parentPage, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := node(parentPage)

	if parent.internalNumKeys() >= InternalMaxCells {
		return t.internalSplitInsert(parentPageNum, childPageNum)
	}

	childMax, err := t.maxKey(childPageNum)
	if err != nil {
		return err
	}
	childPage, err := t.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	node(childPage).setParent(parentPageNum)

	rightChild := parent.internalRightChild()
	rightMax, err := t.maxKey(rightChild)
	if err != nil {
		return err
	}
	switch {
	case childMax > rightMax:
		// The new child becomes the rightmost; the old right child is
		// demoted into the cell array under its own max key.
		if err := parent.insertInternalCell(parent.internalNumKeys(), rightChild, rightMax); err != nil {
			return err
		}
		parent.setInternalRightChild(childPageNum)
		return nil
	case childMax == rightMax:
		return fmt.Errorf("%w: separator %d duplicated in internal node %d", ErrTreeInvariant, childMax, parentPageNum)
	default:
		return parent.insertInternalCell(parent.internalFindChild(childMax), childPageNum, childMax)
	}
}
