// Package btree implements the B+Tree index over the page store: the
// on-page node layout, insertion with split propagation, point lookup
// and the leaf-chain cursor. All rows live in leaf cells; internal nodes
// hold only routing keys and child page numbers.
package btree

import (
	"encoding/binary"
	"fmt"

	"tinytable/pager"
	"tinytable/row"
)

// NodeType discriminates the two page roles.
type NodeType uint8

const (
	NodeLeaf NodeType = iota
	NodeInternal
)

// Common node header. Every tree page starts with these fields:
//
//	byte 0     node type
//	byte 1     is-root flag
//	bytes 2-5  parent page number (0 for the root)
const (
	nodeTypeOffset      = 0
	isRootOffset        = 1
	parentPointerOffset = 2
	commonHeaderSize    = 6
)

// Leaf layout: common header, cell count, next-leaf pointer, then
// (key, row) cells packed back to back. A zero next-leaf pointer marks
// the end of the leaf chain.
const (
	leafNumCellsOffset = commonHeaderSize
	leafNextLeafOffset = leafNumCellsOffset + 4
	leafHeaderSize     = leafNextLeafOffset + 4

	leafKeySize  = 4
	leafCellSize = leafKeySize + row.Size

	// LeafMaxCells is the fixed leaf capacity derived from the page and
	// row sizes: 13 with 4KB pages and 291-byte rows.
	LeafMaxCells = (pager.PageSize - leafHeaderSize) / leafCellSize

	// Split distribution. The left node keeps the larger half when the
	// total is odd, keeping the byte layout deterministic.
	leafRightSplitCount = (LeafMaxCells + 1) / 2
	leafLeftSplitCount  = LeafMaxCells + 1 - leafRightSplitCount
)

// Internal layout: common header, key count, rightmost child pointer,
// then (child, key) cells where each key is the max key of its child's
// subtree. Capacity is kept small so splits are exercised without
// thousands of rows.
const (
	internalNumKeysOffset    = commonHeaderSize
	internalRightChildOffset = internalNumKeysOffset + 4
	internalHeaderSize       = internalRightChildOffset + 4

	internalChildSize = 4
	internalKeySize   = 4
	internalCellSize  = internalChildSize + internalKeySize

	InternalMaxCells = 3
)

// node interprets a raw page buffer as a tree node. It is a thin view:
// it never allocates pages and never splits; callers split before
// capacity would be exceeded.
type node []byte

func (n node) typ() NodeType     { return NodeType(n[nodeTypeOffset]) }
func (n node) setTyp(t NodeType) { n[nodeTypeOffset] = byte(t) }
func (n node) isLeaf() bool      { return n.typ() == NodeLeaf }

func (n node) isRoot() bool { return n[isRootOffset] == 1 }
func (n node) setRoot(root bool) {
	if root {
		n[isRootOffset] = 1
	} else {
		n[isRootOffset] = 0
	}
}

func (n node) parent() uint32     { return binary.LittleEndian.Uint32(n[parentPointerOffset:]) }
func (n node) setParent(p uint32) { binary.LittleEndian.PutUint32(n[parentPointerOffset:], p) }

// initLeaf formats a zeroed page as an empty non-root leaf.
func initLeaf(n node) {
	n.setTyp(NodeLeaf)
	n.setRoot(false)
	n.setParent(0)
	n.setLeafNumCells(0)
	n.setLeafNextLeaf(0)
}

// initInternal formats a zeroed page as an empty non-root internal node.
func initInternal(n node) {
	n.setTyp(NodeInternal)
	n.setRoot(false)
	n.setParent(0)
	n.setInternalNumKeys(0)
	n.setInternalRightChild(0)
}

// Leaf accessors.

func (n node) leafNumCells() uint32     { return binary.LittleEndian.Uint32(n[leafNumCellsOffset:]) }
func (n node) setLeafNumCells(c uint32) { binary.LittleEndian.PutUint32(n[leafNumCellsOffset:], c) }

func (n node) leafNextLeaf() uint32     { return binary.LittleEndian.Uint32(n[leafNextLeafOffset:]) }
func (n node) setLeafNextLeaf(p uint32) { binary.LittleEndian.PutUint32(n[leafNextLeafOffset:], p) }

func leafCellOffset(i uint32) int { return leafHeaderSize + int(i)*leafCellSize }

func (n node) leafCell(i uint32) []byte {
	off := leafCellOffset(i)
	return n[off : off+leafCellSize]
}

func (n node) leafKey(i uint32) uint32 {
	return binary.LittleEndian.Uint32(n[leafCellOffset(i):])
}

func (n node) setLeafKey(i, key uint32) {
	binary.LittleEndian.PutUint32(n[leafCellOffset(i):], key)
}

func (n node) leafValue(i uint32) []byte {
	off := leafCellOffset(i) + leafKeySize
	return n[off : off+row.Size]
}

// leafFind returns the slot holding key, or the slot where it should be
// inserted if absent (lower bound).
func (n node) leafFind(key uint32) uint32 {
	lo, hi := uint32(0), n.leafNumCells()
	for lo < hi {
		mid := (lo + hi) / 2
		if n.leafKey(mid) < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// insertLeafCell shifts cells [i, numCells) one slot right and writes
// the new cell at i. Refused at capacity; the layout layer never splits.
func (n node) insertLeafCell(i, key uint32, rowBytes []byte) error {
	cells := n.leafNumCells()
	if cells >= LeafMaxCells {
		return fmt.Errorf("%w: leaf cell insert beyond capacity %d", ErrTreeInvariant, LeafMaxCells)
	}
	if i > cells {
		return fmt.Errorf("%w: leaf cell index %d out of range (%d cells)", ErrTreeInvariant, i, cells)
	}
	copy(n[leafCellOffset(i+1):leafCellOffset(cells+1)], n[leafCellOffset(i):leafCellOffset(cells)])
	n.setLeafKey(i, key)
	copy(n.leafValue(i), rowBytes)
	n.setLeafNumCells(cells + 1)
	return nil
}

// Internal accessors.

func (n node) internalNumKeys() uint32 {
	return binary.LittleEndian.Uint32(n[internalNumKeysOffset:])
}

func (n node) setInternalNumKeys(c uint32) {
	binary.LittleEndian.PutUint32(n[internalNumKeysOffset:], c)
}

func (n node) internalRightChild() uint32 {
	return binary.LittleEndian.Uint32(n[internalRightChildOffset:])
}

func (n node) setInternalRightChild(p uint32) {
	binary.LittleEndian.PutUint32(n[internalRightChildOffset:], p)
}

func internalCellOffset(i uint32) int { return internalHeaderSize + int(i)*internalCellSize }

func (n node) internalCellChild(i uint32) uint32 {
	return binary.LittleEndian.Uint32(n[internalCellOffset(i):])
}

func (n node) setInternalCellChild(i, child uint32) {
	binary.LittleEndian.PutUint32(n[internalCellOffset(i):], child)
}

func (n node) internalKey(i uint32) uint32 {
	return binary.LittleEndian.Uint32(n[internalCellOffset(i)+internalChildSize:])
}

func (n node) setInternalKey(i, key uint32) {
	binary.LittleEndian.PutUint32(n[internalCellOffset(i)+internalChildSize:], key)
}

// internalChild returns child i, where i == numKeys (or beyond) names
// the rightmost child.
func (n node) internalChild(i uint32) uint32 {
	if i >= n.internalNumKeys() {
		return n.internalRightChild()
	}
	return n.internalCellChild(i)
}

// internalFindChild returns the index of the child whose subtree could
// contain key: the first separator >= key, else the rightmost child.
func (n node) internalFindChild(key uint32) uint32 {
	lo, hi := uint32(0), n.internalNumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		if n.internalKey(mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// updateInternalKey replaces the separator that routed oldKey with
// newKey. When oldKey routed to the rightmost child there is no
// separator to rewrite.
func (n node) updateInternalKey(oldKey, newKey uint32) {
	idx := n.internalFindChild(oldKey)
	if idx < n.internalNumKeys() {
		n.setInternalKey(idx, newKey)
	}
}

// insertInternalCell shifts cells [i, numKeys) right and writes
// (child, key) at slot i. Refused at capacity; callers split first.
func (n node) insertInternalCell(i, child, key uint32) error {
	numKeys := n.internalNumKeys()
	if numKeys >= InternalMaxCells {
		return fmt.Errorf("%w: internal cell insert beyond capacity %d", ErrTreeInvariant, InternalMaxCells)
	}
	if i > numKeys {
		return fmt.Errorf("%w: internal cell index %d out of range (%d keys)", ErrTreeInvariant, i, numKeys)
	}
	copy(n[internalCellOffset(i+1):internalCellOffset(numKeys+1)], n[internalCellOffset(i):internalCellOffset(numKeys)])
	n.setInternalCellChild(i, child)
	n.setInternalKey(i, key)
	n.setInternalNumKeys(numKeys + 1)
	return nil
}
