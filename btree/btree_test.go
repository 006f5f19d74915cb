package btree

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinytable/row"
)

func newTestTable(t *testing.T) (*Table, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path, 16)
	require.NoError(t, err)
	t.Cleanup(func() { tbl.Close() })
	return tbl, path
}

func testRow(t *testing.T, key uint32) row.Row {
	t.Helper()
	r, err := row.NewFromValues(key, fmt.Sprintf("user%d", key), fmt.Sprintf("person%d@example.com", key))
	require.NoError(t, err)
	return r
}

func insertKey(t *testing.T, tbl *Table, key uint32) {
	t.Helper()
	require.NoError(t, tbl.Insert(testRow(t, key)))
}

func scanKeys(t *testing.T, tbl *Table) []uint32 {
	t.Helper()
	c, err := tbl.Scan()
	require.NoError(t, err)
	keys := []uint32{}
	for !c.End() {
		k, err := c.Key()
		require.NoError(t, err)
		r, err := c.Value()
		require.NoError(t, err)
		require.Equal(t, k, r.ID)
		keys = append(keys, k)
		require.NoError(t, c.Advance())
	}
	return keys
}

// shuffledKeys returns a deterministic permutation of 0..n-1.
func shuffledKeys(n uint32) []uint32 {
	keys := make([]uint32, 0, n)
	for i := uint32(0); i < n; i++ {
		keys = append(keys, (i*37+11)%n)
	}
	return keys
}

func TestInsertAndFind(t *testing.T) {
	tbl, _ := newTestTable(t)

	for _, key := range []uint32{10, 20, 5, 15} {
		insertKey(t, tbl, key)
	}

	for _, key := range []uint32{5, 10, 15, 20} {
		r, ok, err := tbl.Find(key)
		require.NoError(t, err)
		require.True(t, ok, "key %d", key)
		assert.Equal(t, key, r.ID)
		assert.Equal(t, fmt.Sprintf("user%d", key), r.Username())
	}

	_, ok, err := tbl.Find(99)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []uint32{5, 10, 15, 20}, scanKeys(t, tbl))
	assert.Equal(t, uint32(4), tbl.RowCount())
}

func TestDuplicateKey(t *testing.T) {
	tbl, _ := newTestTable(t)

	insertKey(t, tbl, 7)
	before := scanKeys(t, tbl)

	err := tbl.Insert(testRow(t, 7))
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, before, scanKeys(t, tbl))
	assert.Equal(t, uint32(1), tbl.RowCount())
}

func TestRootSplit(t *testing.T) {
	tbl, _ := newTestTable(t)
	oldRoot := tbl.RootPage()

	for key := uint32(1); key <= LeafMaxCells+1; key++ {
		insertKey(t, tbl, key)
	}

	require.NotEqual(t, oldRoot, tbl.RootPage(), "root split must change the root page")

	rootPage, err := tbl.pager.GetPage(tbl.RootPage())
	require.NoError(t, err)
	root := node(rootPage)
	require.False(t, root.isLeaf())
	require.True(t, root.isRoot())
	require.Equal(t, uint32(1), root.internalNumKeys())

	leftNum := root.internalCellChild(0)
	rightNum := root.internalRightChild()

	leftPage, err := tbl.pager.GetPage(leftNum)
	require.NoError(t, err)
	left := node(leftPage)
	rightPage, err := tbl.pager.GetPage(rightNum)
	require.NoError(t, err)
	right := node(rightPage)

	assert.Equal(t, uint32(leafLeftSplitCount), left.leafNumCells())
	assert.Equal(t, uint32(leafRightSplitCount), right.leafNumCells())
	assert.Equal(t, left.leafKey(left.leafNumCells()-1), root.internalKey(0),
		"separator must be the left leaf's max key")
	assert.Equal(t, rightNum, left.leafNextLeaf())
	assert.Equal(t, uint32(0), right.leafNextLeaf())
	assert.Equal(t, tbl.RootPage(), left.parent())
	assert.Equal(t, tbl.RootPage(), right.parent())

	want := make([]uint32, 0, LeafMaxCells+1)
	for key := uint32(1); key <= LeafMaxCells+1; key++ {
		want = append(want, key)
	}
	assert.Equal(t, want, scanKeys(t, tbl))
}

func TestScanOrderManyInserts(t *testing.T) {
	tbl, _ := newTestTable(t)

	const n = 200
	for _, key := range shuffledKeys(n) {
		insertKey(t, tbl, key)
	}

	keys := scanKeys(t, tbl)
	require.Len(t, keys, n)
	for i, key := range keys {
		require.Equal(t, uint32(i), key)
	}
	assert.Equal(t, uint32(n), tbl.RowCount())

	for key := uint32(0); key < n; key++ {
		r, ok, err := tbl.Find(key)
		require.NoError(t, err)
		require.True(t, ok, "key %d", key)
		require.Equal(t, key, r.ID)
	}
}

// checkSubtree walks the tree verifying the parent-pointer and
// separator invariants, returning the subtree's max key.
func checkSubtree(t *testing.T, tbl *Table, pageNum, wantParent uint32) uint32 {
	t.Helper()
	page, err := tbl.pager.GetPage(pageNum)
	require.NoError(t, err)
	n := node(page)
	require.Equal(t, wantParent, n.parent(), "parent pointer of page %d", pageNum)

	if n.isLeaf() {
		cells := n.leafNumCells()
		require.NotZero(t, cells, "leaf %d must not be empty", pageNum)
		for i := uint32(1); i < cells; i++ {
			require.Less(t, n.leafKey(i-1), n.leafKey(i), "leaf %d keys must increase", pageNum)
		}
		return n.leafKey(cells - 1)
	}

	numKeys := n.internalNumKeys()
	require.NotZero(t, numKeys)
	var prev uint32
	for i := uint32(0); i < numKeys; i++ {
		childMax := checkSubtree(t, tbl, n.internalCellChild(i), pageNum)
		require.Equal(t, n.internalKey(i), childMax, "separator %d of page %d", i, pageNum)
		if i > 0 {
			require.Less(t, prev, n.internalKey(i), "separators of page %d must increase", pageNum)
		}
		prev = n.internalKey(i)
	}
	rightMax := checkSubtree(t, tbl, n.internalRightChild(), pageNum)
	require.Less(t, prev, rightMax, "rightmost subtree of page %d must exceed the last separator", pageNum)
	return rightMax
}

func TestTreeInvariantsAfterManyInserts(t *testing.T) {
	tbl, _ := newTestTable(t)

	for _, key := range shuffledKeys(300) {
		insertKey(t, tbl, key)
	}

	max := checkSubtree(t, tbl, tbl.RootPage(), 0)
	assert.Equal(t, uint32(299), max)

	rootPage, err := tbl.pager.GetPage(tbl.RootPage())
	require.NoError(t, err)
	assert.True(t, node(rootPage).isRoot())
}

func TestPersistence(t *testing.T) {
	tbl, path := newTestTable(t)

	const n = 100
	for _, key := range shuffledKeys(n) {
		insertKey(t, tbl, key)
	}
	rootBefore := tbl.RootPage()
	require.NoError(t, tbl.Close())

	reopened, err := Open(path, 16)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, rootBefore, reopened.RootPage())
	assert.Equal(t, uint32(n), reopened.RowCount())
	for key := uint32(0); key < n; key++ {
		_, ok, err := reopened.Find(key)
		require.NoError(t, err)
		require.True(t, ok, "key %d missing after reopen", key)
	}
	keys := scanKeys(t, reopened)
	require.Len(t, keys, n)
	for i, key := range keys {
		require.Equal(t, uint32(i), key)
	}
}

func TestDumpRendersTree(t *testing.T) {
	tbl, _ := newTestTable(t)
	for key := uint32(1); key <= LeafMaxCells+1; key++ {
		insertKey(t, tbl, key)
	}

	var sb strings.Builder
	require.NoError(t, tbl.Dump(&sb))
	out := sb.String()
	assert.Contains(t, out, "internal page")
	assert.Contains(t, out, "leaf page")
	assert.Contains(t, out, "separator 7")
}
