package statement

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinytable/btree"
	"tinytable/row"
)

func TestPrepareSelect(t *testing.T) {
	s, err := Prepare("select")
	require.NoError(t, err)
	assert.Equal(t, Select, s.Kind)

	_, err = Prepare("select extra")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestPrepareInsert(t *testing.T) {
	s, err := Prepare("insert 1 user1 person1@example.com")
	require.NoError(t, err)
	assert.Equal(t, Insert, s.Kind)
	assert.Equal(t, uint32(1), s.Row.ID)
	assert.Equal(t, "user1", s.Row.Username())
	assert.Equal(t, "person1@example.com", s.Row.Email())
}

func TestPrepareInsertArity(t *testing.T) {
	for _, line := range []string{"insert", "insert 1", "insert 1 user", "insert 1 a b c"} {
		_, err := Prepare(line)
		assert.ErrorIs(t, err, ErrSyntax, "line %q", line)
	}
}

func TestPrepareUnrecognized(t *testing.T) {
	_, err := Prepare("delete 1")
	assert.ErrorIs(t, err, ErrUnrecognized)
	assert.Contains(t, err.Error(), "delete")
}

func TestPrepareEmptyLine(t *testing.T) {
	for _, line := range []string{"", "   "} {
		_, err := Prepare(line)
		assert.ErrorIs(t, err, ErrSyntax, "line %q", line)
	}
}

func TestPrepareRowValidation(t *testing.T) {
	long := strings.Repeat("a", row.UsernameSize+1)
	_, err := Prepare("insert 1 " + long + " x@y.z")
	assert.ErrorIs(t, err, row.ErrStringTooLong)

	_, err = Prepare("insert -1 user x@y.z")
	assert.ErrorIs(t, err, row.ErrInvalidID)
}

func newTestTable(t *testing.T) *btree.Table {
	t.Helper()
	tbl, err := btree.Open(filepath.Join(t.TempDir(), "test.db"), 16)
	require.NoError(t, err)
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func mustExecute(t *testing.T, tbl *btree.Table, line string) string {
	t.Helper()
	s, err := Prepare(line)
	require.NoError(t, err)
	var out strings.Builder
	require.NoError(t, Execute(s, tbl, &out))
	return out.String()
}

func TestExecuteInsertAndSelect(t *testing.T) {
	tbl := newTestTable(t)

	mustExecute(t, tbl, "insert 2 user2 person2@example.com")
	mustExecute(t, tbl, "insert 1 user1 person1@example.com")

	out := mustExecute(t, tbl, "select")
	assert.Equal(t, "(1, user1, person1@example.com)\n(2, user2, person2@example.com)\n", out)
}

func TestExecuteDuplicateKey(t *testing.T) {
	tbl := newTestTable(t)
	mustExecute(t, tbl, "insert 1 user1 person1@example.com")

	s, err := Prepare("insert 1 other other@example.com")
	require.NoError(t, err)
	err = Execute(s, tbl, &strings.Builder{})
	assert.ErrorIs(t, err, btree.ErrDuplicateKey)

	out := mustExecute(t, tbl, "select")
	assert.Equal(t, "(1, user1, person1@example.com)\n", out)
}

func TestExecuteSelectEmptyTable(t *testing.T) {
	tbl := newTestTable(t)
	assert.Empty(t, mustExecute(t, tbl, "select"))
}
