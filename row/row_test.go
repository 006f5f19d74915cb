package row

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowRoundTrip(t *testing.T) {
	r, err := New("1", "user1", "person1@example.com")
	require.NoError(t, err)

	buf := make([]byte, Size)
	r.Serialize(buf)

	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got.ID)
	assert.Equal(t, "user1", got.Username())
	assert.Equal(t, "person1@example.com", got.Email())
	assert.Equal(t, "(1, user1, person1@example.com)", got.String())
}

func TestRowMaxLengthFields(t *testing.T) {
	username := strings.Repeat("a", UsernameSize)
	email := strings.Repeat("b", EmailSize)

	r, err := New("42", username, email)
	require.NoError(t, err)

	buf := make([]byte, Size)
	r.Serialize(buf)
	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, username, got.Username())
	assert.Equal(t, email, got.Email())
}

func TestRowStringTooLong(t *testing.T) {
	_, err := New("1", strings.Repeat("a", UsernameSize+1), "x@y.z")
	assert.ErrorIs(t, err, ErrStringTooLong)

	_, err = New("1", "user", strings.Repeat("b", EmailSize+1))
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestRowInvalidID(t *testing.T) {
	for _, id := range []string{"-1", "abc", "", "4294967296"} {
		_, err := New(id, "user", "x@y.z")
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
}

func TestRowCorruptPadding(t *testing.T) {
	r, err := New("7", "short", "s@example.com")
	require.NoError(t, err)

	buf := make([]byte, Size)
	r.Serialize(buf)
	// Garbage after the username's NUL padding cannot come from the
	// codec.
	buf[IDSize+UsernameSize-1] = 'x'

	_, err = Deserialize(buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRowDeserializeShortBuffer(t *testing.T) {
	_, err := Deserialize(make([]byte, Size-1))
	assert.ErrorIs(t, err, ErrCorrupt)
}
