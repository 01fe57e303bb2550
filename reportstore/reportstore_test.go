package reportstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunyield-coop/libsunyield-go/commitment"
)

func TestPutGet_RoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	report := []byte("period 2025-07: 412 kWh exported, net 100000")
	digest, err := s.Put(report)
	require.NoError(t, err)
	assert.Equal(t, commitment.New(report), digest)

	got, err := s.Get(digest)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	ok, err := s.Has(digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPut_Idempotent(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	report := []byte("same bytes")
	first, err := s.Put(report)
	require.NoError(t, err)
	second, err := s.Put(report)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	digests, err := s.List()
	require.NoError(t, err)
	assert.Len(t, digests, 1)
}

func TestPut_Empty(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(nil)
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestGet_NotFound(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(commitment.New([]byte("never stored")))
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Has(commitment.New([]byte("never stored")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewStore_EmptyDir(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, ErrInvalidBaseDir)
}

func TestList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	want := make(map[commitment.Commitment]bool)
	for _, report := range []string{"jan", "feb", "mar"} {
		d, err := s.Put([]byte(report))
		require.NoError(t, err)
		want[d] = true
	}

	digests, err := s.List()
	require.NoError(t, err)
	require.Len(t, digests, len(want))
	for _, d := range digests {
		assert.True(t, want[d])
	}
}
