package credential

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Token(t *testing.T) {
	t.Run("returns contents verbatim", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.txt")
		require.NoError(t, os.WriteFile(path, []byte("secret-token\n"), 0o600))

		tok, err := NewFile(path).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret-token\n", tok)
	})

	t.Run("reads fresh on every call", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.txt")
		require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))
		src := NewFile(path)

		tok, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "one", tok)

		require.NoError(t, os.WriteFile(path, []byte("two"), 0o600))
		tok, err = src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "two", tok)
	})

	t.Run("missing file is ErrUnavailable", func(t *testing.T) {
		_, err := NewFile(filepath.Join(t.TempDir(), "nope.txt")).Token(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run("empty path is ErrUnavailable", func(t *testing.T) {
		_, err := NewFile("").Token(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestStatic_Token(t *testing.T) {
	tok, err := Static("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
