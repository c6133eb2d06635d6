package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	t.Run("existing file accepted", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "merged.yml")
		require.NoError(t, os.WriteFile(target, []byte("a: 1"), 0o600))

		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("new file in existing directory accepted", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "new.json")

		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("dot-dot components are cleaned", func(t *testing.T) {
		dir := t.TempDir()
		got, err := SanitizeOutputPath(filepath.Join(dir, "sub", "..", "out.yml"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "out.yml"), got)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := SanitizeOutputPath("")
		assert.Error(t, err)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		_, err := SanitizeOutputPath(filepath.Join(t.TempDir(), "nope", "out.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory rejected", func(t *testing.T) {
		_, err := SanitizeOutputPath(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory")
	})

	t.Run("symlink rejected", func(t *testing.T) {
		dir := t.TempDir()
		real := filepath.Join(dir, "real.yml")
		link := filepath.Join(dir, "link.yml")
		require.NoError(t, os.WriteFile(real, []byte("x"), 0o600))
		require.NoError(t, os.Symlink(real, link))

		_, err := SanitizeOutputPath(link)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}

func TestSanitizeOutputPathFor(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "earth.yml")
	require.NoError(t, os.WriteFile(input, []byte("a: 1"), 0o600))

	t.Run("distinct output accepted", func(t *testing.T) {
		got, err := SanitizeOutputPathFor(filepath.Join(dir, "out.yml"), []string{input})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "out.yml"), got)
	})

	t.Run("input rejected", func(t *testing.T) {
		_, err := SanitizeOutputPathFor(input, []string{filepath.Join(dir, "other.yml"), input})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "would overwrite input file")
	})

	t.Run("unclean spelling of input rejected", func(t *testing.T) {
		_, err := SanitizeOutputPathFor(filepath.Join(dir, "sub", "..", "earth.yml"), []string{input})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "would overwrite input file")
	})
}
