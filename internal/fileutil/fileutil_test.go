package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/datafile/dferrors"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	got, err := Resolve(dir, "planets/mars.yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "planets", "mars.yml"), got)

	got, err = Resolve("/ignored", filepath.Join(dir, "a", "..", "b.yml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.yml"), got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = Resolve("", "x.yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "x.yml"), got)
}

func TestReadLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), ReadableByAll))

	data, err := ReadLimited(path, 10)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	data, err = ReadLimited(path, 0)
	require.NoError(t, err)
	assert.Len(t, data, 10)

	_, err = ReadLimited(path, 9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dferrors.ErrResourceLimit))

	_, err = ReadLimited(filepath.Join(dir, "missing.txt"), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dferrors.ErrIO))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, Write(path, []byte("hello"), 0))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ReadableByAll, info.Mode().Perm())

	err = Write(filepath.Join(dir, "missing", "out.txt"), []byte("x"), OwnerReadWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dferrors.ErrIO))
}
