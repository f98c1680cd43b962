package volume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasivm/wasihost/volume"
)

func TestMkdirAndStat(t *testing.T) {
	v := volume.New(nil)
	require.NoError(t, v.Mkdir("/dir"))

	e, err := v.Stat("/dir")
	require.NoError(t, err)
	assert.True(t, e.IsDir)

	err = v.Mkdir("/dir")
	assert.ErrorIs(t, err, volume.ErrExist)
}

func TestWritableStreamPublishesOnClose(t *testing.T) {
	v := volume.New(nil)

	s, err := v.CreateWritable("/file.txt", false)
	require.NoError(t, err)

	_, err = v.ReadFile("/file.txt")
	assert.ErrorIs(t, err, volume.ErrNotExist, "content must not be visible before Close")

	_, err = s.Write([]byte("hello"), 0)
	require.NoError(t, err)

	_, err = v.ReadFile("/file.txt")
	assert.ErrorIs(t, err, volume.ErrNotExist, "content must not be visible before Close even after a write")

	require.NoError(t, s.Close())

	data, err := v.ReadFile("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWritableStreamKeepsExistingOnAppend(t *testing.T) {
	v := volume.New(nil)

	s, err := v.CreateWritable("/file.txt", false)
	require.NoError(t, err)
	_, err = s.Write([]byte("hello"), 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := v.CreateWritable("/file.txt", true)
	require.NoError(t, err)
	_, err = s2.Write([]byte("!"), 5)
	require.NoError(t, err)
	require.NoError(t, s2.Close())

	data, err := v.ReadFile("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello!", string(data))
}

func TestRenameOverwritesExistingFile(t *testing.T) {
	v := volume.New(nil)

	a, err := v.CreateWritable("/a", false)
	require.NoError(t, err)
	_, err = a.Write([]byte("aaa"), 0)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := v.CreateWritable("/b", false)
	require.NoError(t, err)
	_, err = b.Write([]byte("bbb"), 0)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	require.NoError(t, v.Rename("/a", "/b"))

	data, err := v.ReadFile("/b")
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(data))

	_, err = v.Stat("/a")
	assert.ErrorIs(t, err, volume.ErrNotExist)
}

func TestRemoveDirRejectsNonEmpty(t *testing.T) {
	v := volume.New(nil)
	require.NoError(t, v.Mkdir("/dir"))

	s, err := v.CreateWritable("/dir/file", false)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = v.RemoveDir("/dir")
	assert.ErrorIs(t, err, volume.ErrNotEmpty)

	require.NoError(t, v.Remove("/dir/file"))
	require.NoError(t, v.RemoveDir("/dir"))
}

func TestRemoveRejectsDirectory(t *testing.T) {
	v := volume.New(nil)
	require.NoError(t, v.Mkdir("/dir"))

	err := v.Remove("/dir")
	assert.ErrorIs(t, err, volume.ErrIsDir)
}

func TestReadDirOrder(t *testing.T) {
	v := volume.New(nil)
	for _, name := range []string{"/c", "/a", "/b"} {
		s, err := v.CreateWritable(name, false)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	entries, err := v.ReadDir("/")
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"c", "a", "b"}, names, "MemMapFs reports children in insertion order")
}

func TestInodesAreStableAcrossRename(t *testing.T) {
	v := volume.New(nil)
	s, err := v.CreateWritable("/old", false)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	before, err := v.Stat("/old")
	require.NoError(t, err)

	require.NoError(t, v.Rename("/old", "/new"))

	after, err := v.Stat("/new")
	require.NoError(t, err)
	assert.Equal(t, before.INode, after.INode)
}
