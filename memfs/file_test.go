package memfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasivm/wasihost"
	"github.com/wasivm/wasihost/volume"
)

// PathRename across two Files backed by different volumes must be rejected:
// the fd-table dispatch in wasi.go only ever resolves both path arguments
// against descriptors of the same System, so this branch can't be reached
// through the public wasi.System surface and is exercised directly instead.
func TestFilePathRenameAcrossVolumesRejected(t *testing.T) {
	ctx := context.Background()

	sysA := NewSystem(volume.New(nil))
	sysB := NewSystem(volume.New(nil))

	require.NoError(t, sysA.vol.Mkdir("/dir"))
	rootA := newFile(sysA, "/", true)
	rootB := newFile(sysB, "/", true)

	errno := rootA.PathRename(ctx, "dir", rootB, "dir")
	assert.Equal(t, wasi.EXDEV, errno)
}
