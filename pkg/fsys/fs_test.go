package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSImplementsFS(t *testing.T) {
	var _ FS = OS{}
}

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "franz")

	require.NoError(t, OS{}.WriteFileAtomic(target, []byte("one"), 0o755))
	require.NoError(t, OS{}.WriteFileAtomic(target, []byte("two"), 0o755))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_MissingDirLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "missing", "franz")

	err := OS{}.WriteFileAtomic(target, []byte("x"), 0o755)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteTemp(t *testing.T) {
	dir := t.TempDir()

	first, err := OS{}.WriteTemp(dir, "franz-verify-*.franz", []byte(`SAY "hi"`))
	require.NoError(t, err)
	second, err := OS{}.WriteTemp(dir, "franz-verify-*.franz", []byte(`SAY "hi"`))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".franz"))
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, `SAY "hi"`, string(data))
}

func TestWritable(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, OS{}.Writable(dir))
	assert.False(t, OS{}.Writable(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.False(t, OS{}.Writable(file), "a regular file is not a writable directory")
}

func TestWritable_ReadOnlyDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root or on windows")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	assert.False(t, OS{}.Writable(dir))
}

func TestIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, IsFile(OS{}, file))
	assert.False(t, IsFile(OS{}, dir))
	assert.False(t, IsFile(OS{}, filepath.Join(dir, "nope")))
}

func TestDescribe(t *testing.T) {
	assert.Contains(t, Describe(fs.ErrPermission), "permission denied")
	assert.Contains(t, Describe(fs.ErrNotExist), "not found")
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
