package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/projectflow/config"
)

func TestFileSystemRoundTrip(t *testing.T) {
	fs, err := NewFileSystem(t.TempDir())
	require.NoError(t, err)

	obj, err := fs.Put("projects/1/report.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report.txt", obj.Name)

	rc, err := fs.GetStream("projects/1/report.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	objects, err := fs.List("projects")
	require.NoError(t, err)
	assert.Len(t, objects, 1)

	require.NoError(t, fs.Delete("projects/1/report.txt"))
	_, err = os.Stat(fs.GetFullPath("projects/1/report.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileSystemKeepsKeysInsideFolder(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSystem(dir)
	require.NoError(t, err)

	full := fs.GetFullPath("../../etc/passwd")
	assert.True(t, strings.HasPrefix(full, fs.Folder+string(filepath.Separator)))
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(config.StorageConfig{Provider: "floppy"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Provider: "minio", Bucket: "b", ID: "id", Secret: "s"})
	assert.Error(t, err)

	s, err := New(config.StorageConfig{Provider: "filesystem", Bucket: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/", s.GetEndpoint())
}
