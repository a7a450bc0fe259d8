package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
)

// LocalFileSystem stores objects under a base folder on local disk.
type LocalFileSystem struct {
	Folder string
}

// NewFileSystem creates the base folder if needed.
func NewFileSystem(folder string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve storage folder: %w", err)
	}
	if err := os.MkdirAll(abs, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create storage folder: %w", err)
	}
	return &LocalFileSystem{Folder: abs}, nil
}

// GetFullPath maps an object key to a path inside Folder. Keys that try to
// climb out of Folder are pinned to its root.
func (fs *LocalFileSystem) GetFullPath(p string) string {
	clean := filepath.Clean("/" + strings.TrimPrefix(p, fs.Folder))
	return filepath.Join(fs.Folder, clean)
}

func (fs *LocalFileSystem) Get(p string) (*os.File, error) {
	return os.Open(fs.GetFullPath(p))
}

func (fs *LocalFileSystem) GetStream(p string) (io.ReadCloser, error) {
	return os.Open(fs.GetFullPath(p))
}

func (fs *LocalFileSystem) Put(p string, r io.Reader) (*oss.Object, error) {
	fp := fs.GetFullPath(p)
	if err := os.MkdirAll(filepath.Dir(fp), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create directories for %s: %w", p, err)
	}

	dst, err := os.Create(fp)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return &oss.Object{Path: p, Name: filepath.Base(p), StorageInterface: fs}, nil
}

func (fs *LocalFileSystem) Delete(p string) error {
	return os.Remove(fs.GetFullPath(p))
}

func (fs *LocalFileSystem) List(p string) ([]*oss.Object, error) {
	var objects []*oss.Object
	root := fs.GetFullPath(p)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		mt := info.ModTime()
		objects = append(objects, &oss.Object{
			Path:             strings.TrimPrefix(path, fs.Folder),
			Name:             info.Name(),
			LastModified:     &mt,
			StorageInterface: fs,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return objects, nil
}

// GetEndpoint is "/" for local storage.
func (fs *LocalFileSystem) GetEndpoint() string {
	return "/"
}

// GetURL returns the key itself; downloads are served through the API.
func (fs *LocalFileSystem) GetURL(p string) (string, error) {
	return p, nil
}
