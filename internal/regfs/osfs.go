package regfs

import (
	"os"
	"path/filepath"
)

// OS is an FS backed by the real file system, rooted at Dir.
type OS struct {
	Dir string
}

var _ FS = OS{}

func (o OS) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.Dir, path)
}

func (o OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(o.abs(path))
}

func (o OS) WriteFile(path string, data []byte) error {
	return os.WriteFile(o.abs(path), data, 0o666)
}

func (o OS) Exists(path string) bool {
	_, err := os.Stat(o.abs(path))
	return err == nil
}

func (o OS) IsFile(path string) bool {
	info, err := os.Stat(o.abs(path))
	return err == nil && !info.IsDir()
}

func (o OS) IsDir(path string) bool {
	info, err := os.Stat(o.abs(path))
	return err == nil && info.IsDir()
}

func (o OS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(o.abs(path))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (o OS) MkdirAll(path string) error {
	return os.MkdirAll(o.abs(path), 0o777)
}

func (o OS) RemoveAll(path string) error {
	return os.RemoveAll(o.abs(path))
}
