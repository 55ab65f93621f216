package cart

import (
	"errors"
	"os"
)

// FileStorage mirrors cart state to a JSON file.
type FileStorage struct {
	Path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

func (f *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileStorage) Save(data []byte) error {
	return os.WriteFile(f.Path, data, 0o644)
}
