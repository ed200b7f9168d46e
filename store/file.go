package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// FileStore keeps every key in a single JSON object on disk. Writes go to a
// temporary file first and are renamed into place.
type FileStore struct {
	path     string
	readFile func(name string) ([]byte, error)
	mutex    sync.Mutex
}

// errCorruptFile marks a file that was read but does not decode.
var errCorruptFile = errors.New("not a key/value object")

// NewFileStore creates a file store at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &FileStore{path: path, readFile: os.ReadFile}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves the value for key.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, found := values[key]
	return value, found, nil
}

// Set stores value under key.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	values, err := s.read()
	if errors.Is(err, errCorruptFile) {
		// a corrupt file is replaced rather than blocking every write
		values = make(map[string]string)
	} else if err != nil {
		return err
	}
	values[key] = value

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cardcounter-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := s.readFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s is %w: %v", ErrStorageUnavailable, s.path, errCorruptFile, err)
	}
	return values, nil
}
