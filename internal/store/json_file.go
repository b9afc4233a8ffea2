package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// JsonFile stores links as a pretty printed JSON array. Every flush rewrites
// the whole file through a temporary file renamed over the target.
type JsonFile struct {
	path   string
	links  []string
	logger *zap.Logger
}

func NewJsonFile(path string, logger *zap.Logger) *JsonFile {
	return &JsonFile{
		path:   path,
		links:  make([]string, 0),
		logger: logger,
	}
}

func (store *JsonFile) Load() ([]string, error) {
	content, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		store.logger.Info("[store] -> Sent items file not found, starting empty.", zap.String("path", store.path))
		store.links = make([]string, 0)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[store] read %s: %w", store.path, err)
	}

	links := make([]string, 0)
	if err = json.Unmarshal(content, &links); err != nil {
		return nil, fmt.Errorf("[store] decode %s: %w", store.path, err)
	}

	store.links = links
	return append([]string(nil), links...), nil
}

func (store *JsonFile) Append(links ...string) {
	store.links = append(store.links, links...)
}

func (store *JsonFile) Flush() error {
	var content bytes.Buffer
	encoder := json.NewEncoder(&content)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(store.links); err != nil {
		return fmt.Errorf("[store] encode: %w", err)
	}

	if err := writeFileAtomic(store.path, content.Bytes()); err != nil {
		return fmt.Errorf("[store] write %s: %w", store.path, err)
	}
	store.logger.Debug("[store] -> Sent items saved.", zap.Int("links", len(store.links)))
	return nil
}

func (store *JsonFile) Close() error {
	return nil
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
