package store

// This file contains loading and saving of the JSON data document.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qadesk/qadesk/model"
)

// DefaultDataFile is the file name used when no data path is configured.
const DefaultDataFile = "qa_data_gui.json"

// Load reads the data document at path. A missing file yields an empty
// document rather than an error.
func Load(path string) (model.Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Empty(), nil
	}
	if err != nil {
		return model.Data{}, fmt.Errorf("failed to read data file: %w", err)
	}

	var data model.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.Data{}, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	data.Normalize()

	return data, nil
}

// Save writes the complete document to path, replacing any previous
// content. The file is written next to its destination first and renamed
// into place.
func Save(path string, data model.Data) error {
	data.Normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	return nil
}
