package emit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrSchema is returned when stored payloads were written by another
// schema version.
var ErrSchema = errors.New("emit: payload schema mismatch")

// Encode writes payloads as one msgpack array.
func Encode(w io.Writer, payloads []Payload) error {
	if payloads == nil {
		payloads = []Payload{}
	}
	return msgpack.NewEncoder(w).Encode(payloads)
}

// Decode reads what Encode wrote.
func Decode(r io.Reader) ([]Payload, error) {
	var out []Payload
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	for _, p := range out {
		if p.Schema != SchemaVersion {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
		}
	}
	return out, nil
}

// WriteFile stores payloads at path, replacing it atomically.
func WriteFile(path string, payloads []Payload) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := Encode(f, payloads); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), path)
}

// ReadFile loads payloads stored by WriteFile.
func ReadFile(path string) ([]Payload, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
