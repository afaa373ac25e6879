// Package persist stores small state values in JSON or YAML files.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown persistence format")

// Format is a file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	dirPerm    = 0o755
	jsonIndent = "  "
	yamlIndent = 2
)

// ParseFormat resolves a format name; "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes v to w, indented for people editing the file by hand.
func (f Format) Encode(w io.Writer, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", jsonIndent)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Decode reads one document from r into v.
func (f Format) Decode(r io.Reader, v any) error {
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("json decode: %w", err)
		}

		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("yaml decode: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// File is one state value of type T kept at Dir/Name.<ext>.
type File[T any] struct {
	Dir    string
	Name   string
	Format Format
}

// Path returns the location of the file.
func (f File[T]) Path() string {
	return filepath.Join(f.Dir, f.Name+f.Format.Extension())
}

// Load reads the stored value. A missing file yields an error matching
// fs.ErrNotExist.
func (f File[T]) Load() (T, error) {
	var value T

	file, err := os.Open(f.Path())
	if err != nil {
		return value, fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	if err := f.Format.Decode(file, &value); err != nil {
		return value, fmt.Errorf("decode %s: %w", f.Path(), err)
	}

	return value, nil
}

// Save stores value, creating Dir when needed. The file is written to a
// temporary sibling and renamed into place, so readers see either the old
// or the new content.
func (f File[T]) Save(value T) error {
	if err := os.MkdirAll(f.Dir, dirPerm); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, "."+f.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	encodeErr := f.Format.Encode(tmp, value)
	closeErr := tmp.Close()

	if err := errors.Join(encodeErr, closeErr); err != nil {
		return errors.Join(fmt.Errorf("encode state: %w", err), os.Remove(tmp.Name()))
	}

	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return errors.Join(fmt.Errorf("replace state file: %w", err), os.Remove(tmp.Name()))
	}

	return nil
}
