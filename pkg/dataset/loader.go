package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// ErrInvalidFile is returned when a dataset file fails schema validation.
var ErrInvalidFile = errors.New("invalid dataset file")

// File is the on-disk layout of a dataset override file.
type File struct {
	Datasets map[ID]Dataset `yaml:"datasets"`
}

// LoadFile reads and validates a YAML dataset file.
func LoadFile(path string) (map[ID]Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a YAML dataset document, validates it against the embedded
// schema and returns the datasets it defines.
func Decode(r io.Reader) (map[ID]Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var doc any

	if unmarshalErr := yaml.Unmarshal(raw, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("parse dataset yaml: %w", unmarshalErr)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFile)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validate dataset file: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, strings.Join(msgs, "; "))
	}

	var file File

	if decodeErr := yaml.Unmarshal(raw, &file); decodeErr != nil {
		return nil, fmt.Errorf("decode dataset file: %w", decodeErr)
	}

	for id, ds := range file.Datasets {
		if validateErr := ds.Validate(); validateErr != nil {
			return nil, fmt.Errorf("dataset %s: %w", id, validateErr)
		}
	}

	return file.Datasets, nil
}

// Encode writes datasets in the file layout accepted by Decode.
func Encode(w io.Writer, sets map[ID]Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(File{Datasets: sets}); err != nil {
		return fmt.Errorf("encode datasets: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush datasets: %w", err)
	}

	return nil
}
