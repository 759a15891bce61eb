package dislikes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the persisted file: an object of name -> true.
const documentSchema = `{
	"type": "object",
	"additionalProperties": {"type": "boolean"}
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// FileStore keeps the dislike set in a JSON file. Writes replace the whole
// file in place; a crash mid-write can leave it truncated.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load reads the file. A missing file is an empty set; anything that is not
// a JSON object of booleans fails with ErrMalformed.
func (f *FileStore) Load() (Set, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("dislikes: read %s: %w", f.path, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}

	set := Set{}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}
	return set, nil
}

// Save writes the set as an indented JSON object.
func (f *FileStore) Save(s Set) error {
	if s == nil {
		s = Set{}
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("dislikes: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("dislikes: encode: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("dislikes: write %s: %w", f.path, err)
	}
	return nil
}

func validateDocument(data []byte) error {
	if !json.Valid(data) {
		return errors.New("invalid JSON")
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	if len(errs) > 3 {
		errs = append(errs[:3], fmt.Sprintf("... and %d more", len(errs)-3))
	}
	return errors.New(strings.Join(errs, "; "))
}
