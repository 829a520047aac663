package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadError reports an unreadable or malformed bank file. Callers degrade to
// an empty bank rather than aborting.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load question bank: %v", e.Err)
	}
	return fmt.Sprintf("load question bank %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load decodes a JSON array of question definitions.
func Load(r io.Reader) ([]QuestionDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return decode(data, "")
}

// LoadFile reads and decodes a bank file.
func LoadFile(path string) ([]QuestionDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return decode(data, path)
}

func decode(data []byte, path string) ([]QuestionDefinition, error) {
	// Reject non-array top levels explicitly; a JSON object would otherwise
	// decode into zero questions without complaint.
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if _, ok := probe.([]interface{}); !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("top-level value must be an array of questions")}
	}
	var defs []QuestionDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return defs, nil
}
