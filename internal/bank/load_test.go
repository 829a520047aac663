package bank_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/testgen-lite/testgen/internal/bank"
)

func TestLoadValidBank(t *testing.T) {
	defs, err := bank.Load(strings.NewReader(`[
		{"id":"Q1","text":"2+2=?","solution":"4","points":1},
		{"id":"Q2","static":false,"variants":[{"text":"a"},{"text":"b"}]}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d questions, want 2", len(defs))
	}
	if defs[1].Static {
		t.Error("Q2 should be dynamic")
	}
}

func TestLoadRejectsNonArray(t *testing.T) {
	_, err := bank.Load(strings.NewReader(`{"id":"Q1"}`))
	var le *bank.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := bank.Load(strings.NewReader(`[{"id":`))
	var le *bank.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := bank.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	var le *bank.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if le.Path == "" {
		t.Error("LoadError should carry the file path")
	}
}

func TestLoadFileValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	if err := os.WriteFile(path, []byte(`[{"id":"Q1","text":"x"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	defs, err := bank.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 || defs[0].ID != "Q1" {
		t.Fatalf("defs = %+v", defs)
	}
}
