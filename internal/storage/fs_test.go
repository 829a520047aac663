package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/testgen-lite/testgen/internal/storage"
)

func TestFSStorePutGetRoundTrip(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("sessions/s1/test.md", strings.NewReader("# Test\n"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "sessions/s1/test.md" {
		t.Errorf("key = %q", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Test\n" {
		t.Errorf("data = %q", data)
	}
}

func TestFSStoreGetMissingKey(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("sessions/none/test.md"); err == nil {
		t.Fatal("expected an error for a missing key")
	}
}

func TestFSStoreRejectsEmptyKey(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("", strings.NewReader("x")); err == nil {
		t.Fatal("expected an error for an empty key")
	}
}
