package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type selection struct {
	Active    string   `json:"active"`
	Collapsed []string `json:"collapsed"`
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open missing: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("expected empty store, got %v", s.Keys())
	}

	want := selection{Active: "src/index.js", Collapsed: []string{"src/styles"}}
	if err := s.Set("input:files.json", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got selection
	ok, err := reopened.Get("input:files.json", &got)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Active != want.Active || len(got.Collapsed) != 1 || got.Collapsed[0] != "src/styles" {
		t.Fatalf("unexpected value: %+v", got)
	}

	if ok, _ := reopened.Get("missing", &got); ok {
		t.Fatal("expected missing key")
	}

	if err := reopened.Delete("input:files.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	again, _ := Open(path)
	if len(again.Keys()) != 0 {
		t.Fatalf("expected key deleted, got %v", again.Keys())
	}
}

func TestStoreClearAndKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, _ := Open(path)
	_ = s.Set("b", 1)
	_ = s.Set("a", 2)

	keys := s.Keys()
	if strings.Join(keys, ",") != "a,b" {
		t.Fatalf("Keys = %v", keys)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatal("expected empty after Clear")
	}
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open corrupt: %v", err)
	}
	if s.Corrupt() == nil || !strings.Contains(s.Corrupt().Error(), "parsing state") {
		t.Fatalf("Corrupt() = %v, want parse error", s.Corrupt())
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("expected empty store, got %v", s.Keys())
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Corrupt() != nil {
		t.Fatalf("expected write to reset corruption, got %v", s.Corrupt())
	}
	reopened, err := Open(path)
	if err != nil || reopened.Corrupt() != nil {
		t.Fatalf("reopen = %v, %v", err, reopened.Corrupt())
	}
	var got string
	if ok, _ := reopened.Get("k", &got); !ok || got != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestClearCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := Open(path)
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Fatalf("state file = %q, want {}", data)
	}
}

func TestDeleteMissingKeyRewritesCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("[1,"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := Open(path)
	if err := s.Delete("absent"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if again, _ := Open(path); again.Corrupt() != nil {
		t.Fatalf("expected repaired file, got %v", again.Corrupt())
	}
}

func TestGetTypeMismatch(t *testing.T) {
	s, _ := Open(filepath.Join(t.TempDir(), "state.json"))
	_ = s.Set("k", "a string")
	var n int
	if _, err := s.Get("k", &n); err == nil {
		t.Fatal("expected decode error")
	}
}
