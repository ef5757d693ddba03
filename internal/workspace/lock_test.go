package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLock(t *testing.T, root, content string) {
	t.Helper()
	path := filepath.Join(root, LockRelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadLock_Valid(t *testing.T) {
	root := t.TempDir()
	writeLock(t, root, `{
		"pdf-tools": {"version": "1.2.0", "source": "clawhub"},
		"charting": {}
	}`)

	lock := New(root).LoadLock()

	if len(lock) != 2 {
		t.Fatalf("len(lock) = %d, want 2", len(lock))
	}
	if lock["pdf-tools"].Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", lock["pdf-tools"].Version)
	}
	if _, ok := lock["charting"]; !ok {
		t.Error("charting should be present")
	}
}

func TestLoadLock_Missing(t *testing.T) {
	lock := New(t.TempDir()).LoadLock()

	if lock == nil {
		t.Fatal("LoadLock() should never return nil")
	}
	if len(lock) != 0 {
		t.Errorf("len(lock) = %d, want 0", len(lock))
	}
}

func TestLoadLock_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"wrong shape", `["a", "b"]`},
		{"empty file", ""},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeLock(t, root, tt.content)

			lock := New(root).LoadLock()
			if lock == nil {
				t.Fatal("LoadLock() should never return nil")
			}
			if len(lock) != 0 {
				t.Errorf("len(lock) = %d, want 0", len(lock))
			}
		})
	}
}

func TestLockPath(t *testing.T) {
	ws := New("/srv/skills")
	expected := filepath.Join("/srv/skills", ".clawhub", "lock.json")
	if ws.LockPath() != expected {
		t.Errorf("LockPath() = %q, want %q", ws.LockPath(), expected)
	}
}
