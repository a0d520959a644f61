package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestManagerPriority(t *testing.T) {
	m := NewManager()
	m.AddRoot(fstest.MapFS{
		"Chest/Chest.png":  {Data: []byte("base")},
		"Chest/Model.json": {Data: []byte("base model")},
	})
	m.AddRoot(fstest.MapFS{
		"Chest/Chest.png": {Data: []byte("override")},
	})

	tests := []struct {
		name string
		want string
	}{
		{"Chest/Chest.png", "override"},
		{"Chest/Model.json", "base model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := m.ReadFile(tt.name)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %q, want %q", data, tt.want)
			}
			via, err := fs.ReadFile(m, tt.name)
			if err != nil || string(via) != tt.want {
				t.Errorf("fs.ReadFile = %q, %v", via, err)
			}
		})
	}

	if _, err := m.Open("missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open missing = %v, want ErrNotExist", err)
	}
}

func TestManagerCache(t *testing.T) {
	root := fstest.MapFS{"a.txt": {Data: []byte("one")}}
	m := NewManager()
	m.AddRoot(root)

	if _, err := m.ReadFile("a.txt"); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	root["a.txt"] = &fstest.MapFile{Data: []byte("two")}

	data, _ := m.ReadFile("a.txt")
	if string(data) != "one" {
		t.Errorf("second read = %q, want cached value", data)
	}
	m.Invalidate("a.txt")
	data, _ = m.ReadFile("a.txt")
	if string(data) != "two" {
		t.Errorf("after invalidate = %q", data)
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}

	m.Close()
	if _, err := m.ReadFile("a.txt"); err == nil {
		t.Error("closed manager should not find files")
	}
}

func TestAddDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.blockymodel"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("AddDir: %v", err)
	}
	if data, err := m.ReadFile("x.blockymodel"); err != nil || string(data) != "{}" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}

	if err := m.AddDir(filepath.Join(dir, "x.blockymodel")); err == nil {
		t.Error("a file is not an asset dir")
	}
	if err := m.AddDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("missing dir should fail")
	}
}
