package mapinfo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKeepsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maze.json")
	src := `{"passable_tiles": 1200, "connected": true, "width": 64, "height": 64}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.PassableTiles != 1200 || !info.Connected {
		t.Fatalf("unexpected fields: %+v", info)
	}

	out, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var echoed map[string]any
	if err := json.Unmarshal(out, &echoed); err != nil {
		t.Fatalf("unmarshal echo: %v", err)
	}
	if echoed["width"] != float64(64) {
		t.Fatalf("extra field dropped on echo: %v", echoed)
	}
}

func TestDiscoverPairsMapFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json":    `{"passable_tiles": 10, "connected": true}`,
		"a.map":     "",
		"lost.json": `{"passable_tiles": 10, "connected": true}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "a" || entries[0].MapMissing {
		t.Fatalf("entry a wrong: %+v", entries[0])
	}
	if entries[0].Info.PassableTiles != 10 {
		t.Fatalf("entry a info not loaded: %+v", entries[0].Info)
	}
	if entries[1].Name != "lost" || !entries[1].MapMissing {
		t.Fatalf("entry lost should be flagged missing: %+v", entries[1])
	}
}
