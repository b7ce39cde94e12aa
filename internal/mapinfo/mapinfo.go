// Package mapinfo reads per-map metadata files and pairs them with their
// map files. Metadata is echoed verbatim into result records, so the raw
// JSON is kept alongside the decoded fields.
package mapinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Info describes one map. PassableTiles and Connected drive scenario
// eligibility; the full metadata document is preserved for echoing.
type Info struct {
	PassableTiles int
	Connected     bool

	raw json.RawMessage
}

// UnmarshalJSON decodes the eligibility fields and keeps the original
// document byte-for-byte.
func (i *Info) UnmarshalJSON(b []byte) error {
	var fields struct {
		PassableTiles int  `json:"passable_tiles"`
		Connected     bool `json:"connected"`
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	i.PassableTiles = fields.PassableTiles
	i.Connected = fields.Connected
	i.raw = append(i.raw[:0], b...)
	return nil
}

// MarshalJSON emits the original metadata document unchanged when one was
// loaded, so downstream records carry fields this package does not model.
func (i Info) MarshalJSON() ([]byte, error) {
	if len(i.raw) > 0 {
		return i.raw, nil
	}
	return json.Marshal(struct {
		PassableTiles int  `json:"passable_tiles"`
		Connected     bool `json:"connected"`
	}{i.PassableTiles, i.Connected})
}

// Load reads one metadata file.
func Load(path string) (Info, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("read map info: %w", err)
	}
	var info Info
	if err := json.Unmarshal(b, &info); err != nil {
		return Info{}, fmt.Errorf("parse map info %s: %w", filepath.Base(path), err)
	}
	return info, nil
}

// Entry pairs a metadata file with its map file. MapMissing is set when no
// matching .map file exists next to the metadata.
type Entry struct {
	Name       string // map base name, without extension
	InfoPath   string
	MapPath    string
	MapMissing bool
	Info       Info
}

// Discover scans dir for *.json metadata files and resolves the matching
// *.map file for each. Entries are returned in name order.
func Discover(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var entries []Entry
	for _, infoPath := range matches {
		name := strings.TrimSuffix(filepath.Base(infoPath), ".json")
		entry := Entry{
			Name:     name,
			InfoPath: infoPath,
			MapPath:  filepath.Join(dir, name+".map"),
		}
		if _, err := os.Stat(entry.MapPath); err != nil {
			entry.MapPath = ""
			entry.MapMissing = true
			entries = append(entries, entry)
			continue
		}
		info, err := Load(infoPath)
		if err != nil {
			return nil, err
		}
		entry.Info = info
		entries = append(entries, entry)
	}
	return entries, nil
}
