// Package result persists capture-attempt outcomes to a JSON file so
// confirmed handshakes and recovered keys survive across runs.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store persists records to a JSON file, deduplicated by BSSID.
type Store struct {
	path    string
	records []*Record
	mu      sync.RWMutex
}

func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

// Add saves a record, replacing any existing entry for the same BSSID.
// A record never regresses: a cracked entry is not overwritten by an
// uncracked one, and a captured entry is not overwritten by a timed-out
// one.
func (s *Store) Add(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.BSSID == r.BSSID {
			if outcomeRank(existing) > outcomeRank(r) {
				return
			}
			s.records[i] = r
			s.save()
			return
		}
	}

	s.records = append(s.records, r)
	s.save()
}

func outcomeRank(r *Record) int {
	switch {
	case r.Cracked():
		return 2
	case r.Outcome == "captured":
		return 1
	default:
		return 0
	}
}

// All returns all stored records.
func (s *Store) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindByBSSID looks up a record by BSSID.
func (s *Store) FindByBSSID(bssid string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.BSSID == bssid {
			return r
		}
	}
	return nil
}

// Count returns the total number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FormatTable returns a formatted table of stored records.
func (s *Store) FormatTable() string {
	records := s.All()
	if len(records) == 0 {
		return "No recorded sessions.\n"
	}

	out := fmt.Sprintf("  %-19s %-4s %-10s %-20s %s\n",
		"BSSID", "CH", "OUTCOME", "KEY", "CAPTURE")
	out += fmt.Sprintf("  %-19s %-4s %-10s %-20s %s\n",
		"─────", "──", "───────", "───", "───────")

	for _, r := range records {
		key := r.Key
		if key == "" {
			key = "-"
		} else if len(key) > 18 {
			key = key[:18] + ".."
		}
		out += fmt.Sprintf("  %-19s %-4d %-10s %-20s %s\n",
			r.BSSID, r.Channel, r.Outcome, key, r.CapFile)
	}

	return out
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return
	}
	s.records = records
}

func (s *Store) save() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o644)
}
