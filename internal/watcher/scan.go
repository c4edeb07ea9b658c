package watcher

import (
	"os"
)

// scanner remembers the entry names of each directory between polls.
type scanner struct {
	seen map[string]map[string]struct{}
}

func newScanner() *scanner {
	return &scanner{seen: make(map[string]map[string]struct{})}
}

// scan lists dir and reports whether it holds a name the previous scan did
// not see. The first scan of a directory only records a baseline.
func (s *scanner) scan(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}

	prev, known := s.seen[dir]
	s.seen[dir] = names
	if !known {
		return false, nil
	}
	for n := range names {
		if _, ok := prev[n]; !ok {
			return true, nil
		}
	}
	return false, nil
}

// forget drops directories no longer watched.
func (s *scanner) forget(keep []string) {
	want := make(map[string]struct{}, len(keep))
	for _, d := range keep {
		want[d] = struct{}{}
	}
	for d := range s.seen {
		if _, ok := want[d]; !ok {
			delete(s.seen, d)
		}
	}
}
