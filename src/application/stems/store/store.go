package store

import (
	"sync"

	"stem-session/src/application/stems/entity"
	"stem-session/src/lib/cerr"
)

type Entry struct {
	Name   string
	Buffer entity.StemBuffer
}

// Store holds the stem set of the current session. The whole set is
// installed in one Replace call per extraction - there is deliberately
// no way to add or remove a single stem. Readers always observe exactly
// one generation, never a mix of two.
type Store struct {
	mu       sync.RWMutex
	snapshot *snapshot
}

type snapshot struct {
	generation uint64
	names      []string
	stems      map[string]entity.StemBuffer
}

func NewStore() *Store {
	return &Store{
		snapshot: &snapshot{
			generation: 0,
			names:      []string{},
			stems:      map[string]entity.StemBuffer{},
		},
	}
}

// Replace discards every previous entry and installs the new set,
// bumping the generation. Entry order is preserved by Names.
func (s *Store) Replace(entries []Entry) error {
	names := make([]string, 0, len(entries))
	stems := make(map[string]entity.StemBuffer, len(entries))

	for _, entry := range entries {
		if _, ok := stems[entry.Name]; ok {
			return cerr.Field("stem_name", entry.Name).Error("Duplicate stem name in replacement set")
		}

		names = append(names, entry.Name)
		stems[entry.Name] = entry.Buffer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = &snapshot{
		generation: s.snapshot.generation + 1,
		names:      names,
		stems:      stems,
	}

	return nil
}

func (s *Store) Get(name string) (entity.StemBuffer, error) {
	snap := s.currentSnapshot()

	stem, ok := snap.stems[name]
	if !ok {
		return entity.StemBuffer{}, cerr.Field("stem_name", name).
			Field("generation", snap.generation).
			Wrap(NotFound).Error("Failed to look up stem")
	}

	return stem, nil
}

// Names returns the stem names of the current generation in backend
// output order.
func (s *Store) Names() []string {
	snap := s.currentSnapshot()

	names := make([]string, len(snap.names))
	copy(names, snap.names)
	return names
}

func (s *Store) Generation() uint64 {
	return s.currentSnapshot().generation
}

func (s *Store) currentSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
