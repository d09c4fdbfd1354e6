package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"creditlens/internal/sheets"
)

// Store keeps statement grids in memory, keyed by slash-separated reference.
// Siblings follow the filesystem rule: same directory, same extension.
type Store struct {
	mu    sync.RWMutex
	grids map[string][][]string
	fail  map[string]error
}

func New(grids map[string][][]string) *Store {
	s := &Store{grids: map[string][][]string{}, fail: map[string]error{}}
	for ref, g := range grids {
		s.Put(ref, g)
	}
	return s
}

// Put stores a copy of grid under ref.
func (s *Store) Put(ref string, grid [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[ref] = cloneGrid(grid)
	delete(s.fail, ref)
}

// Fail makes reads of ref return err while keeping ref listed as a sibling.
func (s *Store) Fail(ref string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grids[ref]; !ok {
		s.grids[ref] = nil
	}
	s.fail[ref] = err
}

func (s *Store) ReadGrid(ctx context.Context, ref string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.fail[ref]; ok {
		return nil, err
	}
	g, ok := s.grids[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheets.ErrNotFound, ref)
	}
	return cloneGrid(g), nil
}

func (s *Store) ListSiblings(ctx context.Context, ref string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, ext := path.Dir(ref), strings.ToLower(path.Ext(ref))

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k := range s.grids {
		if k == ref || path.Dir(k) != dir || strings.ToLower(path.Ext(k)) != ext {
			continue
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		if _, ok := s.grids[ref]; !ok {
			return nil, fmt.Errorf("%w: %s", sheets.ErrNotFound, dir)
		}
	}
	sort.Strings(out)
	return out, nil
}

func cloneGrid(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
