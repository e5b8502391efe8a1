package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/solari/internal/model"
)

// AddCategory registers a new category and returns it with its assigned
// id. The name is trimmed and clipped to model.MaxCategoryName bytes; a
// name empty after trimming fails with ErrValidation.
func (s *Store) AddCategory(name string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = model.Clip(strings.TrimSpace(name), model.MaxCategoryName)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	c := model.Category{ID: s.nextCategoryID, Name: name}
	s.nextCategoryID++
	s.categories = append(s.categories, c)
	return c, nil
}

// RenameCategory replaces a category's name. A replacement empty after
// trimming keeps the old name (blank means keep, as in every edit).
func (s *Store) RenameCategory(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	name = model.Clip(strings.TrimSpace(name), model.MaxCategoryName)
	if name == "" {
		return nil
	}
	s.categories[i].Name = name
	return nil
}

// RemoveCategory deletes a category no transaction references. Removal
// swaps the last element into the gap, so enumeration order after a
// removal is unspecified; the id, not the position, is the stable handle.
// Budget entries for the category are left behind and surface as orphans
// in reports.
func (s *Store) RemoveCategory(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	if s.referencesCategory(id) {
		return fmt.Errorf("%w: category %d is referenced by transactions", ErrReferentialIntegrity, id)
	}
	last := len(s.categories) - 1
	s.categories[i] = s.categories[last]
	s.categories = s.categories[:last]
	return nil
}

// GetCategory returns the category with the given id.
func (s *Store) GetCategory(id int) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.categoryIndex(id); i >= 0 {
		return s.categories[i], true
	}
	return model.Category{}, false
}

// CategoryExists reports whether a category id is registered.
func (s *Store) CategoryExists(id int) bool {
	_, ok := s.GetCategory(id)
	return ok
}

// Categories returns a copy of the registry in its current order:
// insertion order until a removal compacts it.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// categoryIndex returns the slice position of id, or -1. Caller holds the
// lock.
func (s *Store) categoryIndex(id int) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

// categoryIDByFold returns the first category whose name matches under
// case folding. Caller holds the lock.
func (s *Store) categoryIDByFold(name string) (int, bool) {
	for i := range s.categories {
		if strings.EqualFold(s.categories[i].Name, name) {
			return s.categories[i].ID, true
		}
	}
	return 0, false
}
