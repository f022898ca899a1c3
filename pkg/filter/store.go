package filter

import "sync"

// Store owns the facet record, the sort spec and the page number. All reads
// return copies; no caller can mutate the owned state in place. Every
// mutation other than page navigation resets the page to 1.
type Store struct {
	mu    sync.RWMutex
	state State
	spec  SortSpec
	page  int
}

// NewStore returns a store holding the defaults.
func NewStore() *Store {
	return &Store{
		state: DefaultState(),
		spec:  DefaultSortSpec(),
		page:  1,
	}
}

// NewStoreWith seeds the store from a decoded state, sanitizing it first.
func NewStoreWith(state State, spec SortSpec, page int) *Store {
	state.Sanitize()
	if page < 1 {
		page = 1
	}
	return &Store{
		state: state,
		spec:  spec.normalized(),
		page:  page,
	}
}

// Snapshot returns copies of the current state, spec and page.
func (s *Store) Snapshot() (State, SortSpec, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec := make(SortSpec, len(s.spec))
	copy(spec, s.spec)
	return s.state, spec, s.page
}

// Mutate applies fn to the facet record under the lock and resets pagination.
// fn receives a pointer to a copy-safe value; the stored record is replaced
// wholesale so readers holding snapshots are unaffected.
func (s *Store) Mutate(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	fn(&next)
	next.Sanitize()
	s.state = next
	s.page = 1
}

func (s *Store) SetQuery(q string) {
	s.Mutate(func(st *State) { st.Query = q })
}

func (s *Store) SetKind(o Option)  { s.Mutate(func(st *State) { st.Kind = o }) }
func (s *Store) SetType(o Option)  { s.Mutate(func(st *State) { st.Type = o }) }
func (s *Store) SetBrand(o Option) { s.Mutate(func(st *State) { st.Brand = o }) }
func (s *Store) SetModel(o Option) { s.Mutate(func(st *State) { st.Model = o }) }
func (s *Store) SetCity(o Option)  { s.Mutate(func(st *State) { st.City = o }) }

func (s *Store) SetSellerRef(ref string) {
	s.Mutate(func(st *State) { st.SellerRef = ref })
}

func (s *Store) SetProfessionalOnly(v bool) {
	s.Mutate(func(st *State) { st.ProfessionalOnly = v })
}

func (s *Store) SetNewConditionOnly(v bool) {
	s.Mutate(func(st *State) { st.NewConditionOnly = v })
}

func (s *Store) SetPriceMin(v int) { s.Mutate(func(st *State) { st.Price = st.Price.WithMin(v) }) }
func (s *Store) SetPriceMax(v int) { s.Mutate(func(st *State) { st.Price = st.Price.WithMax(v) }) }
func (s *Store) SetYearMin(v int)  { s.Mutate(func(st *State) { st.Year = st.Year.WithMin(v) }) }
func (s *Store) SetYearMax(v int)  { s.Mutate(func(st *State) { st.Year = st.Year.WithMax(v) }) }
func (s *Store) SetMileageMin(v int) {
	s.Mutate(func(st *State) { st.Mileage = st.Mileage.WithMin(v) })
}
func (s *Store) SetMileageMax(v int) {
	s.Mutate(func(st *State) { st.Mileage = st.Mileage.WithMax(v) })
}
func (s *Store) SetDisplacementMin(v int) {
	s.Mutate(func(st *State) { st.Displacement = st.Displacement.WithMin(v) })
}
func (s *Store) SetDisplacementMax(v int) {
	s.Mutate(func(st *State) { st.Displacement = st.Displacement.WithMax(v) })
}

// ToggleSort flips one sort key and resets pagination.
func (s *Store) ToggleSort(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = s.spec.Toggle(key)
	s.page = 1
}

// RemoveSort drops one sort key and resets pagination.
func (s *Store) RemoveSort(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = s.spec.Remove(key)
	s.page = 1
}

// SetPage navigates to page within [1, totalPages]. Out-of-range targets are
// a no-op, not an error, and page navigation never touches the facet record.
func (s *Store) SetPage(page, totalPages int) {
	if page < 1 || page > totalPages {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// Replace swaps in a decoded state wholesale, sanitizing it first. Used when
// the location string (the source of truth) changes underneath the store.
func (s *Store) Replace(state State, spec SortSpec, page int) {
	state.Sanitize()
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.spec = spec.normalized()
	s.page = page
}

// Reset restores every facet default, the recency sort and page 1.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultState()
	s.spec = DefaultSortSpec()
	s.page = 1
}
