package query

// State is the ephemeral per-view query state: active filter, sort
// direction and pagination. It is never persisted.
//
// The page index is reset to 1 whenever the filter or the page size
// changes, since either can shrink the result set and strand the view
// past the last page.
//
// The JSON handlers are stateless and re-derive their parameters per
// request; State codifies the reset contract for UI drivers that hold
// query state across interactions.
type State[F any] struct {
	Filter F
	Sort   Direction
	Page   int
	Size   int
}

// NewState returns a State on page 1 with the given page size.
func NewState[F any](size int) State[F] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return State[F]{Sort: Desc, Page: 1, Size: size}
}

// SetFilter replaces the filter and resets to the first page.
func (s *State[F]) SetFilter(f F) {
	s.Filter = f
	s.Page = 1
}

// SetSize changes the page size and resets to the first page.
func (s *State[F]) SetSize(size int) {
	if size > 0 {
		s.Size = size
	}
	s.Page = 1
}

// SetPage moves to the given 1-based page. Values below 1 are clamped.
func (s *State[F]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// SetSort changes the sort direction without touching pagination.
func (s *State[F]) SetSort(dir Direction) {
	if dir == Asc || dir == Desc {
		s.Sort = dir
	}
}
