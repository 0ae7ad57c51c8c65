package catalog

// Query holds the filter, sort and page state of one list view.
// Changing the search text, the brand or the sort order moves back to page 1.
// A Query belongs to a single view and is not safe for concurrent use.
type Query struct {
	params Params
}

// NewQuery returns a query on page 1 with no filters.
func NewQuery(pageSize int) *Query {
	q := &Query{}
	q.params.PageSize = pageSize
	q.Reset()
	return q
}

// Params returns the current parameters.
func (q *Query) Params() Params {
	return q.params
}

func (q *Query) SetSearch(search string) {
	q.params.Search = search
	q.params.Page = 1
}

// SetBrand sets the exact brand filter; an empty brand means AllBrands.
func (q *Query) SetBrand(brand string) {
	if brand == "" {
		brand = AllBrands
	}
	q.params.Brand = brand
	q.params.Page = 1
}

func (q *Query) SetSort(key SortKey, dir Direction) {
	q.params.SortKey = key
	q.params.Direction = dir
	q.params.Page = 1
}

// SetPage moves to page n. It is not clamped; View returns an empty page when n is out of range.
func (q *Query) SetPage(n int) {
	q.params.Page = n
}

// Reset clears filters and sort, keeping the page size.
func (q *Query) Reset() {
	q.params = Params{
		Brand:     AllBrands,
		Direction: Ascending,
		Page:      1,
		PageSize:  q.params.PageSize,
	}
}
