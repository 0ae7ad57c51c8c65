package catalog

import (
	"slices"
	"strings"

	"github.com/Houeta/rentcatalog/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// AllBrands disables the brand filter.
	AllBrands = "All"
	// DefaultPageSize is used when Params.PageSize is not positive.
	DefaultPageSize = 10
)

// SortKey is a field the list can be ordered by.
type SortKey string

const (
	SortNone           SortKey = ""
	SortBrand          SortKey = "brand"
	SortModel          SortKey = "model"
	SortVariant        SortKey = "variant"
	SortSerialNumber   SortKey = "serialNumber"
	SortBranch         SortKey = "branch"
	SortBaseDailyRate  SortKey = "baseDailyRate"
	SortEstimatedValue SortKey = "estimatedValue"
	SortDeposit        SortKey = "depositPercentage"
)

//nolint:gochecknoglobals // read-only lookup table
var sortKeys = []SortKey{
	SortBrand, SortModel, SortVariant, SortSerialNumber, SortBranch,
	SortBaseDailyRate, SortEstimatedValue, SortDeposit,
}

// ParseSortKey matches s against the known sort keys, ignoring case.
func ParseSortKey(s string) (SortKey, bool) {
	for _, key := range sortKeys {
		if strings.EqualFold(string(key), s) {
			return key, true
		}
	}
	return SortNone, false
}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/desc in any case; anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Descending)) {
		return Descending
	}
	return Ascending
}

// Params drives View. Page is 1-based.
type Params struct {
	Search    string
	Brand     string
	SortKey   SortKey
	Direction Direction
	Page      int
	PageSize  int
}

// Page is one slice of the filtered and sorted list.
type Page[T any] struct {
	Items      []T
	Number     int
	Total      int
	TotalPages int
}

// View filters, sorts and paginates items without modifying them.
// A page number outside 1..TotalPages yields an empty page.
func View[T models.Listing](items []T, params Params) Page[T] {
	filtered := filterSearch(items, params.Search)
	filtered = filterBrand(filtered, params.Brand)
	sortItems(filtered, params.SortKey, params.Direction)

	return paginate(filtered, params.Page, params.PageSize)
}

func filterSearch[T models.Listing](items []T, search string) []T {
	needle := strings.ToLower(search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matchesSearch(item.Common(), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch(item models.Item, needle string) bool {
	for _, field := range []string{item.Model, item.Brand, item.SerialNumber, item.BranchName()} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func filterBrand[T models.Listing](items []T, brand string) []T {
	if brand == "" || brand == AllBrands {
		return items
	}

	return slices.DeleteFunc(items, func(item T) bool {
		return item.Common().Brand != brand
	})
}

func sortItems[T models.Listing](items []T, key SortKey, dir Direction) {
	if key == SortNone {
		return
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	compare := func(a, b T) int {
		return compareBy(col, key, a.Common(), b.Common())
	}
	if dir == Descending {
		asc := compare
		compare = func(a, b T) int { return -asc(a, b) }
	}

	slices.SortStableFunc(items, compare)
}

func compareBy(col *collate.Collator, key SortKey, a, b models.Item) int {
	switch key {
	case SortBaseDailyRate:
		return a.BaseDailyRate.Cmp(b.BaseDailyRate)
	case SortEstimatedValue:
		return a.EstimatedValue.Cmp(b.EstimatedValue)
	case SortDeposit:
		return a.DepositPercent.Cmp(b.DepositPercent)
	case SortBrand:
		return col.CompareString(a.Brand, b.Brand)
	case SortModel:
		return col.CompareString(a.Model, b.Model)
	case SortVariant:
		return col.CompareString(a.Variant, b.Variant)
	case SortSerialNumber:
		return col.CompareString(a.SerialNumber, b.SerialNumber)
	case SortBranch:
		return col.CompareString(a.BranchName(), b.BranchName())
	default:
		return 0
	}
}

func paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	page := Page[T]{
		Items:      []T{},
		Number:     number,
		Total:      len(items),
		TotalPages: (len(items) + size - 1) / size,
	}
	if number < 1 || number > page.TotalPages {
		return page
	}

	start := (number - 1) * size
	end := min(start+size, len(items))
	page.Items = items[start:end]

	return page
}

// Brands lists the distinct brands of items for a filter picker, AllBrands first.
func Brands[T models.Listing](items []T) []string {
	seen := make(map[string]struct{})
	brands := []string{}
	for _, item := range items {
		brand := item.Common().Brand
		if _, ok := seen[brand]; ok || brand == "" {
			continue
		}
		seen[brand] = struct{}{}
		brands = append(brands, brand)
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	col.SortStrings(brands)

	return append([]string{AllBrands}, brands...)
}
