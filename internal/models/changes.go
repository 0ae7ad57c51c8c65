package models

// ChangeInfo - an item present in both lists whose content differs.
type ChangeInfo[T any] struct {
	Old T
	New T
}

// Changes - the difference between two fetched lists, keyed by item id.
type Changes[T any] struct {
	Added   []T
	Removed []T
	Changed []ChangeInfo[T]
}

// Empty reports whether nothing was added, removed or changed.
func (c Changes[T]) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}
