package catalog

import (
	"reflect"

	"github.com/Houeta/rentcatalog/internal/models"
)

// detectChanges compares two lists by item id. Added and Changed follow the
// order of newItems, Removed follows the order of oldItems.
func detectChanges[T models.Listing](oldItems, newItems []T) models.Changes[T] {
	oldMap := make(map[string]T, len(oldItems))
	for _, item := range oldItems {
		oldMap[item.Common().ID] = item
	}

	seen := make(map[string]struct{}, len(newItems))
	var changes models.Changes[T]
	for _, newItem := range newItems {
		id := newItem.Common().ID
		seen[id] = struct{}{}

		oldItem, found := oldMap[id]
		switch {
		case !found:
			changes.Added = append(changes.Added, newItem)
		case !reflect.DeepEqual(oldItem, newItem):
			changes.Changed = append(changes.Changed, models.ChangeInfo[T]{Old: oldItem, New: newItem})
		}
	}

	for _, oldItem := range oldItems {
		if _, found := seen[oldItem.Common().ID]; !found {
			changes.Removed = append(changes.Removed, oldItem)
		}
	}

	return changes
}
