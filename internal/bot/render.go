package bot

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func title(kind models.Kind) string {
	return cases.Title(language.English).String(string(kind))
}

func renderPage[T models.Listing](kind models.Kind, page catalog.Page[T], state catalog.State[T], sel *catalog.Selection) string {
	switch {
	case state.Err == catalog.NotAuthenticatedMessage:
		return "You are not logged in. Use /login <token> [owner id]."
	case state.Err != "" && page.Total == 0:
		return fmt.Sprintf("Could not load %s: %s", kind, state.Err)
	case page.Total == 0:
		return fmt.Sprintf("No %s found.", kind)
	case len(page.Items) == 0:
		return fmt.Sprintf("Page %d is out of range, there are %d pages.", page.Number, page.TotalPages)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, page %d/%d (%d items):\n", title(kind), page.Number, page.TotalPages, page.Total)
	for i, item := range page.Items {
		common := item.Common()
		mark := " "
		if sel.Contains(common.ID) {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s%d. %s - %s/day [%s]\n", mark, i+1, displayName(common), common.BaseDailyRate.StringFixed(2), common.ID)
	}
	if state.Err != "" {
		fmt.Fprintf(&sb, "\nShowing cached data, last refresh failed: %s\n", state.Err)
	}

	return sb.String()
}

func displayName(item models.Item) string {
	name := strings.TrimSpace(item.Brand + " " + item.Model)
	if item.Variant != "" {
		name += " " + item.Variant
	}
	if name == "" {
		return "(unnamed)"
	}
	return name
}

func renderChanges[T models.Listing](changes models.Changes[T]) string {
	if changes.Empty() {
		return ""
	}
	return fmt.Sprintf("\nSince last load: %d added, %d removed, %d changed.",
		len(changes.Added), len(changes.Removed), len(changes.Changed))
}

func renderComparison[T models.Listing](kind models.Kind, cmp catalog.Comparison[T]) string {
	if len(cmp.Items) == 0 && len(cmp.Missing) == 0 {
		return "Nothing selected. Use /compare_add <id>."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparing %d %s:\n", len(cmp.Items), kind)
	for _, item := range cmp.Items {
		common := item.Common()
		fmt.Fprintf(&sb, "\n%s [%s]\n", displayName(common), common.ID)
		writeField(&sb, "Serial", common.SerialNumber)
		writeField(&sb, "Branch", common.BranchName())
		writeField(&sb, "Daily rate", common.BaseDailyRate.StringFixed(2))
		writeField(&sb, "Estimated value", common.EstimatedValue.StringFixed(2))
		writeField(&sb, "Deposit", fmt.Sprintf("%s%% (min %s, max %s)",
			common.DepositPercent.String(), common.MinDeposit.StringFixed(2), common.MaxDeposit.StringFixed(2)))

		specs := common.SpecMap()
		for _, key := range slices.Sorted(maps.Keys(specs)) {
			writeField(&sb, key, specs[key])
		}
	}
	if len(cmp.Missing) > 0 {
		fmt.Fprintf(&sb, "\nNo longer available: %s\n", strings.Join(cmp.Missing, ", "))
	}

	return sb.String()
}

func writeField(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "  %s: %s\n", name, value)
}
