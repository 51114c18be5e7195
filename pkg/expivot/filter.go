package expivot

import (
	"sort"

	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// ApplyFilter returns the rows of t whose value in spec.Column, compared as
// text, is one of spec.AllowedValues. Row order is preserved.
// A nil spec or an empty allowed set returns t itself.
func ApplyFilter(t *models.Table, spec *models.FilterSpec) *models.Table {
	if spec.IsEmpty() {
		return t
	}

	allowed := make(map[string]struct{}, len(spec.AllowedValues))
	for _, v := range spec.AllowedValues {
		allowed[v] = struct{}{}
	}

	indices := make([]int, 0, t.NumRows())
	if col, ok := t.Column(spec.Column); ok {
		for i, v := range col.Values {
			if _, keep := allowed[v.String()]; keep {
				indices = append(indices, i)
			}
		}
	}
	return t.Select(indices)
}

// FilterOptions returns the sorted distinct text values of a column: the
// universe ApplyFilter compares against.
func FilterOptions(t *models.Table, column string) []string {
	col, ok := t.Column(column)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, v := range col.Values {
		s := v.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
