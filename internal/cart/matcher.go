package cart

import (
	"sort"

	"merchant-kit/internal/model"
)

// VariationsMatch reports whether two variation selections are equivalent
// regardless of ordering. Two selections match iff they have the same
// length and, after sorting on (type, name), are element-wise equal on
// (type, name). This decides cart-item identity on add and the removal
// target on remove.
func VariationsMatch(a, b []model.SelectedVariation) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	as := canonical(a)
	bs := canonical(b)
	for i := range as {
		if as[i].Type != bs[i].Type || as[i].Name != bs[i].Name {
			return false
		}
	}
	return true
}

func canonical(vars []model.SelectedVariation) []model.SelectedVariation {
	out := make([]model.SelectedVariation, len(vars))
	copy(out, vars)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}
