package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/toko-checkout/internal/common"
)

// ErrCyclicCategoryHierarchy is returned when parent links loop back on themselves.
var ErrCyclicCategoryHierarchy = errors.New("cyclic category hierarchy")

// Hierarchy indexes categories by name for parent lookups. It is read-only after construction.
type Hierarchy struct {
	parents map[string]string
	order   []string
}

// NewHierarchy builds a hierarchy from the provided categories. Names are
// matched exactly, as product categories and campaign targets are; blank
// names are skipped. When a name appears more than once the first
// definition wins.
func NewHierarchy(categories []Category) *Hierarchy {
	h := &Hierarchy{
		parents: make(map[string]string, len(categories)),
		order:   make([]string, 0, len(categories)),
	}
	for _, c := range categories {
		name := c.Name
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, exists := h.parents[name]; exists {
			continue
		}
		h.parents[name] = c.Parent
		h.order = append(h.order, name)
	}
	return h
}

// Contains reports whether the category is known.
func (h *Hierarchy) Contains(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.parents[name]
	return ok
}

// Parent returns the parent name of a known category that has one.
func (h *Hierarchy) Parent(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	parent, ok := h.parents[name]
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

// Categories returns the categories in insertion order.
func (h *Hierarchy) Categories() []Category {
	if h == nil {
		return nil
	}
	out := make([]Category, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, Category{Name: name, Parent: h.parents[name]})
	}
	return out
}

// Lineage returns the category followed by its ancestors, nearest first.
// An unknown category yields an empty lineage. The walk stops at the first
// ancestor missing from the hierarchy.
func (h *Hierarchy) Lineage(name string) ([]string, error) {
	if !h.Contains(name) {
		return nil, nil
	}
	seen := make(map[string]struct{})
	var path []string
	current := name
	for {
		if _, ok := seen[current]; ok {
			return nil, cyclic(append(path, current))
		}
		seen[current] = struct{}{}
		path = append(path, current)

		parent, ok := h.Parent(current)
		if !ok || !h.Contains(parent) {
			return path, nil
		}
		current = parent
	}
}

func cyclic(path []string) *common.AppError {
	return &common.AppError{
		Code:       "CYCLIC_CATEGORY_HIERARCHY",
		Message:    fmt.Sprintf("cyclic category hierarchy: %s", strings.Join(path, " -> ")),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        ErrCyclicCategoryHierarchy,
		Details:    map[string]any{"path": path},
	}
}
