// Package tree implements the immutable mutation primitives for the bookmark
// tree. Every operation returns a new Root built from structural copies and
// re-stamps the mutated node together with all of its ancestors, so a
// container's lastModified never lags its children.
//
// The root-oriented functions here are permissive: they append without
// uniqueness checks and treat missing targets as no-ops. The Create* entity
// layer in entity.go enforces name uniqueness on top of them. Move operations
// carry their own, deliberately asymmetric policies: MoveBookmark validates
// every referenced element strictly, MoveBundle silently ignores a missing
// source. See the package tests for the exact contract.
package tree

import (
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// replaceCategory rewrites the named category through fn and re-stamps the
// root. Returns the input unchanged when the category is absent.
func replaceCategory(root model.Root, name string, now model.Timestamp, fn func(model.Category) model.Category) (model.Root, bool) {
	idx := -1
	for i, c := range root.Categories {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return root, false
	}

	categories := make([]model.Category, len(root.Categories))
	copy(categories, root.Categories)
	categories[idx] = fn(categories[idx])
	categories[idx].Metadata.LastModified = now

	root.Categories = categories
	root.Metadata.LastModified = now
	return root, true
}

// replaceBundle rewrites the named bundle through fn, re-stamping the bundle,
// its category, and the root. Returns the input unchanged when either level
// is absent.
func replaceBundle(root model.Root, category, bundle string, now model.Timestamp, fn func(model.Bundle) model.Bundle) (model.Root, bool) {
	found := false
	out, ok := replaceCategory(root, category, now, func(c model.Category) model.Category {
		idx := -1
		for i, b := range c.Bundles {
			if b.Name == bundle {
				idx = i
				break
			}
		}
		if idx < 0 {
			return c
		}
		found = true

		bundles := make([]model.Bundle, len(c.Bundles))
		copy(bundles, c.Bundles)
		bundles[idx] = fn(bundles[idx])
		bundles[idx].Metadata.LastModified = now
		c.Bundles = bundles
		return c
	})
	if !ok || !found {
		return root, false
	}
	return out, true
}
