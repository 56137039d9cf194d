package tree

import (
	"fmt"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// AddBundle appends a new empty bundle to the named category. Missing
// categories are a no-op.
func AddBundle(root model.Root, category, name string) model.Root {
	now := model.Now()
	out, _ := replaceCategory(root, category, now, func(c model.Category) model.Category {
		bundle := model.NewBundle(name)
		bundle.Metadata.LastModified = now

		bundles := make([]model.Bundle, 0, len(c.Bundles)+1)
		bundles = append(bundles, c.Bundles...)
		bundles = append(bundles, bundle)
		c.Bundles = bundles
		return c
	})
	return out
}

// RenameBundle renames a bundle within a category. Missing elements are a
// no-op.
func RenameBundle(root model.Root, category, oldName, newName string) model.Root {
	out, _ := replaceBundle(root, category, oldName, model.Now(), func(b model.Bundle) model.Bundle {
		b.Name = newName
		return b
	})
	return out
}

// RemoveBundle hard-removes a bundle. Like RemoveCategory this is only for
// never-synced edits.
func RemoveBundle(root model.Root, category, name string) model.Root {
	now := model.Now()
	removed := false
	out, _ := replaceCategory(root, category, now, func(c model.Category) model.Category {
		idx := -1
		for i, b := range c.Bundles {
			if b.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return c
		}
		removed = true

		bundles := make([]model.Bundle, 0, len(c.Bundles)-1)
		bundles = append(bundles, c.Bundles[:idx]...)
		bundles = append(bundles, c.Bundles[idx+1:]...)
		c.Bundles = bundles
		return c
	})
	if !removed {
		return root
	}
	return out
}

// MarkBundleDeleted soft-deletes a bundle. Missing elements are a no-op.
func MarkBundleDeleted(root model.Root, category, name string) model.Root {
	out, _ := replaceBundle(root, category, name, model.Now(), func(b model.Bundle) model.Bundle {
		b.Metadata.IsDeleted = true
		return b
	})
	return out
}

// MoveBundle moves a bundle to another category. The policy here is looser
// than MoveBookmark's on purpose: a missing source category or bundle
// returns the input unchanged, while a name collision in the target category
// is an error.
func MoveBundle(root model.Root, sourceCategory, bundleName, targetCategory string) (model.Root, error) {
	if sourceCategory == targetCategory {
		return root, nil
	}

	source, ok := root.FindCategory(sourceCategory)
	if !ok {
		return root, nil
	}
	bundle, ok := source.FindBundle(bundleName)
	if !ok {
		return root, nil
	}

	target, ok := root.FindCategory(targetCategory)
	if !ok {
		return root, nil
	}
	if _, exists := target.FindBundle(bundleName); exists {
		return root, fmt.Errorf("bundle %q in target category %q: %w", bundleName, targetCategory, ErrBundleExists)
	}

	now := model.Now()
	out, _ := replaceCategory(root, sourceCategory, now, func(c model.Category) model.Category {
		bundles := make([]model.Bundle, 0, len(c.Bundles)-1)
		for _, b := range c.Bundles {
			if b.Name != bundleName {
				bundles = append(bundles, b)
			}
		}
		c.Bundles = bundles
		return c
	})
	out, _ = replaceCategory(out, targetCategory, now, func(c model.Category) model.Category {
		moved := bundle
		moved.Metadata.LastModified = now

		bundles := make([]model.Bundle, 0, len(c.Bundles)+1)
		bundles = append(bundles, c.Bundles...)
		bundles = append(bundles, moved)
		c.Bundles = bundles
		return c
	})
	return out, nil
}
