package tree

import (
	"fmt"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// The Create* functions are the entity-oriented API: the same appends as the
// permissive Add* primitives, with name uniqueness enforced.

// CreateCategory adds a category, rejecting duplicate names.
func CreateCategory(root model.Root, name string) (model.Root, error) {
	if _, exists := root.FindCategory(name); exists {
		return root, fmt.Errorf("category %q: %w", name, ErrCategoryExists)
	}
	return AddCategory(root, name), nil
}

// CreateBundle adds a bundle to a category, rejecting duplicate names.
func CreateBundle(root model.Root, category, name string) (model.Root, error) {
	c, ok := root.FindCategory(category)
	if !ok {
		return root, fmt.Errorf("category %q: %w", category, ErrCategoryNotFound)
	}
	if _, exists := c.FindBundle(name); exists {
		return root, fmt.Errorf("bundle %q in category %q: %w", name, category, ErrBundleExists)
	}
	return AddBundle(root, category, name), nil
}

// CreateBookmark adds a bookmark to a bundle, rejecting a duplicate content
// key so the same logical bookmark cannot be filed twice in one bundle.
func CreateBookmark(root model.Root, category, bundle string, bookmark model.Bookmark) (model.Root, error) {
	c, ok := root.FindCategory(category)
	if !ok {
		return root, fmt.Errorf("category %q: %w", category, ErrCategoryNotFound)
	}
	b, ok := c.FindBundle(bundle)
	if !ok {
		return root, fmt.Errorf("bundle %q in category %q: %w", bundle, category, ErrBundleNotFound)
	}
	key := model.ContentKey(bookmark)
	for _, existing := range b.Bookmarks {
		if model.ContentKey(existing) == key {
			return root, fmt.Errorf("bookmark %q (%s): %w", bookmark.Title, bookmark.URL, ErrBookmarkExists)
		}
	}
	return AddBookmark(root, category, bundle, bookmark), nil
}
