// Package model defines the bookmark tree synchronized by bookmarkdown:
// a Root holding Categories, which hold Bundles, which hold Bookmarks.
package model

import "github.com/google/uuid"

// RootVersion is the current schema version of the Root document.
const RootVersion = 1

// Bookmark is a single saved URL. ID is an opaque handle generated on
// creation and used only for rendering identity; merge identity is the
// (title, url) content key.
type Bookmark struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Title    string   `json:"title" yaml:"title" toml:"title"`
	URL      string   `json:"url" yaml:"url" toml:"url"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	Metadata Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// Bundle groups bookmarks under a name unique within its category.
type Bundle struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Bookmarks []Bookmark `json:"bookmarks" yaml:"bookmarks" toml:"bookmarks"`
	Metadata  Metadata   `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// Category groups bundles under a name unique within the root.
type Category struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Bundles  []Bundle `json:"bundles" yaml:"bundles" toml:"bundles"`
	Metadata Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// Root is the entire bookmark document.
type Root struct {
	Version    int        `json:"version" yaml:"version" toml:"version"`
	Categories []Category `json:"categories" yaml:"categories" toml:"categories"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// NewRoot creates an empty root document stamped now.
func NewRoot() Root {
	return Root{
		Version:    RootVersion,
		Categories: []Category{},
		Metadata:   Metadata{LastModified: Now(), LastSynced: Epoch},
	}
}

// NewBookmark creates a bookmark with a generated id, stamped now.
func NewBookmark(title, url string) Bookmark {
	return Bookmark{
		ID:       uuid.NewString(),
		Title:    title,
		URL:      url,
		Metadata: Metadata{LastModified: Now()},
	}
}

// NewBundle creates an empty bundle stamped now.
func NewBundle(name string) Bundle {
	return Bundle{
		Name:      name,
		Bookmarks: []Bookmark{},
		Metadata:  Metadata{LastModified: Now()},
	}
}

// NewCategory creates an empty category stamped now.
func NewCategory(name string) Category {
	return Category{
		Name:     name,
		Bundles:  []Bundle{},
		Metadata: Metadata{LastModified: Now()},
	}
}

// ContentKey derives the merge-time identity of a bookmark. Two bookmarks
// with the same title and url are the same logical bookmark even when their
// generated ids differ.
func ContentKey(b Bookmark) string {
	return b.Title + "\x00" + b.URL
}

// FindCategory returns the category with the given name, if present.
func (r Root) FindCategory(name string) (Category, bool) {
	for _, c := range r.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// FindBundle returns the bundle with the given name, if present.
func (c Category) FindBundle(name string) (Bundle, bool) {
	for _, b := range c.Bundles {
		if b.Name == name {
			return b, true
		}
	}
	return Bundle{}, false
}

// FindBookmark returns the bookmark with the given id, if present.
func (b Bundle) FindBookmark(id string) (Bookmark, bool) {
	for _, bm := range b.Bookmarks {
		if bm.ID == id {
			return bm, true
		}
	}
	return Bookmark{}, false
}

// BookmarksEqual reports content equality of two bookmarks. The generated id
// and the timestamps are excluded: id is a rendering handle, and timestamp
// comparison is the merge engine's job.
func BookmarksEqual(a, b Bookmark) bool {
	if a.Title != b.Title || a.URL != b.URL || a.Notes != b.Notes {
		return false
	}
	if a.Metadata.IsDeleted != b.Metadata.IsDeleted {
		return false
	}
	if len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}

// BundlesEqual reports content equality of two bundles and their bookmarks.
func BundlesEqual(a, b Bundle) bool {
	if a.Name != b.Name || a.Metadata.IsDeleted != b.Metadata.IsDeleted {
		return false
	}
	if len(a.Bookmarks) != len(b.Bookmarks) {
		return false
	}
	for i := range a.Bookmarks {
		if !BookmarksEqual(a.Bookmarks[i], b.Bookmarks[i]) {
			return false
		}
	}
	return true
}

// CategoriesEqual reports content equality of two categories and everything
// beneath them.
func CategoriesEqual(a, b Category) bool {
	if a.Name != b.Name || a.Metadata.IsDeleted != b.Metadata.IsDeleted {
		return false
	}
	if len(a.Bundles) != len(b.Bundles) {
		return false
	}
	for i := range a.Bundles {
		if !BundlesEqual(a.Bundles[i], b.Bundles[i]) {
			return false
		}
	}
	return true
}
