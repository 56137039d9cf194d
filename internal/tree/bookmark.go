package tree

import (
	"fmt"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// AddBookmark appends a bookmark to the named bundle. Missing elements are a
// no-op.
func AddBookmark(root model.Root, category, bundle string, bookmark model.Bookmark) model.Root {
	now := model.Now()
	out, _ := replaceBundle(root, category, bundle, now, func(b model.Bundle) model.Bundle {
		added := bookmark
		added.Metadata.LastModified = now

		bookmarks := make([]model.Bookmark, 0, len(b.Bookmarks)+1)
		bookmarks = append(bookmarks, b.Bookmarks...)
		bookmarks = append(bookmarks, added)
		b.Bookmarks = bookmarks
		return b
	})
	return out
}

// UpdateBookmark replaces the bookmark with the same id in the named bundle.
// Missing elements are a no-op.
func UpdateBookmark(root model.Root, category, bundle string, bookmark model.Bookmark) model.Root {
	now := model.Now()
	out, _ := replaceBundle(root, category, bundle, now, func(b model.Bundle) model.Bundle {
		bookmarks := make([]model.Bookmark, len(b.Bookmarks))
		copy(bookmarks, b.Bookmarks)
		for i, bm := range bookmarks {
			if bm.ID == bookmark.ID {
				updated := bookmark
				updated.Metadata.LastModified = now
				bookmarks[i] = updated
				break
			}
		}
		b.Bookmarks = bookmarks
		return b
	})
	return out
}

// RemoveBookmark hard-removes a bookmark by id. Only for never-synced edits;
// synced trees use MarkBookmarkDeleted.
func RemoveBookmark(root model.Root, category, bundle, id string) model.Root {
	now := model.Now()
	removed := false
	out, _ := replaceBundle(root, category, bundle, now, func(b model.Bundle) model.Bundle {
		bookmarks := make([]model.Bookmark, 0, len(b.Bookmarks))
		for _, bm := range b.Bookmarks {
			if bm.ID == id {
				removed = true
				continue
			}
			bookmarks = append(bookmarks, bm)
		}
		b.Bookmarks = bookmarks
		return b
	})
	if !removed {
		return root
	}
	return out
}

// MarkBookmarkDeleted soft-deletes a bookmark by id and bumps its stamp so
// the deletion wins a later merge. Missing elements are a no-op.
func MarkBookmarkDeleted(root model.Root, category, bundle, id string) model.Root {
	now := model.Now()
	marked := false
	out, _ := replaceBundle(root, category, bundle, now, func(b model.Bundle) model.Bundle {
		bookmarks := make([]model.Bookmark, len(b.Bookmarks))
		copy(bookmarks, b.Bookmarks)
		for i, bm := range bookmarks {
			if bm.ID == id {
				bm.Metadata.IsDeleted = true
				bm.Metadata.LastModified = now
				bookmarks[i] = bm
				marked = true
				break
			}
		}
		b.Bookmarks = bookmarks
		return b
	})
	if !marked {
		return root
	}
	return out
}

// MoveBookmark moves a bookmark between bundles. Unlike MoveBundle this path
// is strict: every referenced element is validated and the error names
// exactly which one is missing. Moving a bookmark onto itself is a no-op and
// a bookmark whose id already exists in the target bundle is not duplicated.
func MoveBookmark(root model.Root, sourceCategory, sourceBundle, id, targetCategory, targetBundle string) (model.Root, error) {
	if sourceCategory == targetCategory && sourceBundle == targetBundle {
		return root, nil
	}

	source, ok := root.FindCategory(sourceCategory)
	if !ok {
		return root, fmt.Errorf("source category %q: %w", sourceCategory, ErrCategoryNotFound)
	}
	srcBundle, ok := source.FindBundle(sourceBundle)
	if !ok {
		return root, fmt.Errorf("source bundle %q in category %q: %w", sourceBundle, sourceCategory, ErrBundleNotFound)
	}
	bookmark, ok := srcBundle.FindBookmark(id)
	if !ok {
		return root, fmt.Errorf("bookmark %q in bundle %q: %w", id, sourceBundle, ErrBookmarkNotFound)
	}

	target, ok := root.FindCategory(targetCategory)
	if !ok {
		return root, fmt.Errorf("target category %q: %w", targetCategory, ErrCategoryNotFound)
	}
	dstBundle, ok := target.FindBundle(targetBundle)
	if !ok {
		return root, fmt.Errorf("target bundle %q in category %q: %w", targetBundle, targetCategory, ErrBundleNotFound)
	}

	now := model.Now()
	out, _ := replaceBundle(root, sourceCategory, sourceBundle, now, func(b model.Bundle) model.Bundle {
		bookmarks := make([]model.Bookmark, 0, len(b.Bookmarks))
		for _, bm := range b.Bookmarks {
			if bm.ID != id {
				bookmarks = append(bookmarks, bm)
			}
		}
		b.Bookmarks = bookmarks
		return b
	})

	// Duplicate ids in the target are skipped, not doubled.
	if _, exists := dstBundle.FindBookmark(id); exists {
		return out, nil
	}

	out, _ = replaceBundle(out, targetCategory, targetBundle, now, func(b model.Bundle) model.Bundle {
		moved := bookmark
		moved.Metadata.LastModified = now

		bookmarks := make([]model.Bookmark, 0, len(b.Bookmarks)+1)
		bookmarks = append(bookmarks, b.Bookmarks...)
		bookmarks = append(bookmarks, moved)
		b.Bookmarks = bookmarks
		return b
	})
	return out, nil
}
