package tree

import (
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// AddCategory appends a new empty category. No uniqueness check; the entity
// layer owns that.
func AddCategory(root model.Root, name string) model.Root {
	now := model.Now()

	category := model.NewCategory(name)
	category.Metadata.LastModified = now

	categories := make([]model.Category, 0, len(root.Categories)+1)
	categories = append(categories, root.Categories...)
	categories = append(categories, category)

	root.Categories = categories
	root.Metadata.LastModified = now
	return root
}

// RenameCategory renames a category in place. Missing categories are a
// no-op.
func RenameCategory(root model.Root, oldName, newName string) model.Root {
	out, _ := replaceCategory(root, oldName, model.Now(), func(c model.Category) model.Category {
		c.Name = newName
		return c
	})
	return out
}

// RemoveCategory hard-removes a category. Only safe for fresh local edits
// that have never been synced; synced trees use MarkCategoryDeleted so the
// removal survives a merge.
func RemoveCategory(root model.Root, name string) model.Root {
	idx := -1
	for i, c := range root.Categories {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return root
	}

	categories := make([]model.Category, 0, len(root.Categories)-1)
	categories = append(categories, root.Categories[:idx]...)
	categories = append(categories, root.Categories[idx+1:]...)

	root.Categories = categories
	root.Metadata.LastModified = model.Now()
	return root
}

// MarkCategoryDeleted soft-deletes a category. Deleting something already
// gone is a no-op, not a failure.
func MarkCategoryDeleted(root model.Root, name string) model.Root {
	out, _ := replaceCategory(root, name, model.Now(), func(c model.Category) model.Category {
		c.Metadata.IsDeleted = true
		return c
	})
	return out
}
