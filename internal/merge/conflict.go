package merge

import (
	"fmt"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// ConflictType identifies the tree level at which a conflict was detected.
type ConflictType string

const (
	// ConflictCategory is a category-level tie.
	ConflictCategory ConflictType = "category"

	// ConflictBundle is a bundle-level tie.
	ConflictBundle ConflictType = "bundle"

	// ConflictBookmark is a bookmark-level tie.
	ConflictBookmark ConflictType = "bookmark"
)

// Choice represents how a single conflict should be resolved.
type Choice string

const (
	// ChoiceLocal keeps the local version.
	ChoiceLocal Choice = "local"

	// ChoiceRemote takes the remote version.
	ChoiceRemote Choice = "remote"

	// ChoicePending records that the user has not decided yet; the conflict
	// stays open.
	ChoicePending Choice = "pending"
)

// Conflict is a comparison where neither side was strictly newer and the
// contents differ. Exactly one of the Local*/Remote* pairs is populated,
// matching Type. The merged tree provisionally carries the local version
// until the caller resolves the conflict.
type Conflict struct {
	Type     ConflictType
	Category string
	Bundle   string

	// BookmarkID is the local bookmark's id for bookmark-level conflicts.
	BookmarkID string

	LocalModified  model.Timestamp
	RemoteModified model.Timestamp

	LocalCategory  *model.Category
	RemoteCategory *model.Category
	LocalBundle    *model.Bundle
	RemoteBundle   *model.Bundle
	LocalBookmark  *model.Bookmark
	RemoteBookmark *model.Bookmark
}

// Path returns the tree location of the conflict.
func (c Conflict) Path() string {
	switch c.Type {
	case ConflictBundle:
		return c.Category + "/" + c.Bundle
	case ConflictBookmark:
		title := c.BookmarkID
		if c.LocalBookmark != nil {
			title = c.LocalBookmark.Title
		}
		return c.Category + "/" + c.Bundle + "/" + title
	default:
		return c.Category
	}
}

// Summary returns a brief description of the conflict.
func (c Conflict) Summary() string {
	return fmt.Sprintf("%s %s: local %s vs remote %s",
		c.Type, c.Path(), c.LocalModified, c.RemoteModified)
}

// Resolution is a caller-supplied decision for one surfaced conflict.
// The identifying fields mirror Conflict.
type Resolution struct {
	Type       ConflictType    `json:"type" yaml:"type"`
	Category   string          `json:"categoryName" yaml:"categoryName"`
	Bundle     string          `json:"bundleName,omitempty" yaml:"bundleName,omitempty"`
	BookmarkID string          `json:"bookmarkId,omitempty" yaml:"bookmarkId,omitempty"`
	Local      model.Timestamp `json:"localLastModified,omitempty" yaml:"localLastModified,omitempty"`
	Remote     model.Timestamp `json:"remoteLastModified,omitempty" yaml:"remoteLastModified,omitempty"`
	Choice     Choice          `json:"resolution" yaml:"resolution"`
}

// ResolutionFor builds the Resolution that would settle this conflict with
// the given choice.
func (c Conflict) ResolutionFor(choice Choice) Resolution {
	return Resolution{
		Type:       c.Type,
		Category:   c.Category,
		Bundle:     c.Bundle,
		BookmarkID: c.BookmarkID,
		Local:      c.LocalModified,
		Remote:     c.RemoteModified,
		Choice:     choice,
	}
}

// resolutionKey identifies a conflict site for resolution lookup.
type resolutionKey struct {
	typ        ConflictType
	category   string
	bundle     string
	bookmarkID string
}

func indexResolutions(resolutions []Resolution) map[resolutionKey]Choice {
	if len(resolutions) == 0 {
		return nil
	}
	index := make(map[resolutionKey]Choice, len(resolutions))
	for _, r := range resolutions {
		index[resolutionKey{r.Type, r.Category, r.Bundle, r.BookmarkID}] = r.Choice
	}
	return index
}
