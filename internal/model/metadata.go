package model

import "time"

// Timestamp is an ISO-8601 timestamp string as stored in the wire format.
// The zero value ("") and any unparseable value are treated as the epoch.
type Timestamp string

// Epoch is the sentinel timestamp meaning "never synced".
const Epoch Timestamp = "1970-01-01T00:00:00.000Z"

// timestampLayout keeps millisecond precision so stamps written by different
// devices compare cleanly.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().UTC().Format(timestampLayout))
}

// Time parses the timestamp. Empty or malformed values collapse to the epoch
// rather than producing an error.
func (t Timestamp) Time() time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, string(t))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return parsed
}

// ParseTimestamp validates externally supplied input. Unlike Time, a
// malformed value is an error here instead of collapsing to the epoch.
func ParseTimestamp(s string) (Timestamp, error) {
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return "", err
	}
	return Timestamp(s), nil
}

// After reports whether t is strictly newer than other.
func (t Timestamp) After(other Timestamp) bool {
	return t.Time().After(other.Time())
}

// Equal reports whether two timestamps denote the same instant.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.Time().Equal(other.Time())
}

// IsEpoch reports whether the timestamp is the "never synced" sentinel.
// Missing and unparseable values count as the epoch.
func (t Timestamp) IsEpoch() bool {
	return !t.Time().After(time.Unix(0, 0).UTC())
}

// Later returns the newer of two timestamps.
func Later(a, b Timestamp) Timestamp {
	if b.After(a) {
		return b
	}
	return a
}

// Metadata carries the per-node sync bookkeeping. LastSynced on the Root is
// local-only state recording when this device last completed a sync; it is
// never transmitted to the remote store.
type Metadata struct {
	LastModified Timestamp `json:"lastModified" yaml:"lastModified" toml:"lastModified"`
	LastSynced   Timestamp `json:"lastSynced,omitempty" yaml:"lastSynced,omitempty" toml:"lastSynced,omitempty"`
	IsDeleted    bool      `json:"isDeleted,omitempty" yaml:"isDeleted,omitempty" toml:"isDeleted,omitempty"`
}

// ensured returns the metadata with epoch baselines filled in for absent
// fields. Idempotent.
func (m Metadata) ensured() Metadata {
	if m.LastModified == "" {
		m.LastModified = Epoch
	}
	if m.LastSynced == "" {
		m.LastSynced = Epoch
	}
	return m
}

// EnsureBookmarkMetadata fills in epoch-baseline metadata for bookmarks
// loaded from formats that predate sync bookkeeping.
func EnsureBookmarkMetadata(b Bookmark) Bookmark {
	b.Metadata = b.Metadata.ensured()
	return b
}

// EnsureBundleMetadata fills in epoch-baseline metadata for a bundle and all
// of its bookmarks.
func EnsureBundleMetadata(b Bundle) Bundle {
	b.Metadata = b.Metadata.ensured()
	bookmarks := make([]Bookmark, len(b.Bookmarks))
	for i, bm := range b.Bookmarks {
		bookmarks[i] = EnsureBookmarkMetadata(bm)
	}
	b.Bookmarks = bookmarks
	return b
}

// EnsureCategoryMetadata fills in epoch-baseline metadata for a category and
// everything beneath it.
func EnsureCategoryMetadata(c Category) Category {
	c.Metadata = c.Metadata.ensured()
	bundles := make([]Bundle, len(c.Bundles))
	for i, b := range c.Bundles {
		bundles[i] = EnsureBundleMetadata(b)
	}
	c.Bundles = bundles
	return c
}

// EnsureRootMetadata fills in epoch-baseline metadata for the whole tree.
// None of the Ensure functions fail; absent metadata is data, not an error.
func EnsureRootMetadata(r Root) Root {
	r.Metadata = r.Metadata.ensured()
	categories := make([]Category, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = EnsureCategoryMetadata(c)
	}
	r.Categories = categories
	return r
}

// LastModified returns the node's modification stamp, or the epoch when the
// metadata block is absent.
func (b Bookmark) LastModified() Timestamp { return orEpoch(b.Metadata.LastModified) }

// LastModified returns the bundle's modification stamp.
func (b Bundle) LastModified() Timestamp { return orEpoch(b.Metadata.LastModified) }

// LastModified returns the category's modification stamp.
func (c Category) LastModified() Timestamp { return orEpoch(c.Metadata.LastModified) }

// LastModified returns the root's modification stamp.
func (r Root) LastModified() Timestamp { return orEpoch(r.Metadata.LastModified) }

// LastSynced returns when this device last synced the root, or the epoch if
// it never has.
func (r Root) LastSynced() Timestamp { return orEpoch(r.Metadata.LastSynced) }

func orEpoch(t Timestamp) Timestamp {
	if t == "" {
		return Epoch
	}
	return t
}

// UpdateRootMetadata returns a new Root with lastModified set and, when
// synced is non-empty, lastSynced set. The input is never mutated.
func UpdateRootMetadata(r Root, modified, synced Timestamp) Root {
	r.Metadata.LastModified = modified
	if synced != "" {
		r.Metadata.LastSynced = synced
	}
	return r
}

// TouchBookmark stamps the bookmark as modified now.
func TouchBookmark(b Bookmark) Bookmark {
	b.Metadata.LastModified = Now()
	return b
}

// TouchBundle stamps the bundle as modified now.
func TouchBundle(b Bundle) Bundle {
	b.Metadata.LastModified = Now()
	return b
}

// TouchCategory stamps the category as modified now. Every mutation that
// touches a category or its descendants goes through this so a container's
// lastModified never lags its children.
func TouchCategory(c Category) Category {
	c.Metadata.LastModified = Now()
	return c
}
