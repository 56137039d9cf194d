package merge

import (
	"testing"

	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// Fixed timeline: everything before syncPoint is shared history, everything
// after is a divergent edit.
const (
	baseStamp   = model.Timestamp("2024-01-01T00:00:00.000Z")
	syncPoint   = model.Timestamp("2024-01-02T00:00:00.000Z")
	localEdit   = model.Timestamp("2024-01-03T00:00:00.000Z")
	remoteEdit  = model.Timestamp("2024-01-04T00:00:00.000Z")
	sharedStamp = model.Timestamp("2024-01-05T00:00:00.000Z")
)

func makeBookmark(id, title, notes string, modified model.Timestamp) model.Bookmark {
	return model.Bookmark{
		ID:       id,
		Title:    title,
		URL:      "https://example.com/" + title,
		Notes:    notes,
		Metadata: model.Metadata{LastModified: modified},
	}
}

func makeBundle(name string, modified model.Timestamp, bookmarks ...model.Bookmark) model.Bundle {
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	return model.Bundle{
		Name:      name,
		Bookmarks: bookmarks,
		Metadata:  model.Metadata{LastModified: modified},
	}
}

func makeCategory(name string, modified model.Timestamp, bundles ...model.Bundle) model.Category {
	if bundles == nil {
		bundles = []model.Bundle{}
	}
	return model.Category{
		Name:     name,
		Bundles:  bundles,
		Metadata: model.Metadata{LastModified: modified},
	}
}

func makeRoot(synced model.Timestamp, categories ...model.Category) model.Root {
	if categories == nil {
		categories = []model.Category{}
	}
	return model.Root{
		Version:    model.RootVersion,
		Categories: categories,
		Metadata:   model.Metadata{LastModified: baseStamp, LastSynced: synced},
	}
}

func findBookmarks(t *testing.T, root model.Root, category, bundle string) []model.Bookmark {
	t.Helper()
	c, ok := root.FindCategory(category)
	if !ok {
		t.Fatalf("category %q not in merged tree", category)
	}
	b, ok := c.FindBundle(bundle)
	if !ok {
		t.Fatalf("bundle %q not in merged tree", bundle)
	}
	return b.Bookmarks
}

func TestMerge_UnionOfDisjointTrees(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", localEdit,
			makeBundle("Reading", localEdit, makeBookmark("l1", "alpha", "", localEdit))))
	remote := makeRoot(syncPoint,
		makeCategory("Personal", remoteEdit,
			makeBundle("Inbox", remoteEdit, makeBookmark("r1", "beta", "", remoteEdit))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	if len(result.Root.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(result.Root.Categories))
	}
	// Local order first, then remote-only in remote order
	if result.Root.Categories[0].Name != "Work" || result.Root.Categories[1].Name != "Personal" {
		t.Errorf("unexpected category order: %s, %s",
			result.Root.Categories[0].Name, result.Root.Categories[1].Name)
	}
}

func TestMerge_IdenticalContentNotDuplicated(t *testing.T) {
	m := NewMerger()

	// The same logical bookmark carries different generated ids on each side
	local := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp, makeBookmark("local-id", "alpha", "", baseStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp, makeBookmark("remote-id", "alpha", "", baseStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 1 {
		t.Errorf("expected content-identical bookmarks to merge into one, got %d", len(bookmarks))
	}
}

func TestMerge_SelfMergeIsIdempotent(t *testing.T) {
	m := NewMerger()

	tree := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp,
				makeBookmark("1", "alpha", "notes", sharedStamp),
				makeBookmark("2", "beta", "", sharedStamp))))

	result := m.Merge(tree, tree, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("merging a tree with itself must not conflict, got %d", len(result.Conflicts))
	}
	if len(result.Root.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(result.Root.Categories))
	}
	if !model.CategoriesEqual(result.Root.Categories[0], tree.Categories[0]) {
		t.Error("self-merge changed the tree's content")
	}
}

func TestMerge_NewerSideWins(t *testing.T) {
	tests := map[string]struct {
		localStamp  model.Timestamp
		remoteStamp model.Timestamp
		wantNotes   string
	}{
		"local newer":  {localStamp: remoteEdit, remoteStamp: localEdit, wantNotes: "local"},
		"remote newer": {localStamp: localEdit, remoteStamp: remoteEdit, wantNotes: "remote"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMerger()

			local := makeRoot(syncPoint,
				makeCategory("Work", tt.localStamp,
					makeBundle("Reading", tt.localStamp, makeBookmark("1", "alpha", "local", tt.localStamp))))
			remote := makeRoot(syncPoint,
				makeCategory("Work", tt.remoteStamp,
					makeBundle("Reading", tt.remoteStamp, makeBookmark("1", "alpha", "remote", tt.remoteStamp))))

			result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

			if result.HasConflicts() {
				t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
			}
			bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
			if len(bookmarks) != 1 {
				t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
			}
			if bookmarks[0].Notes != tt.wantNotes {
				t.Errorf("notes = %q, want %q", bookmarks[0].Notes, tt.wantNotes)
			}
		})
	}
}

func TestMerge_TieWithDifferenceConflicts(t *testing.T) {
	m := NewMerger()

	// Containers diverge in time so the tie surfaces at the bookmark level
	local := makeRoot(syncPoint,
		makeCategory("Work", localEdit,
			makeBundle("Reading", localEdit, makeBookmark("1", "alpha", "local", sharedStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", remoteEdit, makeBookmark("1", "alpha", "remote", sharedStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.Type != ConflictBookmark {
		t.Errorf("conflict type = %s, want bookmark", c.Type)
	}
	if c.Category != "Work" || c.Bundle != "Reading" {
		t.Errorf("conflict path = %s, want Work/Reading", c.Path())
	}
	if c.LocalBookmark == nil || c.RemoteBookmark == nil {
		t.Fatal("expected both sides populated on the conflict")
	}

	// The merged tree provisionally carries the local version
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}
	if bookmarks[0].Notes != "local" {
		t.Errorf("provisional value = %q, want local", bookmarks[0].Notes)
	}
}

func TestMerge_CategoryTieConflicts(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", localEdit, makeBookmark("1", "alpha", "local", localEdit))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", remoteEdit, makeBookmark("1", "alpha", "remote", remoteEdit))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Type != ConflictCategory {
		t.Errorf("conflict type = %s, want category", result.Conflicts[0].Type)
	}
}

func TestMerge_BundleTieConflicts(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", localEdit,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "local", localEdit))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "remote", remoteEdit))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	if result.Conflicts[0].Type != ConflictBundle {
		t.Errorf("conflict type = %s, want bundle", result.Conflicts[0].Type)
	}
}

func TestMerge_DeletionInference(t *testing.T) {
	m := NewMerger()

	// Both sides knew bookmark beta at the sync point; remote has since
	// removed it and re-stamped the bundle.
	local := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp,
				makeBookmark("1", "alpha", "", baseStamp),
				makeBookmark("2", "beta", "", baseStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", remoteEdit,
				makeBookmark("1", "alpha", "", baseStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 1 {
		t.Fatalf("expected remote deletion to propagate, got %d bookmarks", len(bookmarks))
	}
	if bookmarks[0].Title != "alpha" {
		t.Errorf("surviving bookmark = %q, want alpha", bookmarks[0].Title)
	}
}

func TestMerge_NoDeletionInferenceWhenRemoteUnchanged(t *testing.T) {
	m := NewMerger()

	// Remote bundle has not changed since the sync point, so the local-only
	// bookmark is a local addition, not a remote deletion.
	local := makeRoot(syncPoint,
		makeCategory("Work", localEdit,
			makeBundle("Reading", localEdit,
				makeBookmark("1", "alpha", "", baseStamp),
				makeBookmark("2", "beta", "", localEdit))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp,
				makeBookmark("1", "alpha", "", baseStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 2 {
		t.Errorf("expected local addition preserved, got %d bookmarks", len(bookmarks))
	}
}

func TestMerge_NeverSyncedPreservesEverything(t *testing.T) {
	m := NewMerger()

	local := makeRoot(model.Epoch,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp,
				makeBookmark("1", "alpha", "", baseStamp),
				makeBookmark("2", "beta", "", baseStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", remoteEdit,
				makeBookmark("1", "alpha", "", baseStamp))))

	// A device that has never synced has no baseline to infer deletions from
	result := m.Merge(local, remote, Options{LastSyncedAt: model.Epoch})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 2 {
		t.Errorf("expected never-synced device to keep its bookmarks, got %d", len(bookmarks))
	}
}

func TestMerge_BundleDeletionInference(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp),
			makeBundle("Videos", baseStamp)))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", baseStamp)))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	cat, _ := result.Root.FindCategory("Work")
	if len(cat.Bundles) != 1 {
		t.Fatalf("expected remotely deleted bundle dropped, got %d bundles", len(cat.Bundles))
	}
	if cat.Bundles[0].Name != "Reading" {
		t.Errorf("surviving bundle = %q, want Reading", cat.Bundles[0].Name)
	}
}

func TestMerge_CrossBundleMoveSingleCopy(t *testing.T) {
	m := NewMerger()

	// Remote moved alpha from Reading to Archive after the sync point; local
	// still has it in Reading.
	local := makeRoot(syncPoint,
		makeCategory("Work", baseStamp,
			makeBundle("Reading", baseStamp, makeBookmark("1", "alpha", "", baseStamp)),
			makeBundle("Archive", baseStamp)))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", remoteEdit),
			makeBundle("Archive", remoteEdit, makeBookmark("1", "alpha", "", remoteEdit))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	if got := findBookmarks(t, result.Root, "Work", "Reading"); len(got) != 0 {
		t.Errorf("expected source bundle emptied, got %d bookmarks", len(got))
	}
	if got := findBookmarks(t, result.Root, "Work", "Archive"); len(got) != 1 {
		t.Errorf("expected single copy in target bundle, got %d bookmarks", len(got))
	}
}

func TestMerge_LocalWinsNeverConflicts(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "local", sharedStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "remote", sharedStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint, Strategy: StrategyLocalWins})

	if result.HasConflicts() {
		t.Fatalf("local-wins must never conflict, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if bookmarks[0].Notes != "local" {
		t.Errorf("notes = %q, want local", bookmarks[0].Notes)
	}
}

func TestMerge_RemoteWinsNeverConflicts(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "local", sharedStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "remote", sharedStamp))))

	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint, Strategy: StrategyRemoteWins})

	if result.HasConflicts() {
		t.Fatalf("remote-wins must never conflict, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if bookmarks[0].Notes != "remote" {
		t.Errorf("notes = %q, want remote", bookmarks[0].Notes)
	}
}

func TestMerge_ResolutionsOverrideTies(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", localEdit,
			makeBundle("Reading", localEdit, makeBookmark("1", "alpha", "local", sharedStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", remoteEdit,
			makeBundle("Reading", remoteEdit, makeBookmark("1", "alpha", "remote", sharedStamp))))

	opts := Options{LastSyncedAt: syncPoint}
	first := m.Merge(local, remote, opts)
	if len(first.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(first.Conflicts))
	}

	tests := map[string]struct {
		choice    Choice
		wantNotes string
		wantOpen  bool
	}{
		"resolve local":   {choice: ChoiceLocal, wantNotes: "local"},
		"resolve remote":  {choice: ChoiceRemote, wantNotes: "remote"},
		"pending stays":   {choice: ChoicePending, wantNotes: "local", wantOpen: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resolved := opts
			resolved.Resolutions = []Resolution{first.Conflicts[0].ResolutionFor(tt.choice)}

			result := m.Merge(local, remote, resolved)
			if result.HasConflicts() != tt.wantOpen {
				t.Errorf("HasConflicts = %v, want %v", result.HasConflicts(), tt.wantOpen)
			}
			bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
			if bookmarks[0].Notes != tt.wantNotes {
				t.Errorf("notes = %q, want %q", bookmarks[0].Notes, tt.wantNotes)
			}
		})
	}
}

func TestMerge_ResolutionsOverrideStrategy(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "local", sharedStamp))))
	remote := makeRoot(syncPoint,
		makeCategory("Work", sharedStamp,
			makeBundle("Reading", sharedStamp, makeBookmark("1", "alpha", "remote", sharedStamp))))

	tests := map[string]struct {
		strategy  Strategy
		choice    Choice
		wantNotes string
	}{
		"local choice beats remote-wins": {strategy: StrategyRemoteWins, choice: ChoiceLocal, wantNotes: "local"},
		"remote choice beats local-wins": {strategy: StrategyLocalWins, choice: ChoiceRemote, wantNotes: "remote"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := Options{
				LastSyncedAt: syncPoint,
				Strategy:     tt.strategy,
				Resolutions: []Resolution{{
					Type:     ConflictCategory,
					Category: "Work",
					Choice:   tt.choice,
				}},
			}

			result := m.Merge(local, remote, opts)
			if result.HasConflicts() {
				t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
			}
			bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
			if bookmarks[0].Notes != tt.wantNotes {
				t.Errorf("notes = %q, want %q", bookmarks[0].Notes, tt.wantNotes)
			}
		})
	}
}

func TestMerge_RootStampAndVersion(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint)
	local.Version = 1
	remote := makeRoot(syncPoint)
	remote.Version = 2

	before := model.Now()
	result := m.Merge(local, remote, Options{LastSyncedAt: syncPoint})

	if result.Root.Version != 2 {
		t.Errorf("version = %d, want max of both sides", result.Root.Version)
	}
	md := result.Root.Metadata
	if md.LastModified.Time().Before(before.Time()) {
		t.Error("expected merged root stamped with the merge time")
	}
	if md.LastModified != md.LastSynced {
		t.Errorf("lastModified %s != lastSynced %s on merged root", md.LastModified, md.LastSynced)
	}
}

func TestMerge_MissingVersionDefaults(t *testing.T) {
	m := NewMerger()

	local := makeRoot(syncPoint)
	local.Version = 0
	remote := makeRoot(syncPoint)
	remote.Version = 0

	result := m.Merge(local, remote, Options{})
	if result.Root.Version != model.RootVersion {
		t.Errorf("version = %d, want %d", result.Root.Version, model.RootVersion)
	}
}

func TestMerge_MissingMetadataIsEnsured(t *testing.T) {
	m := NewMerger()

	// No metadata anywhere: everything baselines to the epoch and merges
	// without conflicts because the sides are content-identical.
	local := model.Root{
		Categories: []model.Category{
			{Name: "Work", Bundles: []model.Bundle{
				{Name: "Reading", Bookmarks: []model.Bookmark{{ID: "1", Title: "alpha", URL: "https://example.com/alpha"}}},
			}},
		},
	}
	remote := model.Root{
		Categories: []model.Category{
			{Name: "Work", Bundles: []model.Bundle{
				{Name: "Reading", Bookmarks: []model.Bookmark{{ID: "2", Title: "alpha", URL: "https://example.com/alpha"}}},
			}},
		},
	}

	result := m.Merge(local, remote, Options{})
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %d", len(result.Conflicts))
	}
	bookmarks := findBookmarks(t, result.Root, "Work", "Reading")
	if len(bookmarks) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(bookmarks))
	}
}
