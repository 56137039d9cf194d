package merge

import (
	"log/slog"

	"github.com/ar90n/bookmarkdown-sub001/internal/logging"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// Options configures a merge invocation.
type Options struct {
	// LastSyncedAt is when this device last completed a successful sync.
	// The epoch (or empty) means "never", which disables deletion inference.
	LastSyncedAt model.Timestamp

	// Strategy is the precedence policy. Defaults to StrategyTimestamp.
	Strategy Strategy

	// Resolutions are caller-supplied decisions for previously surfaced
	// conflicts. A matching resolution overrides the strategy for that node.
	Resolutions []Resolution
}

// Result is the outcome of a merge: a complete tree plus any comparisons the
// engine could not settle on its own. Conflicted nodes carry the local
// version provisionally, so Root is always usable for display; it is only
// final once HasConflicts reports false.
type Result struct {
	Root      model.Root
	Conflicts []Conflict
}

// HasConflicts returns true if there are unresolved conflicts.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Merger merges two bookmark trees. It holds no state between calls and is
// safe for concurrent use.
type Merger struct{}

// NewMerger creates a new merger.
func NewMerger() *Merger {
	return &Merger{}
}

// mergeState carries the per-invocation inputs shared by every level of the
// reconciliation.
type mergeState struct {
	strategy    Strategy
	lastSynced  model.Timestamp
	neverSynced bool
	resolutions map[resolutionKey]Choice
	conflicts   []Conflict
}

func (s *mergeState) resolution(key resolutionKey) (Choice, bool) {
	choice, ok := s.resolutions[key]
	return choice, ok
}

// canInferDeletion reports whether a node present only locally inside a
// container existing on both sides should be treated as remotely deleted.
// The remote container must have changed strictly after the last sync, and
// the device must have synced at least once: with no baseline there is
// nothing to infer a deletion from.
func (s *mergeState) canInferDeletion(remoteContainerModified model.Timestamp) bool {
	return !s.neverSynced && remoteContainerModified.After(s.lastSynced)
}

// Merge combines the local and remote trees. It never fails: conflicts are
// reported in the result, not as errors.
func (m *Merger) Merge(local, remote model.Root, opts Options) Result {
	local = model.EnsureRootMetadata(local)
	remote = model.EnsureRootMetadata(remote)

	strategy := opts.Strategy
	if !strategy.IsValid() {
		strategy = DefaultStrategy
	}

	lastSynced := opts.LastSyncedAt
	if lastSynced == "" {
		lastSynced = model.Epoch
	}

	state := &mergeState{
		strategy:    strategy,
		lastSynced:  lastSynced,
		neverSynced: lastSynced.IsEpoch() || local.LastSynced().IsEpoch(),
		resolutions: indexResolutions(opts.Resolutions),
	}

	logging.Debug("starting merge",
		logging.Operation("merge"),
		logging.Strategy(string(strategy)),
		slog.Bool("never_synced", state.neverSynced),
		slog.Int("local_categories", len(local.Categories)),
		slog.Int("remote_categories", len(remote.Categories)),
	)

	now := model.Now()

	version := local.Version
	if remote.Version > version {
		version = remote.Version
	}
	if version == 0 {
		version = model.RootVersion
	}

	merged := model.Root{
		Version:    version,
		Categories: m.mergeCategories(local.Categories, remote.Categories, state),
		Metadata: model.Metadata{
			// Conflicts do not block stamping: the tree is complete either
			// way, it just is not final until they are resolved.
			LastModified: now,
			LastSynced:   now,
		},
	}

	logging.Debug("merge completed",
		logging.Operation("merge"),
		logging.Count(len(state.conflicts)),
	)

	return Result{Root: merged, Conflicts: state.conflicts}
}

// mergeCategories walks the union of category names: local categories in
// local order, then remote-only categories in remote order.
func (m *Merger) mergeCategories(local, remote []model.Category, state *mergeState) []model.Category {
	remoteByName := make(map[string]model.Category, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}
	localNames := make(map[string]struct{}, len(local))

	merged := make([]model.Category, 0, len(local))
	for _, lc := range local {
		localNames[lc.Name] = struct{}{}
		rc, ok := remoteByName[lc.Name]
		if !ok {
			// Present only locally. Categories are not subject to deletion
			// inference; the container-timestamp rule applies below them.
			merged = append(merged, lc)
			continue
		}
		merged = append(merged, m.mergeCategoryPair(lc, rc, state))
	}
	for _, rc := range remote {
		if _, ok := localNames[rc.Name]; !ok {
			merged = append(merged, rc)
		}
	}
	return merged
}

// mergeCategoryPair reconciles a category present in both trees.
func (m *Merger) mergeCategoryPair(lc, rc model.Category, state *mergeState) model.Category {
	// An explicit resolution overrides the strategy entirely for this
	// category.
	if choice, ok := state.resolution(resolutionKey{ConflictCategory, lc.Name, "", ""}); ok {
		switch choice {
		case ChoiceLocal:
			return lc
		case ChoiceRemote:
			return rc
		}
		// ChoicePending falls through to the timestamp comparison and, on a
		// tie, keeps the conflict open.
	}

	switch state.strategy {
	case StrategyLocalWins:
		return lc
	case StrategyRemoteWins:
		return rc
	}

	if model.CategoriesEqual(lc, rc) {
		return lc
	}

	lm, rm := lc.LastModified(), rc.LastModified()
	if lm.Equal(rm) {
		state.conflicts = append(state.conflicts, Conflict{
			Type:           ConflictCategory,
			Category:       lc.Name,
			LocalModified:  lm,
			RemoteModified: rm,
			LocalCategory:  &lc,
			RemoteCategory: &rc,
		})
		return lc
	}

	winner := lc
	if rm.After(lm) {
		winner = rc
	}
	winner.Bundles = m.mergeBundles(lc, rc, state)
	return winner
}

// mergeBundles reconciles the bundle sets of a category present on both
// sides. A bundle present only locally is dropped when the remote category
// changed after the last sync (remote deletion), mirroring the bookmark rule
// one level down.
func (m *Merger) mergeBundles(lc, rc model.Category, state *mergeState) []model.Bundle {
	remoteByName := make(map[string]model.Bundle, len(rc.Bundles))
	for _, b := range rc.Bundles {
		remoteByName[b.Name] = b
	}
	localNames := make(map[string]struct{}, len(lc.Bundles))

	merged := make([]model.Bundle, 0, len(lc.Bundles))
	for _, lb := range lc.Bundles {
		localNames[lb.Name] = struct{}{}
		rb, ok := remoteByName[lb.Name]
		if !ok {
			if state.canInferDeletion(rc.LastModified()) {
				logging.Debug("dropping locally-only bundle as remotely deleted",
					logging.Category(lc.Name),
					logging.Bundle(lb.Name),
				)
				continue
			}
			merged = append(merged, lb)
			continue
		}
		merged = append(merged, m.mergeBundlePair(lc.Name, lb, rb, state))
	}
	for _, rb := range rc.Bundles {
		if _, ok := localNames[rb.Name]; !ok {
			merged = append(merged, rb)
		}
	}
	return merged
}

// mergeBundlePair reconciles a bundle present in both trees.
func (m *Merger) mergeBundlePair(category string, lb, rb model.Bundle, state *mergeState) model.Bundle {
	if choice, ok := state.resolution(resolutionKey{ConflictBundle, category, lb.Name, ""}); ok {
		switch choice {
		case ChoiceLocal:
			return lb
		case ChoiceRemote:
			return rb
		}
	}

	if model.BundlesEqual(lb, rb) {
		return lb
	}

	lm, rm := lb.LastModified(), rb.LastModified()
	if lm.Equal(rm) {
		state.conflicts = append(state.conflicts, Conflict{
			Type:           ConflictBundle,
			Category:       category,
			Bundle:         lb.Name,
			LocalModified:  lm,
			RemoteModified: rm,
			LocalBundle:    &lb,
			RemoteBundle:   &rb,
		})
		return lb
	}

	winner := lb
	if rm.After(lm) {
		winner = rb
	}
	winner.Bookmarks = m.mergeBookmarks(category, lb, rb, state)
	return winner
}

// mergeBookmarks reconciles the bookmark sets of a bundle present on both
// sides, matching by content key.
func (m *Merger) mergeBookmarks(category string, lb, rb model.Bundle, state *mergeState) []model.Bookmark {
	remoteByKey := make(map[string]model.Bookmark, len(rb.Bookmarks))
	for _, bm := range rb.Bookmarks {
		remoteByKey[model.ContentKey(bm)] = bm
	}
	matched := make(map[string]struct{}, len(lb.Bookmarks))

	merged := make([]model.Bookmark, 0, len(lb.Bookmarks))
	for _, lbm := range lb.Bookmarks {
		key := model.ContentKey(lbm)
		rbm, ok := remoteByKey[key]
		if !ok {
			if state.canInferDeletion(rb.LastModified()) {
				logging.Debug("dropping locally-only bookmark as remotely deleted",
					logging.Category(category),
					logging.Bundle(lb.Name),
					logging.Bookmark(lbm.Title),
				)
				continue
			}
			merged = append(merged, lbm)
			continue
		}
		matched[key] = struct{}{}
		merged = append(merged, m.mergeBookmarkPair(category, lb.Name, lbm, rbm, state))
	}
	for _, rbm := range rb.Bookmarks {
		if _, ok := matched[model.ContentKey(rbm)]; !ok {
			merged = append(merged, rbm)
		}
	}
	return merged
}

// mergeBookmarkPair reconciles two content-matched bookmarks. Ids may differ
// between the sides; the surviving value keeps whichever id it carried.
func (m *Merger) mergeBookmarkPair(category, bundle string, lbm, rbm model.Bookmark, state *mergeState) model.Bookmark {
	if choice, ok := state.resolution(resolutionKey{ConflictBookmark, category, bundle, lbm.ID}); ok {
		switch choice {
		case ChoiceLocal:
			return lbm
		case ChoiceRemote:
			return rbm
		}
	}

	if model.BookmarksEqual(lbm, rbm) {
		return lbm
	}

	lm, rm := lbm.LastModified(), rbm.LastModified()
	if lm.Equal(rm) {
		state.conflicts = append(state.conflicts, Conflict{
			Type:           ConflictBookmark,
			Category:       category,
			Bundle:         bundle,
			BookmarkID:     lbm.ID,
			LocalModified:  lm,
			RemoteModified: rm,
			LocalBookmark:  &lbm,
			RemoteBookmark: &rbm,
		})
		return lbm
	}

	if rm.After(lm) {
		return rbm
	}
	return lbm
}
