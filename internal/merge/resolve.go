package merge

import (
	"errors"
	"fmt"

	"github.com/ar90n/bookmarkdown-sub001/internal/logging"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// ErrUnresolvedConflicts means the supplied resolution set did not cover
// every surfaced conflict. This is a caller contract violation, not a data
// condition: run ListConflicts first and resolve each entry.
var ErrUnresolvedConflicts = errors.New("conflicts still exist after applying resolutions")

// ResolveConflicts reruns the merge with the caller's per-node choices and
// returns the settled tree. Fails with ErrUnresolvedConflicts if any conflict
// remains open, including ones resolved as pending.
func ResolveConflicts(local, remote model.Root, lastSynced model.Timestamp, resolutions []Resolution) (model.Root, error) {
	result := NewMerger().Merge(local, remote, Options{
		LastSyncedAt: lastSynced,
		Resolutions:  resolutions,
	})
	if result.HasConflicts() {
		logging.Error("resolution set incomplete",
			logging.Operation("resolve"),
			logging.Count(len(result.Conflicts)),
		)
		return model.Root{}, fmt.Errorf("%w: %d remaining", ErrUnresolvedConflicts, len(result.Conflicts))
	}
	return result.Root, nil
}

// HasConflicts is a pure read-only probe: it runs the default merge and
// reports whether the caller needs to collect resolutions before committing.
func HasConflicts(local, remote model.Root, lastSynced model.Timestamp) bool {
	result := NewMerger().Merge(local, remote, Options{LastSyncedAt: lastSynced})
	return result.HasConflicts()
}

// ListConflicts runs the default merge and returns exactly the conflicts
// Merge would report, without persisting anything.
func ListConflicts(local, remote model.Root, lastSynced model.Timestamp) []Conflict {
	result := NewMerger().Merge(local, remote, Options{LastSyncedAt: lastSynced})
	return result.Conflicts
}
