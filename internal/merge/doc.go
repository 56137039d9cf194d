// Package merge reconciles a locally edited bookmark tree with a remotely
// fetched one when both may have changed since the last synchronization.
//
// # Identity
//
// Bookmarks are matched across the two trees by content key (title + url),
// never by their generated ids. Two devices that independently save the same
// page produce different ids for the same logical bookmark; id-based matching
// would duplicate it on every sync.
//
// # Deletion inference
//
// Remote snapshots do not carry soft-deleted nodes, so from the local side a
// bookmark deleted remotely is indistinguishable from one that was simply
// never uploaded. The container timestamp disambiguates: when the remote
// bundle was modified strictly after the device's last sync, a bookmark
// present only locally is taken to be remotely deleted and dropped. A device
// that has never synced has no baseline to infer deletions from, so its
// local-only content always survives.
//
// # Conflicts
//
// A conflict is a value in the result, never an error: when neither side of a
// comparison is strictly newer and the contents differ, the engine records
// both versions, keeps the local one as a provisional placeholder, and leaves
// the decision to the caller. ResolveConflicts reruns the merge with the
// caller's per-node choices and fails only when choices are missing — a
// programming error, not a data condition.
package merge
