package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
	"github.com/ar90n/bookmarkdown-sub001/internal/snapshot"
)

func TestVersionVariables(t *testing.T) {
	// Version should be set (even if to "dev")
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Commit and BuildDate should have defaults
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

// captureOutput captures stdout during test execution.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	f()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return buf.String()
}

// isolateConfig points config and sync state at a temp directory so tests
// never touch the real home directory.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeSnapshot(t *testing.T, path string, root model.Root) {
	t.Helper()
	if err := snapshot.Save(path, root); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", path, err)
	}
}

func treeWithBookmark(title, notes string, modified model.Timestamp) model.Root {
	return model.Root{
		Version: model.RootVersion,
		Categories: []model.Category{
			{
				Name: "Work",
				Bundles: []model.Bundle{
					{
						Name: "Reading",
						Bookmarks: []model.Bookmark{
							{
								ID:    "bm-" + title,
								Title: title,
								URL:   "https://example.com/" + title,
								Notes: notes,
								Metadata: model.Metadata{
									LastModified: modified,
									LastSynced:   modified,
								},
							},
						},
						Metadata: model.Metadata{LastModified: modified, LastSynced: modified},
					},
				},
				Metadata: model.Metadata{LastModified: modified, LastSynced: modified},
			},
		},
		Metadata: model.Metadata{LastModified: modified, LastSynced: modified},
	}
}

func TestMergeCommand_UnionsBothSides(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	outPath := filepath.Join(dir, "merged.json")

	writeSnapshot(t, localPath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))
	writeSnapshot(t, remotePath, treeWithBookmark("beta", "", "2024-03-02T10:00:00.000Z"))

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "merge", "-o", outPath, localPath, remotePath})
		if err != nil {
			t.Errorf("merge failed: %v", err)
		}
	})

	if !strings.Contains(output, "Merged") {
		t.Errorf("expected success message, got: %q", output)
	}

	merged, err := snapshot.Load(outPath)
	if err != nil {
		t.Fatalf("failed to load merged snapshot: %v", err)
	}
	if len(merged.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(merged.Categories))
	}
	bookmarks := merged.Categories[0].Bundles[0].Bookmarks
	if len(bookmarks) != 2 {
		t.Errorf("expected union of both bookmarks, got %d", len(bookmarks))
	}
}

func TestMergeCommand_ConflictWithoutResolution(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")

	ts := model.Timestamp("2024-03-01T10:00:00.000Z")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "local notes", ts))
	writeSnapshot(t, remotePath, treeWithBookmark("alpha", "remote notes", ts))

	captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "merge", localPath, remotePath})
		if !errors.Is(err, merge.ErrUnresolvedConflicts) {
			t.Errorf("expected unresolved-conflicts error, got: %v", err)
		}
	})
}

func TestMergeCommand_ResolveRemote(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	outPath := filepath.Join(dir, "merged.json")

	ts := model.Timestamp("2024-03-01T10:00:00.000Z")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "local notes", ts))
	writeSnapshot(t, remotePath, treeWithBookmark("alpha", "remote notes", ts))

	captureOutput(t, func() {
		err := Run(context.Background(), []string{
			"bookmarkdown", "merge", "--resolve", "remote", "-o", outPath, localPath, remotePath,
		})
		if err != nil {
			t.Errorf("merge with --resolve remote failed: %v", err)
		}
	})

	merged, err := snapshot.Load(outPath)
	if err != nil {
		t.Fatalf("failed to load merged snapshot: %v", err)
	}
	got := merged.Categories[0].Bundles[0].Bookmarks[0].Notes
	if got != "remote notes" {
		t.Errorf("expected remote notes to win, got %q", got)
	}
}

func TestMergeCommand_DryRunWritesNothing(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	outPath := filepath.Join(dir, "merged.json")

	writeSnapshot(t, localPath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))
	writeSnapshot(t, remotePath, treeWithBookmark("beta", "", "2024-03-02T10:00:00.000Z"))

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{
			"bookmarkdown", "merge", "--dry-run", "-o", outPath, localPath, remotePath,
		})
		if err != nil {
			t.Errorf("dry-run merge failed: %v", err)
		}
	})

	if !strings.Contains(output, "DRY RUN") {
		t.Errorf("expected dry-run message, got: %q", output)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Errorf("expected no output file from dry-run")
	}
}

func TestMergeCommand_InvalidStrategy(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))
	writeSnapshot(t, remotePath, treeWithBookmark("beta", "", "2024-03-02T10:00:00.000Z"))

	err := Run(context.Background(), []string{
		"bookmarkdown", "merge", "--strategy", "newest-wins", localPath, remotePath,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid strategy") {
		t.Errorf("expected invalid strategy error, got: %v", err)
	}
}

func TestMergeCommand_InvalidLastSynced(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))
	writeSnapshot(t, remotePath, treeWithBookmark("beta", "", "2024-03-02T10:00:00.000Z"))

	for _, command := range []string{"merge", "conflicts"} {
		t.Run(command, func(t *testing.T) {
			err := Run(context.Background(), []string{
				"bookmarkdown", command, "--last-synced", "yesterday", localPath, remotePath,
			})
			if err == nil || !strings.Contains(err.Error(), "invalid --last-synced") {
				t.Errorf("expected invalid --last-synced error, got: %v", err)
			}
		})
	}
}

func TestMergeCommand_MissingArguments(t *testing.T) {
	isolateConfig(t)

	err := Run(context.Background(), []string{"bookmarkdown", "merge", "only-one.json"})
	if err == nil || !strings.Contains(err.Error(), "exactly 2 arguments") {
		t.Errorf("expected argument error, got: %v", err)
	}
}

func TestConflictsCommand_NoConflicts(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))
	writeSnapshot(t, remotePath, treeWithBookmark("alpha", "", "2024-03-01T10:00:00.000Z"))

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "conflicts", localPath, remotePath})
		if err != nil {
			t.Errorf("conflicts command failed: %v", err)
		}
	})

	if !strings.Contains(output, "No conflicts") {
		t.Errorf("expected no-conflicts message, got: %q", output)
	}
}

func TestConflictsCommand_ListsConflicts(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()

	localPath := filepath.Join(dir, "local.json")
	remotePath := filepath.Join(dir, "remote.json")

	ts := model.Timestamp("2024-03-01T10:00:00.000Z")
	writeSnapshot(t, localPath, treeWithBookmark("alpha", "local notes", ts))
	writeSnapshot(t, remotePath, treeWithBookmark("alpha", "remote notes", ts))

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "conflicts", localPath, remotePath})
		if err != nil {
			t.Errorf("conflicts command failed: %v", err)
		}
	})

	if !strings.Contains(output, "conflict(s)") {
		t.Errorf("expected conflict listing, got: %q", output)
	}
	if !strings.Contains(output, "Work") {
		t.Errorf("expected conflict path in listing, got: %q", output)
	}
}

func TestStrategiesCommand(t *testing.T) {
	isolateConfig(t)

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "strategies"})
		if err != nil {
			t.Errorf("strategies command failed: %v", err)
		}
	})

	for _, s := range merge.AllStrategies() {
		if !strings.Contains(output, string(s)) {
			t.Errorf("expected %q in strategies output, got: %q", s, output)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	isolateConfig(t)

	output := captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "config", "init"})
		if err != nil {
			t.Errorf("config init failed: %v", err)
		}
	})
	if !strings.Contains(output, "Wrote") {
		t.Errorf("expected init confirmation, got: %q", output)
	}

	// A second init without --force should refuse to clobber
	err := Run(context.Background(), []string{"bookmarkdown", "config", "init"})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected already-exists error, got: %v", err)
	}

	output = captureOutput(t, func() {
		err := Run(context.Background(), []string{"bookmarkdown", "config", "show"})
		if err != nil {
			t.Errorf("config show failed: %v", err)
		}
	})
	if !strings.Contains(output, "default_strategy") {
		t.Errorf("expected rendered configuration, got: %q", output)
	}
}
