package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/ar90n/bookmarkdown-sub001/internal/config"
	"github.com/ar90n/bookmarkdown-sub001/internal/logging"
	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
	"github.com/ar90n/bookmarkdown-sub001/internal/snapshot"
	"github.com/ar90n/bookmarkdown-sub001/internal/ui"
	"github.com/ar90n/bookmarkdown-sub001/internal/ui/tui"
)

// ErrResolutionCancelled is returned when the user aborts interactive
// conflict resolution.
var ErrResolutionCancelled = errors.New("conflict resolution cancelled")

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge a local bookmark snapshot with a remote one",
		UsageText: "bookmarkdown merge [options] <local> <remote>",
		Description: `Merge two bookmark snapshots into a single tree.

   Bookmarks match by title and URL, and per-node timestamps decide
   which side wins. Exact ties with differing content are surfaced as
   conflicts; resolve them interactively or with --resolve.

   Examples:
     bookmarkdown merge bookmarks.json remote.json
     bookmarkdown merge --strategy local-wins -o merged.yaml a.json b.json
     bookmarkdown merge --interactive bookmarks.json remote.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the merged tree to this path (default: overwrite <local>)",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Merge strategy: timestamp-based, local-wins, remote-wins",
			},
			&cli.StringFlag{
				Name:  "last-synced",
				Usage: "Override the last successful sync time (RFC 3339)",
			},
			&cli.StringFlag{
				Name:  "document",
				Usage: "Document name for sync-state tracking",
			},
			&cli.StringFlag{
				Name:  "resolve",
				Usage: "Resolve every conflict the same way: local or remote",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Resolve conflicts interactively",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Merge and report without writing any files",
			},
		},
		Action: runMerge,
	}
}

func runMerge(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() != 2 {
		return errors.New("merge requires exactly 2 arguments: <local> <remote>")
	}
	localPath := args.Get(0)
	remotePath := args.Get(1)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	strategy := cfg.GetStrategy()
	if s := cmd.String("strategy"); s != "" {
		strategy = merge.Strategy(s)
		if !strategy.IsValid() {
			return fmt.Errorf("invalid strategy %q (valid: %v)", s, merge.AllStrategies())
		}
	}

	document := cfg.Sync.Document
	if d := cmd.String("document"); d != "" {
		document = d
	}

	local, err := snapshot.Load(localPath)
	if err != nil {
		return fmt.Errorf("failed to load local snapshot: %w", err)
	}
	remote, err := snapshot.Load(remotePath)
	if err != nil {
		return fmt.Errorf("failed to load remote snapshot: %w", err)
	}

	state, err := snapshot.LoadState(cfg.State.Location)
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	lastSynced := state.LastSynced(document)
	if ls := cmd.String("last-synced"); ls != "" {
		lastSynced, err = model.ParseTimestamp(ls)
		if err != nil {
			return fmt.Errorf("invalid --last-synced value %q (want RFC 3339): %w", ls, err)
		}
	}

	logging.Info("merging snapshots",
		logging.Document(document),
		logging.Strategy(string(strategy)),
		logging.Path(localPath),
	)

	merger := merge.NewMerger()
	opts := merge.Options{
		LastSyncedAt: lastSynced,
		Strategy:     strategy,
	}
	result := merger.Merge(local, remote, opts)

	if result.HasConflicts() {
		result, err = settleConflicts(cmd, merger, local, remote, opts, result)
		if err != nil {
			return err
		}
	}

	if result.HasConflicts() {
		printConflicts(result.Conflicts)
		return fmt.Errorf("%w: %d conflict(s)", merge.ErrUnresolvedConflicts, len(result.Conflicts))
	}

	if cmd.Bool("dry-run") {
		fmt.Printf("DRY RUN: merged %d categories, no files written\n", len(result.Root.Categories))
		return nil
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = localPath
	}
	if err := snapshot.Save(outputPath, result.Root); err != nil {
		return fmt.Errorf("failed to save merged snapshot: %w", err)
	}

	state.MarkSynced(document, result.Root.Metadata.LastSynced)
	if err := snapshot.SaveState(cfg.State.Location, state); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("Merged %d categories into %s", len(result.Root.Categories), outputPath)))
	return nil
}

// settleConflicts applies the chosen conflict handling path and re-merges
// with the collected resolutions.
func settleConflicts(cmd *cli.Command, merger *merge.Merger, local, remote model.Root, opts merge.Options, result merge.Result) (merge.Result, error) {
	var resolutions []merge.Resolution

	switch {
	case cmd.String("resolve") != "":
		choice := merge.Choice(cmd.String("resolve"))
		if choice != merge.ChoiceLocal && choice != merge.ChoiceRemote {
			return result, fmt.Errorf("invalid --resolve value %q (valid: local, remote)", cmd.String("resolve"))
		}
		for _, c := range result.Conflicts {
			resolutions = append(resolutions, c.ResolutionFor(choice))
		}

	case cmd.Bool("interactive"):
		var err error
		resolutions, err = resolveInteractively(result.Conflicts)
		if err != nil {
			return result, err
		}

	default:
		return result, nil
	}

	logging.Debug("re-merging with resolutions", logging.Count(len(resolutions)))

	opts.Resolutions = resolutions
	return merger.Merge(local, remote, opts), nil
}

// resolveInteractively picks the TUI when attached to a terminal and falls
// back to a line-oriented prompt otherwise.
func resolveInteractively(conflicts []merge.Conflict) ([]merge.Resolution, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		result, err := tui.RunConflictPicker(conflicts)
		if err != nil {
			return nil, fmt.Errorf("conflict picker failed: %w", err)
		}
		switch result.Action {
		case tui.PickerActionApply:
			return result.Resolutions, nil
		default:
			return nil, ErrResolutionCancelled
		}
	}

	return NewConflictResolver().ResolveConflicts(conflicts)
}

func printConflicts(conflicts []merge.Conflict) {
	fmt.Println(ui.StatusConflict(fmt.Sprintf("%d conflict(s) remain:", len(conflicts))))
	for _, c := range conflicts {
		fmt.Printf("  %s\n", c.Summary())
	}
	fmt.Println("\nRe-run with --interactive or --resolve local|remote to settle them.")
}
