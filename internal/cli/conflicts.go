package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/config"
	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
	"github.com/ar90n/bookmarkdown-sub001/internal/snapshot"
	"github.com/ar90n/bookmarkdown-sub001/internal/ui"
)

func conflictsCommand() *cli.Command {
	return &cli.Command{
		Name:      "conflicts",
		Usage:     "List the conflicts a merge of two snapshots would surface",
		UsageText: "bookmarkdown conflicts [options] <local> <remote>",
		Description: `Probe two snapshots for conflicts without merging them.

   Nothing is written; the exit status is zero whether or not conflicts
   exist.

   Examples:
     bookmarkdown conflicts bookmarks.json remote.json
     bookmarkdown conflicts --last-synced 2024-01-01T00:00:00.000Z a.json b.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "last-synced",
				Usage: "Override the last successful sync time (RFC 3339)",
			},
			&cli.StringFlag{
				Name:  "document",
				Usage: "Document name for sync-state tracking",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("conflicts requires exactly 2 arguments: <local> <remote>")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			local, err := snapshot.Load(args.Get(0))
			if err != nil {
				return fmt.Errorf("failed to load local snapshot: %w", err)
			}
			remote, err := snapshot.Load(args.Get(1))
			if err != nil {
				return fmt.Errorf("failed to load remote snapshot: %w", err)
			}

			document := cfg.Sync.Document
			if d := cmd.String("document"); d != "" {
				document = d
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

			conflicts := merge.ListConflicts(local, remote, lastSynced)
			if len(conflicts) == 0 {
				fmt.Println(ui.StatusSuccess("No conflicts"))
				return nil
			}

			displayConflictSummary(conflicts)
			return nil
		},
	}
}

// displayConflictSummary shows a table of all conflicts.
func displayConflictSummary(conflicts []merge.Conflict) {
	fmt.Println(ui.StatusConflict(fmt.Sprintf("%d conflict(s)", len(conflicts))))
	fmt.Printf("%-10s %-40s %-26s %-26s\n", "LEVEL", "PATH", "LOCAL", "REMOTE")
	fmt.Printf("%-10s %-40s %-26s %-26s\n", "-----", "----", "-----", "------")

	for _, c := range conflicts {
		path := c.Path()
		if len(path) > 40 {
			path = path[:37] + "..."
		}
		fmt.Printf("%-10s %-40s %-26s %-26s\n", c.Type, path, c.LocalModified, c.RemoteModified)
	}
	fmt.Println()
}
