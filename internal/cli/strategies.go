package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
)

func strategiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategies",
		Usage: "List available merge strategies",
		Action: func(_ context.Context, _ *cli.Command) error {
			for _, s := range merge.AllStrategies() {
				marker := " "
				if s == merge.DefaultStrategy {
					marker = "*"
				}
				fmt.Printf("%s %-16s %s\n", marker, s, s.Description())
			}
			fmt.Println("\n* default")
			return nil
		},
	}
}
