package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/config"
	"github.com/ar90n/bookmarkdown-sub001/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the effective configuration",
				Action: func(_ context.Context, _ *cli.Command) error {
					cfg, err := config.Load()
					if err != nil {
						return fmt.Errorf("failed to load configuration: %w", err)
					}

					data, err := yaml.Marshal(cfg)
					if err != nil {
						return fmt.Errorf("failed to render configuration: %w", err)
					}

					fmt.Printf("# %s\n", config.FilePath())
					fmt.Print(string(data))
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := config.FilePath()
					if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
						return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
					}

					if err := config.Default().Save(); err != nil {
						return fmt.Errorf("failed to write configuration: %w", err)
					}

					fmt.Println(ui.StatusSuccess("Wrote " + path))
					return nil
				},
			},
		},
	}
}
