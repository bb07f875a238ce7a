package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var playbookCfg config.Playbooks

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate playbook template files",
		Flags:   playbookCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if len(playbookCfg.Paths()) == 0 {
				return goerr.New("no playbook template files specified, use --playbook")
			}

			playbooks, err := playbookCfg.Load()
			if err != nil {
				color.Red("NG: %v", err)
				return goerr.Wrap(err, "playbook validation failed")
			}

			for _, p := range playbooks {
				items := 0
				for _, step := range p.Steps {
					items += len(step.Checklist)
				}
				fmt.Printf("%s %s (%d steps, %d checklist items)\n",
					color.GreenString("OK:"), p.Name, len(p.Steps), items)
			}

			color.Green("All %d playbook template(s) are valid", len(playbooks))
			return nil
		},
	}
}
