package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Playbooks holds CLI flags for playbook template files. Each file is a
// TOML document with one or more [[playbook]] tables that are seeded into
// the repository at startup.
type Playbooks struct {
	paths []string
}

// PlaybookFile is the TOML layout of a playbook template file
type PlaybookFile struct {
	Playbooks []PlaybookDef `toml:"playbook"`
}

// PlaybookDef represents one playbook template
type PlaybookDef struct {
	Name  string    `toml:"name"`
	Steps []StepDef `toml:"step"`
}

// StepDef represents one step of a playbook template
type StepDef struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Checklist   []string `toml:"checklist"`
}

// Validate checks the playbook definition before it reaches the repository
func (p *PlaybookDef) Validate() error {
	if p.Name == "" {
		return goerr.Wrap(ErrMissingName, "playbook name is required")
	}
	if len(p.Steps) == 0 {
		return goerr.Wrap(ErrMissingSteps, "playbook has no steps", goerr.V("name", p.Name))
	}
	for i, step := range p.Steps {
		if step.Title == "" {
			return goerr.Wrap(ErrMissingStepTitle, "step title is required",
				goerr.V("name", p.Name), goerr.V(StepIndexKey, i))
		}
	}
	return nil
}

// Model converts the definition into the domain model
func (p *PlaybookDef) Model() *model.Playbook {
	steps := make([]model.PlaybookStep, len(p.Steps))
	for i, step := range p.Steps {
		steps[i] = model.PlaybookStep{
			Title:       step.Title,
			Description: step.Description,
			Checklist:   step.Checklist,
		}
	}
	return &model.Playbook{
		Name:  p.Name,
		Steps: steps,
	}
}

// Flags returns CLI flags for playbook template configuration
func (p *Playbooks) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "playbook",
			Usage:       "Path to a playbook template TOML file (repeatable)",
			Category:    "Playbooks",
			Sources:     cli.EnvVars("BRIAREUS_PLAYBOOK"),
			Destination: &p.paths,
		},
	}
}

// Paths returns the configured template file paths
func (p *Playbooks) Paths() []string {
	return p.paths
}

// Load reads, parses and validates every configured template file
func (p *Playbooks) Load() ([]*model.Playbook, error) {
	var playbooks []*model.Playbook
	seen := map[string]string{}

	for _, path := range p.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read playbook file",
				goerr.V(ConfigPathKey, path))
		}

		var file PlaybookFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse playbook file", goerr.V(ConfigPathKey, path))
		}

		for i := range file.Playbooks {
			def := &file.Playbooks[i]
			if err := def.Validate(); err != nil {
				return nil, goerr.Wrap(err, "invalid playbook definition", goerr.V(ConfigPathKey, path))
			}
			if prev, ok := seen[def.Name]; ok {
				return nil, goerr.Wrap(ErrDuplicatePlaybook, "playbook name appears twice",
					goerr.V("name", def.Name), goerr.V(ConfigPathKey, path), goerr.V("first_seen", prev))
			}
			seen[def.Name] = path
			playbooks = append(playbooks, def.Model())
		}
	}

	return playbooks, nil
}
