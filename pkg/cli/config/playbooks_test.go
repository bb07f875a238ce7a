package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/cli/config"
)

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestPlaybooks_Load(t *testing.T) {
	t.Run("valid file with two playbooks", func(t *testing.T) {
		path := writeTemplate(t, "playbooks.toml", `
[[playbook]]
name = "Ransomware response"

[[playbook.step]]
title = "Isolate affected hosts"
description = "Pull hosts off the network before anything else"
checklist = ["identify hosts", "disable network interfaces"]

[[playbook.step]]
title = "Preserve evidence"

[[playbook]]
name = "Phishing triage"

[[playbook.step]]
title = "Collect the reported mail"
checklist = ["headers", "attachments"]
`)

		var cfg config.Playbooks
		cfg.SetPaths([]string{path})

		playbooks, err := cfg.Load()
		gt.NoError(t, err).Required()
		gt.Number(t, len(playbooks)).Equal(2)
		gt.Value(t, playbooks[0].Name).Equal("Ransomware response")
		gt.Number(t, len(playbooks[0].Steps)).Equal(2)
		gt.Array(t, playbooks[0].Steps[0].Checklist).
			Equal([]string{"identify hosts", "disable network interfaces"})
		gt.Value(t, playbooks[1].Steps[0].Title).Equal("Collect the reported mail")
	})

	t.Run("missing step title fails", func(t *testing.T) {
		path := writeTemplate(t, "bad.toml", `
[[playbook]]
name = "Broken"

[[playbook.step]]
description = "no title here"
`)

		var cfg config.Playbooks
		cfg.SetPaths([]string{path})

		_, err := cfg.Load()
		gt.Error(t, err).Is(config.ErrMissingStepTitle)
	})

	t.Run("playbook without steps fails", func(t *testing.T) {
		path := writeTemplate(t, "empty.toml", `
[[playbook]]
name = "Empty"
`)

		var cfg config.Playbooks
		cfg.SetPaths([]string{path})

		_, err := cfg.Load()
		gt.Error(t, err).Is(config.ErrMissingSteps)
	})

	t.Run("duplicate name across files fails", func(t *testing.T) {
		content := `
[[playbook]]
name = "Ransomware response"

[[playbook.step]]
title = "Isolate affected hosts"
`
		first := writeTemplate(t, "first.toml", content)
		second := writeTemplate(t, "second.toml", content)

		var cfg config.Playbooks
		cfg.SetPaths([]string{first, second})

		_, err := cfg.Load()
		gt.Error(t, err).Is(config.ErrDuplicatePlaybook)
	})

	t.Run("missing file fails", func(t *testing.T) {
		var cfg config.Playbooks
		cfg.SetPaths([]string{"/no/such/playbooks.toml"})

		_, err := cfg.Load()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("no paths loads nothing", func(t *testing.T) {
		var cfg config.Playbooks
		playbooks, err := cfg.Load()
		gt.NoError(t, err).Required()
		gt.Number(t, len(playbooks)).Equal(0)
	})
}
