package model

import "time"

// Playbook is a reusable, ordered template of response steps. It is a
// template, not instance state: execution progress lives in
// PlaybookExecution, and editing a template does not touch executions that
// already started from it.
type Playbook struct {
	ID        int64
	Name      string
	Steps     []PlaybookStep
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlaybookStep is one step of a playbook template with an optional ordered
// checklist.
type PlaybookStep struct {
	Title       string
	Description string
	Checklist   []string
}
