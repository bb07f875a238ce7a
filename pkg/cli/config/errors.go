package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrMissingName       = goerr.New("name is required")
	ErrMissingSteps      = goerr.New("playbook requires at least one step")
	ErrMissingStepTitle  = goerr.New("step title is required")
	ErrDuplicatePlaybook = goerr.New("duplicate playbook name")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	StepIndexKey  = "step_index"
)
