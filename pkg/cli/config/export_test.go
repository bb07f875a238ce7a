package config

// SetPaths injects template file paths without going through CLI flags.
func (p *Playbooks) SetPaths(paths []string) {
	p.paths = paths
}
