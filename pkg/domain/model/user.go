package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// User is a member of the incident response team. Identity itself comes from
// an external provider; this record only carries what the workflow core
// needs: a stable ID and a role tier.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      types.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
