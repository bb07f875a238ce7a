package model

import "github.com/secmon-lab/briareus/pkg/domain/types"

// TransitionEvent describes a notify-worthy lifecycle transition. Lifecycle
// managers publish these on the event bus; the notification fan-out is the
// only consumer and the only component that writes Notification rows.
type TransitionEvent struct {
	Type    types.NotificationType
	CaseID  int64
	ActorID string // excluded from the recipient set
	Title   string
	Message string
}
