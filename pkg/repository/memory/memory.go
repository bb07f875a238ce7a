package memory

import (
	"errors"

	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend used for development and tests
type Memory struct {
	cases         *caseRepository
	tasks         *taskRepository
	playbooks     *playbookRepository
	casePlaybooks *casePlaybookRepository
	executions    *executionRepository
	notifications *notificationRepository
	users         *userRepository
	tokens        *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		cases:         newCaseRepository(),
		tasks:         newTaskRepository(),
		playbooks:     newPlaybookRepository(),
		casePlaybooks: newCasePlaybookRepository(),
		executions:    newExecutionRepository(),
		notifications: newNotificationRepository(),
		users:         newUserRepository(),
		tokens:        newTokenStore(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.cases
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.tasks
}

func (m *Memory) Playbook() interfaces.PlaybookRepository {
	return m.playbooks
}

func (m *Memory) CasePlaybook() interfaces.CasePlaybookRepository {
	return m.casePlaybooks
}

func (m *Memory) Execution() interfaces.ExecutionRepository {
	return m.executions
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notifications
}

func (m *Memory) User() interfaces.UserRepository {
	return m.users
}
