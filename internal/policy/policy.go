// Package policy is the access-control core: a pure, deterministic decision
// function over (principal, action, resource context). It performs no I/O;
// callers resolve whatever entities an action needs (today only the task
// assignee set) before asking for a decision. The default is deny.
package policy

import (
	"team-collab-api/internal/models"
)

// Action enumerates everything a principal can attempt.
type Action string

const (
	ActionCreateTeam       Action = "create_team"
	ActionAddTeamMember    Action = "add_team_member"
	ActionRemoveTeamMember Action = "remove_team_member"
	ActionViewTeams        Action = "view_teams"
	ActionCreateProject    Action = "create_project"
	ActionUpdateProject    Action = "update_project"
	ActionDeleteProject    Action = "delete_project"
	ActionViewProjects     Action = "view_projects"
	ActionCreateTask       Action = "create_task"
	ActionUpdateTask       Action = "update_task"
	ActionDeleteTask       Action = "delete_task"
	ActionUpdateTaskStatus Action = "update_task_status"
	ActionViewTasks        Action = "view_tasks"
	ActionViewUsers        Action = "view_users"
	ActionManageUsers      Action = "manage_users"
)

// Principal is an authenticated actor.
type Principal struct {
	UserID string
	Role   models.Role
}

// Resource carries the entity context an action may depend on. Only
// ActionUpdateTaskStatus consults it.
type Resource struct {
	// TaskAssigneeIDs is the assignee set of the task being acted on.
	TaskAssigneeIDs []string
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Allowed: false, Reason: r} }

// Decide evaluates the role/action table. It is the only place access rules
// live; handlers never re-implement role checks.
func Decide(p Principal, action Action, res Resource) Decision {
	if !p.Role.IsValid() {
		return deny("unknown role")
	}

	switch action {
	case ActionViewTeams, ActionViewProjects, ActionViewTasks, ActionViewUsers:
		return allow()

	case ActionCreateTeam, ActionAddTeamMember, ActionRemoveTeamMember,
		ActionCreateProject, ActionUpdateProject, ActionDeleteProject,
		ActionCreateTask, ActionUpdateTask, ActionDeleteTask:
		if p.Role.CanManageWork() {
			return allow()
		}
		return deny("requires admin or project_manager role")

	case ActionUpdateTaskStatus:
		if p.Role.CanManageWork() {
			return allow()
		}
		// The single conditional rule: a team_member may move only tasks
		// they are assigned to. Id equality only.
		for _, id := range res.TaskAssigneeIDs {
			if id == p.UserID {
				return allow()
			}
		}
		return deny("only assignees may update this task")

	case ActionManageUsers:
		if p.Role == models.RoleAdmin {
			return allow()
		}
		return deny("requires admin role")
	}

	return deny("unknown action")
}
