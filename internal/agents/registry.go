package agents

import (
	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// Role is the stable key a rule resolves its agent through. Rule code never
// looks agents up by display name; renaming an agent row cannot detach it
// from its rules.
type Role string

const (
	RoleFacilitator Role = "facilitator"
	RoleSocratic    Role = "socratic"
)

// Registry resolves roles to agent rows at evaluation time, so is_active
// toggles take effect immediately without re-wiring.
type Registry struct {
	agents repos.AgentRepo
	log    *logger.Logger
}

func NewRegistry(agents repos.AgentRepo, log *logger.Logger) *Registry {
	return &Registry{agents: agents, log: log.With("component", "AgentRegistry")}
}

// Active returns the agent bound to role, or (nil, nil) when the agent is
// missing or inactive. Both are normal suppressed states, not errors.
func (r *Registry) Active(dbc dbctx.Context, role Role) (*types.Agent, error) {
	agent, err := r.agents.GetByRoleKey(dbc, string(role))
	if err != nil {
		return nil, err
	}
	if agent == nil || !agent.IsActive {
		return nil, nil
	}
	return agent, nil
}
