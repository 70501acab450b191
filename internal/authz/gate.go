package authz

import (
	_ "embed"
	"strings"

	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

//go:embed model.conf
var modelConf string

const resourceRequests = "requests"

const (
	actViewAll  = "view_all"
	actViewTeam = "view_team"
	actViewMy   = "view_my"
	actDecide   = "decide"
)

var defaultPolicies = [][]string{
	{string(domain.RoleAdmin), resourceRequests, actViewAll},
	{string(domain.RoleAdmin), resourceRequests, actViewMy},
	{string(domain.RoleHR), resourceRequests, actViewAll},
	{string(domain.RoleHR), resourceRequests, actViewTeam},
	{string(domain.RoleHR), resourceRequests, actViewMy},
	{string(domain.RoleHR), resourceRequests, actDecide},
	{string(domain.RoleTeamLead), resourceRequests, actViewTeam},
	{string(domain.RoleTeamLead), resourceRequests, actViewMy},
	{string(domain.RoleTeamLead), resourceRequests, actDecide},
	{string(domain.RoleUser), resourceRequests, actViewMy},
}

type View string

const (
	ViewAll  View = "all"
	ViewMy   View = "my"
	ViewTeam View = "team"
)

// ParseView accepts an empty string as "use the role default".
func ParseView(raw string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return "", true
	case ViewAll:
		return ViewAll, true
	case ViewMy:
		return ViewMy, true
	case ViewTeam:
		return ViewTeam, true
	default:
		return "", false
	}
}

// Gate decides what a caller may see and whether they may decide.
type Gate struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewGate(logger ...*zap.Logger) (*Gate, error) {
	l := zap.L().Named("authz.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.gate")
	}

	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}

	return &Gate{enforcer: enforcer, logger: l}, nil
}

func (g *Gate) permits(role domain.Role, act string) bool {
	ok, err := g.enforcer.Enforce(string(role), resourceRequests, act)
	if err != nil {
		g.logger.Error("casbin enforce failed",
			zap.String("role", string(role)),
			zap.String("act", act),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// DefaultView is the view used when none is asked for, and the one an
// unpermitted view request narrows to.
func (g *Gate) DefaultView(role domain.Role) View {
	switch {
	case g.permits(role, actViewAll):
		return ViewAll
	case g.permits(role, actViewTeam):
		return ViewTeam
	default:
		return ViewMy
	}
}

// ViewFilter resolves the requested view into a store filter. A view the
// role may not use is silently narrowed to the role's default view.
func (g *Gate) ViewFilter(id Identity, raw string) (domain.ViewFilter, View, error) {
	view, ok := ParseView(raw)
	if !ok {
		return domain.ViewFilter{}, "", authzerrors.ErrInvalidView
	}
	if view == "" {
		view = g.DefaultView(id.Role)
	}

	switch view {
	case ViewAll:
		if g.permits(id.Role, actViewAll) {
			return domain.AllRequests(), ViewAll, nil
		}
	case ViewTeam:
		if g.permits(id.Role, actViewTeam) {
			if f, ok := teamFilter(id); ok {
				return f, ViewTeam, nil
			}
		}
	case ViewMy:
		return domain.OwnedBy(id.ID), ViewMy, nil
	}

	narrowed := g.DefaultView(id.Role)
	g.logger.Debug("view narrowed",
		zap.String("user_id", id.ID),
		zap.String("role", string(id.Role)),
		zap.String("requested", string(view)),
		zap.String("effective", string(narrowed)),
	)
	switch narrowed {
	case ViewAll:
		return domain.AllRequests(), ViewAll, nil
	case ViewTeam:
		if f, ok := teamFilter(id); ok {
			return f, ViewTeam, nil
		}
	}
	return domain.OwnedBy(id.ID), ViewMy, nil
}

func teamFilter(id Identity) (domain.ViewFilter, bool) {
	role, ok := id.Role.ApproverRole()
	if !ok {
		return domain.ViewFilter{}, false
	}
	if role == domain.ApproverHR {
		return domain.ViewFilter{Scope: domain.ScopeAssigned, Role: domain.ApproverHR}, true
	}
	return domain.ViewFilter{
		Scope:      domain.ScopeAssigned,
		Role:       role,
		TeamID:     id.TeamID,
		Assignee:   strings.TrimSpace(id.Name),
		AssigneeID: id.ID,
	}, true
}

// AuthorizeDecision returns the approver slot the caller acts in on a request
// with the given scope.
func (g *Gate) AuthorizeDecision(id Identity, scope domain.RequestScope) (domain.ApproverRole, error) {
	role, ok := id.Role.ApproverRole()
	if !ok || !g.permits(id.Role, actDecide) {
		return "", authzerrors.ErrNotApprover
	}
	if !scope.Requires(role) {
		return "", authzerrors.ErrRoleNotRequired
	}
	if named := scope.ApproverAssignment.Named(role); named != "" && !id.Is(named) {
		return "", authzerrors.ErrNotAssignee
	}
	return role, nil
}

// Eligible reports whether the caller could decide on the request right now.
func (g *Gate) Eligible(id Identity, scope domain.RequestScope) bool {
	_, err := g.AuthorizeDecision(id, scope)
	return err == nil
}

func (g *Gate) CanView(id Identity, scope domain.RequestScope) bool {
	if id.ID != "" && scope.RequesterID == id.ID {
		return true
	}
	if g.permits(id.Role, actViewAll) {
		return true
	}
	if !g.permits(id.Role, actViewTeam) {
		return false
	}
	f, ok := teamFilter(id)
	return ok && f.Matches(scope)
}
