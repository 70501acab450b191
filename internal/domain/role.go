package domain

import "strings"

// Role adalah peran caller setelah klaim diverifikasi server.
type Role string

const (
	RoleUser     Role = "user"
	RoleTeamLead Role = "teamLead"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var roleAliases = map[string]Role{
	"user":           RoleUser,
	"employee":       RoleUser,
	"staff":          RoleUser,
	"teamlead":       RoleTeamLead,
	"teamleader":     RoleTeamLead,
	"tl":             RoleTeamLead,
	"lead":           RoleTeamLead,
	"hr":             RoleHR,
	"humanresources": RoleHR,
	"hrmanager":      RoleHR,
	"admin":          RoleAdmin,
	"administrator":  RoleAdmin,
	"superadmin":     RoleAdmin,
}

// ParseRole normalizes a free-form role string ("Team Lead", "team_lead",
// "TL", "Human Resources", ...) into the closed Role enum. Anything it does
// not recognize resolves to RoleUser.
func ParseRole(raw string) Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(key)
	if r, ok := roleAliases[key]; ok {
		return r
	}
	return RoleUser
}

func (r Role) String() string {
	return string(r)
}

// ApproverRole returns the approver slot this caller role acts in, if any.
func (r Role) ApproverRole() (ApproverRole, bool) {
	switch r {
	case RoleTeamLead:
		return ApproverTeamLead, true
	case RoleHR:
		return ApproverHR, true
	default:
		return "", false
	}
}

// ApproverRole adalah slot approver pada sebuah request.
type ApproverRole string

const (
	ApproverTeamLead ApproverRole = "teamLead"
	ApproverHR       ApproverRole = "hr"
)

// ParseApproverRole accepts the same aliases as ParseRole but only succeeds
// for roles that can sit in an approver slot.
func ParseApproverRole(raw string) (ApproverRole, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(key)
	r, ok := roleAliases[key]
	if !ok {
		return "", false
	}
	return r.ApproverRole()
}

func (r ApproverRole) Valid() bool {
	return r == ApproverTeamLead || r == ApproverHR
}
