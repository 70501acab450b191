package approval_test

import (
	"math/rand"
	"testing"
	"time"

	"go-hris-workflow/internal/approval"
	approvalerrors "go-hris-workflow/internal/approval/errors"
	"go-hris-workflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newEngine() *approval.Engine {
	return approval.NewEngine(approval.WithClock(func() time.Time { return fixedNow }))
}

func pendingBoth() approval.State {
	return approval.State{
		Status:            domain.StatusPending,
		RequiredApprovers: []domain.ApproverRole{domain.ApproverTeamLead, domain.ApproverHR},
		Assignment: domain.Assignment{
			domain.ApproverTeamLead: "Tia Lead",
			domain.ApproverHR:       "Hana HR",
		},
		Decisions: domain.Decisions{},
	}
}

func advance(s approval.State, o approval.Outcome) approval.State {
	s.Status = o.Status
	s.Decisions = o.Decisions
	s.Comments = o.Comments
	return s
}

func TestEngine_Apply(t *testing.T) {
	engine := newEngine()

	t.Run("scenario teamLead approve then hr reject", func(t *testing.T) {
		s := pendingBoth()

		out, err := engine.Apply(s, approval.Decision{Role: domain.ApproverTeamLead, ApproverName: "Tia Lead", Action: domain.ActionApprove})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, out.Status)
		assert.Equal(t, domain.Decisions{domain.ApproverTeamLead: domain.ActionApprove}, out.Decisions)
		s = advance(s, out)

		out, err = engine.Apply(s, approval.Decision{Role: domain.ApproverHR, ApproverName: "Hana HR", Action: domain.ActionReject, Comment: "coverage conflict"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, out.Status)
		assert.Len(t, out.Comments, 2)
		assert.Equal(t, "coverage conflict", out.Comments[1].Comment)
		assert.Equal(t, fixedNow, out.Comments[1].Timestamp)
		s = advance(s, out)

		_, err = engine.Apply(s, approval.Decision{Role: domain.ApproverTeamLead, ApproverName: "Tia Lead", Action: domain.ActionApprove})
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyFinalized)
	})

	t.Run("scenario single teamLead approve completes", func(t *testing.T) {
		s := approval.State{
			Status:            domain.StatusPending,
			RequiredApprovers: []domain.ApproverRole{domain.ApproverTeamLead},
			Assignment:        domain.Assignment{domain.ApproverTeamLead: "Tia Lead"},
		}
		out, err := engine.Apply(s, approval.Decision{Role: domain.ApproverTeamLead, ApproverName: "Tia Lead", Action: domain.ActionApprove})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, out.Status)
	})

	t.Run("scenario reject without comment", func(t *testing.T) {
		s := pendingBoth()
		_, err := engine.Apply(s, approval.Decision{Role: domain.ApproverHR, ApproverName: "Hana HR", Action: domain.ActionReject, Comment: "   "})
		assert.ErrorIs(t, err, approvalerrors.ErrCommentRequired)
		assert.Equal(t, domain.StatusPending, s.Status)
		assert.Empty(t, s.Decisions)
		assert.Empty(t, s.Comments)
	})

	t.Run("negative role already decided", func(t *testing.T) {
		s := pendingBoth()
		s.Decisions = domain.Decisions{domain.ApproverTeamLead: domain.ActionApprove}
		_, err := engine.Apply(s, approval.Decision{Role: domain.ApproverTeamLead, Action: domain.ActionReject, Comment: "changed my mind"})
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyDecided)
	})

	t.Run("negative terminal checked before repeated role", func(t *testing.T) {
		s := pendingBoth()
		s.Status = domain.StatusApproved
		s.Decisions = domain.Decisions{domain.ApproverTeamLead: domain.ActionApprove, domain.ApproverHR: domain.ActionApprove}
		_, err := engine.Apply(s, approval.Decision{Role: domain.ApproverTeamLead, Action: domain.ActionApprove})
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyFinalized)
	})

	t.Run("negative invalid action", func(t *testing.T) {
		_, err := engine.Apply(pendingBoth(), approval.Decision{Role: domain.ApproverHR, Action: "maybe"})
		assert.ErrorIs(t, err, approvalerrors.ErrInvalidAction)
	})

	t.Run("negative invalid role", func(t *testing.T) {
		_, err := engine.Apply(pendingBoth(), approval.Decision{Role: "admin", Action: domain.ActionApprove})
		assert.ErrorIs(t, err, approvalerrors.ErrInvalidApproverRole)
	})

	t.Run("input state is not mutated", func(t *testing.T) {
		s := pendingBoth()
		s.Comments = make([]domain.Comment, 0, 4)
		_, err := engine.Apply(s, approval.Decision{Role: domain.ApproverHR, ApproverName: "Hana HR", Action: domain.ActionApprove})
		require.NoError(t, err)
		assert.Empty(t, s.Decisions)
		assert.Empty(t, s.Comments)
	})
}

func TestResolveStatus(t *testing.T) {
	both := []domain.ApproverRole{domain.ApproverTeamLead, domain.ApproverHR}

	t.Run("unassigned role skipped for completion", func(t *testing.T) {
		assignment := domain.Assignment{domain.ApproverTeamLead: "Tia Lead"}
		got := approval.ResolveStatus(both, assignment, domain.Decisions{domain.ApproverTeamLead: domain.ActionApprove})
		assert.Equal(t, domain.StatusApproved, got)
	})

	t.Run("named role still waiting", func(t *testing.T) {
		assignment := domain.Assignment{domain.ApproverTeamLead: "Tia Lead", domain.ApproverHR: "Hana HR"}
		got := approval.ResolveStatus(both, assignment, domain.Decisions{domain.ApproverTeamLead: domain.ActionApprove})
		assert.Equal(t, domain.StatusPending, got)
	})

	t.Run("reject short circuits", func(t *testing.T) {
		assignment := domain.Assignment{domain.ApproverTeamLead: "Tia Lead", domain.ApproverHR: "Hana HR"}
		got := approval.ResolveStatus(both, assignment, domain.Decisions{domain.ApproverHR: domain.ActionReject})
		assert.Equal(t, domain.StatusRejected, got)
	})

	t.Run("no decisions stays pending", func(t *testing.T) {
		assert.Equal(t, domain.StatusPending, approval.ResolveStatus(both, nil, nil))
	})
}

// Random decision sequences must never break the workflow invariants.
func TestEngine_Invariants(t *testing.T) {
	engine := newEngine()
	rng := rand.New(rand.NewSource(42))
	roles := []domain.ApproverRole{domain.ApproverTeamLead, domain.ApproverHR}
	actions := []domain.Action{domain.ActionApprove, domain.ActionReject}
	comments := []string{"", "  ", "ok", "coverage conflict"}

	for i := 0; i < 500; i++ {
		s := approval.State{Status: domain.StatusPending, Assignment: domain.Assignment{}}
		for _, r := range roles {
			if rng.Intn(3) > 0 {
				s.RequiredApprovers = append(s.RequiredApprovers, r)
				if rng.Intn(2) == 0 {
					s.Assignment[r] = "person-" + string(r)
				}
			}
		}

		for step := 0; step < 6; step++ {
			before := s
			d := approval.Decision{
				Role:         roles[rng.Intn(len(roles))],
				ApproverName: "someone",
				Action:       actions[rng.Intn(len(actions))],
				Comment:      comments[rng.Intn(len(comments))],
			}
			out, err := engine.Apply(s, d)
			if err != nil {
				if before.Status.Terminal() {
					assert.ErrorIs(t, err, approvalerrors.ErrAlreadyFinalized)
				}
				assert.Equal(t, before, s)
				continue
			}
			s = advance(s, out)

			assert.LessOrEqual(t, len(s.Decisions), len(roles))
			assert.Len(t, s.Comments, len(s.Decisions))

			rejected := false
			for _, a := range s.Decisions {
				if a == domain.ActionReject {
					rejected = true
				}
			}
			if rejected {
				assert.Equal(t, domain.StatusRejected, s.Status)
			}

			allNamedApproved := true
			for _, r := range s.RequiredApprovers {
				if s.Assignment.Named(r) != "" && s.Decisions[r] != domain.ActionApprove {
					allNamedApproved = false
				}
			}
			assert.Equal(t, !rejected && allNamedApproved, s.Status == domain.StatusApproved)

			for _, c := range s.Comments {
				if c.Action == domain.ActionReject {
					assert.NotEmpty(t, c.Comment)
				}
			}
		}
	}
}
