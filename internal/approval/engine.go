package approval

import (
	"strings"
	"time"

	approvalerrors "go-hris-workflow/internal/approval/errors"
	"go-hris-workflow/internal/domain"
)

// State is the part of a request the engine reads.
type State struct {
	Status            domain.Status
	RequiredApprovers []domain.ApproverRole
	Assignment        domain.Assignment
	Decisions         domain.Decisions
	Comments          []domain.Comment
}

type Decision struct {
	Role         domain.ApproverRole
	ApproverName string
	Action       domain.Action
	Comment      string
}

// Outcome is the next state. Decisions and Comments are fresh copies; the
// input State is never modified.
type Outcome struct {
	Status    domain.Status
	Decisions domain.Decisions
	Comments  []domain.Comment
	Entry     domain.Comment
}

type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply validates d against state and computes the transition. Checks run in
// a fixed order: terminal status, repeated role, action, reject comment.
func (e *Engine) Apply(state State, d Decision) (Outcome, error) {
	if state.Status != domain.StatusPending {
		return Outcome{}, approvalerrors.ErrAlreadyFinalized
	}
	if _, decided := state.Decisions[d.Role]; decided {
		return Outcome{}, approvalerrors.ErrAlreadyDecided
	}
	if !d.Role.Valid() {
		return Outcome{}, approvalerrors.ErrInvalidApproverRole
	}
	if d.Action != domain.ActionApprove && d.Action != domain.ActionReject {
		return Outcome{}, approvalerrors.ErrInvalidAction
	}

	entry := domain.Comment{
		ApproverRole: d.Role,
		ApproverName: strings.TrimSpace(d.ApproverName),
		Action:       d.Action,
		Comment:      strings.TrimSpace(d.Comment),
		Timestamp:    e.now(),
	}
	comments, err := Ledger(state.Comments).Append(entry)
	if err != nil {
		return Outcome{}, err
	}

	decisions := state.Decisions.Clone()
	decisions[d.Role] = d.Action

	return Outcome{
		Status:    ResolveStatus(state.RequiredApprovers, state.Assignment, decisions),
		Decisions: decisions,
		Comments:  comments,
		Entry:     entry,
	}, nil
}

// ResolveStatus derives the overall status from the recorded decisions.
// Any reject wins. Otherwise every required role that has a named assignee
// must have approved; roles without an assignee are skipped.
func ResolveStatus(required []domain.ApproverRole, assignment domain.Assignment, decisions domain.Decisions) domain.Status {
	if len(decisions) == 0 {
		return domain.StatusPending
	}
	for _, action := range decisions {
		if action == domain.ActionReject {
			return domain.StatusRejected
		}
	}
	for _, role := range required {
		if assignment.Named(role) == "" {
			continue
		}
		if decisions[role] != domain.ActionApprove {
			return domain.StatusPending
		}
	}
	return domain.StatusApproved
}
