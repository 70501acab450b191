package domain

import (
	"strings"
	"time"
)

type Kind string

const (
	KindLeave Kind = "leave"
	KindWFH   Kind = "wfh"
)

func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "leave":
		return KindLeave, true
	case "wfh", "work_from_home", "workfromhome":
		return KindWFH, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func ParseAction(raw string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, true
	case ActionReject:
		return ActionReject, true
	default:
		return "", false
	}
}

// Decisions maps each approver slot to the verdict it rendered. A key is
// written at most once.
type Decisions map[ApproverRole]Action

// Clone returns an independent copy; nil stays an empty map.
func (d Decisions) Clone() Decisions {
	out := make(Decisions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d Decisions) Equal(other Decisions) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Assignment maps an approver slot to the name of the person who may act in it.
type Assignment map[ApproverRole]string

// Named returns the assignee for role, trimmed. Empty means unassigned.
func (a Assignment) Named(role ApproverRole) string {
	return strings.TrimSpace(a[role])
}

// Comment is one entry of the append-only approval history.
type Comment struct {
	ApproverRole ApproverRole `json:"approverRole"`
	ApproverName string       `json:"approverName"`
	Action       Action       `json:"action"`
	Comment      string       `json:"comment,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
}
