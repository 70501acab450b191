package events

import (
	"encoding/json"
	"time"

	"go-hris-workflow/internal/domain"
)

const (
	RequestLifecycleTopic = "hr.request.lifecycle.v1"
	RequestCreatedType    = "request.created"
	RequestAggregateType  = "approval_request"
)

// RequestCreatedEvent adalah pesan live yang dikirim setelah request tersimpan.
// Payload berisi request lengkap dalam bentuk JSON response.
type RequestCreatedEvent struct {
	Type       string          `json:"type"`
	RequestID  string          `json:"-"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// scopeView is the subset of the payload fan-out needs.
type scopeView struct {
	ID                 string                         `json:"id"`
	RequesterID        string                         `json:"requesterId"`
	TeamID             string                         `json:"teamId"`
	RequiredApprovers  []domain.ApproverRole          `json:"requiredApprovers"`
	ApproverAssignment map[domain.ApproverRole]string `json:"approverAssignment"`
}

func NewRequestCreated(requestID string, request any, at time.Time) (RequestCreatedEvent, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return RequestCreatedEvent{}, err
	}
	return RequestCreatedEvent{
		Type:       RequestCreatedType,
		RequestID:  requestID,
		Payload:    payload,
		OccurredAt: at.UTC(),
	}, nil
}

// Scope decodes the visibility-relevant fields from the payload.
func (e RequestCreatedEvent) Scope() (domain.RequestScope, error) {
	var v scopeView
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return domain.RequestScope{}, err
	}
	return domain.RequestScope{
		RequesterID:        v.RequesterID,
		TeamID:             v.TeamID,
		RequiredApprovers:  v.RequiredApprovers,
		ApproverAssignment: domain.Assignment(v.ApproverAssignment),
	}, nil
}

// AggregateID returns the request id, reading it from the payload when the
// event came off the wire.
func (e RequestCreatedEvent) AggregateID() string {
	if e.RequestID != "" {
		return e.RequestID
	}
	var v scopeView
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return ""
	}
	return v.ID
}
