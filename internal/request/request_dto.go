package request

import (
	"time"

	"go-hris-workflow/internal/domain"
)

type CreateRequest struct {
	Kind           string `json:"kind" binding:"required"`
	RequesterID    string `json:"requesterId" binding:"required"`
	RequesterName  string `json:"requesterName" binding:"required"`
	RequesterEmail string `json:"requesterEmail" binding:"required,email"`
	TeamID         string `json:"teamId"`

	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Date     string   `json:"date"`
	Dates    []string `json:"dates"`
	WorkType string   `json:"workType"`

	Reason string `json:"reason"`

	// nil berarti pakai default per kind dari config
	RequiredApprovers  []string          `json:"requiredApprovers"`
	ApproverAssignment map[string]string `json:"approverAssignment"`
}

type DecideRequest struct {
	Action       string `json:"action" binding:"required"`
	Comment      string `json:"comment"`
	ApproverName string `json:"approverName"`
}

type RequestResponse struct {
	ID             string      `json:"id"`
	ReferenceNo    string      `json:"referenceNo"`
	Kind           domain.Kind `json:"kind"`
	RequesterID    string      `json:"requesterId"`
	RequesterName  string      `json:"requesterName"`
	RequesterEmail string      `json:"requesterEmail"`
	TeamID         string      `json:"teamId,omitempty"`

	LeaveType string   `json:"leaveType,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Dates     []string `json:"dates,omitempty"`
	WorkType  string   `json:"workType,omitempty"`

	Reason             string                `json:"reason"`
	Status             domain.Status         `json:"status"`
	RequiredApprovers  []domain.ApproverRole `json:"requiredApprovers"`
	ApproverAssignment domain.Assignment     `json:"approverAssignment"`
	Decisions          domain.Decisions      `json:"decisions"`
	Comments           []domain.Comment      `json:"comments"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

type SingleResponse struct {
	Request RequestResponse `json:"request"`
}

type ListResponse struct {
	Requests []RequestResponse `json:"requests"`
}
