package request

import (
	"time"

	"go-hris-workflow/internal/approval"
	"go-hris-workflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApprovalRequest struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ReferenceNo string      `gorm:"type:varchar(20);not null;uniqueIndex:uq_approval_request_reference"`
	Kind        domain.Kind `gorm:"type:varchar(10);not null"`

	RequesterID    string `gorm:"type:varchar(64);not null;index:idx_approval_requests_requester"`
	RequesterName  string `gorm:"type:varchar(150);not null"`
	RequesterEmail string `gorm:"type:varchar(150);not null"`
	TeamID         string `gorm:"type:varchar(64);index:idx_approval_requests_team"`

	// leave
	LeaveType string     `gorm:"type:varchar(30)"`
	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`

	// wfh
	Dates    datatypes.JSONType[[]string] `gorm:"type:jsonb"`
	WorkType string                       `gorm:"type:varchar(20)"`

	Reason string `gorm:"type:text"`

	Status             domain.Status                             `gorm:"type:varchar(20);not null;index:idx_approval_requests_status"`
	RequiredApprovers  datatypes.JSONType[[]domain.ApproverRole] `gorm:"type:jsonb;not null"`
	ApproverAssignment datatypes.JSONType[domain.Assignment]     `gorm:"type:jsonb;not null"`
	Decisions          datatypes.JSONType[domain.Decisions]      `gorm:"type:jsonb;not null"`
	Comments           []RequestComment                          `gorm:"foreignKey:RequestID;references:ID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

type RequestComment struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_request_comment_seq"`
	Seq          int                 `gorm:"not null;uniqueIndex:uq_request_comment_seq"`
	ApproverRole domain.ApproverRole `gorm:"type:varchar(20);not null"`
	ApproverName string              `gorm:"type:varchar(150);not null"`
	Action       domain.Action       `gorm:"type:varchar(10);not null"`
	Comment      string              `gorm:"type:text"`
	CreatedAt    time.Time
}

func (RequestComment) TableName() string {
	return "request_comments"
}

func (r *ApprovalRequest) Scope() domain.RequestScope {
	return domain.RequestScope{
		RequesterID:        r.RequesterID,
		TeamID:             r.TeamID,
		RequiredApprovers:  r.RequiredApprovers.Data(),
		ApproverAssignment: r.ApproverAssignment.Data(),
	}
}

func (r *ApprovalRequest) CommentLog() []domain.Comment {
	out := make([]domain.Comment, len(r.Comments))
	for i, c := range r.Comments {
		out[i] = domain.Comment{
			ApproverRole: c.ApproverRole,
			ApproverName: c.ApproverName,
			Action:       c.Action,
			Comment:      c.Comment,
			Timestamp:    c.CreatedAt,
		}
	}
	return out
}

func (r *ApprovalRequest) State() approval.State {
	return approval.State{
		Status:            r.Status,
		RequiredApprovers: r.RequiredApprovers.Data(),
		Assignment:        r.ApproverAssignment.Data(),
		Decisions:         r.Decisions.Data().Clone(),
		Comments:          r.CommentLog(),
	}
}
