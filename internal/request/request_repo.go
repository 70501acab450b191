package request

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-hris-workflow/internal/domain"
	requesterrors "go-hris-workflow/internal/request/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DecisionUpdate is the result of one engine transition, ready to persist.
type DecisionUpdate struct {
	Decisions domain.Decisions
	Status    domain.Status
	Entry     domain.Comment
}

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, r *ApprovalRequest) error
	FindByID(ctx context.Context, id string) (*ApprovalRequest, error)
	FindByFilter(ctx context.Context, filter domain.ViewFilter) ([]ApprovalRequest, error)
	// ApplyDecision writes upd only if the stored decisions still equal
	// expected and the request is pending. A mismatch returns
	// ErrConcurrentDecision; the store never merges.
	ApplyDecision(ctx context.Context, id string, expected domain.Decisions, upd DecisionUpdate) (*ApprovalRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *ApprovalRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ApprovalRequest, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var req ApprovalRequest
	err = r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&req, "id = ?", rid).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindByFilter(ctx context.Context, filter domain.ViewFilter) ([]ApprovalRequest, error) {
	q := r.db.WithContext(ctx).
		Model(&ApprovalRequest{}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})

	switch filter.Scope {
	case domain.ScopeAll:
	case domain.ScopeOwned:
		q = q.Where("requester_id = ?", filter.OwnerID)
	case domain.ScopeAssigned:
		role, err := json.Marshal([]domain.ApproverRole{filter.Role})
		if err != nil {
			return nil, err
		}
		q = q.Where("required_approvers @> ?::jsonb", string(role))

		if filter.Narrowed() {
			var conds []string
			var args []any
			if filter.TeamID != "" {
				conds = append(conds, "team_id = ?")
				args = append(args, filter.TeamID)
			}
			if filter.Assignee != "" {
				conds = append(conds, "LOWER(approver_assignment ->> ?) = LOWER(?)")
				args = append(args, string(filter.Role), filter.Assignee)
			}
			if filter.AssigneeID != "" {
				conds = append(conds, "LOWER(approver_assignment ->> ?) = LOWER(?)")
				args = append(args, string(filter.Role), filter.AssigneeID)
			}
			q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
	default:
		return nil, fmt.Errorf("unsupported view scope %q", filter.Scope)
	}

	var out []ApprovalRequest
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ApplyDecision(ctx context.Context, id string, expected domain.Decisions, upd DecisionUpdate) (*ApprovalRequest, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	// Clone agar map nil tetap tersimpan sebagai {} bukan null
	expectedJSON, err := json.Marshal(expected.Clone())
	if err != nil {
		return nil, err
	}
	nextJSON, err := json.Marshal(upd.Decisions.Clone())
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
UPDATE approval_requests
SET
	decisions = ?::jsonb,
	status = ?,
	updated_at = ?
WHERE id = ?
	AND status = ?
	AND decisions = ?::jsonb
`, string(nextJSON), upd.Status, time.Now().UTC(), rid, domain.StatusPending, string(expectedJSON))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&ApprovalRequest{}).Where("id = ?", rid).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return requesterrors.ErrConcurrentDecision
		}

		// baris request sudah terkunci oleh UPDATE di atas, urutan seq aman
		var seq int64
		if err := tx.Model(&RequestComment{}).Where("request_id = ?", rid).Count(&seq).Error; err != nil {
			return err
		}

		comment := RequestComment{
			ID:           uuid.New(),
			RequestID:    rid,
			Seq:          int(seq) + 1,
			ApproverRole: upd.Entry.ApproverRole,
			ApproverName: upd.Entry.ApproverName,
			Action:       upd.Entry.Action,
			Comment:      upd.Entry.Comment,
			CreatedAt:    upd.Entry.Timestamp,
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}
