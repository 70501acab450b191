package request

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-hris-workflow/internal/domain"
	requesterrors "go-hris-workflow/internal/request/errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MemoryRepository keeps requests in process. It honors the same
// compare-and-swap contract as the SQL store; every read and write copies.
type MemoryRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]ApprovalRequest
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{requests: make(map[uuid.UUID]ApprovalRequest)}
}

func (m *MemoryRepository) Create(_ context.Context, req *ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[req.ID]; exists {
		return requesterrors.ErrDuplicateRequest
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	m.requests[req.ID] = cloneRequest(*req)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*ApprovalRequest, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[rid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneRequest(req)
	return &out, nil
}

func (m *MemoryRepository) FindByFilter(_ context.Context, filter domain.ViewFilter) ([]ApprovalRequest, error) {
	m.mu.RLock()
	out := make([]ApprovalRequest, 0, len(m.requests))
	for _, req := range m.requests {
		if filter.Matches(req.Scope()) {
			out = append(out, cloneRequest(req))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryRepository) ApplyDecision(_ context.Context, id string, expected domain.Decisions, upd DecisionUpdate) (*ApprovalRequest, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[rid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if req.Status != domain.StatusPending || !req.Decisions.Data().Equal(expected) {
		return nil, requesterrors.ErrConcurrentDecision
	}

	next := cloneRequest(req)
	next.Decisions = datatypes.NewJSONType(upd.Decisions.Clone())
	next.Status = upd.Status
	next.UpdatedAt = time.Now().UTC()
	next.Comments = append(next.Comments, RequestComment{
		ID:           uuid.New(),
		RequestID:    rid,
		Seq:          len(next.Comments) + 1,
		ApproverRole: upd.Entry.ApproverRole,
		ApproverName: upd.Entry.ApproverName,
		Action:       upd.Entry.Action,
		Comment:      upd.Entry.Comment,
		CreatedAt:    upd.Entry.Timestamp,
	})
	m.requests[rid] = next

	out := cloneRequest(next)
	return &out, nil
}

func cloneRequest(r ApprovalRequest) ApprovalRequest {
	out := r
	if r.StartDate != nil {
		v := *r.StartDate
		out.StartDate = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		out.EndDate = &v
	}
	out.Dates = datatypes.NewJSONType(append([]string(nil), r.Dates.Data()...))
	out.RequiredApprovers = datatypes.NewJSONType(append([]domain.ApproverRole(nil), r.RequiredApprovers.Data()...))

	assignment := make(domain.Assignment, len(r.ApproverAssignment.Data()))
	for k, v := range r.ApproverAssignment.Data() {
		assignment[k] = v
	}
	out.ApproverAssignment = datatypes.NewJSONType(assignment)
	out.Decisions = datatypes.NewJSONType(r.Decisions.Data().Clone())
	out.Comments = append([]RequestComment(nil), r.Comments...)
	return out
}
