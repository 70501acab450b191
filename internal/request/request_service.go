package request

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go-hris-workflow/internal/approval"
	"go-hris-workflow/internal/authz"
	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/events"
	requesterrors "go-hris-workflow/internal/request/errors"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/contextutil"
	"go-hris-workflow/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

var leaveTypes = []string{"annual", "sick", "unpaid", "casual", "emergency"}

var workTypes = []string{"full_day", "half_day"}

var referencePrefix = map[domain.Kind]string{
	domain.KindLeave: "LV",
	domain.KindWFH:   "WFH",
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caller authz.Identity, req CreateRequest) (RequestResponse, error)
	List(ctx context.Context, caller authz.Identity, view string) ([]RequestResponse, error)
	GetByID(ctx context.Context, caller authz.Identity, id string) (RequestResponse, error)
	Decide(ctx context.Context, caller authz.Identity, id string, req DecideRequest) (RequestResponse, error)
}

// EventEmitter receives request.created after the request is stored.
type EventEmitter interface {
	Emit(ctx context.Context, event events.RequestCreatedEvent) error
}

type Config struct {
	// DefaultApprovers dipakai saat body tidak mengirim requiredApprovers.
	DefaultApprovers map[domain.Kind][]domain.ApproverRole
	Engine           *approval.Engine
	Now              func() time.Time
}

type service struct {
	repo     Repository
	counter  counter.Repository
	gate     *authz.Gate
	engine   *approval.Engine
	emitter  EventEmitter
	defaults map[domain.Kind][]domain.ApproverRole
	now      func() time.Time
	lists    singleflight.Group
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	counterRepo counter.Repository,
	gate *authz.Gate,
	emitter EventEmitter,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	engine := cfg.Engine
	if engine == nil {
		engine = approval.NewEngine()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     repo,
		counter:  counterRepo,
		gate:     gate,
		engine:   engine,
		emitter:  emitter,
		defaults: cfg.DefaultApprovers,
		now:      now,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return s.logger.With(contextutil.ExtractMetadata(ctx).Fields()...)
}

func (s *service) Create(ctx context.Context, caller authz.Identity, req CreateRequest) (RequestResponse, error) {
	log := s.log(ctx)
	log.Debug("create request requested",
		zap.String("kind", req.Kind),
		zap.String("requester_id", req.RequesterID),
		zap.String("caller_id", caller.ID),
	)

	entity, err := s.buildRequest(caller, req)
	if err != nil {
		log.Warn("create request validation failed", zap.Error(err))
		return RequestResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, "request_"+string(entity.Kind))
	if err != nil {
		log.Error("create request next reference failed", zap.Error(err))
		return RequestResponse{}, apperror.Storage(err)
	}
	entity.ReferenceNo = fmt.Sprintf("%s-%06d", referencePrefix[entity.Kind], seq)

	if err := s.repo.Create(ctx, entity); err != nil {
		log.Error("create request persist failed", zap.Error(err))
		return RequestResponse{}, mapRepositoryError(err)
	}

	resp := mapToResponse(*entity)
	log.Info("create request success",
		zap.String("request_id", resp.ID),
		zap.String("reference_no", resp.ReferenceNo),
		zap.String("kind", string(resp.Kind)),
	)

	s.emitCreated(ctx, resp)
	return resp, nil
}

// emitCreated never fails the create; delivery problems are only logged.
func (s *service) emitCreated(ctx context.Context, resp RequestResponse) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewRequestCreated(resp.ID, resp, resp.CreatedAt)
	if err != nil {
		s.log(ctx).Warn("build request.created event failed", zap.String("request_id", resp.ID), zap.Error(err))
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.log(ctx).Warn("emit request.created failed", zap.String("request_id", resp.ID), zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, caller authz.Identity, view string) ([]RequestResponse, error) {
	filter, effective, err := s.gate.ViewFilter(caller, view)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%s|%s|%s|%s", filter.Scope, filter.OwnerID, filter.Role, filter.TeamID, filter.Assignee, filter.AssigneeID)
	v, err, shared := s.lists.Do(key, func() (any, error) {
		return s.repo.FindByFilter(ctx, filter)
	})
	if err != nil {
		s.log(ctx).Error("list requests failed", zap.String("view", string(effective)), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	rows := v.([]ApprovalRequest)
	s.log(ctx).Debug("list requests",
		zap.String("requested_view", view),
		zap.String("view", string(effective)),
		zap.Int("count", len(rows)),
		zap.Bool("shared", shared),
	)
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, caller authz.Identity, id string) (RequestResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RequestResponse{}, mapRepositoryError(err)
	}
	if !s.gate.CanView(caller, r.Scope()) {
		return RequestResponse{}, authzerrors.ErrRequestNotVisible
	}
	return mapToResponse(*r), nil
}

func (s *service) Decide(ctx context.Context, caller authz.Identity, id string, req DecideRequest) (RequestResponse, error) {
	log := s.log(ctx)
	log.Debug("decide request requested",
		zap.String("request_id", id),
		zap.String("caller_id", caller.ID),
		zap.String("role", string(caller.Role)),
		zap.String("action", req.Action),
	)

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		err = mapRepositoryError(err)
		log.Warn("decide request load failed", zap.String("request_id", id), zap.Error(err))
		return RequestResponse{}, err
	}

	if name := strings.TrimSpace(req.ApproverName); name != "" && !caller.Is(name) {
		log.Warn("decide request approver name mismatch",
			zap.String("request_id", id),
			zap.String("approver_name", name),
		)
		return RequestResponse{}, authzerrors.ErrApproverNameMismatch
	}

	role, err := s.gate.AuthorizeDecision(caller, r.Scope())
	if err != nil {
		log.Warn("decide request not eligible", zap.String("request_id", id), zap.Error(err))
		return RequestResponse{}, err
	}

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		action = domain.Action(req.Action)
	}
	approverName := strings.TrimSpace(caller.Name)
	if approverName == "" {
		approverName = caller.ID
	}

	state := r.State()
	out, err := s.engine.Apply(state, approval.Decision{
		Role:         role,
		ApproverName: approverName,
		Action:       action,
		Comment:      req.Comment,
	})
	if err != nil {
		log.Warn("decide request rejected by engine",
			zap.String("request_id", id),
			zap.String("status", string(state.Status)),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	updated, err := s.repo.ApplyDecision(ctx, id, state.Decisions, DecisionUpdate{
		Decisions: out.Decisions,
		Status:    out.Status,
		Entry:     out.Entry,
	})
	if err != nil {
		err = mapRepositoryError(err)
		if apperror.ToHTTP(err).Status >= 500 {
			log.Error("decide request persist failed", zap.String("request_id", id), zap.Error(err))
		} else {
			log.Warn("decide request lost race", zap.String("request_id", id), zap.Error(err))
		}
		return RequestResponse{}, err
	}

	log.Info("decide request success",
		zap.String("request_id", id),
		zap.String("role", string(role)),
		zap.String("action", string(action)),
		zap.String("status", string(updated.Status)),
	)
	return mapToResponse(*updated), nil
}

func (s *service) buildRequest(caller authz.Identity, req CreateRequest) (*ApprovalRequest, error) {
	kind, ok := domain.ParseKind(req.Kind)
	if !ok {
		return nil, requesterrors.ErrInvalidKind
	}

	requesterID := strings.TrimSpace(req.RequesterID)
	requesterName := strings.TrimSpace(req.RequesterName)
	requesterEmail := strings.TrimSpace(req.RequesterEmail)
	switch {
	case requesterID == "":
		return nil, apperror.RequiredField("Requester Id")
	case requesterName == "":
		return nil, apperror.RequiredField("Requester Name")
	case requesterEmail == "":
		return nil, apperror.RequiredField("Requester Email")
	}

	r := &ApprovalRequest{
		ID:             uuid.New(),
		Kind:           kind,
		RequesterID:    requesterID,
		RequesterName:  requesterName,
		RequesterEmail: requesterEmail,
		TeamID:         strings.TrimSpace(req.TeamID),
		Reason:         strings.TrimSpace(req.Reason),
		Status:         domain.StatusPending,
		Dates:          datatypes.NewJSONType([]string{}),
		Decisions:      datatypes.NewJSONType(domain.Decisions{}),
	}

	switch kind {
	case domain.KindLeave:
		if err := applyLeavePayload(r, req); err != nil {
			return nil, err
		}
	case domain.KindWFH:
		if err := applyWFHPayload(r, req); err != nil {
			return nil, err
		}
	}

	required, err := s.resolveApprovers(kind, req.RequiredApprovers)
	if err != nil {
		return nil, err
	}
	assignment, err := resolveAssignment(required, req.ApproverAssignment)
	if err != nil {
		return nil, err
	}
	r.RequiredApprovers = datatypes.NewJSONType(required)
	r.ApproverAssignment = datatypes.NewJSONType(assignment)

	if requesterID != caller.ID && caller.Role != domain.RoleHR && caller.Role != domain.RoleAdmin {
		return nil, requesterrors.ErrRequesterMismatch
	}
	if r.TeamID == "" && requesterID == caller.ID {
		r.TeamID = caller.TeamID
	}

	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return r, nil
}

func applyLeavePayload(r *ApprovalRequest, req CreateRequest) error {
	leaveType := strings.ToLower(strings.TrimSpace(req.LeaveType))
	if leaveType == "" {
		return apperror.RequiredField("Leave Type")
	}
	if !slices.Contains(leaveTypes, leaveType) {
		return requesterrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return apperror.RequiredField("Start Date")
	}
	if strings.TrimSpace(req.EndDate) == "" {
		return apperror.RequiredField("End Date")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	if start.After(end) {
		return requesterrors.ErrInvalidDateRange
	}

	r.LeaveType = leaveType
	r.StartDate = &start
	r.EndDate = &end
	return nil
}

func applyWFHPayload(r *ApprovalRequest, req CreateRequest) error {
	raw := append([]string{}, req.Dates...)
	if strings.TrimSpace(req.Date) != "" {
		raw = append(raw, req.Date)
	}
	if len(raw) == 0 {
		return requesterrors.ErrDatesRequired
	}

	seen := make(map[string]bool, len(raw))
	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		d, err := parseDate(v)
		if err != nil {
			return err
		}
		key := d.Format(dateLayout)
		if !seen[key] {
			seen[key] = true
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)

	workType := strings.ToLower(strings.TrimSpace(req.WorkType))
	if workType == "" {
		return apperror.RequiredField("Work Type")
	}
	if !slices.Contains(workTypes, workType) {
		return requesterrors.ErrInvalidWorkType
	}

	r.Dates = datatypes.NewJSONType(dates)
	r.WorkType = workType
	return nil
}

func (s *service) resolveApprovers(kind domain.Kind, raw []string) ([]domain.ApproverRole, error) {
	if raw == nil {
		return append([]domain.ApproverRole{}, s.defaults[kind]...), nil
	}

	seen := make(map[domain.ApproverRole]bool, 2)
	for _, v := range raw {
		role, ok := domain.ParseApproverRole(v)
		if !ok {
			return nil, requesterrors.ErrInvalidApprover
		}
		seen[role] = true
	}

	out := make([]domain.ApproverRole, 0, len(seen))
	for _, role := range []domain.ApproverRole{domain.ApproverTeamLead, domain.ApproverHR} {
		if seen[role] {
			out = append(out, role)
		}
	}
	return out, nil
}

func resolveAssignment(required []domain.ApproverRole, raw map[string]string) (domain.Assignment, error) {
	out := make(domain.Assignment, len(raw))
	for k, v := range raw {
		role, ok := domain.ParseApproverRole(k)
		if !ok {
			return nil, requesterrors.ErrInvalidApprover
		}
		if !slices.Contains(required, role) {
			return nil, requesterrors.ErrAssignmentNotRequired
		}
		if name := strings.TrimSpace(v); name != "" {
			out[role] = name
		}
	}
	return out, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(r ApprovalRequest) RequestResponse {
	resp := RequestResponse{
		ID:                 r.ID.String(),
		ReferenceNo:        r.ReferenceNo,
		Kind:               r.Kind,
		RequesterID:        r.RequesterID,
		RequesterName:      r.RequesterName,
		RequesterEmail:     r.RequesterEmail,
		TeamID:             r.TeamID,
		LeaveType:          r.LeaveType,
		WorkType:           r.WorkType,
		Reason:             r.Reason,
		Status:             r.Status,
		RequiredApprovers:  append([]domain.ApproverRole{}, r.RequiredApprovers.Data()...),
		ApproverAssignment: domain.Assignment{},
		Decisions:          r.Decisions.Data().Clone(),
		Comments:           r.CommentLog(),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	for k, v := range r.ApproverAssignment.Data() {
		resp.ApproverAssignment[k] = v
	}
	if r.StartDate != nil {
		resp.StartDate = r.StartDate.Format(dateLayout)
	}
	if r.EndDate != nil {
		resp.EndDate = r.EndDate.Format(dateLayout)
	}
	if dates := r.Dates.Data(); len(dates) > 0 {
		resp.Dates = append([]string{}, dates...)
	}
	return resp
}

func mapToListResponse(rows []ApprovalRequest) []RequestResponse {
	resp := make([]RequestResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
