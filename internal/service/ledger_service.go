package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/notify"
	"github.com/stemsi/bonafide-backend/internal/repository"
)

// Ledger errors.
var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrAlreadyProcessed    = errors.New("request has already been processed")
	ErrInvalidDecision     = errors.New("status must be approved or rejected")
	ErrInvalidStatusFilter = errors.New("status must be one of pending, approved, rejected")
	ErrOutOfScope          = errors.New("request belongs to another college")
)

// defaultActor names the processor when the admin has no name on record.
const defaultActor = "Admin"

// RenderQueue accepts approved request IDs for background rendering.
type RenderQueue interface {
	Push(ctx context.Context, id string) error
}

// EventPublisher announces processed requests.
type EventPublisher interface {
	Publish(ctx context.Context, e notify.Event) error
}

// LedgerPolicy holds the configurable rules applied to admins.
type LedgerPolicy struct {
	Scope          config.LedgerScope
	AllowReprocess bool
}

// PolicyFromConfig extracts the ledger policy from cfg.
func PolicyFromConfig(cfg *config.Config) LedgerPolicy {
	return LedgerPolicy{Scope: cfg.LedgerScope, AllowReprocess: cfg.AllowReprocess}
}

// LedgerService handles the bonafide request lifecycle.
type LedgerService struct {
	ledger   repository.LedgerRepository
	identity *IdentityService
	queue    RenderQueue
	events   EventPublisher
	policy   LedgerPolicy
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService. queue and events may be nil.
func NewLedgerService(
	ledger repository.LedgerRepository,
	identity *IdentityService,
	queue RenderQueue,
	events EventPublisher,
	policy LedgerPolicy,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		ledger:   ledger,
		identity: identity,
		queue:    queue,
		events:   events,
		policy:   policy,
		log:      log.With().Str("component", "ledger_service").Logger(),
		now:      time.Now,
	}
}

// Policy returns the active ledger policy.
func (s *LedgerService) Policy() LedgerPolicy {
	return s.policy
}

// ParseStatusFilter converts a query value into an optional status filter.
// "" and "all" mean no filter.
func ParseStatusFilter(v string) (*model.RequestStatus, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "all":
		return nil, nil
	case string(model.StatusPending), string(model.StatusApproved), string(model.StatusRejected):
		st := model.RequestStatus(v)
		return &st, nil
	default:
		return nil, ErrInvalidStatusFilter
	}
}

// Submit opens a pending request for student.
func (s *LedgerService) Submit(ctx context.Context, student *model.Student, req *model.SubmitRequestRequest) (*model.BonafideRequest, error) {
	r := &model.BonafideRequest{
		ID:           uuid.New().String(),
		StudentID:    student.ID,
		CollegeID:    student.CollegeID,
		Purpose:      req.Purpose,
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Year:         req.Year,
		ContactInfo:  strings.TrimSpace(req.ContactInfo),
		Status:       model.StatusPending,
		RequestDate:  s.now(),
	}
	if err := s.ledger.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	r.Student = student

	s.log.Info().Str("request_id", r.ID).Str("student_id", student.ID).Msg("Request submitted")
	return r, nil
}

// SetStatus records a decision without any policy. An unknown id returns
// (nil, nil).
func (s *LedgerService) SetStatus(ctx context.Context, id string, status model.RequestStatus, actor string) (*model.BonafideRequest, error) {
	r, err := s.ledger.SetStatus(ctx, id, status, actor, s.now())
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	return r, nil
}

// Process approves or rejects a request on behalf of admin, applying the
// scoping and reprocessing policy. Without AllowReprocess the pending check
// and the write happen atomically in the store, so of two concurrent
// decisions only one succeeds. Approval queues the certificate for
// rendering; every decision is published to the student.
func (s *LedgerService) Process(ctx context.Context, admin *model.Admin, id string, status model.RequestStatus) (*model.BonafideRequest, error) {
	if !status.IsDecision() {
		return nil, ErrInvalidDecision
	}

	current, err := s.GetForAdmin(ctx, admin, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.AllowReprocess && current.Status != model.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	r, err := s.decide(ctx, id, status, ActorName(admin))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRequestNotFound
	}
	r.Student = current.Student

	log := s.log.With().Str("request_id", r.ID).Str("status", string(r.Status)).Logger()
	log.Info().Str("processed_by", *r.ProcessedBy).Msg("Request processed")

	if r.Status == model.StatusApproved && s.queue != nil {
		if err := s.queue.Push(ctx, r.ID); err != nil {
			log.Warn().Err(err).Msg("Queue certificate render failed, it will be rendered on download")
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, notify.EventFor(r)); err != nil {
			log.Warn().Err(err).Msg("Publish status event failed")
		}
	}
	return r, nil
}

func (s *LedgerService) decide(ctx context.Context, id string, status model.RequestStatus, actor string) (*model.BonafideRequest, error) {
	if s.policy.AllowReprocess {
		return s.SetStatus(ctx, id, status, actor)
	}
	r, err := s.ledger.Decide(ctx, id, status, actor, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, ErrAlreadyProcessed
		}
		return nil, fmt.Errorf("decide request: %w", err)
	}
	return r, nil
}

// Get returns a request with its student attached.
func (s *LedgerService) Get(ctx context.Context, id string) (*model.BonafideRequest, error) {
	r, err := s.ledger.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if err := s.hydrate(ctx, []*model.BonafideRequest{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// GetForAdmin returns a request the admin is allowed to see.
func (s *LedgerService) GetForAdmin(ctx context.Context, admin *model.Admin, id string) (*model.BonafideRequest, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.inScope(admin, r) {
		return nil, ErrOutOfScope
	}
	return r, nil
}

// ListByStudent returns the student's requests, newest first.
func (s *LedgerService) ListByStudent(ctx context.Context, studentID string, status *model.RequestStatus) ([]model.BonafideRequest, error) {
	list, err := s.ledger.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list requests by student: %w", err)
	}
	return s.finish(ctx, list, status)
}

// ListAll returns the whole ledger, newest first.
func (s *LedgerService) ListAll(ctx context.Context, status *model.RequestStatus) ([]model.BonafideRequest, error) {
	list, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return s.finish(ctx, list, status)
}

// ListForAdmin returns the part of the ledger the admin is allowed to see.
func (s *LedgerService) ListForAdmin(ctx context.Context, admin *model.Admin, status *model.RequestStatus) ([]model.BonafideRequest, error) {
	if s.policy.Scope != config.ScopeCollege {
		return s.ListAll(ctx, status)
	}
	list, err := s.ledger.ListByCollege(ctx, admin.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("list requests by college: %w", err)
	}
	return s.finish(ctx, list, status)
}

// Stats counts requests per status.
func Stats(list []model.BonafideRequest) model.RequestStats {
	var st model.RequestStats
	for i := range list {
		st.Add(list[i].Status)
	}
	return st
}

// ActorName is the name recorded as processedBy for admin.
func ActorName(admin *model.Admin) string {
	if admin != nil && admin.User != nil {
		if name := strings.TrimSpace(admin.User.FullName); name != "" {
			return name
		}
	}
	return defaultActor
}

func (s *LedgerService) inScope(admin *model.Admin, r *model.BonafideRequest) bool {
	if s.policy.Scope != config.ScopeCollege {
		return true
	}
	return admin != nil && admin.CollegeID != "" && admin.CollegeID == r.CollegeID
}

func (s *LedgerService) finish(ctx context.Context, list []model.BonafideRequest, status *model.RequestStatus) ([]model.BonafideRequest, error) {
	out := make([]model.BonafideRequest, 0, len(list))
	for i := range list {
		if status == nil || list[i].Status == *status {
			out = append(out, list[i])
		}
	}

	ptrs := make([]*model.BonafideRequest, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := s.hydrate(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// hydrate attaches each request's student, looking every student up once.
func (s *LedgerService) hydrate(ctx context.Context, list []*model.BonafideRequest) error {
	students := make(map[string]*model.Student)
	for _, r := range list {
		st, seen := students[r.StudentID]
		if !seen {
			var err error
			st, err = s.identity.Student(ctx, r.StudentID)
			if err != nil && !errors.Is(err, ErrProfileNotFound) {
				return err
			}
			students[r.StudentID] = st
		}
		r.Student = st
	}
	return nil
}
