package dealer

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/gasdesk/gasdesk/internal/shared"
)

// CommitFunc applies an approved section payload to its backing store.
type CommitFunc func(ctx context.Context, dealerCode string, payload []byte) error

// Auditor records admin actions. *shared.AuditLogger satisfies it.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Credentials is the one-time registration result. The PIN is never
// stored in clear; only its bcrypt hash survives.
type Credentials struct {
	DealerCode string `json:"dealer_code"`
	PIN        string `json:"pin"`
}

// Service wraps dealer account business rules.
type Service struct {
	repo       Repository
	audit      Auditor
	validate   *validator.Validate
	logger     *slog.Logger
	committers map[Section]CommitFunc
	now        func() time.Time
}

// NewService constructs a Service. Profile and bank sections commit into
// the dealer row; further sections register through SetCommitter.
func NewService(repo Repository, audit Auditor, logger *slog.Logger) *Service {
	s := &Service{
		repo:     repo,
		audit:    audit,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
	s.committers = map[Section]CommitFunc{
		SectionProfile: func(ctx context.Context, code string, payload []byte) error {
			return repo.UpdateSection(ctx, code, SectionProfile, payload)
		},
		SectionBank: func(ctx context.Context, code string, payload []byte) error {
			return repo.UpdateSection(ctx, code, SectionBank, payload)
		},
	}
	return s
}

// SetCommitter registers the commit function for a section.
func (s *Service) SetCommitter(section Section, fn CommitFunc) {
	s.committers[section] = fn
}

const (
	dealerCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	dealerCodeLength   = 6
)

func randomDealerCode() (string, error) {
	buf := make([]byte, dealerCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(dealerCodeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = dealerCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func randomPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Register creates a pending dealer account and returns the generated
// dealer code and PIN. Validity starts only at approval.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Credentials, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	pin, err := randomPIN()
	if err != nil {
		return nil, fmt.Errorf("dealer: generate pin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("dealer: hash pin: %w", err)
	}

	// Retry on the rare code collision; email collisions are terminal.
	for attempt := 0; attempt < 5; attempt++ {
		code, err := randomDealerCode()
		if err != nil {
			return nil, fmt.Errorf("dealer: generate code: %w", err)
		}
		acc := &Account{
			DealerCode:  code,
			Name:        input.Name,
			Email:       input.Email,
			PINHash:     string(hash),
			GSTN:        input.GSTN,
			Address:     input.Address,
			Phone:       input.Phone,
			Package:     input.Package,
			PackageDays: PackageDays(input.Package),
			Status:      StatusPending,
		}
		err = s.repo.Create(ctx, acc)
		if err == nil {
			s.logger.Info("dealer registered", "dealer_code", code, "package", input.Package)
			return &Credentials{DealerCode: code, PIN: pin}, nil
		}
		if err != ErrDuplicate {
			return nil, err
		}
		if _, lookupErr := s.repo.FindByEmail(ctx, input.Email); lookupErr == nil {
			return nil, ErrDuplicate
		}
	}
	return nil, fmt.Errorf("dealer: could not allocate a dealer code")
}

// Authenticate validates a dealer code and PIN. Expiry is asserted here,
// at login time; a lapsed validity flips the account to expired before
// the error is returned.
func (s *Service) Authenticate(ctx context.Context, dealerCode, pin string) (*Account, error) {
	acc, err := s.repo.FindByCode(ctx, dealerCode)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PINHash), []byte(pin)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	switch acc.Status {
	case StatusPending:
		return nil, shared.ErrAccountPending
	case StatusDisabled:
		return nil, shared.ErrAccountBlocked
	case StatusExpired:
		return nil, shared.ErrAccountExpired
	}

	if IsExpired(acc.ValidTill, s.now()) {
		if err := s.repo.UpdateStatus(ctx, acc.DealerCode, StatusExpired); err != nil {
			s.logger.Error("mark dealer expired", "dealer_code", acc.DealerCode, "error", err)
		}
		return nil, shared.ErrAccountExpired
	}
	return acc, nil
}

// Account returns a dealer by code.
func (s *Service) Account(ctx context.Context, dealerCode string) (*Account, error) {
	return s.repo.FindByCode(ctx, dealerCode)
}

// List returns all dealers, newest first.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Approve activates a dealer and starts the package validity clock at
// the approval moment, not at registration.
func (s *Service) Approve(ctx context.Context, dealerCode, approvedBy string) (*Account, error) {
	acc, err := s.repo.FindByCode(ctx, dealerCode)
	if err != nil {
		return nil, err
	}
	v := ComputeValidity(acc.Package, s.now())
	if err := s.repo.UpdateValidity(ctx, dealerCode, v, StatusActive); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, approvedBy, "dealer.approve", dealerCode, map[string]any{
		"package":      acc.Package,
		"package_days": v.PackageDays,
	})
	acc.Status = StatusActive
	acc.PackageDays = v.PackageDays
	acc.ValidFrom = v.ValidFrom
	acc.ValidTill = v.ValidTill
	return acc, nil
}

// Block disables a dealer account.
func (s *Service) Block(ctx context.Context, dealerCode, blockedBy string) error {
	if err := s.repo.UpdateStatus(ctx, dealerCode, StatusDisabled); err != nil {
		return err
	}
	s.recordAudit(ctx, blockedBy, "dealer.block", dealerCode, nil)
	return nil
}

// Summary computes the admin dashboard counts.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.ListUpdateRequests(ctx, UpdatePending)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Total: len(accounts), PendingUpdates: len(pending)}
	for _, acc := range accounts {
		switch acc.Status {
		case StatusActive:
			sum.Active++
		case StatusDisabled:
			sum.Blocked++
		case StatusExpired:
			sum.Expired++
		case StatusPending:
			sum.Pending++
		}
	}
	return sum, nil
}

// SubmitUpdate files a section change for admin review. The payload must
// be valid JSON; resubmitting while pending replaces the earlier payload.
func (s *Service) SubmitUpdate(ctx context.Context, dealerCode string, section Section, payload []byte) (*UpdateRequest, error) {
	if !ValidSection(section) {
		return nil, fmt.Errorf("dealer: unknown section %q", section)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("dealer: section payload is not valid JSON")
	}
	req := &UpdateRequest{
		DealerCode:  dealerCode,
		Section:     section,
		State:       UpdatePending,
		Payload:     payload,
		SubmittedAt: s.now(),
	}
	if err := s.repo.SaveUpdateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// PendingUpdates lists update requests awaiting a decision.
func (s *Service) PendingUpdates(ctx context.Context) ([]UpdateRequest, error) {
	return s.repo.ListUpdateRequests(ctx, UpdatePending)
}

// UpdatesFor lists a dealer's own update requests, newest first.
func (s *Service) UpdatesFor(ctx context.Context, dealerCode string) ([]UpdateRequest, error) {
	return s.repo.ListDealerUpdates(ctx, dealerCode)
}

// PendingUpdate returns the dealer's pending request for a section.
func (s *Service) PendingUpdate(ctx context.Context, dealerCode string, section Section) (*UpdateRequest, error) {
	if !ValidSection(section) {
		return nil, fmt.Errorf("dealer: unknown section %q", section)
	}
	return s.repo.FindPendingUpdate(ctx, dealerCode, section)
}

// ApproveUpdate commits the request payload through the section's commit
// function and then marks the request approved. The commit happens first
// so a storage failure leaves the request pending and retriable.
func (s *Service) ApproveUpdate(ctx context.Context, id int64, decidedBy string) (*UpdateRequest, error) {
	req, err := s.repo.FindUpdateRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.State != UpdatePending {
		return nil, fmt.Errorf("dealer: update request %d already decided", id)
	}
	commit, ok := s.committers[req.Section]
	if !ok {
		return nil, fmt.Errorf("dealer: no committer for section %q", req.Section)
	}
	if err := commit(ctx, req.DealerCode, req.Payload); err != nil {
		return nil, fmt.Errorf("dealer: commit %s update: %w", req.Section, err)
	}

	decidedAt := s.now()
	if err := s.repo.DecideUpdateRequest(ctx, id, UpdateApproved, decidedBy, decidedAt); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, decidedBy, "dealer.update.approve", req.DealerCode, map[string]any{
		"section":    string(req.Section),
		"request_id": id,
	})
	req.State = UpdateApproved
	req.DecidedBy = decidedBy
	req.DecidedAt = &decidedAt
	return req, nil
}

// RejectUpdate marks a pending request rejected without touching the
// stored section data.
func (s *Service) RejectUpdate(ctx context.Context, id int64, decidedBy string) (*UpdateRequest, error) {
	req, err := s.repo.FindUpdateRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.State != UpdatePending {
		return nil, fmt.Errorf("dealer: update request %d already decided", id)
	}
	decidedAt := s.now()
	if err := s.repo.DecideUpdateRequest(ctx, id, UpdateRejected, decidedBy, decidedAt); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, decidedBy, "dealer.update.reject", req.DealerCode, map[string]any{
		"section":    string(req.Section),
		"request_id": id,
	})
	req.State = UpdateRejected
	req.DecidedBy = decidedBy
	req.DecidedAt = &decidedAt
	return req, nil
}

func (s *Service) recordAudit(ctx context.Context, actor, action, dealerCode string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:      actor,
		Action:     action,
		DealerCode: dealerCode,
		Meta:       meta,
		At:         s.now(),
	})
	if err != nil {
		s.logger.Error("audit record", "action", action, "dealer_code", dealerCode, "error", err)
	}
}
