package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RateInput is one operator-submitted rate row. BasicPrice is absent on
// purpose: it is always derived server-side.
type RateInput struct {
	Code        string          `json:"code" validate:"required"`
	HSNCode     string          `json:"hsn_code"`
	Item        string          `json:"item" validate:"required"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	RSP         decimal.Decimal `json:"rsp"`
}

// Service handles rate list management and invoice preview computation.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Rates returns the dealer's saved rate list, or the stock defaults when
// nothing has been saved yet.
func (s *Service) Rates(ctx context.Context, dealerCode string) ([]RateEntry, error) {
	rates, err := s.repo.ListRates(ctx, dealerCode)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return DefaultRates(), nil
	}
	return rates, nil
}

// SaveRates validates and persists a full replacement rate list, deriving
// each basic price. Item names must be unique within the list.
func (s *Service) SaveRates(ctx context.Context, dealerCode string, inputs []RateInput) ([]RateEntry, error) {
	if len(inputs) == 0 {
		return nil, errors.New("rate list must not be empty")
	}

	seen := make(map[string]struct{}, len(inputs))
	rates := make([]RateEntry, 0, len(inputs))
	for i, in := range inputs {
		if err := s.validate.Struct(in); err != nil {
			return nil, fmt.Errorf("rate row %d: %w", i+1, err)
		}
		if in.SGSTPercent.IsNegative() || in.CGSTPercent.IsNegative() || in.RSP.IsNegative() {
			return nil, fmt.Errorf("rate row %d: negative amounts not allowed", i+1)
		}
		if _, dup := seen[in.Item]; dup {
			return nil, fmt.Errorf("rate row %d: duplicate item %q", i+1, in.Item)
		}
		seen[in.Item] = struct{}{}
		rates = append(rates, RateEntry{
			Code:        in.Code,
			HSNCode:     in.HSNCode,
			Item:        in.Item,
			SGSTPercent: in.SGSTPercent,
			CGSTPercent: in.CGSTPercent,
			RSP:         in.RSP,
		}.WithDerivedBasic())
	}

	if err := s.repo.ReplaceRates(ctx, dealerCode, rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// Preview computes invoice totals for draft lines without persisting
// anything; invoices live only for the duration of composition.
func (s *Service) Preview(ctx context.Context, dealerCode string, lines []Line, invoiceDate time.Time) (Totals, error) {
	rates, err := s.Rates(ctx, dealerCode)
	if err != nil {
		return Totals{}, err
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	return ComputeInvoice(rates, lines, invoiceDate, time.Now()), nil
}

// CommitRatesPayload installs an approved rates update. The payload is the
// JSON rate-input list a dealer submitted for approval.
func (s *Service) CommitRatesPayload(ctx context.Context, dealerCode string, payload []byte) error {
	var inputs []RateInput
	if err := json.Unmarshal(payload, &inputs); err != nil {
		return fmt.Errorf("invoice: decode rates payload: %w", err)
	}
	_, err := s.SaveRates(ctx, dealerCode, inputs)
	return err
}
