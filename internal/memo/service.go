package memo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gasdesk/gasdesk/internal/dealer"
	"github.com/gasdesk/gasdesk/internal/records"
	"github.com/gasdesk/gasdesk/internal/view"
	"github.com/gasdesk/gasdesk/report"
)

// ErrNoSelection is returned when no structurally valid record matches
// the requested consumer numbers.
var ErrNoSelection = errors.New("memo: no matching records selected")

// PDFRenderer converts rendered HTML into a PDF. *report.Client
// satisfies it; a nil renderer disables PDF output.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// AccountSource resolves the dealer printed in the memo header.
// *dealer.Service satisfies it.
type AccountSource interface {
	Account(ctx context.Context, dealerCode string) (*dealer.Account, error)
}

// Service composes and renders printable cash memo documents.
type Service struct {
	logger  *slog.Logger
	records *records.Service
	dealers AccountSource
	views   *view.Engine
	pdf     PDFRenderer
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, recs *records.Service, dealers AccountSource, views *view.Engine, pdf PDFRenderer) *Service {
	return &Service{logger: logger, records: recs, dealers: dealers, views: views, pdf: pdf}
}

// Compose selects the dealer's records by consumer number and lays the
// resulting memos out into print pages.
func (s *Service) Compose(ctx context.Context, dealerCode string, consumerNos []string, pageType PageType) (*Document, error) {
	recs, err := s.records.SelectByConsumerNo(dealerCode, consumerNos)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoSelection
	}

	header := DealerHeader{}
	if acc, err := s.dealers.Account(ctx, dealerCode); err != nil {
		s.logger.Warn("memo header without dealer details",
			slog.String("dealer", dealerCode), slog.Any("error", err))
	} else {
		header = DealerHeader{
			Name:      fmt.Sprintf("%s (%s)", acc.Name, acc.DealerCode),
			GSTN:      acc.GSTN,
			Address:   acc.Address,
			Email:     acc.Email,
			Telephone: acc.Phone,
		}
	}

	memos := make([]Memo, len(recs))
	for i, rec := range recs {
		memos[i] = Compose(header, rec)
	}
	return Paginate(memos, pageType)
}

// RenderHTML renders a document to the printable HTML page.
func (s *Service) RenderHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := s.views.Render(&buf, "cashmemo.html", doc); err != nil {
		return "", fmt.Errorf("memo: render: %w", err)
	}
	return buf.String(), nil
}

// RenderPDF renders a document to HTML and converts it through the
// configured PDF renderer.
func (s *Service) RenderPDF(ctx context.Context, doc *Document) ([]byte, error) {
	if s.pdf == nil {
		return nil, errors.New("memo: pdf rendering not configured")
	}
	html, err := s.RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	return s.pdf.RenderHTML(ctx, html)
}

var _ PDFRenderer = (*report.Client)(nil)
