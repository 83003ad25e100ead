package dealer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gasdesk/gasdesk/internal/shared"
)

// ErrDuplicate indicates a dealer code or email collision on insert.
var ErrDuplicate = errors.New("dealer already exists")

// Repository abstracts dealer persistence.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	FindByCode(ctx context.Context, dealerCode string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	UpdateStatus(ctx context.Context, dealerCode string, status Status) error
	UpdateValidity(ctx context.Context, dealerCode string, v Validity, status Status) error
	UpdateSection(ctx context.Context, dealerCode string, section Section, payload []byte) error

	SaveUpdateRequest(ctx context.Context, req *UpdateRequest) error
	FindUpdateRequest(ctx context.Context, id int64) (*UpdateRequest, error)
	FindPendingUpdate(ctx context.Context, dealerCode string, section Section) (*UpdateRequest, error)
	ListUpdateRequests(ctx context.Context, state UpdateState) ([]UpdateRequest, error)
	ListDealerUpdates(ctx context.Context, dealerCode string) ([]UpdateRequest, error)
	DecideUpdateRequest(ctx context.Context, id int64, state UpdateState, decidedBy string, decidedAt time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, dealer_code, name, email, pin_hash, gstn, address, phone,
package, package_days, valid_from, valid_till, status, profile, bank, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var acc Account
	var validFrom, validTill *time.Time
	err := row.Scan(&acc.ID, &acc.DealerCode, &acc.Name, &acc.Email, &acc.PINHash,
		&acc.GSTN, &acc.Address, &acc.Phone, &acc.Package, &acc.PackageDays,
		&validFrom, &validTill, &acc.Status, &acc.Profile, &acc.Bank,
		&acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if validFrom != nil {
		acc.ValidFrom = *validFrom
	}
	if validTill != nil {
		acc.ValidTill = *validTill
	}
	return &acc, nil
}

func (r *repository) Create(ctx context.Context, acc *Account) error {
	var validFrom, validTill *time.Time
	if !acc.ValidFrom.IsZero() {
		validFrom = &acc.ValidFrom
	}
	if !acc.ValidTill.IsZero() {
		validTill = &acc.ValidTill
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO dealers
(dealer_code, name, email, pin_hash, gstn, address, phone, package, package_days, valid_from, valid_till, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, created_at, updated_at`,
		acc.DealerCode, acc.Name, acc.Email, acc.PINHash, acc.GSTN, acc.Address,
		acc.Phone, acc.Package, acc.PackageDays, validFrom, validTill, acc.Status).
		Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("dealer: create: %w", err)
	}
	return nil
}

func (r *repository) FindByCode(ctx context.Context, dealerCode string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM dealers WHERE dealer_code=$1`, dealerCode)
	return scanAccount(row)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM dealers WHERE lower(email)=lower($1)`, email)
	return scanAccount(row)
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM dealers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("dealer: list: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, dealerCode string, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE dealers SET status=$2, updated_at=now() WHERE dealer_code=$1`,
		dealerCode, status)
	if err != nil {
		return fmt.Errorf("dealer: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateValidity(ctx context.Context, dealerCode string, v Validity, status Status) error {
	var validTill *time.Time
	if !v.ValidTill.IsZero() {
		validTill = &v.ValidTill
	}
	tag, err := r.pool.Exec(ctx, `UPDATE dealers
SET package_days=$2, valid_from=$3, valid_till=$4, status=$5, updated_at=now()
WHERE dealer_code=$1`, dealerCode, v.PackageDays, v.ValidFrom, validTill, status)
	if err != nil {
		return fmt.Errorf("dealer: update validity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateSection(ctx context.Context, dealerCode string, section Section, payload []byte) error {
	var column string
	switch section {
	case SectionProfile:
		column = "profile"
	case SectionBank:
		column = "bank"
	default:
		return fmt.Errorf("dealer: section %q has no dealer column", section)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE dealers SET `+column+`=$2, updated_at=now() WHERE dealer_code=$1`,
		dealerCode, payload)
	if err != nil {
		return fmt.Errorf("dealer: update %s: %w", section, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveUpdateRequest upserts the single pending request per dealer+section.
// Resubmitting while pending replaces the payload and submission time.
func (r *repository) SaveUpdateRequest(ctx context.Context, req *UpdateRequest) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO dealer_updates (dealer_code, section, state, payload, submitted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (dealer_code, section) WHERE state='pending'
DO UPDATE SET payload=EXCLUDED.payload, submitted_at=EXCLUDED.submitted_at
RETURNING id`,
		req.DealerCode, req.Section, req.State, req.Payload, req.SubmittedAt).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("dealer: save update request: %w", err)
	}
	return nil
}

func (r *repository) FindUpdateRequest(ctx context.Context, id int64) (*UpdateRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, dealer_code, section, state, payload, submitted_at, decided_at, COALESCE(decided_by, '')
FROM dealer_updates WHERE id=$1`, id)
	return scanUpdateRequest(row)
}

func (r *repository) FindPendingUpdate(ctx context.Context, dealerCode string, section Section) (*UpdateRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, dealer_code, section, state, payload, submitted_at, decided_at, COALESCE(decided_by, '')
FROM dealer_updates WHERE dealer_code=$1 AND section=$2 AND state='pending'`, dealerCode, section)
	return scanUpdateRequest(row)
}

func (r *repository) ListUpdateRequests(ctx context.Context, state UpdateState) ([]UpdateRequest, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, dealer_code, section, state, payload, submitted_at, decided_at, COALESCE(decided_by, '')
FROM dealer_updates WHERE state=$1 ORDER BY submitted_at`, state)
	if err != nil {
		return nil, fmt.Errorf("dealer: list update requests: %w", err)
	}
	defer rows.Close()
	return collectUpdateRequests(rows)
}

func (r *repository) ListDealerUpdates(ctx context.Context, dealerCode string) ([]UpdateRequest, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, dealer_code, section, state, payload, submitted_at, decided_at, COALESCE(decided_by, '')
FROM dealer_updates WHERE dealer_code=$1 ORDER BY submitted_at DESC`, dealerCode)
	if err != nil {
		return nil, fmt.Errorf("dealer: list dealer updates: %w", err)
	}
	defer rows.Close()
	return collectUpdateRequests(rows)
}

func (r *repository) DecideUpdateRequest(ctx context.Context, id int64, state UpdateState, decidedBy string, decidedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE dealer_updates SET state=$2, decided_by=$3, decided_at=$4
WHERE id=$1 AND state='pending'`, id, state, decidedBy, decidedAt)
	if err != nil {
		return fmt.Errorf("dealer: decide update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUpdateRequest(row pgx.Row) (*UpdateRequest, error) {
	var req UpdateRequest
	err := row.Scan(&req.ID, &req.DealerCode, &req.Section, &req.State, &req.Payload,
		&req.SubmittedAt, &req.DecidedAt, &req.DecidedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func collectUpdateRequests(rows pgx.Rows) ([]UpdateRequest, error) {
	var requests []UpdateRequest
	for rows.Next() {
		req, err := scanUpdateRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
