package commission

//go:generate go run go.uber.org/mock/mockgen@latest -source=engine.go -destination=mocks_test.go -package=commission

import (
	"context"
	"errors"
	"fmt"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionStore defines the database operations required by the Engine
type CommissionStore interface {
	GetTenantByID(ctx context.Context, tenantID uuid.UUID) (store.Tenant, error)
	GetUserByID(ctx context.Context, tenantID, userID uuid.UUID) (store.User, error)
	GetCommissionRoleByID(ctx context.Context, tenantID, roleID uuid.UUID) (store.CommissionRole, error)

	CreateCommission(ctx context.Context, params store.CreateCommissionParams) (store.Commission, error)
	GetCommissionBySaleID(ctx context.Context, saleID uuid.UUID) (store.Commission, error)
	GetCommissionByID(ctx context.Context, tenantID, commissionID uuid.UUID) (store.Commission, error)
	UpdateCommissionRelease(ctx context.Context, tenantID, commissionID uuid.UUID, params store.UpdateCommissionReleaseParams) (store.Commission, error)
	UpdateCommissionOverride(ctx context.Context, tenantID, commissionID uuid.UUID, params store.UpdateCommissionOverrideParams) (store.Commission, error)
}

// Policy selects the release status a new commission starts in
type Policy string

const (
	// PolicyAuto is used for automated matches; funds are already collected.
	PolicyAuto Policy = "auto"
	// PolicyManual is used when an admin links a payment after the fact.
	PolicyManual Policy = "manual"
	// PolicyReview holds the commission at pending until an admin releases it.
	PolicyReview Policy = "review"
)

// Rate sources, reported for logging
const (
	RateSourceCloser   = "closer"
	RateSourceRole     = "role"
	RateSourceTenant   = "tenant"
	RateSourceFallback = "default"
)

var (
	// ErrNoCloser means the sale has nobody to pay. It is a valid terminal
	// state, not a failure.
	ErrNoCloser              = errors.New("no closer to pay commission to")
	ErrInvalidPolicy         = errors.New("invalid commission policy")
	ErrCommissionNotFound    = errors.New("commission not found")
	ErrInvalidTransition     = errors.New("invalid release status transition")
	ErrInvalidReleasedAmount = errors.New("invalid released amount")
	ErrInvalidOverride       = errors.New("override requires a non-negative amount and a reason")
	ErrOverrideBelowReleased = errors.New("override amount is below the amount already released")
	ErrCommissionPaid        = errors.New("commission is already paid out")
	ErrConcurrentUpdate      = errors.New("commission was modified concurrently")
)

// Engine computes commissions and owns their release lifecycle
type Engine struct {
	store       CommissionStore
	defaultRate decimal.Decimal
	logger      *observability.Logger
}

func New(store CommissionStore, defaultRate decimal.Decimal, logger *observability.Logger) Engine {
	return Engine{
		store:       store,
		defaultRate: defaultRate,
		logger:      logger,
	}
}

// ComputeParams is the sale, appointment and closer a commission is computed for
type ComputeParams struct {
	Sale        store.Sale
	Appointment *store.Appointment
	// CloserID overrides the appointment's closer when set.
	CloserID *uuid.UUID
	Policy   Policy
}

// Compute creates the commission for a sale. An existing commission for the
// sale is returned with created=false. Returns ErrNoCloser when nobody is
// assigned.
func (e *Engine) Compute(ctx context.Context, params ComputeParams) (store.Commission, bool, error) {
	sale := params.Sale
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tenant_id", Value: sale.TenantID.String()},
		observability.Field{Key: "sale_id", Value: sale.ID.String()},
	)

	status, err := initialStatus(params.Policy, sale.Status)
	if err != nil {
		return store.Commission{}, false, err
	}

	existing, err := e.store.GetCommissionBySaleID(ctx, sale.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		e.logger.Error(ctx, "failed to check existing commission", err)
		return store.Commission{}, false, err
	}

	closerID := params.CloserID
	if closerID == nil && params.Appointment != nil {
		closerID = params.Appointment.CloserID
	}
	if closerID == nil {
		return store.Commission{}, false, ErrNoCloser
	}

	closer, err := e.store.GetUserByID(ctx, sale.TenantID, *closerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Warn(ctx, "closer assigned to appointment no longer exists")
			return store.Commission{}, false, ErrNoCloser
		}
		e.logger.Error(ctx, "failed to get closer", err)
		return store.Commission{}, false, err
	}

	rate, source, err := e.ResolveRate(ctx, sale.TenantID, closer)
	if err != nil {
		return store.Commission{}, false, err
	}

	total := sale.Amount.Mul(rate).Round(2)
	released := decimal.Zero
	if status == store.ReleaseStatusReleased {
		released = total
	}

	commission, err := e.store.CreateCommission(ctx, store.CreateCommissionParams{
		SaleID:         sale.ID,
		TenantID:       sale.TenantID,
		CloserID:       closer.ID,
		GrossAmount:    sale.Amount,
		Rate:           rate,
		TotalAmount:    total,
		ReleasedAmount: released,
		ReleaseStatus:  status,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			existing, getErr := e.store.GetCommissionBySaleID(ctx, sale.ID)
			if getErr != nil {
				e.logger.Error(ctx, "failed to re-read commission after duplicate insert", getErr)
				return store.Commission{}, false, getErr
			}
			return existing, false, nil
		}
		e.logger.Error(ctx, "failed to create commission", err)
		return store.Commission{}, false, err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "commission_id", Value: commission.ID.String()},
		observability.Field{Key: "rate_source", Value: source},
		observability.Field{Key: "release_status", Value: status},
	)
	e.logger.Info(ctx, "commission created")
	return commission, true, nil
}

// ResolveRate walks closer custom rate, role default rate, tenant fallback rate
// and finally the configured default.
func (e *Engine) ResolveRate(ctx context.Context, tenantID uuid.UUID, closer store.User) (decimal.Decimal, string, error) {
	if closer.CustomCommissionRate.Valid {
		return closer.CustomCommissionRate.Decimal, RateSourceCloser, nil
	}

	if closer.CommissionRoleID != nil {
		role, err := e.store.GetCommissionRoleByID(ctx, tenantID, *closer.CommissionRoleID)
		if err == nil {
			return role.DefaultRate, RateSourceRole, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Error(ctx, "failed to get commission role", err)
			return decimal.Decimal{}, "", err
		}
	}

	tenant, err := e.store.GetTenantByID(ctx, tenantID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		e.logger.Error(ctx, "failed to get tenant", err)
		return decimal.Decimal{}, "", err
	}
	if err == nil && tenant.FallbackCommissionRate.Valid {
		return tenant.FallbackCommissionRate.Decimal, RateSourceTenant, nil
	}

	return e.defaultRate, RateSourceFallback, nil
}

func initialStatus(policy Policy, saleStatus string) (string, error) {
	switch policy {
	case PolicyAuto, PolicyManual:
		// A refunded payment never releases funds on its own.
		if saleStatus == store.SaleStatusRefunded {
			return store.ReleaseStatusPending, nil
		}
		return store.ReleaseStatusReleased, nil
	case PolicyReview:
		return store.ReleaseStatusPending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}
}

func (e *Engine) getCommission(ctx context.Context, tenantID, commissionID uuid.UUID) (store.Commission, error) {
	commission, err := e.store.GetCommissionByID(ctx, tenantID, commissionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Commission{}, ErrCommissionNotFound
		}
		e.logger.Error(ctx, "failed to get commission", err)
		return store.Commission{}, err
	}
	return commission, nil
}
