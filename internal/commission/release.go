package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transitions lists the allowed release status edges.
// partial->partial records a further partial release.
var transitions = map[string][]string{
	store.ReleaseStatusPending:  {store.ReleaseStatusPartial, store.ReleaseStatusReleased},
	store.ReleaseStatusPartial:  {store.ReleaseStatusPartial, store.ReleaseStatusReleased},
	store.ReleaseStatusReleased: {store.ReleaseStatusPaid},
	store.ReleaseStatusPaid:     {},
}

// CanTransition reports whether a commission may move from one release status to another
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves a commission along the release state machine. releasedAmount
// is required for partial and ignored otherwise: released and paid always carry
// the full total.
func (e *Engine) Transition(ctx context.Context, tenantID, commissionID uuid.UUID, target string, releasedAmount *decimal.Decimal) (store.Commission, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "commission_id", Value: commissionID.String()},
		observability.Field{Key: "target_status", Value: target},
	)

	if !store.IsValidReleaseStatus(target) {
		return store.Commission{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	commission, err := e.getCommission(ctx, tenantID, commissionID)
	if err != nil {
		return store.Commission{}, err
	}

	if !CanTransition(commission.ReleaseStatus, target) {
		return store.Commission{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, commission.ReleaseStatus, target)
	}

	released := commission.TotalAmount
	if target == store.ReleaseStatusPartial {
		if releasedAmount == nil {
			return store.Commission{}, fmt.Errorf("%w: partial release needs an amount", ErrInvalidReleasedAmount)
		}
		released = releasedAmount.Round(2)
		if !released.IsPositive() || released.GreaterThanOrEqual(commission.TotalAmount) {
			return store.Commission{}, fmt.Errorf("%w: partial release must be between 0 and %s", ErrInvalidReleasedAmount, commission.TotalAmount)
		}
		if released.LessThan(commission.ReleasedAmount) {
			return store.Commission{}, fmt.Errorf("%w: released amount cannot decrease", ErrInvalidReleasedAmount)
		}
	}

	updated, err := e.store.UpdateCommissionRelease(ctx, tenantID, commissionID, store.UpdateCommissionReleaseParams{
		ReleaseStatus:  target,
		ReleasedAmount: released,
		ExpectedStatus: commission.ReleaseStatus,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.Commission{}, ErrConcurrentUpdate
		}
		e.logger.Error(ctx, "failed to transition commission", err)
		return store.Commission{}, err
	}

	e.logger.Info(ctx, "commission release status changed")
	return updated, nil
}

// OverrideParams is an admin replacement of the computed amount
type OverrideParams struct {
	Amount decimal.Decimal
	Reason string
	Actor  *uuid.UUID
}

// Override replaces the commission total with an admin amount. The amount
// already released is never changed, so the override cannot go below it. A
// released commission whose new total exceeds what was released drops back to
// partial.
func (e *Engine) Override(ctx context.Context, tenantID, commissionID uuid.UUID, params OverrideParams) (store.Commission, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "commission_id", Value: commissionID.String()})

	reason := strings.TrimSpace(params.Reason)
	amount := params.Amount.Round(2)
	if reason == "" || amount.IsNegative() {
		return store.Commission{}, ErrInvalidOverride
	}

	commission, err := e.getCommission(ctx, tenantID, commissionID)
	if err != nil {
		return store.Commission{}, err
	}
	if commission.ReleaseStatus == store.ReleaseStatusPaid {
		return store.Commission{}, ErrCommissionPaid
	}
	if amount.LessThan(commission.ReleasedAmount) {
		return store.Commission{}, ErrOverrideBelowReleased
	}

	status := commission.ReleaseStatus
	if status == store.ReleaseStatusReleased && commission.ReleasedAmount.LessThan(amount) {
		status = store.ReleaseStatusPartial
	}

	updated, err := e.store.UpdateCommissionOverride(ctx, tenantID, commissionID, store.UpdateCommissionOverrideParams{
		Amount:         amount,
		Reason:         reason,
		OverriddenBy:   params.Actor,
		ReleaseStatus:  status,
		ExpectedStatus: commission.ReleaseStatus,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.Commission{}, ErrConcurrentUpdate
		}
		e.logger.Error(ctx, "failed to override commission", err)
		return store.Commission{}, err
	}

	e.logger.Info(ctx, "commission overridden")
	return updated, nil
}
