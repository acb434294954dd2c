package attribution

import (
	"context"
	"fmt"
	"sort"
	"time"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
)

// AttributionStore defines the database operations required by the Resolver
type AttributionStore interface {
	ListAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID) ([]store.Appointment, error)
	SetAppointmentInclusionFlag(ctx context.Context, tenantID, appointmentID uuid.UUID, flag *bool) error
	ListContactIDsWithAppointments(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
}

// DefaultWindow is how close two bookings of the same contact must be to count
// as duplicates of one call
const DefaultWindow = 2 * time.Hour

// Change is one inclusion flag write
type Change struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	From          *bool     `json:"from"`
	To            bool      `json:"to"`
}

// Resolver decides which appointment of each duplicate cluster counts for
// reporting. Flags are recomputed from scratch on every run.
type Resolver struct {
	store  AttributionStore
	window time.Duration
	logger *observability.Logger
}

func New(store AttributionStore, window time.Duration, logger *observability.Logger) Resolver {
	if window <= 0 {
		window = DefaultWindow
	}
	return Resolver{
		store:  store,
		window: window,
		logger: logger,
	}
}

// Recalculate re-evaluates every appointment of the contact and writes the
// flags that differ from the stored ones
func (r *Resolver) Recalculate(ctx context.Context, tenantID, contactID uuid.UUID) ([]Change, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tenant_id", Value: tenantID.String()},
		observability.Field{Key: "contact_id", Value: contactID.String()},
	)

	appointments, err := r.store.ListAppointmentsByContact(ctx, tenantID, contactID)
	if err != nil {
		r.logger.Error(ctx, "failed to list appointments for attribution", err)
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	desired := Assign(appointments, r.window)

	changes := []Change{}
	for _, appointment := range appointments {
		want := desired[appointment.ID]
		if appointment.InclusionFlag != nil && *appointment.InclusionFlag == want {
			continue
		}
		if err := r.store.SetAppointmentInclusionFlag(ctx, tenantID, appointment.ID, &want); err != nil {
			r.logger.Error(ctx, "failed to write inclusion flag", err)
			return changes, fmt.Errorf("failed to write inclusion flag: %w", err)
		}
		changes = append(changes, Change{AppointmentID: appointment.ID, From: appointment.InclusionFlag, To: want})
	}

	if len(changes) > 0 {
		ctx = observability.WithFields(ctx, observability.Field{Key: "changes", Value: len(changes)})
		r.logger.Info(ctx, "inclusion flags updated")
	}
	return changes, nil
}

// TenantSummary reports a tenant wide recalculation
type TenantSummary struct {
	Contacts int
	Changes  int
	Failed   int
}

// RecalculateTenant runs Recalculate for every contact of the tenant with
// appointments. A failing contact is logged and counted, not fatal.
func (r *Resolver) RecalculateTenant(ctx context.Context, tenantID uuid.UUID) (TenantSummary, error) {
	contactIDs, err := r.store.ListContactIDsWithAppointments(ctx, tenantID)
	if err != nil {
		r.logger.Error(ctx, "failed to list contacts for attribution", err)
		return TenantSummary{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	summary := TenantSummary{Contacts: len(contactIDs)}
	for _, contactID := range contactIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		changes, err := r.Recalculate(ctx, tenantID, contactID)
		summary.Changes += len(changes)
		if err != nil {
			summary.Failed++
		}
	}
	return summary, nil
}

// Assign returns the desired flag of every appointment: true for the one
// appointment that counts in its cluster, false for the rest. A cluster whose
// members are all cancelled has no included appointment.
func Assign(appointments []store.Appointment, window time.Duration) map[uuid.UUID]bool {
	flags := make(map[uuid.UUID]bool, len(appointments))
	for _, cluster := range Clusters(appointments, window) {
		winner := -1
		for i, appointment := range cluster {
			flags[appointment.ID] = false
			if appointment.Status == store.AppointmentStatusCancelled {
				continue
			}
			if winner < 0 || moreRecent(appointment, cluster[winner]) {
				winner = i
			}
		}
		if winner >= 0 {
			flags[cluster[winner].ID] = true
		}
	}
	return flags
}

// moreRecent orders by booking time, then scheduled time, then id so the
// result does not depend on input order
func moreRecent(a, b store.Appointment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if !a.ScheduledAt.Equal(b.ScheduledAt) {
		return a.ScheduledAt.After(b.ScheduledAt)
	}
	return a.ID.String() > b.ID.String()
}

// Clusters groups appointments linked by reschedule references or booked within
// window of each other
func Clusters(appointments []store.Appointment, window time.Duration) [][]store.Appointment {
	sorted := make([]store.Appointment, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ScheduledAt.Equal(sorted[j].ScheduledAt) {
			return sorted[i].ScheduledAt.Before(sorted[j].ScheduledAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	index := make(map[uuid.UUID]int, len(sorted))
	for i, appointment := range sorted {
		index[appointment.ID] = i
	}

	sets := newUnionFind(len(sorted))
	for i, appointment := range sorted {
		if appointment.RescheduledFromID != nil {
			if j, ok := index[*appointment.RescheduledFromID]; ok {
				sets.union(i, j)
			}
		}
		if i > 0 && appointment.ScheduledAt.Sub(sorted[i-1].ScheduledAt) <= window {
			sets.union(i, i-1)
		}
	}

	groups := map[int][]store.Appointment{}
	order := []int{}
	for i, appointment := range sorted {
		root := sets.find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], appointment)
	}

	clusters := make([][]store.Appointment, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, groups[root])
	}
	return clusters
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
