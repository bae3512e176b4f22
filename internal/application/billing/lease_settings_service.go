package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// LeaseSettingsStore persists per-lease billing settings. Implemented
// by the lease persistence layer alongside the read-side collaborator
// interfaces.
type LeaseSettingsStore interface {
	billing.BillingSettingsProvider
	SaveSettings(ctx context.Context, orgID uuid.UUID, settings *billing.BillingSettings, activeFrom time.Time, activeUntil *time.Time) error
}

// LeaseSettingsService manages the billing contract of a lease
type LeaseSettingsService struct {
	store LeaseSettingsStore
}

// NewLeaseSettingsService creates a new LeaseSettingsService
func NewLeaseSettingsService(store LeaseSettingsStore) *LeaseSettingsService {
	return &LeaseSettingsService{store: store}
}

// UpsertSettingsRequest carries a lease's billing contract
type UpsertSettingsRequest struct {
	OrgID       uuid.UUID
	Settings    billing.BillingSettings
	ActiveFrom  time.Time
	ActiveUntil *time.Time
}

// Upsert validates and stores a lease's billing settings
func (s *LeaseSettingsService) Upsert(ctx context.Context, req UpsertSettingsRequest) (*billing.BillingSettings, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveSettings(ctx, req.OrgID, &req.Settings, req.ActiveFrom, req.ActiveUntil); err != nil {
		return nil, fmt.Errorf("failed to save lease billing settings: %w", err)
	}
	return &req.Settings, nil
}

// Get returns a lease's billing settings
func (s *LeaseSettingsService) Get(ctx context.Context, leaseID uuid.UUID) (*billing.BillingSettings, error) {
	return s.store.SettingsForLease(ctx, leaseID)
}
