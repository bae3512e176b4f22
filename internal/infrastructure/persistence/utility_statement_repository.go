package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormUtilityStatementRepository implements UtilityStatementRepository using GORM
type GormUtilityStatementRepository struct {
	db *gorm.DB
}

// NewGormUtilityStatementRepository creates a new GormUtilityStatementRepository
func NewGormUtilityStatementRepository(db *gorm.DB) *GormUtilityStatementRepository {
	return &GormUtilityStatementRepository{db: db}
}

// FindByID finds a statement by its ID
func (r *GormUtilityStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.UtilityStatement, error) {
	var model models.UtilityStatementModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingForLease returns finalized, unbilled statements for a lease
// whose billing period ends at or before the given date. Corrections
// share the lease, utility type and billing period of the statement they
// supersede, so only the highest finalized revision of each chain is
// returned. Older periods come first so late statements catch up in
// arrival order.
func (r *GormUtilityStatementRepository) FindPendingForLease(ctx context.Context, orgID, leaseID uuid.UUID, onOrBefore time.Time) ([]billing.UtilityStatement, error) {
	var statementModels []models.UtilityStatementModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND lease_id = ?", orgID, leaseID).
		Where("is_final = ? AND invoice_line_id IS NULL", true).
		Where("billing_period_end <= ?", onOrBefore).
		Where(`NOT EXISTS (
			SELECT 1 FROM utility_statements later
			WHERE later.org_id = utility_statements.org_id
			  AND later.lease_id = utility_statements.lease_id
			  AND later.utility_type = utility_statements.utility_type
			  AND later.billing_period_start = utility_statements.billing_period_start
			  AND later.billing_period_end = utility_statements.billing_period_end
			  AND later.is_final = TRUE
			  AND later.revision > utility_statements.revision
		)`).
		Order("billing_period_start ASC, utility_type ASC, revision ASC").
		Find(&statementModels).Error; err != nil {
		return nil, err
	}
	statements := make([]billing.UtilityStatement, len(statementModels))
	for i, model := range statementModels {
		statements[i] = *model.ToDomain()
	}
	return statements, nil
}

// Save creates or updates a statement
func (r *GormUtilityStatementRepository) Save(ctx context.Context, statement *billing.UtilityStatement) error {
	model := models.UtilityStatementModelFromDomain(statement)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormUtilityStatementRepository implements UtilityStatementRepository
var _ billing.UtilityStatementRepository = (*GormUtilityStatementRepository)(nil)
