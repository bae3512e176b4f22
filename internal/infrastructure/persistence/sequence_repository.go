package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormSequenceRepository implements SequenceRepository on a dedicated
// counter table. Allocation takes a row lock, so concurrent callers
// serialize on the counter instead of racing a row count.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// NextValue atomically increments and returns the sequence for an
// organization-scoped key
func (r *GormSequenceRepository) NextValue(ctx context.Context, orgID uuid.UUID, scope string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.SequenceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("org_id = ? AND scope = ?", orgID, scope).
			First(&row).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = models.SequenceModel{OrgID: orgID, Scope: scope, LastValue: 0}
			// Another transaction may create the row first; the
			// conflict clause turns that into a no-op and the
			// increment below still serializes on the row lock.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("org_id = ? AND scope = ?", orgID, scope).
				First(&row).Error; err != nil {
				return err
			}
		}

		next = row.LastValue + 1
		return tx.Model(&models.SequenceModel{}).
			Where("org_id = ? AND scope = ?", orgID, scope).
			Updates(map[string]interface{}{
				"last_value": next,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ billing.SequenceRepository = (*GormSequenceRepository)(nil)
