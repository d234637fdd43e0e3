package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository manages activities and their registrations
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

func (r *ActivityRepository) Create(ctx context.Context, a *gormModels.Activity) error {
	return classify("create activity", r.db.WithContext(ctx).Create(a).Error)
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*gormModels.Activity, error) {
	var a gormModels.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, classify("fetch activity", err)
	}
	return &a, nil
}

// GetForUpdate reads the activity holding a row lock until the transaction ends.
func (r *ActivityRepository) GetForUpdate(ctx context.Context, id string) (*gormModels.Activity, error) {
	var a gormModels.Activity
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, classify("fetch activity", err)
	}
	return &a, nil
}

func (r *ActivityRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&gormModels.Activity{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, classify("check activity", err)
	}
	return n > 0, nil
}

// List returns activities by date, earliest first.
func (r *ActivityRepository) List(ctx context.Context) ([]gormModels.Activity, error) {
	var activities []gormModels.Activity
	err := r.db.WithContext(ctx).
		Order("activity_date ASC").
		Order("created_at ASC").
		Find(&activities).Error
	if err != nil {
		return nil, classify("list activities", err)
	}
	return activities, nil
}

func (r *ActivityRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Activity{}).
		Where("id = ?", id).
		Updates(fields)
	return affected("update activity", res)
}

// Delete removes the activity with its registrations and attendance rows.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&gormModels.ActivityRegistration{}).Error; err != nil {
			return classify("delete registrations", err)
		}
		if err := tx.Where("activity_id = ?", id).Delete(&gormModels.Attendance{}).Error; err != nil {
			return classify("delete activity attendance", err)
		}
		return affected("delete activity", tx.Where("id = ?", id).Delete(&gormModels.Activity{}))
	})
}

/* ---------- registrations ---------- */

func (r *ActivityRepository) Register(ctx context.Context, activityID, userID string) (*gormModels.ActivityRegistration, error) {
	reg := gormModels.ActivityRegistration{ActivityID: activityID, UserID: userID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&reg).Error; err != nil {
		return nil, classify("register for activity", err)
	}
	return &reg, nil
}

// Unregister reports whether a row was removed.
func (r *ActivityRepository) Unregister(ctx context.Context, activityID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&gormModels.ActivityRegistration{})
	if res.Error != nil {
		return false, classify("unregister from activity", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ActivityRepository) IsRegistered(ctx context.Context, activityID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.ActivityRegistration{}).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Count(&n).Error
	if err != nil {
		return false, classify("check registration", err)
	}
	return n > 0, nil
}

func (r *ActivityRepository) CountRegistrations(ctx context.Context, activityID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.ActivityRegistration{}).
		Where("activity_id = ?", activityID).
		Count(&n).Error
	if err != nil {
		return 0, classify("count registrations", err)
	}
	return n, nil
}

type registrationCount struct {
	ActivityID string
	Total      int64
}

// RegistrationCounts returns registered counts keyed by activity id. Activities
// without registrations are absent from the map.
func (r *ActivityRepository) RegistrationCounts(ctx context.Context) (map[string]int64, error) {
	var rows []registrationCount
	err := r.db.WithContext(ctx).
		Model(&gormModels.ActivityRegistration{}).
		Select("activity_id, COUNT(*) AS total").
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("count registrations", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ActivityID] = row.Total
	}
	return out, nil
}

// RegisteredActivityIDs returns the set of activities the user registered for.
func (r *ActivityRepository) RegisteredActivityIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&gormModels.ActivityRegistration{}).
		Where("user_id = ?", userID).
		Pluck("activity_id", &ids).Error
	if err != nil {
		return nil, classify("list registrations", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *ActivityRepository) ListRegistrations(ctx context.Context, activityID string) ([]gormModels.ActivityRegistration, error) {
	var regs []gormModels.ActivityRegistration
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("registered_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, classify("list registrations", err)
	}
	return regs, nil
}

func (r *ActivityRepository) DeleteRegistrationsForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.ActivityRegistration{}).Error
	return classify("delete member registrations", err)
}
