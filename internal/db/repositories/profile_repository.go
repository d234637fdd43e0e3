package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// ProfileRepository manages member profiles with GORM
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

func (r *ProfileRepository) Create(ctx context.Context, p *gormModels.Profile) error {
	return classify("create profile", r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*gormModels.Profile, error) {
	var p gormModels.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, classify("fetch profile", err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*gormModels.Profile, error) {
	var p gormModels.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, classify("fetch profile by user", err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*gormModels.Profile, error) {
	var p gormModels.Profile
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&p).Error; err != nil {
		return nil, classify("fetch profile by uid", err)
	}
	return &p, nil
}

// List returns every profile, newest first.
func (r *ProfileRepository) List(ctx context.Context) ([]gormModels.Profile, error) {
	var profiles []gormModels.Profile
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("uid DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, classify("list profiles", err)
	}
	return profiles, nil
}

// MapByUserIDs loads the profiles of the given users keyed by user id.
func (r *ProfileRepository) MapByUserIDs(ctx context.Context, userIDs []string) (map[string]gormModels.Profile, error) {
	out := make(map[string]gormModels.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var profiles []gormModels.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, classify("load profiles", err)
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

// Update applies a partial column map.
func (r *ProfileRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Profile{}).
		Where("id = ?", id).
		Updates(fields)
	return affected("update profile", res)
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Profile{})
	return affected("delete profile", res)
}
