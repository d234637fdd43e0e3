package repositories

import (
	"context"
	"time"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// AuthUserRepository stores credentials for the local auth provider
type AuthUserRepository struct {
	db *gorm.DB
}

func NewAuthUserRepository(db *gorm.DB) *AuthUserRepository {
	return &AuthUserRepository{db: db}
}

func (r *AuthUserRepository) Create(ctx context.Context, u *gormModels.AuthUser) error {
	return classify("create auth user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *AuthUserRepository) GetByEmail(ctx context.Context, email string) (*gormModels.AuthUser, error) {
	var u gormModels.AuthUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, classify("fetch auth user", err)
	}
	return &u, nil
}

func (r *AuthUserRepository) GetByID(ctx context.Context, id string) (*gormModels.AuthUser, error) {
	var u gormModels.AuthUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, classify("fetch auth user", err)
	}
	return &u, nil
}

func (r *AuthUserRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.AuthUser{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
	return classify("record sign in", err)
}

func (r *AuthUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.AuthUser{})
	return affected("delete auth user", res)
}
