package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// UserRepository implements auth.UserRepository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	var count int64
	if err := r.db.Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return auth.ErrEmailExists
	}

	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return auth.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByToken is an indexed exact-match lookup on the session_token column,
// never a scan over user rows.
func (r *UserRepository) GetByToken(token string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("session_token = ?", token).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) SetSessionToken(userID int64, token string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("session_token", token).Error
}
