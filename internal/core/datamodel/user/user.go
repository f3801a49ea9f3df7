package user

import "time"

// User is the persistence model for the users table. The session_token
// column holds the single currently valid token for the user; it is
// overwritten on every login and looked up by unique index.
type User struct {
	ID           int64   `gorm:"primaryKey"`
	Name         string  `gorm:"not null"`
	Email        string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Role         string  `gorm:"not null"`
	Department   *string `gorm:"column:department"`
	IsActive     bool    `gorm:"column:is_active;default:true"`
	SessionToken *string `gorm:"column:session_token;uniqueIndex"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
