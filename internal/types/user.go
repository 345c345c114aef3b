package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string    `gorm:"not null;column:name" json:"name"`
	Email               string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password            string    `gorm:"not null;column:password" json:"-"`
	Avatar              string    `gorm:"column:avatar" json:"avatar"`
	OnboardingCompleted bool      `gorm:"column:onboarding_completed;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
