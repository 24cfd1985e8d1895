package model

import (
	"time"
)

const DefaultAvatar = "avatars/default.png"

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                     // user ID
	FirstName    string    `gorm:"type:varchar(100);not null" json:"first_name"`             // first name
	LastName     string    `gorm:"type:varchar(100);not null" json:"last_name"`              // last name
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`      // lower-cased email
	PasswordHash string    `gorm:"not null" json:"-"`                                        // bcrypt hash
	Avatar       string    `gorm:"type:varchar(255);default:'avatars/default.png'" json:"avatar"` // path under the upload dir
	CreatedAt    time.Time `json:"created_at"`                                               // creation time
	UpdatedAt    time.Time `json:"updated_at"`                                               // last update

	Orders  []Order  `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	Reviews []Review `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (User) TableName() string {
	return "users"
}
