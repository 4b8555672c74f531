package models

import (
	"time"
)

// User represents a marketplace account
type User struct {
	ID          uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:50;uniqueIndex:idx_users_email;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	PhoneNumber *string   `gorm:"size:15" json:"phone_number"`
	Address     *string   `gorm:"size:255" json:"address"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
