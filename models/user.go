package models

import (
	"time"
)

type Role string

const (
	AdminRole  Role = "ADMIN"
	MemberRole Role = "MEMBER"
	GuestRole  Role = "GUEST"
)

type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string    `json:"name"`
	Email       string    `json:"email" binding:"required,email" gorm:"uniqueIndex"`
	Password    string    `json:"password,omitempty" binding:"required,min=6"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        Role      `json:"role" gorm:"type:varchar(20);default:'MEMBER'"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == AdminRole
}
