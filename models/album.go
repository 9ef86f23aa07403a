package models

import (
	"time"
)

type AlbumVisibility string

const (
	AlbumPublic  AlbumVisibility = "PUBLIC"
	AlbumPrivate AlbumVisibility = "PRIVATE"
)

type Album struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID    string          `json:"ownerId" gorm:"column:owner_id;type:uuid;not null"`
	Title      string          `json:"title" binding:"required"`
	Theme      string          `json:"theme"`
	Visibility AlbumVisibility `json:"visibility" gorm:"type:varchar(20);default:'PUBLIC'"`
	CoverMedia string          `json:"coverMedia" gorm:"column:cover_media"`
	ExpiresAt  *time.Time      `json:"expiresAt" gorm:"column:expires_at"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type AlbumCreate struct {
	Title      string          `json:"title" binding:"required"`
	Theme      string          `json:"theme"`
	Visibility AlbumVisibility `json:"visibility"`
	ExpiresAt  *time.Time      `json:"expiresAt"`
}

type AlbumUpdate struct {
	Title      string          `json:"title"`
	Theme      string          `json:"theme"`
	Visibility AlbumVisibility `json:"visibility"`
	CoverMedia string          `json:"coverMedia"`
	ExpiresAt  *time.Time      `json:"expiresAt"`
}

func (Album) TableName() string {
	return "albums"
}
