// Package albums owns album records and their visibility and expiration
// policy. Album reads are lock-free; the only writers are the owner and
// admins, and expiration is evaluated on read rather than stored.
package albums

import (
	"errors"
	"fmt"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/models"

	"gorm.io/gorm"
)

// Create validates and persists a new album for owner.
func Create(ownerID string, input models.AlbumCreate) (models.Album, error) {
	if input.Title == "" {
		return models.Album{}, apperrors.Validationf("album title cannot be empty")
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(time.Now()) {
		return models.Album{}, apperrors.Validationf("album expiration cannot be in the past")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.AlbumPublic
	}
	if visibility != models.AlbumPublic && visibility != models.AlbumPrivate {
		return models.Album{}, apperrors.Validationf("unknown visibility %q", visibility)
	}

	album := models.Album{
		OwnerID:    ownerID,
		Title:      input.Title,
		Theme:      input.Theme,
		Visibility: visibility,
		ExpiresAt:  input.ExpiresAt,
	}
	if err := db.DB.Create(&album).Error; err != nil {
		return models.Album{}, fmt.Errorf("creating album: %w", err)
	}
	return album, nil
}

// Get returns the album by id.
func Get(id string) (models.Album, error) {
	var album models.Album
	if err := db.DB.First(&album, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Album{}, fmt.Errorf("album %s: %w", id, apperrors.ErrNotFound)
		}
		return models.Album{}, fmt.Errorf("loading album: %w", err)
	}
	return album, nil
}

// Update applies owner/admin edits. Only the owner and admins may mutate an
// album.
func Update(id, requesterID string, isAdmin bool, input models.AlbumUpdate) (models.Album, error) {
	album, err := Get(id)
	if err != nil {
		return models.Album{}, err
	}
	if album.OwnerID != requesterID && !isAdmin {
		return models.Album{}, fmt.Errorf("album %s: %w", id, apperrors.ErrForbidden)
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(time.Now()) {
		return models.Album{}, apperrors.Validationf("album expiration cannot be in the past")
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Theme != "" {
		updates["theme"] = input.Theme
	}
	if input.Visibility != "" {
		if input.Visibility != models.AlbumPublic && input.Visibility != models.AlbumPrivate {
			return models.Album{}, apperrors.Validationf("unknown visibility %q", input.Visibility)
		}
		updates["visibility"] = input.Visibility
	}
	if input.CoverMedia != "" {
		updates["cover_media"] = input.CoverMedia
	}
	if input.ExpiresAt != nil {
		updates["expires_at"] = input.ExpiresAt
	}
	if len(updates) == 0 {
		return album, nil
	}

	if err := db.DB.Model(&album).Updates(updates).Error; err != nil {
		return models.Album{}, fmt.Errorf("updating album: %w", err)
	}
	return Get(id)
}

// IsAcceptingUploads reports whether the album still accepts new media:
// true iff it has no expiration or the expiration is strictly in the future.
func IsAcceptingUploads(album models.Album) bool {
	return album.ExpiresAt == nil || album.ExpiresAt.After(time.Now())
}

// ListVisible pages the albums visible to the requester: every public album,
// plus private albums the requester owns. Admins see everything. Ordered by
// creation time descending; the same query restarts cleanly at any offset.
func ListVisible(requesterID string, isAdmin bool, limit, offset int) ([]models.Album, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	q := db.DB.Model(&models.Album{})
	if !isAdmin {
		q = q.Where("visibility = ? OR owner_id = ?", models.AlbumPublic, requesterID)
	}

	var list []models.Album
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	return list, nil
}
