// Package moderation owns the media moderation state machine.
//
// States: PENDING -> FLAGGED | APPROVED, FLAGGED -> APPROVED | REJECTED.
// APPROVED and REJECTED are terminal. All transitions go through guarded
// updates: the WHERE clause restates the expected current state and a zero
// RowsAffected result means a concurrent moderator won, so the caller gets
// ErrInvalidState instead of silently overwriting the decision.
package moderation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"gorm.io/gorm"
)

// ReportFlagThreshold is the number of distinct reporters that moves a
// pending item to FLAGGED. Set once at startup from config.
var ReportFlagThreshold = 1

var validReasons = []models.ReportReason{
	models.DISLIKE, models.HARASSMENT, models.VIOLENCE,
	models.NUDITY, models.SCAM, models.ILLEGAL_CONTENT,
}

// Get returns the media item by id.
func Get(id string) (models.Media, error) {
	var media models.Media
	if err := db.DB.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Media{}, fmt.Errorf("media %s: %w", id, apperrors.ErrNotFound)
		}
		return models.Media{}, fmt.Errorf("loading media: %w", err)
	}
	return media, nil
}

// CreateFromUpload persists a new media item. The caller only invokes this
// after the blob store confirmed the write, so a cancelled upload never
// leaves a record behind. When the screening hook judged the content unsafe
// the item starts out FLAGGED instead of PENDING.
func CreateFromUpload(albumID, uploaderID string, kind models.MediaKind, storageKey, url, caption string, safe bool) (models.Media, error) {
	status := models.MediaPending
	if !safe {
		status = models.MediaFlagged
	}

	media := models.Media{
		AlbumID:    albumID,
		UploadedBy: uploaderID,
		Kind:       kind,
		StorageKey: storageKey,
		URL:        url,
		Caption:    caption,
		Status:     status,
	}
	if err := db.DB.Create(&media).Error; err != nil {
		return models.Media{}, fmt.Errorf("creating media: %w", err)
	}

	if !safe {
		utils.LogInfo("Media " + media.ID + " flagged by automated screening")
	}
	return media, nil
}

// Report records one reporter's report. Reporting is idempotent per
// reporter; the first report that brings the distinct-reporter count to the
// threshold moves a PENDING item to FLAGGED. Reports against terminal items
// are accepted and counted, but never change state.
func Report(mediaID, reporterID string, reason models.ReportReason) (models.Media, error) {
	if !validReason(reason) {
		return models.Media{}, apperrors.Validationf("invalid report reason %q", reason)
	}

	if _, err := Get(mediaID); err != nil {
		return models.Media{}, err
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.MediaReport
		err := tx.Where("media_id = ? AND reported_by = ?", mediaID, reporterID).First(&existing).Error
		if err == nil {
			// Same reporter again: no recount, no transition.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("checking existing report: %w", err)
		}

		report := models.MediaReport{
			MediaID:    mediaID,
			ReportedBy: reporterID,
			Reason:     reason,
		}
		if err := tx.Create(&report).Error; err != nil {
			if isDuplicateReport(err) {
				// Lost the race against the same reporter's concurrent
				// report. The winner already counted it.
				return nil
			}
			return fmt.Errorf("creating report: %w", err)
		}

		var count int64
		if err := tx.Model(&models.MediaReport{}).Where("media_id = ?", mediaID).Count(&count).Error; err != nil {
			return fmt.Errorf("counting reports: %w", err)
		}

		updates := map[string]interface{}{"report_count": count}
		res := tx.Model(&models.Media{}).Where("id = ?", mediaID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("updating report count: %w", res.Error)
		}

		if int(count) >= ReportFlagThreshold {
			// Guarded transition: only PENDING items flip to FLAGGED. Items
			// already flagged or decided keep their state.
			res := tx.Model(&models.Media{}).
				Where("id = ? AND status = ?", mediaID, models.MediaPending).
				Update("status", models.MediaFlagged)
			if res.Error != nil {
				return fmt.Errorf("flagging media: %w", res.Error)
			}
		}
		return nil
	})
	if err != nil {
		return models.Media{}, err
	}

	return Get(mediaID)
}

// Approve moves a PENDING or FLAGGED item to APPROVED. Terminal items fail
// with ErrInvalidState; of two concurrent moderation calls exactly one wins.
func Approve(mediaID, adminID string) (models.Media, error) {
	media, err := transition(mediaID, models.MediaApproved)
	if err != nil {
		return models.Media{}, err
	}
	utils.LogSuccessWithUser(adminID, "Media "+mediaID+" approved")
	return media, nil
}

// Reject moves a PENDING or FLAGGED item to REJECTED. The record and its
// storage key are retained for audit; retrieval is denied to non-admins.
func Reject(mediaID, adminID string) (models.Media, error) {
	media, err := transition(mediaID, models.MediaRejected)
	if err != nil {
		return models.Media{}, err
	}
	utils.LogSuccessWithUser(adminID, "Media "+mediaID+" rejected")
	return media, nil
}

func transition(mediaID string, target models.MediaStatus) (models.Media, error) {
	res := db.DB.Model(&models.Media{}).
		Where("id = ? AND status IN ?", mediaID, []models.MediaStatus{models.MediaPending, models.MediaFlagged}).
		Update("status", target)
	if res.Error != nil {
		return models.Media{}, fmt.Errorf("transitioning media: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the item does not exist or it is already terminal.
		media, err := Get(mediaID)
		if err != nil {
			return models.Media{}, err
		}
		return models.Media{}, fmt.Errorf("media %s is already %s: %w", mediaID, media.Status, apperrors.ErrInvalidState)
	}
	return Get(mediaID)
}

// ListFlagged returns every item awaiting review, oldest first so no flagged
// item is starved.
func ListFlagged() ([]models.Media, error) {
	var list []models.Media
	err := db.DB.Where("status = ?", models.MediaFlagged).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing flagged media: %w", err)
	}
	return list, nil
}

// ListByAlbum returns the album's media visible to the requester. Approved
// and pending items are visible to everyone; flagged items only to admins
// and their uploader; rejected items only to admins.
func ListByAlbum(albumID, requesterID string, isAdmin bool) ([]models.Media, error) {
	q := db.DB.Where("album_id = ?", albumID)
	if !isAdmin {
		q = q.Where("status IN ? OR (status = ? AND uploaded_by = ?)",
			[]models.MediaStatus{models.MediaApproved, models.MediaPending},
			models.MediaFlagged, requesterID)
	}

	var list []models.Media
	if err := q.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing album media: %w", err)
	}
	return list, nil
}

// CountUploadsSince counts media created after the cutoff, for the admin
// dashboard.
func CountUploadsSince(cutoff time.Time) (int64, error) {
	var count int64
	err := db.DB.Model(&models.Media{}).Where("created_at >= ?", cutoff).Count(&count).Error
	return count, err
}

// isDuplicateReport matches the unique (media_id, reported_by) index
// violation raised when two first reports from one reporter race past the
// existence check.
func isDuplicateReport(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")
}

func validReason(reason models.ReportReason) bool {
	for _, r := range validReasons {
		if r == reason {
			return true
		}
	}
	return false
}
