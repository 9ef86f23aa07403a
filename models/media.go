package models

import (
	"time"
)

type MediaStatus string

// Moderation states. Pending items are visible by default; a report or an
// automated screening hit moves them to flagged, and an admin decision moves
// pending or flagged items to one of the two terminal states.
const (
	MediaPending  MediaStatus = "PENDING"
	MediaFlagged  MediaStatus = "FLAGGED"
	MediaApproved MediaStatus = "APPROVED"
	MediaRejected MediaStatus = "REJECTED"
)

type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaVideo MediaKind = "VIDEO"
)

type Media struct {
	ID          string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AlbumID     string      `json:"albumId" gorm:"column:album_id;type:uuid;not null"`
	UploadedBy  string      `json:"uploadedBy" gorm:"column:uploaded_by;type:uuid;not null"`
	Kind        MediaKind   `json:"kind" gorm:"type:varchar(10)"`
	StorageKey  string      `json:"storageKey" gorm:"column:storage_key"`
	URL         string      `json:"url"`
	Caption     string      `json:"caption"`
	Status      MediaStatus `json:"status" gorm:"type:varchar(10);default:'PENDING'"`
	ReportCount int         `json:"reportCount" gorm:"column:report_count;default:0"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Media) TableName() string {
	return "media"
}

// Terminal reports whether the item has reached a final moderation decision.
func (m Media) Terminal() bool {
	return m.Status == MediaApproved || m.Status == MediaRejected
}

type ReportReason string

const (
	DISLIKE         ReportReason = "DISLIKE"
	HARASSMENT      ReportReason = "HARASSMENT"
	VIOLENCE        ReportReason = "VIOLENCE"
	NUDITY          ReportReason = "NUDITY"
	SCAM            ReportReason = "SCAM"
	ILLEGAL_CONTENT ReportReason = "ILLEGAL_CONTENT"
)

// MediaReport records one reporter's report of one media item. The unique
// index makes reporting idempotent per reporter.
type MediaReport struct {
	ID         string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MediaID    string       `json:"mediaId" gorm:"column:media_id;type:uuid;uniqueIndex:idx_media_reporter;not null"`
	ReportedBy string       `json:"reportedBy" gorm:"column:reported_by;type:uuid;uniqueIndex:idx_media_reporter;not null"`
	Reason     ReportReason `json:"reason" gorm:"column:reason"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type ReportCreate struct {
	Reason ReportReason `json:"reason" binding:"required"`
}

func (MediaReport) TableName() string {
	return "media_reports"
}
