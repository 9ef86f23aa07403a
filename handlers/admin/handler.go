package admin

import (
	"net/http"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/middleware"
	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/services/moderation"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard statistics (Admin only)
// @Description Read-only aggregates: users, albums, media, flagged count, uploads in the trailing 24h
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Router /admin/dashboard [get]
func Dashboard(c *gin.Context) {
	var totalUsers, totalAlbums, totalMedia, flaggedMedia int64

	if err := db.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.LogError(err, "Error counting users in Dashboard")
		utils.RespondError(c, err)
		return
	}
	if err := db.DB.Model(&models.Album{}).Count(&totalAlbums).Error; err != nil {
		utils.LogError(err, "Error counting albums in Dashboard")
		utils.RespondError(c, err)
		return
	}
	if err := db.DB.Model(&models.Media{}).Count(&totalMedia).Error; err != nil {
		utils.LogError(err, "Error counting media in Dashboard")
		utils.RespondError(c, err)
		return
	}
	if err := db.DB.Model(&models.Media{}).Where("status = ?", models.MediaFlagged).Count(&flaggedMedia).Error; err != nil {
		utils.LogError(err, "Error counting flagged media in Dashboard")
		utils.RespondError(c, err)
		return
	}

	recentUploads, err := moderation.CountUploadsSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		utils.LogError(err, "Error counting recent uploads in Dashboard")
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":    totalUsers,
		"total_albums":   totalAlbums,
		"total_media":    totalMedia,
		"flagged_media":  flaggedMedia,
		"recent_uploads": recentUploads,
	})
}

type uploadsByDay struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type mediaByKind struct {
	Kind  models.MediaKind `json:"kind"`
	Count int64            `json:"count"`
}

// @Summary Analytics aggregates (Admin only)
// @Description Uploads per day over the trailing 30 days plus media-by-kind and totals, for the dashboard charts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Router /admin/analytics [get]
func Analytics(c *gin.Context) {
	cutoff := time.Now().AddDate(0, 0, -30)

	var daily []uploadsByDay
	err := db.DB.Model(&models.Media{}).
		Select("to_char(created_at, 'YYYY-MM-DD') AS day, count(*) AS count").
		Where("created_at >= ?", cutoff).
		Group("day").
		Order("day ASC").
		Scan(&daily).Error
	if err != nil {
		utils.LogError(err, "Error aggregating daily uploads in Analytics")
		utils.RespondError(c, err)
		return
	}

	var byKind []mediaByKind
	err = db.DB.Model(&models.Media{}).
		Select("kind, count(*) AS count").
		Group("kind").
		Scan(&byKind).Error
	if err != nil {
		utils.LogError(err, "Error aggregating media by kind in Analytics")
		utils.RespondError(c, err)
		return
	}

	var totalAlbums, totalUsers int64
	if err := db.DB.Model(&models.Album{}).Count(&totalAlbums).Error; err != nil {
		utils.LogError(err, "Error counting albums in Analytics")
		utils.RespondError(c, err)
		return
	}
	if err := db.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.LogError(err, "Error counting users in Analytics")
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"daily_uploads": daily,
		"media_by_kind": byKind,
		"total_albums":  totalAlbums,
		"total_users":   totalUsers,
	})
}

// @Summary Approve a media item (Admin only)
// @Description Moves a pending or flagged item to the approved terminal state
// @Tags admin
// @Produce json
// @Param id path string true "Media ID"
// @Security BearerAuth
// @Success 200 {object} models.Media
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "Item already decided"
// @Router /admin/approve-media/{id} [patch]
func ApproveMedia(c *gin.Context) {
	adminID := middleware.RequesterID(c)

	item, err := moderation.Approve(c.Param("id"), adminID)
	if err != nil {
		utils.LogErrorWithUser(adminID, err, "Error approving media in ApproveMedia")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary Reject a media item (Admin only)
// @Description Moves a pending or flagged item to the rejected terminal state; the record is kept for audit
// @Tags admin
// @Produce json
// @Param id path string true "Media ID"
// @Security BearerAuth
// @Success 200 {object} models.Media
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "Item already decided"
// @Router /admin/reject-media/{id} [delete]
func RejectMedia(c *gin.Context) {
	adminID := middleware.RequesterID(c)

	item, err := moderation.Reject(c.Param("id"), adminID)
	if err != nil {
		utils.LogErrorWithUser(adminID, err, "Error rejecting media in RejectMedia")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary List users (Admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponse
// @Router /admin/users [get]
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := db.DB.Omit("password").Order("created_at DESC").Find(&users).Error; err != nil {
		utils.LogError(err, "Error listing users in ListUsers")
		utils.RespondError(c, err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, users)
}
