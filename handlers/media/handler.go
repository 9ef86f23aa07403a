package media

import (
	"net/http"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/middleware"
	"github.com/VishnuPrakashVP/wedding-app/models"
	albumstore "github.com/VishnuPrakashVP/wedding-app/services/albums"
	"github.com/VishnuPrakashVP/wedding-app/services/entitlements"
	"github.com/VishnuPrakashVP/wedding-app/services/moderation"
	"github.com/VishnuPrakashVP/wedding-app/services/screening"
	"github.com/VishnuPrakashVP/wedding-app/services/storage"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
)

// Collaborators wired at startup.
var (
	Store    storage.BlobStore
	Screener screening.Checker = screening.Disabled{}
)

// @Summary Upload a media file
// @Description Multipart upload of an image or video into an album
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param album_id formData string true "Album ID"
// @Param caption formData string false "Caption"
// @Security BearerAuth
// @Success 201 {object} models.Media
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /media/upload [post]
func UploadMedia(c *gin.Context) {
	userID := middleware.RequesterID(c)

	file, err := c.FormFile("file")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Missing file: "+err.Error())
		return
	}

	albumID := c.PostForm("album_id")
	if albumID == "" {
		utils.SendError(c, http.StatusBadRequest, "Missing album_id")
		return
	}
	caption := c.PostForm("caption")

	album, err := albumstore.Get(albumID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !albumstore.IsAcceptingUploads(album) {
		utils.RespondError(c, apperrors.Validationf("album %s is expired and read-only", album.ID))
		return
	}
	if album.Visibility == models.AlbumPrivate &&
		album.OwnerID != userID && !middleware.IsAdmin(c) {
		utils.RespondError(c, apperrors.ErrForbidden)
		return
	}

	ok, err := entitlements.CheckUploadQuota(userID)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error checking quota in UploadMedia")
		utils.RespondError(c, err)
		return
	}
	if !ok {
		utils.RespondError(c, apperrors.Validationf("upload quota exceeded for the active plan"))
		return
	}

	kind := models.MediaImage
	if storage.IsVideo(file.Filename) {
		kind = models.MediaVideo
	}

	// Screen images before the blob write so a flagged item is flagged from
	// the moment it exists. Screening failures leave the item pending.
	safe := true
	if kind == models.MediaImage {
		content, err := storage.ReadAll(file)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		safe = Screener.IsSafe(c.Request.Context(), content)
	}

	// The media row is only created after the blob store confirms the write,
	// so a cancelled transfer leaves nothing behind.
	key, url, err := Store.Upload(c.Request.Context(), file, "albums/"+album.ID)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Blob store upload failed in UploadMedia")
		utils.RespondError(c, err)
		return
	}

	item, err := moderation.CreateFromUpload(album.ID, userID, kind, key, url, caption, safe)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating media in UploadMedia")
		utils.RespondError(c, err)
		return
	}

	utils.LogSuccessWithUser(userID, "Media "+item.ID+" uploaded to album "+album.ID)
	c.JSON(http.StatusCreated, item)
}

// @Summary List media for an album
// @Description Approved and pending items for everyone; flagged items for the uploader and admins; rejected items for admins only
// @Tags media
// @Produce json
// @Param id path string true "Album ID"
// @Security BearerAuth
// @Success 200 {array} models.Media
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /media/album/{id} [get]
func GetAlbumMedia(c *gin.Context) {
	userID := middleware.RequesterID(c)

	album, err := albumstore.Get(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if album.Visibility == models.AlbumPrivate &&
		album.OwnerID != userID && !middleware.IsAdmin(c) {
		utils.RespondError(c, apperrors.ErrForbidden)
		return
	}

	list, err := moderation.ListByAlbum(album.ID, userID, middleware.IsAdmin(c))
	if err != nil {
		utils.LogError(err, "Error listing media in GetAlbumMedia")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Report a media item
// @Description Report inappropriate content; idempotent per reporter
// @Tags media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Param report body models.ReportCreate true "Report reason"
// @Security BearerAuth
// @Success 200 {object} models.Media
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /media/report/{id} [post]
func ReportMedia(c *gin.Context) {
	userID := middleware.RequesterID(c)

	var input models.ReportCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	item, err := moderation.Report(c.Param("id"), userID, input.Reason)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error reporting media in ReportMedia")
		utils.RespondError(c, err)
		return
	}

	utils.LogSuccessWithUser(userID, "Media "+item.ID+" reported")
	c.JSON(http.StatusOK, item)
}

// @Summary List flagged media (Admin only)
// @Description Items awaiting review, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Media
// @Failure 403 {object} utils.ErrorResponse
// @Router /media/flagged [get]
func GetFlaggedMedia(c *gin.Context) {
	list, err := moderation.ListFlagged()
	if err != nil {
		utils.LogError(err, "Error listing flagged media in GetFlaggedMedia")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
