package albums

import (
	"net/http"
	"strconv"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/middleware"
	"github.com/VishnuPrakashVP/wedding-app/models"
	albumstore "github.com/VishnuPrakashVP/wedding-app/services/albums"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
)

// @Summary List visible albums
// @Description Public albums plus the requester's private albums, newest first
// @Tags albums
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Security BearerAuth
// @Success 200 {array} models.Album
// @Router /albums [get]
func ListAlbums(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := albumstore.ListVisible(middleware.RequesterID(c), middleware.IsAdmin(c), limit, offset)
	if err != nil {
		utils.LogError(err, "Error listing albums in ListAlbums")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create an album
// @Description Create a new event album owned by the requester
// @Tags albums
// @Accept json
// @Produce json
// @Param album body models.AlbumCreate true "Album"
// @Security BearerAuth
// @Success 201 {object} models.Album
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /albums [post]
func CreateAlbum(c *gin.Context) {
	// Guests may browse and report but not create albums.
	if middleware.HasRole(c.MustGet("role"), models.GuestRole) {
		utils.RespondError(c, apperrors.ErrForbidden)
		return
	}

	var input models.AlbumCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	album, err := albumstore.Create(middleware.RequesterID(c), input)
	if err != nil {
		utils.LogErrorWithUser(middleware.RequesterID(c), err, "Error creating album in CreateAlbum")
		utils.RespondError(c, err)
		return
	}

	utils.LogSuccessWithUser(middleware.RequesterID(c), "Album "+album.ID+" created")
	c.JSON(http.StatusCreated, album)
}

// @Summary Get album detail
// @Tags albums
// @Produce json
// @Param id path string true "Album ID"
// @Security BearerAuth
// @Success 200 {object} models.Album
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /albums/{id} [get]
func GetAlbum(c *gin.Context) {
	album, err := albumstore.Get(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if album.Visibility == models.AlbumPrivate &&
		album.OwnerID != middleware.RequesterID(c) && !middleware.IsAdmin(c) {
		utils.RespondError(c, apperrors.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, album)
}

// @Summary Update an album
// @Description Owner or admin edits title, theme, visibility, cover or expiration
// @Tags albums
// @Accept json
// @Produce json
// @Param id path string true "Album ID"
// @Param album body models.AlbumUpdate true "Changes"
// @Security BearerAuth
// @Success 200 {object} models.Album
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /albums/{id} [put]
func UpdateAlbum(c *gin.Context) {
	var input models.AlbumUpdate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	album, err := albumstore.Update(c.Param("id"), middleware.RequesterID(c), middleware.IsAdmin(c), input)
	if err != nil {
		utils.LogErrorWithUser(middleware.RequesterID(c), err, "Error updating album in UpdateAlbum")
		utils.RespondError(c, err)
		return
	}

	utils.LogSuccessWithUser(middleware.RequesterID(c), "Album "+album.ID+" updated")
	c.JSON(http.StatusOK, album)
}
