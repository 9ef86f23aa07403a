package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	log.SetOutput(io.Discard)
	exitCode := m.Run()
	log.SetOutput(os.Stdout)
	os.Exit(exitCode)
}

// fakeStore is a BlobStore that always succeeds.
type fakeStore struct {
	uploads int
}

func (f *fakeStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, string, error) {
	f.uploads++
	return folder + "/fake-key", "https://cdn/fake", nil
}

func asUser(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", string(role))
		c.Next()
	}
}

func multipartUpload(t *testing.T, albumID string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "photo.jpg")
	if err != nil {
		t.Fatalf("Error creating form file: %s", err)
	}
	part.Write([]byte("fake image bytes"))
	writer.WriteField("album_id", albumID)
	writer.WriteField("caption", "first dance")
	writer.Close()

	return body, writer.FormDataContentType()
}

func albumRows(mock sqlmock.Sqlmock, id, ownerID string, visibility models.AlbumVisibility, expiresAt *time.Time) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "owner_id", "title", "theme", "visibility", "cover_media", "expires_at", "created_at", "updated_at"}).
		AddRow(id, ownerID, "Reception", "", visibility, "", expiresAt, time.Now(), time.Now())
}

func TestUploadMedia_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	store := &fakeStore{}
	Store = store

	// Album lookup, quota lookups, then the media insert.
	mock.ExpectQuery(`SELECT (.+) FROM "albums" WHERE id = (.+)`).
		WillReturnRows(albumRows(mock, "album-1", "user-1", models.AlbumPublic, nil))
	mock.ExpectQuery(`SELECT (.+) FROM "entitlements" WHERE user_id = (.+) AND active = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "plans" WHERE name = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "name", "price", "currency", "upload_limit"}).
			AddRow("plan-free", "free", 0, "INR", 10))
	mock.ExpectQuery(`SELECT count(.+) FROM "media" WHERE uploaded_by = (.+) AND status <> (.+)`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "media" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("media-1"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/media/upload/", asUser("user-1", models.MemberRole), UploadMedia)

	body, contentType := multipartUpload(t, "album-1")
	req, _ := http.NewRequest(http.MethodPost, "/media/upload/", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 1, store.uploads)
}

func TestUploadMedia_ExpiredAlbum(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	store := &fakeStore{}
	Store = store

	past := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT (.+) FROM "albums" WHERE id = (.+)`).
		WillReturnRows(albumRows(mock, "album-1", "user-1", models.AlbumPublic, &past))

	r := testutils.SetupTestRouter()
	r.POST("/media/upload/", asUser("user-1", models.MemberRole), UploadMedia)

	body, contentType := multipartUpload(t, "album-1")
	req, _ := http.NewRequest(http.MethodPost, "/media/upload/", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	// Nothing reached the blob store.
	assert.Equal(t, 0, store.uploads)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["detail"], "expired")
}

func TestUploadMedia_QuotaExceeded(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	store := &fakeStore{}
	Store = store

	mock.ExpectQuery(`SELECT (.+) FROM "albums" WHERE id = (.+)`).
		WillReturnRows(albumRows(mock, "album-1", "user-1", models.AlbumPublic, nil))
	mock.ExpectQuery(`SELECT (.+) FROM "entitlements" WHERE user_id = (.+) AND active = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "plans" WHERE name = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "name", "price", "currency", "upload_limit"}).
			AddRow("plan-free", "free", 0, "INR", 10))
	mock.ExpectQuery(`SELECT count(.+) FROM "media" WHERE uploaded_by = (.+) AND status <> (.+)`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(10))

	r := testutils.SetupTestRouter()
	r.POST("/media/upload/", asUser("user-1", models.MemberRole), UploadMedia)

	body, contentType := multipartUpload(t, "album-1")
	req, _ := http.NewRequest(http.MethodPost, "/media/upload/", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, store.uploads)
}

func TestReportMedia_Flags(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "album_id", "uploaded_by", "status", "report_count"}).
			AddRow("media-1", "album-1", "user-2", models.MediaPending, 0))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "media_reports" WHERE media_id = (.+) AND reported_by = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "media_reports" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("report-1"))
	mock.ExpectQuery(`SELECT count(.+) FROM "media_reports" WHERE media_id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+) AND status = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "album_id", "uploaded_by", "status", "report_count"}).
			AddRow("media-1", "album-1", "user-2", models.MediaFlagged, 1))

	r := testutils.SetupTestRouter()
	r.POST("/media/report/:id", asUser("guest-1", models.GuestRole), ReportMedia)

	reportData, _ := json.Marshal(map[string]string{"reason": "NUDITY"})
	req, _ := http.NewRequest(http.MethodPost, "/media/report/media-1", bytes.NewBuffer(reportData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var item models.Media
	json.Unmarshal(resp.Body.Bytes(), &item)
	assert.Equal(t, models.MediaFlagged, item.Status)
}

func TestGetAlbumMedia_PrivateAlbumForbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "albums" WHERE id = (.+)`).
		WillReturnRows(albumRows(mock, "album-1", "user-1", models.AlbumPrivate, nil))

	r := testutils.SetupTestRouter()
	r.GET("/media/album/:id", asUser("user-2", models.MemberRole), GetAlbumMedia)

	req, _ := http.NewRequest(http.MethodGet, "/media/album/album-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGetFlaggedMedia_OldestFirst(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE status = (.+) ORDER BY created_at ASC`).
		WillReturnRows(mock.NewRows([]string{"id", "status", "created_at"}).
			AddRow("media-old", models.MediaFlagged, time.Now().Add(-2*time.Hour)).
			AddRow("media-new", models.MediaFlagged, time.Now()))

	r := testutils.SetupTestRouter()
	r.GET("/media/flagged", asUser("admin-1", models.AdminRole), GetFlaggedMedia)

	req, _ := http.NewRequest(http.MethodGet, "/media/flagged", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var list []models.Media
	json.Unmarshal(resp.Body.Bytes(), &list)
	assert.Len(t, list, 2)
	assert.Equal(t, "media-old", list[0].ID)
}
