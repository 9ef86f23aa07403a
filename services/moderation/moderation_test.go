package moderation

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	log.SetOutput(io.Discard)
	exitCode := m.Run()
	log.SetOutput(os.Stdout)
	os.Exit(exitCode)
}

func mediaRow(mock sqlmock.Sqlmock, id string, status models.MediaStatus, reportCount int) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "album_id", "uploaded_by", "kind", "storage_key", "url", "caption", "status", "report_count", "created_at", "updated_at"}).
		AddRow(id, "album-1", "user-1", "IMAGE", "albums/album-1/key", "https://cdn/x", "", status, reportCount, time.Now(), time.Now())
}

func TestApprove_FromFlagged(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+) AND status IN (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaApproved, 1))

	item, err := Approve("media-1", "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, models.MediaApproved, item.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_AlreadyRejected(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The guarded update matches no row: the item is already terminal.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+) AND status IN (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaRejected, 2))

	_, err := Approve("media-1", "admin-1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_AlreadyApproved(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+) AND status IN (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaApproved, 0))

	_, err := Reject("media-1", "admin-1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
}

func TestApprove_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "media" SET (.+) WHERE id = (.+) AND status IN (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))

	_, err := Approve("missing", "admin-1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReport_FirstReportFlags(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	ReportFlagThreshold = 1

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaPending, 0))

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
		WillReturnRows(mediaRow(mock, "media-1", models.MediaFlagged, 1))

	item, err := Report("media-1", "guest-1", models.NUDITY)

	assert.NoError(t, err)
	assert.Equal(t, models.MediaFlagged, item.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_SameReporterIsIdempotent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaPending, 1))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "media_reports" WHERE media_id = (.+) AND reported_by = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "media_id", "reported_by", "reason", "created_at"}).
			AddRow("report-1", "media-1", "guest-1", "NUDITY", time.Now()))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaPending, 1))

	item, err := Report("media-1", "guest-1", models.NUDITY)

	assert.NoError(t, err)
	assert.Equal(t, 1, item.ReportCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_ConcurrentDuplicateIsIdempotent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaPending, 1))

	// The existence check misses, but a concurrent report by the same
	// reporter lands first and the insert trips the unique index. That is
	// the idempotent no-op, not an internal error.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "media_reports" WHERE media_id = (.+) AND reported_by = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "media_reports" (.+) RETURNING "id"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE id = (.+)`).
		WillReturnRows(mediaRow(mock, "media-1", models.MediaPending, 1))

	item, err := Report("media-1", "guest-1", models.NUDITY)

	assert.NoError(t, err)
	assert.Equal(t, 1, item.ReportCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAlbum_NonAdminSeesOnlyOwnFlagged(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// Rejected rows and other users' flagged rows are filtered in the WHERE
	// clause, not post-hoc.
	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE album_id = (.+) AND \(status IN (.+) OR \(status = (.+) AND uploaded_by = (.+)\)\) ORDER BY created_at ASC`).
		WithArgs("album-1", models.MediaApproved, models.MediaPending, models.MediaFlagged, "user-1").
		WillReturnRows(mock.NewRows([]string{"id", "status", "uploaded_by"}).
			AddRow("media-approved", models.MediaApproved, "user-2").
			AddRow("media-own-flagged", models.MediaFlagged, "user-1"))

	list, err := ListByAlbum("album-1", "user-1", false)

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "media-approved", list[0].ID)
	assert.Equal(t, "media-own-flagged", list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAlbum_AdminSeesEverything(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE album_id = (.+) ORDER BY created_at ASC`).
		WithArgs("album-1").
		WillReturnRows(mock.NewRows([]string{"id", "status"}).
			AddRow("media-pending", models.MediaPending).
			AddRow("media-flagged", models.MediaFlagged).
			AddRow("media-rejected", models.MediaRejected))

	list, err := ListByAlbum("album-1", "admin-1", true)

	assert.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, models.MediaRejected, list[2].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_InvalidReason(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	_, err := Report("media-1", "guest-1", "BORING")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFlagged_OldestFirst(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	oldest := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	mock.ExpectQuery(`SELECT (.+) FROM "media" WHERE status = (.+) ORDER BY created_at ASC`).
		WillReturnRows(mock.NewRows([]string{"id", "status", "created_at"}).
			AddRow("media-old", models.MediaFlagged, oldest).
			AddRow("media-new", models.MediaFlagged, newer))

	list, err := ListFlagged()

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "media-old", list[0].ID)
	assert.Equal(t, "media-new", list[1].ID)
}

func TestCreateFromUpload_UnsafeStartsFlagged(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "media" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("media-1"))
	mock.ExpectCommit()

	item, err := CreateFromUpload("album-1", "user-1", models.MediaImage, "albums/album-1/key", "https://cdn/x", "", false)

	assert.NoError(t, err)
	assert.Equal(t, models.MediaFlagged, item.Status)
}
