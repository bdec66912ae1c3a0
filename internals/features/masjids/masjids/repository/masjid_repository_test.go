package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/helpers/apperror"
)

var masjidColumns = []string{
	"masjid_id", "masjid_name", "masjid_address", "masjid_longitude", "masjid_latitude",
	"masjid_prayer_times", "masjid_description", "masjid_phone_number", "masjid_added_by",
	"masjid_created_at", "masjid_updated_at",
}

const prayerJSON = `{"fajr":"04:35","dhuhr":"11:55","asr":"15:15","maghrib":"17:55","isha":"19:05","jummah":""}`

func newMockRepo(t *testing.T) (*GormMasjidRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormMasjidRepository(db), mock
}

func TestFindByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, owner := uuid.New(), uuid.New()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "masjids" WHERE masjid_id = \$1`).
		WillReturnRows(sqlmock.NewRows(masjidColumns).AddRow(
			id.String(), "Istiqlal", "Jakarta", 106.8314, -6.1702,
			[]byte(prayerJSON), "", "", owner.String(), now, now,
		))

	m, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, m.MasjidID)
	assert.Equal(t, owner, m.MasjidAddedBy)
	assert.Equal(t, "19:05", m.MasjidPrayerTimes.Data().Isha)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "masjids"`).WillReturnRows(sqlmock.NewRows(masjidColumns))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), "Masjid not found")
}

func TestFindByIDsSkipsQueryWhenEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	out, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNear(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	cols := append(append([]string{}, masjidColumns...), "distance_meters")
	mock.ExpectQuery(`SELECT masjids\.\*, ST_Distance\(.+ST_DWithin\(.+ORDER BY distance_meters ASC`).
		WithArgs(106.8272, -6.1754, 106.8272, -6.1754, 5000.0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			uuid.NewString(), "Istiqlal", "Jakarta", 106.8314, -6.1702,
			[]byte(prayerJSON), "", "", uuid.NewString(), now, now, 742.5,
		))

	rows, err := repo.FindNear(context.Background(), NearQuery{Longitude: 106.8272, Latitude: -6.1754, MaxDistance: 5000})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Istiqlal", rows[0].MasjidName)
	assert.InDelta(t, 742.5, rows[0].DistanceMeters, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNearRejectsBadInputWithoutQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.FindNear(context.Background(), NearQuery{Longitude: 200, Latitude: 0, MaxDistance: 10})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	_, err = repo.FindNear(context.Background(), NearQuery{Longitude: 0, Latitude: 0, MaxDistance: -1})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "masjids" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	m := model.MasjidModel{
		MasjidID:          id,
		MasjidName:        "Istiqlal",
		MasjidAddress:     "Jakarta",
		MasjidLongitude:   106.8314,
		MasjidLatitude:    -6.1702,
		MasjidPrayerTimes: datatypes.NewJSONType(model.PrayerTimes{Fajr: "a", Dhuhr: "b", Asr: "c", Maghrib: "d", Isha: "e"}),
		MasjidUpdatedAt:   time.Now().UTC(),
	}
	err := repo.Update(context.Background(), &m)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	mock.ExpectExec(`DELETE FROM "masjids" WHERE masjid_id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Delete(context.Background(), id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidatesBeforeInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	err := repo.Create(context.Background(), &model.MasjidModel{MasjidName: "x"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}
