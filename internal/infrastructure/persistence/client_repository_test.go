package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormClientRepository_FindByIDForOwner(t *testing.T) {
	t.Run("finds client scoped to owner", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		ownerID := uuid.New()
		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "email"}).
			AddRow(clientID, ownerID, "Acme Corp", "billing@acme.test")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByIDForOwner(context.Background(), ownerID, clientID)
		require.NoError(t, err)
		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, ownerID, client.OwnerID)
		assert.Equal(t, "Acme Corp", client.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for another owner's client", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		ownerID := uuid.New()
		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, clientID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForOwner(context.Background(), ownerID, clientID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindAllForOwner(t *testing.T) {
	t.Run("filters by owner with search pattern", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		ownerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(uuid.New(), ownerID, "Acme Corp")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE owner_id = \$1 AND \(name ILIKE \$2 OR email ILIKE \$3 OR company ILIKE \$4\) ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, "%acme%", "%acme%", "%acme%", 20).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Search = "acme"

		clients, err := repo.FindAllForOwner(context.Background(), ownerID, filter)
		require.NoError(t, err)
		assert.Len(t, clients, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort column", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		ownerID := uuid.New()

		// "name; DROP TABLE" is not whitelisted, so the default column is used
		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE owner_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := shared.DefaultFilter()
		filter.OrderBy = "name; DROP TABLE clients"

		_, err := repo.FindAllForOwner(context.Background(), ownerID, filter)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_DeleteForOwner(t *testing.T) {
	t.Run("deletes owned client", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		ownerID := uuid.New()
		clientID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(ownerID, clientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForOwner(context.Background(), ownerID, clientID)
		assert.NoError(t, err)
	})

	t.Run("reports not found when nothing matched", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		mock.ExpectExec(`DELETE FROM "clients" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForOwner(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_CountForOwner(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormClientRepository(gormDB)

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE owner_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForOwner(context.Background(), ownerID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
