package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientLinkRepository creates a GormClientLinkRepository with a mocked SQL connection
func newMockClientLinkRepository(t *testing.T) (*GormClientLinkRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormClientLinkRepository(gormDB), mock, mockDB
}

func clientLinkRows(links ...*linking.ClientLink) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "partner_id",
		"partner_client_id", "agent_link_id", "client_account_id", "status", "confidence",
		"method", "profile_first_name", "profile_last_name", "profile_email", "linked_at", "expires_at",
	})
	for _, link := range links {
		rows.AddRow(link.ID, link.CreatedAt, link.UpdatedAt, link.Version, link.PartnerID,
			link.PartnerClientID, link.AgentLinkID, link.ClientAccountID, link.Status, link.Confidence,
			link.Method, link.ProfileFirstName, link.ProfileLastName, link.ProfileEmail, link.LinkedAt, link.ExpiresAt)
	}
	return rows
}

func pendingClientLink(t *testing.T, ttl time.Duration) *linking.ClientLink {
	t.Helper()
	link, err := linking.NewPendingClientLink(uuid.New(), uuid.New(), "client-7", linking.ClientProfile{
		FirstName: "John",
		LastName:  "Smith",
		Email:     "john.smith@example.com",
	}, ttl)
	require.NoError(t, err)
	return link
}

func TestGormClientLinkRepository_FindByPartnerClientID(t *testing.T) {
	t.Run("finds existing link", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		link := pendingClientLink(t, time.Hour)

		mock.ExpectQuery(`SELECT \* FROM "partner_client_links" WHERE partner_id = \$1 AND partner_client_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(link.PartnerID, "client-7", 1).
			WillReturnRows(clientLinkRows(link))

		found, err := repo.FindByPartnerClientID(context.Background(), link.PartnerID, "client-7")

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, link.ID, found.ID)
		assert.True(t, found.IsPending())
		assert.Equal(t, "john.smith@example.com", found.ProfileEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		partnerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "partner_client_links" WHERE partner_id = \$1 AND partner_client_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(partnerID, "ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByPartnerClientID(context.Background(), partnerID, "ghost")

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientLinkRepository_CreateIfAbsent(t *testing.T) {
	t.Run("inserts when no link exists", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		link := pendingClientLink(t, time.Hour)

		mock.ExpectExec(`INSERT INTO "partner_client_links" .* ON CONFLICT \("partner_id","partner_client_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		stored, created, err := repo.CreateIfAbsent(context.Background(), link)

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Same(t, link, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns stored link when insert conflicts", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		winner := pendingClientLink(t, time.Hour)
		loser, err := linking.NewPendingClientLink(winner.PartnerID, winner.AgentLinkID, winner.PartnerClientID, linking.ClientProfile{
			FirstName: "Jon",
			LastName:  "Smith",
		}, time.Hour)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "partner_client_links" .* ON CONFLICT \("partner_id","partner_client_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "partner_client_links" WHERE partner_id = \$1 AND partner_client_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(winner.PartnerID, winner.PartnerClientID, 1).
			WillReturnRows(clientLinkRows(winner))

		stored, created, err := repo.CreateIfAbsent(context.Background(), loser)

		assert.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, stored)
		assert.Equal(t, winner.ID, stored.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientLinkRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		link := pendingClientLink(t, time.Hour)
		require.NoError(t, link.Finalize(uuid.New(), 0.97, linking.LinkMethodAuto))

		mock.ExpectExec(`UPDATE "partner_client_links" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), link)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		link := pendingClientLink(t, time.Hour)
		require.NoError(t, link.Expire())

		mock.ExpectExec(`UPDATE "partner_client_links" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), link)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientLinkRepository_FindExpiredPending(t *testing.T) {
	t.Run("finds overdue pending links oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		link := pendingClientLink(t, time.Millisecond)
		cutoff := time.Now().Add(time.Minute)

		mock.ExpectQuery(`SELECT \* FROM "partner_client_links" WHERE status = \$1 AND expires_at IS NOT NULL AND expires_at < \$2 ORDER BY expires_at ASC LIMIT .*`).
			WithArgs(linking.LinkStatusPending, cutoff, 500).
			WillReturnRows(clientLinkRows(link))

		links, err := repo.FindExpiredPending(context.Background(), cutoff, 500)

		assert.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, link.ID, links[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientLinkRepository_CountPending(t *testing.T) {
	t.Run("counts pending links", func(t *testing.T) {
		repo, mock, mockDB := newMockClientLinkRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "partner_client_links" WHERE status = \$1`).
			WithArgs(linking.LinkStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		count, err := repo.CountPending(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
