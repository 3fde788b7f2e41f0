package postgresadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func addMember(t *testing.T, repo *Repository, memberID string, position int) entities.Member {
	t.Helper()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	member, err := repo.CreateMember(context.Background(), entities.Member{
		MemberID:             memberID,
		QueuePosition:        position,
		IsEligible:           true,
		LifetimePaymentTotal: decimal.RequireFromString("1200.50"),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	require.NoError(t, err)
	return member
}

func TestCreateMemberAssignsInsertionSequence(t *testing.T) {
	repo := NewRepository(setupTestDB(t), nil)

	first := addMember(t, repo, "m-1", entities.EndOfQueuePosition)
	second := addMember(t, repo, "m-2", entities.EndOfQueuePosition)
	assert.EqualValues(t, 1, first.InsertionSeq)
	assert.EqualValues(t, 2, second.InsertionSeq)

	_, err := repo.CreateMember(context.Background(), entities.Member{MemberID: "m-1"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateMember)

	stored, err := repo.GetMember(context.Background(), "m-1")
	require.NoError(t, err)
	assert.True(t, stored.LifetimePaymentTotal.Equal(decimal.RequireFromString("1200.50")))
}

func TestRewritePositionsWritesOnlyMovedRows(t *testing.T) {
	repo := NewRepository(setupTestDB(t), nil)
	ctx := context.Background()
	addMember(t, repo, "a", 1)
	addMember(t, repo, "b", 4)
	addMember(t, repo, "c", entities.EndOfQueuePosition)

	var seen []entities.Member
	total, err := repo.RewritePositions(ctx, func(current []entities.Member) (map[string]int, error) {
		seen = current
		return map[string]int{"b": 2, "c": 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, seen, 3)
	assert.Equal(t, "a", seen[0].MemberID)

	members, err := repo.ListMembers(ctx)
	require.NoError(t, err)
	positions := map[string]int{}
	for _, member := range members {
		positions[member.MemberID] = member.QueuePosition
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, positions)
}

func TestRewritePositionsRollsBackOnPlanError(t *testing.T) {
	repo := NewRepository(setupTestDB(t), nil)
	ctx := context.Background()
	addMember(t, repo, "a", 7)

	_, err := repo.RewritePositions(ctx, func([]entities.Member) (map[string]int, error) {
		return nil, domainerrors.ErrInvariantViolation
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvariantViolation)

	member, err := repo.GetMember(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, member.QueuePosition)
}

func TestUpdateAndDeleteMember(t *testing.T) {
	repo := NewRepository(setupTestDB(t), nil)
	ctx := context.Background()
	addMember(t, repo, "a", 1)

	updated, err := repo.UpdateMember(ctx, "a", func(current entities.Member) (entities.Member, error) {
		current.Notes = "vip"
		current.HasReceivedPayout = true
		current.IsEligible = false
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "vip", updated.Notes)

	stored, err := repo.GetMember(ctx, "a")
	require.NoError(t, err)
	assert.True(t, stored.HasReceivedPayout)
	assert.False(t, stored.IsEligible)

	_, err = repo.UpdateMember(ctx, "ghost", func(current entities.Member) (entities.Member, error) {
		return current, nil
	})
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)

	require.NoError(t, repo.DeleteMember(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteMember(ctx, "a"), domainerrors.ErrMemberNotFound)
}

func TestProfilesAndPayments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&memberProfileModel{MemberID: "a", Name: "Ada", Email: "ada@fund.example", Status: "active"}).Error)
	require.NoError(t, db.Create(&paymentModel{ID: "p-1", Amount: decimal.NewFromInt(100), Status: "completed", CreatedAt: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&paymentModel{ID: "p-2", Amount: decimal.NewFromInt(999), Status: "pending", CreatedAt: time.Now().UTC()}).Error)

	profile, err := repo.GetProfile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)

	_, err = repo.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)

	payments, err := repo.ListCompletedPayments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "p-1", payments[0].PaymentID)
}

func TestListMembersWrapsDriverErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)
	mock.ExpectQuery(`SELECT \* FROM "queue_members"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListMembers(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrDataUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCompletedPaymentsToleratesMissingLedgerTable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnError(&pgconn.PgError{Code: "42P01"})

	payments, err := repo.ListCompletedPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
