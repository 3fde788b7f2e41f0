package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fundqueue/contexts/membership-queue/queue-service/domain/entities"
	domainerrors "fundqueue/contexts/membership-queue/queue-service/domain/errors"
	"fundqueue/contexts/membership-queue/queue-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const createMemberAttempts = 3

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the queue tables plus local copies of the profile and
// payment projections. Production deployments own the latter two elsewhere.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&queueMemberModel{}, &memberProfileModel{}, &paymentModel{})
}

func (r *Repository) ListMembers(ctx context.Context) ([]entities.Member, error) {
	var rows []queueMemberModel
	if err := r.db.WithContext(ctx).
		Order("queue_position ASC").
		Order("insertion_seq ASC").
		Find(&rows).Error; err != nil {
		return nil, r.unavailable("queue_repo_list_members_failed", err)
	}
	return toMemberEntities(rows), nil
}

func (r *Repository) GetMember(ctx context.Context, memberID string) (entities.Member, error) {
	var row queueMemberModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, domainerrors.ErrMemberNotFound
		}
		return entities.Member{}, r.unavailable("queue_repo_get_member_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	return row.toEntity(), nil
}

// CreateMember allocates the next insertion sequence inside the insert
// transaction. Two concurrent inserts may race for the same sequence; the
// unique index rejects the loser, which retries.
func (r *Repository) CreateMember(ctx context.Context, member entities.Member) (entities.Member, error) {
	memberID := strings.TrimSpace(member.MemberID)
	var lastErr error
	for attempt := 0; attempt < createMemberAttempts; attempt++ {
		var stored queueMemberModel
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing int64
			if err := tx.Model(&queueMemberModel{}).
				Where("member_id = ?", memberID).
				Count(&existing).Error; err != nil {
				return r.unavailable("queue_repo_create_member_lookup_failed", err, "member_id", memberID)
			}
			if existing > 0 {
				return domainerrors.ErrDuplicateMember
			}
			var maxSeq int64
			if err := tx.Model(&queueMemberModel{}).
				Select("COALESCE(MAX(insertion_seq), 0)").
				Scan(&maxSeq).Error; err != nil {
				return r.unavailable("queue_repo_create_member_sequence_failed", err, "member_id", memberID)
			}
			stored = queueMemberModelFromEntity(member)
			stored.MemberID = memberID
			stored.InsertionSeq = maxSeq + 1
			return tx.Create(&stored).Error
		})
		if err == nil {
			return stored.toEntity(), nil
		}
		if errors.Is(err, domainerrors.ErrDuplicateMember) || errors.Is(err, domainerrors.ErrDataUnavailable) {
			return entities.Member{}, err
		}
		if !isUniqueViolation(err) {
			return entities.Member{}, r.unavailable("queue_repo_create_member_failed", err, "member_id", memberID)
		}
		lastErr = err
		if _, getErr := r.GetMember(ctx, memberID); getErr == nil {
			return entities.Member{}, domainerrors.ErrDuplicateMember
		}
	}
	return entities.Member{}, r.unavailable("queue_repo_create_member_retries_exhausted", lastErr, "member_id", memberID)
}

func (r *Repository) UpdateMember(ctx context.Context, memberID string, mutate ports.MemberMutation) (entities.Member, error) {
	memberID = strings.TrimSpace(memberID)
	var updated entities.Member
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row queueMemberModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", memberID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMemberNotFound
			}
			return r.unavailable("queue_repo_lock_member_failed", err, "member_id", memberID)
		}

		current := row.toEntity()
		next, err := mutate(current)
		if err != nil {
			return err
		}
		next.MemberID = current.MemberID
		next.InsertionSeq = current.InsertionSeq
		next.CreatedAt = current.CreatedAt

		if err := tx.Model(&queueMemberModel{}).
			Where("member_id = ?", memberID).
			Updates(memberUpdatesFromEntity(next)).
			Error; err != nil {
			return r.unavailable("queue_repo_update_member_failed", err, "member_id", memberID)
		}
		updated = next
		return nil
	})
	if err != nil {
		return entities.Member{}, err
	}
	return updated, nil
}

func (r *Repository) DeleteMember(ctx context.Context, memberID string) error {
	result := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Delete(&queueMemberModel{})
	if result.Error != nil {
		return r.unavailable("queue_repo_delete_member_failed", result.Error, "member_id", strings.TrimSpace(memberID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMemberNotFound
	}
	return nil
}

// RewritePositions locks every queue row for the duration of plan so two
// recalculations, or a recalculation and a member update, cannot interleave.
func (r *Repository) RewritePositions(ctx context.Context, plan ports.PositionPlan) (int, error) {
	total := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []queueMemberModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("queue_position ASC").
			Order("insertion_seq ASC").
			Find(&rows).Error; err != nil {
			return r.unavailable("queue_repo_lock_queue_failed", err)
		}

		moves, err := plan(toMemberEntities(rows))
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for memberID, position := range moves {
			if err := tx.Model(&queueMemberModel{}).
				Where("member_id = ?", memberID).
				Updates(map[string]any{
					"queue_position": position,
					"updated_at":     now,
				}).Error; err != nil {
				return r.unavailable("queue_repo_rewrite_position_failed", err,
					"member_id", memberID,
					"queue_position", position,
				)
			}
		}
		total = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) GetProfile(ctx context.Context, memberID string) (entities.Profile, error) {
	var row memberProfileModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrMemberNotFound
		}
		return entities.Profile{}, r.unavailable("queue_repo_get_profile_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCompletedPayments(ctx context.Context) ([]entities.Payment, error) {
	var rows []paymentModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.PaymentStatusCompleted).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		if isUndefinedTable(err) {
			// The ledger schema is optional in local development; no table means no revenue.
			return []entities.Payment{}, nil
		}
		return nil, r.unavailable("queue_repo_list_payments_failed", err)
	}
	items := make([]entities.Payment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) unavailable(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "membership-queue/queue-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("queue repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrDataUnavailable, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.MemberRepository = (*Repository)(nil)
var _ ports.ProfileReader = (*Repository)(nil)
var _ ports.PaymentLedger = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
