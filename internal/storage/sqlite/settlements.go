package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

const settlementColumns = "id, group_id, from_id, to_id, amount_cents, status, created_at, created_by, note"

// ListCompletedSettlements retrieves the group's completed settlements, oldest first.
func (s *SQLiteStore) ListCompletedSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? AND status = ? ORDER BY created_at, id",
		groupID, string(models.SettlementCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	return scanSettlements(rows)
}

// ListSettlementsByMember retrieves all completed settlements touching the
// member, newest first.
func (s *SQLiteStore) ListSettlementsByMember(ctx context.Context, memberID models.MemberID) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE (from_id = ? OR to_id = ?) AND status = ? ORDER BY created_at DESC, id",
		string(memberID), string(memberID), string(models.SettlementCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by member: %w", err)
	}
	return scanSettlements(rows)
}

// SettlementLogVersion returns the number of settlements ever recorded for
// the group. The log is append-only, so the count is a monotonic version.
func (s *SQLiteStore) SettlementLogVersion(ctx context.Context, groupID string) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM settlements WHERE group_id = ?",
		groupID,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read settlement log version: %w", err)
	}
	return version, nil
}

// AppendSettlement appends a settlement if the group's log is still at
// expectedVersion. The check and the insert share one write transaction
// (the connection opens transactions with an immediate write lock), so two
// concurrent appends against the same version cannot both succeed: the
// loser gets storage.ErrVersionConflict and must re-read and re-validate.
func (s *SQLiteStore) AppendSettlement(ctx context.Context, settlement *models.Settlement, expectedVersion int64) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM settlements WHERE group_id = ?",
		settlement.GroupID,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read settlement log version: %w", err)
	}
	if version != expectedVersion {
		return storage.ErrVersionConflict
	}

	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_id, to_id, amount_cents, status, created_at, created_by, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, string(settlement.FromID), string(settlement.ToID),
		int64(settlement.Amount), string(settlement.Status), settlement.CreatedAt, string(settlement.CreatedBy), note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanSettlements(rows *sql.Rows) ([]*models.Settlement, error) {
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromID, &settlement.ToID,
			&settlement.Amount, &settlement.Status, &settlement.CreatedAt, &settlement.CreatedBy, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		if note.Valid {
			settlement.Note = note.String
		}

		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
