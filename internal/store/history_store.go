package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vbonduro/snapback/internal/complaint"
	"github.com/vbonduro/snapback/internal/domain"
)

// ErrNotFound is returned when an analysis ID is not in the history.
var ErrNotFound = errors.New("analysis not found")

// HistoryStore keeps a log of finished analyses. It implements
// complaint.Recorder.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Record(ctx context.Context, a *complaint.Analysis) error {
	var fields sql.NullString
	if a.Outcome.Fields != nil {
		b, err := json.Marshal(a.Outcome.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		fields = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, complaint, mode, outcome, fields, answer, reason, suggested_post, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Complaint, string(a.Mode), string(a.Outcome.Kind), fields,
		a.Answer, a.Outcome.Reason, a.SuggestedPost, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

const selectColumns = `id, complaint, mode, outcome, fields, answer, reason, suggested_post, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.AnalysisRecord, error) {
	rec := &domain.AnalysisRecord{}
	var fields sql.NullString
	if err := row.Scan(&rec.ID, &rec.Complaint, &rec.Mode, &rec.Outcome, &fields,
		&rec.Answer, &rec.Reason, &rec.SuggestedPost, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if fields.Valid {
		if err := json.Unmarshal([]byte(fields.String), &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func (s *HistoryStore) GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM analyses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// ListRecent returns at most limit analyses, newest first.
func (s *HistoryStore) ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []*domain.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return records, nil
}

func (s *HistoryStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM analyses WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
