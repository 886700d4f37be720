package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm-system/internal/entities"
)

// Заметки по заявкам append-only: никакого update или delete здесь нет
// и быть не должно.
type RequestNoteRepositoryInterface interface {
	AddNote(ctx context.Context, tx pgx.Tx, note *entities.RequestNote) (uint64, error)
	GetNotesByRequest(ctx context.Context, requestID uint64) ([]entities.RequestNote, error)
	CountNotesByRequest(ctx context.Context, requestID uint64) (uint64, error)
}

type requestNoteRepository struct {
	storage *pgxpool.Pool
}

func NewRequestNoteRepository(storage *pgxpool.Pool) RequestNoteRepositoryInterface {
	return &requestNoteRepository{storage: storage}
}

func (r *requestNoteRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *requestNoteRepository) AddNote(ctx context.Context, tx pgx.Tx, note *entities.RequestNote) (uint64, error) {
	query := `
		INSERT INTO request_notes (request_id, text, user_id, user_name, tx_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id`

	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		note.RequestID, note.Text, note.UserID, note.UserName, note.TxID,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления заметки к заявке: %w", err)
	}
	return newID, nil
}

// GetNotesByRequest возвращает заметки от новых к старым.
func (r *requestNoteRepository) GetNotesByRequest(ctx context.Context, requestID uint64) ([]entities.RequestNote, error) {
	query := `
		SELECT id, request_id, text, user_id, user_name, tx_id, created_at
		FROM request_notes
		WHERE request_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заметок заявки: %w", err)
	}
	defer rows.Close()

	notes := make([]entities.RequestNote, 0)
	for rows.Next() {
		var n entities.RequestNote
		if err := rows.Scan(&n.ID, &n.RequestID, &n.Text, &n.UserID, &n.UserName, &n.TxID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования request_notes: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *requestNoteRepository) CountNotesByRequest(ctx context.Context, requestID uint64) (uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM request_notes WHERE request_id = $1`, requestID).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета заметок: %w", err)
	}
	return total, nil
}
