package entities

import (
	"time"

	"github.com/google/uuid"
)

// RequestNote - неизменяемая запись аудита по заявке. Записи, созданные
// в одной транзакции, связаны общим tx_id.
type RequestNote struct {
	ID        uint64     `json:"id" db:"id"`
	RequestID uint64     `json:"request_id" db:"request_id"`
	Text      string     `json:"text" db:"text"`
	UserID    *uint64    `json:"user_id" db:"user_id"`
	UserName  string     `json:"user_name" db:"user_name"`
	TxID      *uuid.UUID `json:"tx_id" db:"tx_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// CustomerLog - неизменяемая запись аудита по клиенту.
type CustomerLog struct {
	ID         uint64    `json:"id" db:"id"`
	CustomerID uint64    `json:"customer_id" db:"customer_id"`
	Text       string    `json:"text" db:"text"`
	UserID     *uint64   `json:"user_id" db:"user_id"`
	UserName   string    `json:"user_name" db:"user_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
