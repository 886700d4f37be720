package entities

import (
	"time"

	"crm-system/pkg/types"
)

type Appointment struct {
	ID              uint64    `json:"id" db:"id"`
	CustomerID      uint64    `json:"customer_id" db:"customer_id"`
	Title           string    `json:"title" db:"title"`
	AppointmentDate time.Time `json:"appointment_date" db:"appointment_date"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Location        *string   `json:"location" db:"location"`
	Description     *string   `json:"description" db:"description"`
	Status          string    `json:"status" db:"status"`

	types.BaseEntity
}
