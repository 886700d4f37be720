package entities

import "crm-system/pkg/types"

// ContactRequest - заявка с сайта (лид). После конвертации хранит ссылку
// на созданного клиента; повторная конвертация не допускается.
type ContactRequest struct {
	ID            uint64  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Email         *string `json:"email" db:"email"`
	Phone         *string `json:"phone" db:"phone"`
	Service       *string `json:"service" db:"service"`
	Message       *string `json:"message" db:"message"`
	Status        string  `json:"status" db:"status"`
	CustomerID    *uint64 `json:"customer_id" db:"customer_id"`
	AppointmentID *uint64 `json:"appointment_id" db:"appointment_id"`
	ProcessorID   *uint64 `json:"processor_id" db:"processor_id"`

	types.BaseEntity
}
