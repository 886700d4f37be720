package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ReportFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	Statuses     []string
	ProcessorIDs []uint64
	Page         int
	PerPage      int
}

// ReportItem - строка отчета по заявкам. Nullable-поля приходят
// из LEFT JOIN-ов и могут отсутствовать.
type ReportItem struct {
	RequestID     uint64      `json:"request_id"`
	RequestName   string      `json:"request_name"`
	Email         null.String `json:"email"`
	Phone         null.String `json:"phone"`
	Service       null.String `json:"service"`
	Status        string      `json:"status"`
	ProcessorFio  null.String `json:"processor_fio"`
	CustomerID    null.Uint64 `json:"customer_id"`
	CustomerName  null.String `json:"customer_name"`
	AppointmentAt null.Time   `json:"appointment_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     null.Time   `json:"updated_at"`
}
