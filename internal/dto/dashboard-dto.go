package dto

// DashboardSummaryDTO - сводка для главного экрана. Кешируется в Redis.
type DashboardSummaryDTO struct {
	RequestsByStatus  map[string]uint64 `json:"requests_by_status"`
	RequestsTotal     uint64            `json:"requests_total"`
	CustomersTotal    uint64            `json:"customers_total"`
	AppointmentsTotal uint64            `json:"appointments_total"`
}
