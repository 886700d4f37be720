package dto

import "time"

// CreateAppointmentDTO: Создание встречи для существующего клиента.
type CreateAppointmentDTO struct {
	CustomerID      uint64    `json:"customer_id" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required,min=2"`
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gt=0"`
	Location        *string   `json:"location"`
	Description     *string   `json:"description"`
}

// AppointmentDataDTO: Данные встречи внутри конвертации заявки.
// Владелец (customer_id) становится известен только после создания клиента.
type AppointmentDataDTO struct {
	Title           string    `json:"title" validate:"required,min=2"`
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gt=0"`
	Location        *string   `json:"location"`
	Description     *string   `json:"description"`
}

type UpdateAppointmentStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// AppointmentDTO: Что сервер отправляет клиенту в ответ.
type AppointmentDTO struct {
	ID              uint64 `json:"id"`
	CustomerID      uint64 `json:"customer_id"`
	Title           string `json:"title"`
	AppointmentDate string `json:"appointment_date"`
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}
