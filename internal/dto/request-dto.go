package dto

// CreateContactRequestDTO: Что клиент присылает с контактной формы.
type CreateContactRequestDTO struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,min=5"`
	Service *string `json:"service"`
	Message *string `json:"message"`
}

// UpdateRequestStatusDTO: Смена статуса с необязательной пояснительной заметкой.
type UpdateRequestStatusDTO struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note"`
}

// AssignRequestDTO: Назначение ответственного сотрудника.
type AssignRequestDTO struct {
	ProcessorID uint64 `json:"processor_id" validate:"required,gt=0"`
}

type AddNoteDTO struct {
	Text string `json:"text" validate:"required,min=1"`
}

// ContactRequestDTO: Что сервер отправляет клиенту в ответ.
type ContactRequestDTO struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Service       string        `json:"service,omitempty"`
	Message       string        `json:"message,omitempty"`
	Status        string        `json:"status"`
	CustomerID    *uint64       `json:"customer_id,omitempty"`
	AppointmentID *uint64       `json:"appointment_id,omitempty"`
	Processor     *ShortUserDTO `json:"processor,omitempty"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at,omitempty"`
}

type ShortUserDTO struct {
	ID  uint64 `json:"id"`
	Fio string `json:"fio"`
}

type RequestNoteDTO struct {
	ID        uint64 `json:"id"`
	Text      string `json:"text"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}
