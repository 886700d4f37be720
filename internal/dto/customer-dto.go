package dto

// CreateCustomerDTO: Что клиент присылает для создания.
// Легаси-клиенты фронта присылают zipCode/companyName - см. Normalize.
type CreateCustomerDTO struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	CompanyName *string `json:"company_name"`
	Type        *string `json:"type"`
	Newsletter  *bool   `json:"newsletter"`

	// Легаси-алиасы. Заполняются старым фронтом, переносятся в
	// канонические поля один раз на границе сервиса.
	LegacyZipCode     *string `json:"zipCode,omitempty"`
	LegacyCompanyName *string `json:"companyName,omitempty"`
}

// Normalize переносит легаси-алиасы в канонические поля. Канонические
// значения имеют приоритет, алиасы после переноса обнуляются.
func (d *CreateCustomerDTO) Normalize() {
	if d.PostalCode == nil && d.LegacyZipCode != nil {
		d.PostalCode = d.LegacyZipCode
	}
	if d.CompanyName == nil && d.LegacyCompanyName != nil {
		d.CompanyName = d.LegacyCompanyName
	}
	d.LegacyZipCode = nil
	d.LegacyCompanyName = nil
}

// UpdateCustomerDTO: Что клиент может прислать для обновления.
type UpdateCustomerDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Country     *string `json:"country,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Status      *string `json:"status,omitempty"`
	Newsletter  *bool   `json:"newsletter,omitempty"`
}

// CustomerDTO: Что сервер отправляет клиенту в ответ.
type CustomerDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Newsletter  bool   `json:"newsletter"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type ShortCustomerDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type CustomerLogDTO struct {
	ID        uint64 `json:"id"`
	Text      string `json:"text"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}
