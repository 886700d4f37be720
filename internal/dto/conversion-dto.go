package dto

// ConvertToCustomerDTO: Вход мультисущностной конвертации заявки.
// customer_data перекрывает поля заявки; отсутствующие берутся из неё.
type ConvertToCustomerDTO struct {
	CustomerData      *ConversionCustomerDataDTO `json:"customer_data"`
	CreateAppointment bool                       `json:"create_appointment"`
	AppointmentData   *AppointmentDataDTO        `json:"appointment_data" validate:"required_if=CreateAppointment true"`
	Note              *string                    `json:"note"`
}

// ConversionCustomerDataDTO: Частичное перекрытие полей будущего клиента.
type ConversionCustomerDataDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	CompanyName *string `json:"company_name"`
	Type        *string `json:"type"`
	Newsletter  *bool   `json:"newsletter"`

	// Легаси-алиасы старого фронта, см. CreateCustomerDTO.Normalize.
	LegacyZipCode     *string `json:"zipCode,omitempty"`
	LegacyCompanyName *string `json:"companyName,omitempty"`
}

func (d *ConversionCustomerDataDTO) Normalize() {
	if d.PostalCode == nil && d.LegacyZipCode != nil {
		d.PostalCode = d.LegacyZipCode
	}
	if d.CompanyName == nil && d.LegacyCompanyName != nil {
		d.CompanyName = d.LegacyCompanyName
	}
	d.LegacyZipCode = nil
	d.LegacyCompanyName = nil
}

// ConversionResultDTO: Итог конвертации - клиент, заявка и, если
// запрашивалась, встреча.
type ConversionResultDTO struct {
	Customer    CustomerDTO       `json:"customer"`
	Appointment *AppointmentDTO   `json:"appointment,omitempty"`
	Request     ContactRequestDTO `json:"request"`
}
