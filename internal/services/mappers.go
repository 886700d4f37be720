package services

import (
	"time"

	"crm-system/internal/dto"
	"crm-system/internal/entities"
	"crm-system/pkg/utils"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func mapRequest(req *entities.ContactRequest) dto.ContactRequestDTO {
	mapped := dto.ContactRequestDTO{
		ID:            req.ID,
		Name:          req.Name,
		Email:         utils.StringOrDefault(req.Email, ""),
		Phone:         utils.StringOrDefault(req.Phone, ""),
		Service:       utils.StringOrDefault(req.Service, ""),
		Message:       utils.StringOrDefault(req.Message, ""),
		Status:        req.Status,
		CustomerID:    req.CustomerID,
		AppointmentID: req.AppointmentID,
		CreatedAt:     formatTime(req.CreatedAt),
		UpdatedAt:     formatTime(req.UpdatedAt),
	}
	if req.ProcessorID != nil {
		mapped.Processor = &dto.ShortUserDTO{ID: *req.ProcessorID}
	}
	return mapped
}

func mapCustomer(c *entities.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		Email:       utils.StringOrDefault(c.Email, ""),
		Phone:       utils.StringOrDefault(c.Phone, ""),
		Address:     utils.StringOrDefault(c.Address, ""),
		City:        utils.StringOrDefault(c.City, ""),
		PostalCode:  utils.StringOrDefault(c.PostalCode, ""),
		Country:     utils.StringOrDefault(c.Country, ""),
		CompanyName: utils.StringOrDefault(c.CompanyName, ""),
		Type:        c.Type,
		Status:      c.Status,
		Newsletter:  c.Newsletter,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func mapAppointment(a *entities.Appointment) dto.AppointmentDTO {
	return dto.AppointmentDTO{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		Title:           a.Title,
		AppointmentDate: a.AppointmentDate.Local().Format(timeLayout),
		DurationMinutes: a.DurationMinutes,
		Location:        utils.StringOrDefault(a.Location, ""),
		Description:     utils.StringOrDefault(a.Description, ""),
		Status:          a.Status,
		CreatedAt:       formatTime(a.CreatedAt),
	}
}
