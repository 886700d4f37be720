package entities

import "crm-system/pkg/types"

type Customer struct {
	ID          uint64  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Email       *string `json:"email" db:"email"`
	Phone       *string `json:"phone" db:"phone"`
	Address     *string `json:"address" db:"address"`
	City        *string `json:"city" db:"city"`
	PostalCode  *string `json:"postal_code" db:"postal_code"`
	Country     *string `json:"country" db:"country"`
	CompanyName *string `json:"company_name" db:"company_name"`
	Type        string  `json:"type" db:"type"`
	Status      string  `json:"status" db:"status"`
	Newsletter  bool    `json:"newsletter" db:"newsletter"`

	types.BaseEntity
	types.SoftDelete
}
