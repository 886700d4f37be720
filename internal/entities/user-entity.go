package entities

import "crm-system/pkg/types"

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Fio      string `json:"fio" db:"fio"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
	Status   string `json:"status" db:"status"`

	types.BaseEntity
	types.SoftDelete
}
