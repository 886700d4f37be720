package constants

//============== КЛИЕНТЫ ==============

const (
	CustomerTypePrivate    = "PRIVATE"
	CustomerTypeBusiness   = "BUSINESS"
	CustomerTypeIndividual = "INDIVIDUAL"
	CustomerTypeGovernment = "GOVERNMENT"
	CustomerTypeNonProfit  = "NON_PROFIT"
)

var CustomerTypes = []string{
	CustomerTypePrivate,
	CustomerTypeBusiness,
	CustomerTypeIndividual,
	CustomerTypeGovernment,
	CustomerTypeNonProfit,
}

const (
	CustomerStatusActive   = "ACTIVE"
	CustomerStatusInactive = "INACTIVE"
	CustomerStatusDeleted  = "DELETED"
)

var CustomerStatuses = []string{
	CustomerStatusActive,
	CustomerStatusInactive,
	CustomerStatusDeleted,
}

func IsValidCustomerStatus(code string) bool {
	for _, s := range CustomerStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsValidCustomerType(code string) bool {
	for _, t := range CustomerTypes {
		if t == code {
			return true
		}
	}
	return false
}

//============== ВСТРЕЧИ ==============

const (
	AppointmentStatusPlanned     = "PLANNED"
	AppointmentStatusConfirmed   = "CONFIRMED"
	AppointmentStatusCompleted   = "COMPLETED"
	AppointmentStatusCancelled   = "CANCELLED"
	AppointmentStatusRescheduled = "RESCHEDULED"
)

var AppointmentStatuses = []string{
	AppointmentStatusPlanned,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusRescheduled,
}

func IsValidAppointmentStatus(code string) bool {
	for _, s := range AppointmentStatuses {
		if s == code {
			return true
		}
	}
	return false
}

//============== ПОЛЬЗОВАТЕЛИ ==============

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

const (
	UserStatusActiveCode   = "ACTIVE"
	UserStatusInactiveCode = "INACTIVE"
)

// SystemActorName - имя автора для записей аудита без аутентифицированного пользователя.
const SystemActorName = "Система"

//============== УВЕДОМЛЕНИЯ ==============

const (
	NotificationTypeRequestCreated   = "REQUEST_CREATED"
	NotificationTypeRequestConverted = "REQUEST_CONVERTED"
)

//============== CACHE KEYS ==============

// Префиксы для ключей в Redis/кеше.
const (
	// Сводка дашборда. Формат: dashboard:summary -> JSON
	CacheKeyDashboardSummary = "dashboard:summary"
)
