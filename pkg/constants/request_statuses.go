package constants

// --- СТАТУСЫ ЗАЯВОК (Совпадает с кодами в БД) ---
const (
	RequestStatusNew        = "NEW"
	RequestStatusInProgress = "IN_PROGRESS"
	RequestStatusCompleted  = "COMPLETED"
	RequestStatusCancelled  = "CANCELLED"
)

var RequestStatuses = []string{
	RequestStatusNew,
	RequestStatusInProgress,
	RequestStatusCompleted,
	RequestStatusCancelled,
}

// allowedTransitions - жёсткая таблица переходов. COMPLETED и CANCELLED финальны.
var allowedTransitions = map[string][]string{
	RequestStatusNew:        {RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusInProgress: {RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusCompleted:  {},
	RequestStatusCancelled:  {},
}

func IsValidRequestStatus(code string) bool {
	for _, s := range RequestStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func CanTransitRequestStatus(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Финальные статусы
var FinalRequestStatuses = []string{
	RequestStatusCompleted,
	RequestStatusCancelled,
}

func IsFinalRequestStatus(code string) bool {
	for _, s := range FinalRequestStatuses {
		if s == code {
			return true
		}
	}
	return false
}
