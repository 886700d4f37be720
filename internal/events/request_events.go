package events

// RequestCreatedEvent - новая заявка с контактной формы.
type RequestCreatedEvent struct {
	RequestID   uint64
	RequestName string
	Service     string
}

func (e RequestCreatedEvent) Name() string {
	return "request.created"
}

// RequestConvertedEvent публикуется строго после коммита транзакции
// конвертации.
type RequestConvertedEvent struct {
	RequestID     uint64
	CustomerID    uint64
	CustomerName  string
	AppointmentID *uint64
	ActorName     string
}

func (e RequestConvertedEvent) Name() string {
	return "request.converted"
}
