package contextkeys

type contextKey string

const (
	// UserIDKey - ID аутентифицированного пользователя в контексте запроса.
	UserIDKey contextKey = "userID"
	// UserNameKey - ФИО пользователя, используется для атрибуции аудита.
	UserNameKey contextKey = "userName"
	// UserRoleKey - код роли пользователя.
	UserRoleKey contextKey = "userRole"
)
