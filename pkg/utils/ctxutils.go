package utils

import (
	"context"

	"crm-system/pkg/constants"
	"crm-system/pkg/contextkeys"
)

// ActorFromContext извлекает из контекста автора действия для записей аудита.
// Если аутентифицированного пользователя нет, автором считается "Система".
func ActorFromContext(ctx context.Context) (*uint64, string) {
	id, okID := ctx.Value(contextkeys.UserIDKey).(uint64)
	name, okName := ctx.Value(contextkeys.UserNameKey).(string)

	if !okID || id == 0 {
		return nil, constants.SystemActorName
	}
	if !okName || name == "" {
		name = constants.SystemActorName
	}
	return &id, name
}

func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	return id, ok && id != 0
}
