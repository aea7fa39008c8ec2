package auth

import (
	"errors"

	"mediavault_backend/internal/models"
)

var (
	ErrNotStaff         = errors.New("staff access required")
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
	ErrProtectedAccount = errors.New("only a superuser can delete a superuser")
)

// IsStaff - может ли пользователь пользоваться административными маршрутами.
func IsStaff(user *models.User) bool {
	return user.CanAdminister()
}

// CanDeleteUser проверяет, может ли actor удалить учётную запись target.
func CanDeleteUser(actor, target *models.User) error {
	if !IsStaff(actor) {
		return ErrNotStaff
	}
	if actor.ID == target.ID {
		return ErrCannotDeleteSelf
	}
	if target.IsSuperuser && !actor.IsSuperuser {
		return ErrProtectedAccount
	}
	return nil
}
