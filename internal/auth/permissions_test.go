package auth

import (
	"testing"

	"mediavault_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanDeleteUser(t *testing.T) {
	staff := &models.User{IsActive: true, IsStaff: true}
	staff.ID = 1
	super := &models.User{IsActive: true, IsSuperuser: true}
	super.ID = 2
	regular := &models.User{IsActive: true}
	regular.ID = 3

	assert.NoError(t, CanDeleteUser(staff, regular))
	assert.NoError(t, CanDeleteUser(super, staff))
	assert.ErrorIs(t, CanDeleteUser(regular, staff), ErrNotStaff)
	assert.ErrorIs(t, CanDeleteUser(staff, staff), ErrCannotDeleteSelf)
	assert.ErrorIs(t, CanDeleteUser(staff, super), ErrProtectedAccount)

	inactive := &models.User{IsStaff: true}
	inactive.ID = 4
	assert.ErrorIs(t, CanDeleteUser(inactive, regular), ErrNotStaff)
}
