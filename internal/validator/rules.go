package validator

import (
	"log"
	"regexp"

	"mediavault_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Буквы, цифры и @/./+/-/_
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-media-type': audio или video
	mustRegister("is-media-type", validateMediaType)

	// 'username': допустимые символы имени пользователя
	mustRegister("username", validateUsername)
}

func validateMediaType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	return models.FileType(value).IsValid()
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return usernamePattern.MatchString(value)
}
