package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"shiftbook/internal/domain"
)

var validate = validator.New()

// Validate проверяет структуру по тегам validate и возвращает
// *domain.ValidationError с сообщением на каждое поле.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	}
	return "is invalid"
}

// isValidationError: ошибка входных данных, а не хранилища.
func isValidationError(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}
