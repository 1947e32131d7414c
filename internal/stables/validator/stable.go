package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/validation"
)

type StableValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStableValidator(log *logger.Logger) *StableValidator {
	v := validator.New()

	log.Info("Stable validator initialized successfully")

	return &StableValidator{
		validate: v,
		logger:   log,
	}
}

func (v *StableValidator) Validate(stable *model.Stable) error {
	if err := v.validate.Struct(stable); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	return v.validateMembers(stable)
}

func (v *StableValidator) ValidateUpdate(update *model.StableUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *StableValidator) ValidateMember(member *model.StableMember) error {
	if err := v.validate.Struct(member); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

// validateMembers enforces the invariants the struct tags cannot express:
// member phones must be unique, and at most one member record may carry the
// owner role.
func (v *StableValidator) validateMembers(stable *model.Stable) error {
	seen := make(map[string]bool, len(stable.Members))
	owners := 0

	for _, member := range stable.Members {
		if seen[member.Phone] {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "Members",
					Message: "member phones must be unique within a stable",
				},
			}
		}
		seen[member.Phone] = true

		if member.Role == "owner" {
			owners++
		}
	}

	if owners > 1 {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "Members",
				Message: "a stable can have at most one owner member record",
			},
		}
	}

	return nil
}
