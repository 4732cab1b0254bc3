package validator

import (
	"errors"
	"fmt"
	"strings"

	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, _, err := model.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// ValidateRules validates a full replacement rule set. The workspace ID on
// each rule is set by the service, so it is not checked here.
func (v *AvailabilityValidator) ValidateRules(rules []*model.AvailabilityRule) error {
	var all ValidationErrors

	for i, rule := range rules {
		if err := v.validate.StructExcept(rule, "WorkspaceID"); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				for _, fieldErr := range translateValidationErrors(validationErrs) {
					fieldErr.Field = fmt.Sprintf("rules[%d].%s", i, fieldErr.Field)
					all = append(all, fieldErr)
				}
				continue
			}
			return err
		}

		if !timeOfDayBefore(rule.StartTime, rule.EndTime) {
			all = append(all, ValidationError{
				Field:   fmt.Sprintf("rules[%d].EndTime", i),
				Message: "end_time must be after start_time",
			})
		}
	}

	if len(all) > 0 {
		return all
	}
	return nil
}

func timeOfDayBefore(start, end string) bool {
	sh, sm, err := model.ParseTimeOfDay(start)
	if err != nil {
		return false
	}
	eh, em, err := model.ParseTimeOfDay(end)
	if err != nil {
		return false
	}
	return sh*60+sm < eh*60+em
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be a wall-clock time in HH:MM format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
