package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/coursefoundry/academy_api/shared"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("block_type", validateBlockType)
	validate.RegisterValidation("quiz_mode", validateQuizMode)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateBlockType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case shared.BlockTypeText, shared.BlockTypeMedia, shared.BlockTypeFile, shared.BlockTypeCode, shared.BlockTypeEmbed:
		return true
	}
	return false
}

func validateQuizMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case shared.QuizModePool, shared.QuizModeOnTheFly:
		return true
	}
	return false
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "gte":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "lte":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "url":
				message = fieldError.Field() + " must be a valid URL"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			case "block_type":
				message = fieldError.Field() + " must be a known content block type"
			case "quiz_mode":
				message = fieldError.Field() + " must be 'pool' or 'onTheFly'"
			case "dive":
				message = fieldError.Field() + " contains invalid items"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

type Validator interface {
	Validate() error
}

func CreateValidationErrorResponse(err error) ValidationErrorResponse {
	return ValidationErrorResponse{
		Code:    400,
		Message: "Validation failed",
		Errors:  FormatValidationErrors(err),
	}
}
