package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

// newRequestValidator registers the workflow rules on validate, creating one
// when nil. Field errors report the json name of the field.
func newRequestValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		date, ok := v.Interface().(models.Date)
		if !ok || date.IsZero() {
			return nil
		}
		return date.Time
	}, models.Date{})
	validate.RegisterValidation("permission_type", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePermissionType(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("permission_decision", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePermissionDecision(fl.Field().String())
		return ok
	})
	return validate
}

// validationError maps validator output to a 400 naming the first failed rule.
func validationError(err error) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	fe := fieldErrs[0]
	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", fe.Field())
	case "required_if":
		message = fmt.Sprintf("%s is required when %s", fe.Field(), requiredIfCondition(fe.Param()))
	case "permission_type":
		message = "type must be LateIn, EarlyOut or Errand"
	case "permission_decision":
		message = "status must be Approved or Rejected"
	default:
		message = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func requiredIfCondition(param string) string {
	switch param {
	case "IsNewClient true":
		return "isNewClient is true"
	case "IsNewClient false":
		return "isNewClient is false"
	}
	return param
}
