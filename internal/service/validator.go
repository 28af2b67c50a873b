package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return lowerFirst(field.Name)
		}
		return name
	})
	return v
}

func (s *TaskService) validateStruct(body any) error {
	err := s.validate.Struct(body)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "min":
		return fmt.Errorf("'%s' cannot be empty", fe.Field())
	case "max":
		return fmt.Errorf("'%s' must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("invalid '%s' with value '%v'", fe.Field(), fe.Value())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
