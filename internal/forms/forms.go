// Package forms holds the client-side submission schemas and their
// field-level validation. A form that fails validation never produces a
// network call.
package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskpad/internal/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// calendardate accepts YYYY-MM-DD or RFC 3339.
	_ = validate.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
}

// CreateTaskForm is the schema for new tasks.
type CreateTaskForm struct {
	Title       string `json:"title" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"required,min=10,max=200"`
	Date        string `json:"date" validate:"required,calendardate"`
	IsCompleted bool   `json:"completed"`
	IsImportant bool   `json:"important"`
}

// EditTaskForm is the schema for editing an existing task.
type EditTaskForm struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"required,min=10,max=200"`
	Date        string `json:"date" validate:"required,calendardate"`
	IsCompleted bool   `json:"completed"`
	IsImportant bool   `json:"important"`
}

// Errors maps JSON field names to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

var messages = map[string]string{
	"required":     "is required",
	"min":          "is too short",
	"max":          "is too long",
	"calendardate": "must be a valid date",
}

// Validate checks every field of the form, as done on submission.
func Validate(form any) Errors {
	return collect(form, validate.Struct(form))
}

// ValidateField checks a single field, as done when it loses focus.
// field is the Go struct field name.
func ValidateField(form any, field string) Errors {
	return collect(form, validate.StructPartial(form, field))
}

func collect(form any, err error) Errors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": err.Error()}
	}

	structType := reflect.TypeOf(form)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	out := make(Errors, len(verrs))
	for _, e := range verrs {
		name := e.StructField()
		if f, ok := structType.FieldByName(e.StructField()); ok {
			if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag != "" {
				name = tag
			}
		}
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out[name] = name + " " + msg
	}
	return out
}
