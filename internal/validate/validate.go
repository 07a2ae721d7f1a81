// Package validate checks request DTOs with go-playground/validator struct tags.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared instance with the diary's custom tags
// registered: mealtype, goaltype, waterunit, nutrientkey and listitem. The
// last two reject values the SQL column encoding cannot hold.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return storage.MealType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("goaltype", func(fl validator.FieldLevel) bool {
			return storage.GoalType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("waterunit", func(fl validator.FieldLevel) bool {
			return units.IsWaterUnit(fl.Field().String())
		})
		_ = v.RegisterValidation("nutrientkey", func(fl validator.FieldLevel) bool {
			return codec.CheckNutrientKey(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("listitem", func(fl validator.FieldLevel) bool {
			return codec.CheckListItem(fl.Field().String()) == nil
		})
		instance = v
	})
	return instance
}

// Struct validates s and flattens field errors into one readable message.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &Error{Message: strings.Join(msgs, "; ")}
}

// Error is returned for requests that fail validation.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is not a valid %s", fe.Field(), fe.Tag())
	}
}
