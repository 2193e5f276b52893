package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// echo の Validator。c.Validate(&req) から呼ばれる
type RequestValidator struct {
	v *playground.Validate
}

func New() *RequestValidator {
	v := playground.New(playground.WithRequiredStructEnabled())
	//エラーにはJSONの項目名を出す
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i interface{}) error {
	err := r.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return &ValidationError{Fields: verrs}
}

// ValidationError は最初の項目だけをメッセージにする
type ValidationError struct {
	Fields playground.ValidationErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	f := e.Fields[0]
	name := lowerFirst(f.Field())
	switch f.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, f.Param())
	case "min", "max", "gt", "gte":
		return fmt.Sprintf("%s must satisfy %s=%s", name, f.Tag(), f.Param())
	}
	return fmt.Sprintf("%s is invalid", name)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
