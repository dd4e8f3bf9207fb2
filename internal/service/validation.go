package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError carries one message per invalid field, keyed by JSON path
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Indian mobile numbers: 10 digits starting with 6-9
var phoneRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// fieldMessages overrides the generic message for a field path and tag
var fieldMessages = map[string]string{
	"centerName.notblank":              "Center name is required",
	"centerName.max":                   "Center name must be less than 40 characters",
	"centerCode.notblank":              "Center code is required",
	"centerCode.len":                   "Center code must be exactly 12 characters",
	"centerCode.alphanum":              "Center code must be alphanumeric",
	"address.required":                 "Address is required",
	"address.detailedAddress.notblank": "Detailed address is required",
	"address.city.notblank":            "City is required",
	"address.state.notblank":           "State is required",
	"address.pincode.notblank":         "Pincode is required",
	"address.pincode.numeric":          "Pincode must be a 6-digit number",
	"address.pincode.len":              "Pincode must be a 6-digit number",
	"studentCapacity.min":              "Student capacity cannot be negative",
	"contactEmail.email":               "Invalid email format",
	"contactPhone.notblank":            "Contact phone is required",
	"contactPhone.phone_in":            "Invalid phone number",
}

// Validator checks request structs against their validate tags
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator that reports JSON field names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("phone_in", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s and returns a *ValidationError listing every invalid field
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		if _, seen := fields[path]; seen {
			continue
		}
		fields[path] = fieldMessage(path, fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath strips the root struct name from the namespace,
// e.g. "TrainingCenter.address.city" -> "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(path string, fe validator.FieldError) string {
	if msg, ok := fieldMessages[path+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
