package utils

import (
	"reflect"
	"sort"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages line up with the form.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	return v
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

// Fields maps each field to its first message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Add appends a rule failure that the tag validator cannot express.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// OrNil returns nil when there are no failures.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	sort.SliceStable(v, func(i, j int) bool { return v[i].Field < v[j].Field })
	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errors ValidationErrors
	for _, err := range verrs {
		field := err.Field()
		param := err.Param()

		var msg string
		switch err.Tag() {
		case "required":
			msg = field + " is required"
		case "min":
			if isCollection(err.Kind()) {
				msg = field + " must have at least " + param + " item(s)"
			} else if isNumber(err.Kind()) {
				msg = field + " must be at least " + param
			} else {
				msg = field + " must be at least " + param + " characters"
			}
		case "max":
			if isNumber(err.Kind()) {
				msg = field + " must be at most " + param
			} else {
				msg = field + " must be at most " + param + " characters"
			}
		case "gt":
			msg = field + " must be greater than " + param
		case "gte":
			msg = field + " must be at least " + param
		case "lte":
			msg = field + " must be at most " + param
		case "gtfield":
			msg = field + " must be after " + lowerFirst(param)
		case "email", "mailbox":
			msg = field + " must be a valid email"
		case "oneof":
			msg = field + " must be one of: " + strings.ReplaceAll(param, " ", ", ")
		case "datetime":
			msg = field + " must be a date in the format " + param
		default:
			msg = field + " is invalid"
		}
		errors.Add(field, msg)
	}
	return errors.OrNil()
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
