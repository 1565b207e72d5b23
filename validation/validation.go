// Package validation wraps go-playground/validator for the storefront's
// form checks. Rules are format-only; all field failures are collected and
// reported together rather than short-circuiting on the first.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex      = regexp.MustCompile(`^[0-9]{3}-[0-9]{3}-[0-9]{4}$`)
	postcodeRegex   = regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z] ?[0-9][A-Za-z][0-9]$`)
	creditCardRegex = regexp.MustCompile(`^[0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4}$`)
	expMonthRegex   = regexp.MustCompile(`^(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)$`)
	expYearRegex    = regexp.MustCompile(`^[1-9][0-9]{3}$`)
)

// Errors holds one message per failed field. It satisfies error so services
// can return it through their normal error path; handlers unwrap it to
// redisplay the form with per-field messages.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report errors under JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	mustRegister(v, "phone", phoneRegex)
	mustRegister(v, "postcode", postcodeRegex)
	mustRegister(v, "creditcard", creditCardRegex)
	mustRegister(v, "expmonth", expMonthRegex)
	mustRegister(v, "expyear", expYearRegex)

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates s and returns *Errors on failure, nil otherwise.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = message(e)
	}
	return &Errors{Fields: fields}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "should be in the format xxx-xxx-xxxx"
	case "postcode":
		return "should be in the format XDX DXD"
	case "creditcard":
		return "should be in the format xxxx-xxxx-xxxx-xxxx"
	case "expmonth":
		return "should be a three letter month, e.g. JAN"
	case "expyear":
		return "should be a four digit year"
	case "gt":
		return "must be greater than " + e.Param()
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	default:
		return "is invalid"
	}
}
