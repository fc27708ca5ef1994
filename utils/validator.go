package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
)

// Minimal internal validator to avoid external dependency. Supports:
// - required
// - emailok (basic RFC-ish shape)
// - pwdstrong (min 8 chars, at least one lower, one upper, one digit)
// - namemin (min 2 visible characters)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range strings.Split(tag, ",") {
			switch strings.TrimSpace(p) {
			case "required":
				if sval == "" {
					return errors.New(field.Name + " is required")
				}
			case "emailok":
				if sval != "" && !reEmail.MatchString(sval) {
					return errors.New(field.Name + " must be a valid email address")
				}
			case "pwdstrong":
				if sval != "" && !strongPassword(sval) {
					return errors.New(field.Name + " must be at least 8 characters with a lowercase letter, an uppercase letter and a digit")
				}
			case "namemin":
				if sval != "" && len(strings.TrimSpace(sval)) < 2 {
					return errors.New(field.Name + " must be at least 2 characters")
				}
			}
		}
	}
	return nil
}

func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
