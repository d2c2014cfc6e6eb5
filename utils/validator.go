package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// Minimal internal validator driven by `validate:"..."` struct tags. Supports:
// - required
// - email
// - pwdmin (min length 6)
// - oneof=a|b|c (string must be one of the listed values)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateStruct inspects struct tags `validate:"..."` and returns the first
// error encountered.
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
			p = strings.TrimSpace(p)
			switch {
			case p == "required":
				if sval == "" && fv.Kind() == reflect.String {
					return errors.New(field.Name + " is required")
				}
			case p == "email":
				if sval != "" && !reEmail.MatchString(sval) {
					return errors.New(field.Name + " must be a valid email address")
				}
			case p == "pwdmin":
				if len(sval) < 6 {
					return errors.New(field.Name + " must be at least 6 characters")
				}
			case strings.HasPrefix(p, "oneof="):
				if sval == "" {
					continue
				}
				allowed := strings.Split(strings.TrimPrefix(p, "oneof="), "|")
				ok := false
				for _, a := range allowed {
					if sval == a {
						ok = true
						break
					}
				}
				if !ok {
					return errors.New(field.Name + " must be one of: " + strings.Join(allowed, ", "))
				}
			}
		}
	}
	return nil
}
