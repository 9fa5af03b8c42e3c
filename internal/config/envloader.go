package config

import (
	"fmt"
	"os"
	"reflect"
	"time"
)

// LoadFromEnv applies environment overrides to cfg. Each field tagged with
// `env` takes the variable's value when the variable is set; nested structs
// are walked recursively.
func LoadFromEnv(cfg interface{}) error {
	return loadFromEnv(reflect.ValueOf(cfg))
}

func loadFromEnv(v reflect.Value) error {
	// Dereference pointer
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	// Only process structs
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		// Handle nested structs
		if field.Kind() == reflect.Struct {
			if err := loadFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue, fieldType.Name, envTag); err != nil {
			return err
		}
	}

	return nil
}

// setFieldValue parses an environment value into a field. The schema only
// carries strings and durations; any other kind is an error, not a skip.
func setFieldValue(field reflect.Value, value string, fieldName string, envVar string) error {
	switch {
	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Type() == reflect.TypeOf(time.Duration(0)):
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetInt(int64(duration))

	default:
		return fmt.Errorf("unsupported type %s for %s (%s)", field.Kind(), fieldName, envVar)
	}

	return nil
}
