package tui

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kiltia/analyst/config"
)

const redacted = "********"

// ConfigToEnv renders the configuration as the environment variables that
// would produce it. Secrets are redacted.
func ConfigToEnv(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	var result strings.Builder
	structToEnv(reflect.ValueOf(cfg).Elem(), "", &result)
	return result.String()
}

func structToEnv(v reflect.Value, prefix string, result *strings.Builder) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanInterface() {
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		if field.Kind() == reflect.Struct {
			newPrefix := strings.TrimSuffix(extractEnvconfigPrefix(envTag), "_")
			fullPrefix := newPrefix
			if prefix != "" {
				fullPrefix = prefix + "_" + newPrefix
			}
			structToEnv(field, fullPrefix, result)
			continue
		}

		envName := extractEnvconfigName(envTag)
		if envName == "" {
			continue
		}
		fullEnvName := envName
		if prefix != "" {
			fullEnvName = prefix + "_" + envName
		}
		value := formatValueForEnv(field)
		if value == "" {
			continue
		}
		if isSecret(fieldType) {
			value = redacted
		}
		fmt.Fprintf(result, "%s=%s\n", fullEnvName, value)
	}
}

// Fields hidden from the YAML file only come from the environment and hold
// credentials.
func isSecret(field reflect.StructField) bool {
	return field.Tag.Get("yaml") == "-"
}

func extractEnvconfigPrefix(tag string) string {
	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if after, ok := strings.CutPrefix(part, "prefix="); ok {
			return after
		}
	}
	return ""
}

func extractEnvconfigName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	name = strings.TrimSpace(name)
	if strings.Contains(name, "prefix=") {
		return ""
	}
	return name
}

func formatValueForEnv(field reflect.Value) string {
	if d, ok := field.Interface().(time.Duration); ok {
		return d.String()
	}
	if s, ok := field.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch field.Kind() {
	case reflect.String:
		return field.String()
	case reflect.Int, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(field.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(field.Bool())
	case reflect.Map:
		var pairs []string
		for _, key := range field.MapKeys() {
			pairs = append(pairs, fmt.Sprintf("%v=%v", key, field.MapIndex(key)))
		}
		sort.Strings(pairs)
		return strings.Join(pairs, ",")
	default:
		return fmt.Sprintf("%v", field.Interface())
	}
}
