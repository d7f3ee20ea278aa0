package config

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// flagField is one config field exposed as a command-line flag
type flagField struct {
	path  string // koanf path, e.g. "cache.max_entries"
	flag  string // flag name, e.g. "cache-max-entries"
	usage string
	kind  reflect.Kind
	// elem is the element kind of slice fields
	elem reflect.Kind
}

// flagFields walks Config by its koanf tags and returns every field that can
// be set from a flag: scalars and string slices. Slices of structs such as
// resolver.providers are only configurable from files and the environment.
func flagFields() []flagField {
	var fields []flagField
	collectFlagFields(reflect.TypeOf(Config{}), "", &fields)
	return fields
}

func collectFlagFields(t reflect.Type, parent string, fields *[]flagField) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}

		path := tag
		if parent != "" {
			path = parent + "." + tag
		}

		ft := field.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		f := flagField{
			path:  path,
			flag:  configPathToFlagName(path),
			usage: field.Tag.Get("usage"),
			kind:  ft.Kind(),
		}

		switch {
		case ft.Kind() == reflect.Struct:
			collectFlagFields(ft, path, fields)
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.String:
			f.elem = reflect.String
			*fields = append(*fields, f)
		case isScalarKind(ft.Kind()):
			*fields = append(*fields, f)
		}
	}
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// configPathToFlagName converts a config path to a flag name
// Examples:
//   - "cache.max_entries" -> "cache-max-entries"
//   - "output" -> "output"
func configPathToFlagName(configPath string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(configPath)
}

// RegisterFlags registers a flag for every flag-settable config field.
// Flags default to their zero value; only flags set explicitly override
// the file and environment (see NewLoaderWithFlags).
func RegisterFlags(flagSet *pflag.FlagSet) {
	for _, f := range flagFields() {
		if flagSet.Lookup(f.flag) != nil {
			continue
		}

		switch f.kind {
		case reflect.String:
			flagSet.String(f.flag, "", f.usage)
		case reflect.Bool:
			flagSet.Bool(f.flag, false, f.usage)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			flagSet.Int(f.flag, 0, f.usage)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			flagSet.Uint(f.flag, 0, f.usage)
		case reflect.Float32, reflect.Float64:
			flagSet.Float64(f.flag, 0, f.usage)
		case reflect.Slice:
			flagSet.StringSlice(f.flag, nil, f.usage)
		}
	}
}

// GetFlagMapping returns the mapping from flag names to config paths
func GetFlagMapping() map[string]string {
	fields := flagFields()
	mapping := make(map[string]string, len(fields))
	for _, f := range fields {
		mapping[f.flag] = f.path
	}
	return mapping
}
