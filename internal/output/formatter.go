package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	Format(data any) string
}

// NewFormatter returns a Formatter for the given format string.
// Supported formats: "table" (default), "json", "yaml".
func NewFormatter(format string) Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{}
	case "yaml":
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// TableFormatter formats data as aligned text tables using tabwriter.
// Slices of structs become one row per element; single structs and
// maps become key/value listings.
type TableFormatter struct{}

func (f *TableFormatter) Format(data any) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "No results.\n"
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 {
			return "No results.\n"
		}
		elem := v.Index(0)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			writeStructTable(w, v)
		} else {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			fmt.Fprintf(w, "%s:\t%s\n", t.Field(i).Name, cell(v.Field(i).Interface()))
		}
	case reflect.Map:
		writeMap(w, v, "")
	default:
		fmt.Fprintln(w, data)
	}

	w.Flush()
	return buf.String()
}

func writeStructTable(w *tabwriter.Writer, v reflect.Value) {
	elem := v.Index(0)
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	t := elem.Type()

	headers := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			headers = append(headers, strings.ToUpper(t.Field(i).Name))
		}
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		if row.Kind() == reflect.Ptr {
			row = row.Elem()
		}
		vals := make([]string, 0, row.NumField())
		for j := 0; j < row.NumField(); j++ {
			if !t.Field(j).IsExported() {
				continue
			}
			vals = append(vals, cell(row.Field(j).Interface()))
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
}

func writeMap(w *tabwriter.Writer, v reflect.Value, prefix string) {
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, fmt.Sprintf("%v", k.Interface()))
	}
	sort.Strings(keys)
	for _, k := range keys {
		val := v.MapIndex(reflect.ValueOf(k)).Interface()
		if nested, ok := val.(map[string]any); ok {
			fmt.Fprintf(w, "%s%s:\n", prefix, k)
			writeMap(w, reflect.ValueOf(nested), prefix+"  ")
			continue
		}
		fmt.Fprintf(w, "%s%s:\t%s\n", prefix, k, cell(val))
	}
}

// cell renders a single value compactly: slices joined with commas,
// nil as "-", everything else via Sprint.
func cell(val any) string {
	switch v := val.(type) {
	case nil:
		return "-"
	case []string:
		if len(v) == 0 {
			return "-"
		}
		return strings.Join(v, ", ")
	case []any:
		if len(v) == 0 {
			return "-"
		}
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(parts, ", ")
	case string:
		if v == "" {
			return "-"
		}
		return v
	default:
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Slice {
			if rv.Len() == 0 {
				return "-"
			}
			parts := make([]string, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				parts[i] = fmt.Sprintf("%v", rv.Index(i).Interface())
			}
			return strings.Join(parts, ", ")
		}
		return fmt.Sprintf("%v", val)
	}
}

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("error formatting JSON: %v\n", err)
	}
	return string(b) + "\n"
}

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any) string {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Sprintf("error formatting YAML: %v\n", err)
	}
	return string(b)
}
