package report

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Schema is a JSON Schema (draft-07) node.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`
}

const draft07 = "http://json-schema.org/draft-07/schema#"

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	durationType      = reflect.TypeFor[time.Duration]()
	timeType          = reflect.TypeFor[time.Time]()
)

// DocumentSchema describes the JSON report.
func DocumentSchema() *Schema {
	return SchemaFor(Document{}, "epcheck report", "JSON output of epcheck check --format json")
}

// SchemaFor derives a schema from the json tags of v's struct type. Named
// nested structs become definitions; fields without omitempty are required.
func SchemaFor(v any, title, description string) *Schema {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	defs := make(map[string]*Schema)

	schema := typeToSchema(t, defs, true)
	schema.Schema = draft07
	schema.Title = title
	schema.Description = description

	if len(defs) > 0 {
		schema.Definitions = defs
	}

	return schema
}

func structToSchema(t reflect.Type, defs map[string]*Schema) *Schema {
	props := make(map[string]*Schema)

	var required []string

	for idx := range t.NumField() {
		field := t.Field(idx)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" || jsonTag == "" || !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(jsonTag, ",")
		props[name] = typeToSchema(field.Type, defs, false)

		if !strings.Contains(opts, "omitempty") {
			required = append(required, name)
		}
	}

	return &Schema{Type: "object", Properties: props, Required: required}
}

func typeToSchema(t reflect.Type, defs map[string]*Schema, inline bool) *Schema {
	if t.Implements(textMarshalerType) && t != timeType {
		return &Schema{Type: "string"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == durationType {
			return &Schema{Type: "integer", Description: "Duration in nanoseconds"}
		}

		return &Schema{Type: "integer"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: typeToSchema(t.Elem(), defs, false)}
	case reflect.Map:
		return &Schema{
			Type:                 "object",
			Description:          fmt.Sprintf("Map with %s keys", t.Key().Kind()),
			AdditionalProperties: typeToSchema(t.Elem(), defs, false),
		}
	case reflect.Struct:
		if t == timeType {
			return &Schema{Type: "string", Description: "RFC 3339 timestamp"}
		}

		if inline || t.Name() == "" {
			return structToSchema(t, defs)
		}

		if _, exists := defs[t.Name()]; !exists {
			// Reserve the name first so recursive types terminate.
			defs[t.Name()] = &Schema{}
			defs[t.Name()] = structToSchema(t, defs)
		}

		return &Schema{Ref: "#/definitions/" + t.Name()}
	case reflect.Pointer:
		return typeToSchema(t.Elem(), defs, inline)
	default:
		return &Schema{}
	}
}
