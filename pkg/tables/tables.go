// Package tables provides the injected data the rules consult: deprecated
// fastutil methods, mutable JDK types, generic-to-specialized class suffixes
// and extra subtype edges. Tables are loaded once and never mutated.
package tables

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/specialize"
)

//go:embed default.yaml schema.json
var files embed.FS

// Sentinel errors.
var (
	ErrInvalidTables = errors.New("invalid rule tables")
	ErrDecode        = errors.New("decode rule tables")
)

// Family is one fastutil primitive family.
type Family struct {
	Type string `yaml:"Type"`
	Pkg  string `yaml:"pkg"`
	Box  string `yaml:"box"`
	Prim string `yaml:"prim"`
}

// DeprecatedMethod matches instance calls of Methods on descendants of On.
// A nil Params accepts any overload; otherwise the resolved overload must
// declare exactly these parameter types.
type DeprecatedMethod struct {
	Group   string
	On      []string
	Methods []string
	Params  []*jtype.Descriptor
}

// Specialization maps a generic class, or one of its static factories, to
// the suffixes of its specialized counterpart.
type Specialization struct {
	Class    string
	Factory  string
	Suffixes specialize.Suffixes
}

// Tables is the loaded rule data.
type Tables struct {
	specializations map[string]Specialization
	hierarchy       map[string][]string
	deprecated      []DeprecatedMethod
	mutable         []string
	families        []Family
}

type rawDeprecated struct {
	Params  *[]string `yaml:"params"`
	Group   string    `yaml:"group"`
	On      []string  `yaml:"on"`
	Methods []string  `yaml:"methods"`
}

type rawSpecialization struct {
	Class          string `yaml:"class"`
	Factory        string `yaml:"factory"`
	Declared       string `yaml:"declared"`
	Implementation string `yaml:"implementation"`
	Arity          int    `yaml:"arity"`
}

type rawTables struct {
	Hierarchy       map[string][]string `yaml:"hierarchy"`
	Families        []Family            `yaml:"families"`
	Deprecated      []rawDeprecated     `yaml:"deprecated_methods"`
	MutableTypes    []string            `yaml:"mutable_types"`
	Specializations []rawSpecialization `yaml:"specializations"`
}

// Empty returns tables with no entries. Every rule stays usable with them.
func Empty() *Tables {
	return &Tables{
		specializations: make(map[string]Specialization),
		hierarchy:       make(map[string][]string),
	}
}

// Default returns the tables shipped with the binary.
func Default() *Tables {
	data, err := files.ReadFile("default.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded tables: %v", err))
	}

	loaded, err := Load(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("embedded tables: %v", err))
	}

	return loaded
}

// LoadFile reads tables from a YAML file.
func LoadFile(path string) (*Tables, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tables: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Load reads a YAML document, validates it against the embedded schema and
// expands family templates.
func Load(reader io.Reader) (*Tables, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}

	err = validate(data)
	if err != nil {
		return nil, err
	}

	var raw rawTables

	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return build(raw)
}

func validate(data []byte) error {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	schema, err := files.ReadFile("schema.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidTables, strings.Join(problems, "; "))
}

func build(raw rawTables) (*Tables, error) {
	out := Empty()
	out.families = raw.Families
	out.mutable = slices.Clone(raw.MutableTypes)

	for name, supers := range raw.Hierarchy {
		out.hierarchy[name] = slices.Clone(supers)
	}

	for _, entry := range raw.Deprecated {
		expanded, err := expandDeprecated(entry, raw.Families)
		if err != nil {
			return nil, err
		}

		out.deprecated = append(out.deprecated, expanded...)
	}

	for _, entry := range raw.Specializations {
		spec := Specialization{
			Class:   entry.Class,
			Factory: entry.Factory,
			Suffixes: specialize.Suffixes{
				Declared:       entry.Declared,
				Implementation: entry.Implementation,
				Arity:          entry.Arity,
			},
		}
		out.specializations[specializationKey(entry.Class, entry.Factory)] = spec
	}

	return out, nil
}

func expandDeprecated(entry rawDeprecated, families []Family) ([]DeprecatedMethod, error) {
	if !isTemplated(entry) {
		method, err := resolveDeprecated(entry, nil)
		if err != nil {
			return nil, err
		}

		return []DeprecatedMethod{method}, nil
	}

	out := make([]DeprecatedMethod, 0, len(families))

	for _, family := range families {
		method, err := resolveDeprecated(entry, &family)
		if err != nil {
			return nil, err
		}

		out = append(out, method)
	}

	return out, nil
}

func isTemplated(entry rawDeprecated) bool {
	fields := slices.Concat(entry.On, entry.Methods)
	if entry.Params != nil {
		fields = append(fields, *entry.Params...)
	}

	return slices.ContainsFunc(fields, func(field string) bool {
		return strings.Contains(field, "${")
	})
}

func resolveDeprecated(entry rawDeprecated, family *Family) (DeprecatedMethod, error) {
	method := DeprecatedMethod{
		Group:   entry.Group,
		On:      substituteAll(entry.On, family),
		Methods: substituteAll(entry.Methods, family),
	}

	if entry.Params == nil {
		return method, nil
	}

	method.Params = make([]*jtype.Descriptor, 0, len(*entry.Params))

	for _, text := range substituteAll(*entry.Params, family) {
		desc := jtype.Parse(text)
		if !desc.IsResolved() {
			return DeprecatedMethod{}, fmt.Errorf("%w: parameter type %q", ErrInvalidTables, text)
		}

		method.Params = append(method.Params, desc)
	}

	return method, nil
}

func substituteAll(values []string, family *Family) []string {
	out := make([]string, len(values))
	for idx, value := range values {
		out[idx] = substitute(value, family)
	}

	return out
}

func substitute(value string, family *Family) string {
	if family == nil {
		return value
	}

	return os.Expand(value, func(name string) string {
		switch name {
		case "Type":
			return family.Type
		case "pkg":
			return family.Pkg
		case "box":
			return family.Box
		case "prim":
			return family.Prim
		default:
			return "${" + name + "}"
		}
	})
}

func specializationKey(class, factory string) string {
	if factory == "" {
		return class
	}

	return class + "#" + factory
}

// Families returns the configured fastutil families.
func (tables *Tables) Families() []Family {
	return slices.Clone(tables.families)
}

// DeprecatedMethods returns the expanded deprecated-method entries.
func (tables *Tables) DeprecatedMethods() []DeprecatedMethod {
	return slices.Clone(tables.deprecated)
}

// MutableTypes returns the qualified names of mutable types.
func (tables *Tables) MutableTypes() []string {
	return slices.Clone(tables.mutable)
}

// Constructor returns the specialization of a generic class.
func (tables *Tables) Constructor(class string) (Specialization, bool) {
	spec, ok := tables.specializations[specializationKey(class, "")]

	return spec, ok
}

// Factory returns the specialization of a static factory such as List.of.
func (tables *Tables) Factory(class, method string) (Specialization, bool) {
	spec, ok := tables.specializations[specializationKey(class, method)]

	return spec, ok
}

// Specializations lists every configured entry.
func (tables *Tables) Specializations() []Specialization {
	out := make([]Specialization, 0, len(tables.specializations))
	for _, spec := range tables.specializations {
		out = append(out, spec)
	}

	slices.SortFunc(out, func(left, right Specialization) int {
		return strings.Compare(specializationKey(left.Class, left.Factory), specializationKey(right.Class, right.Factory))
	})

	return out
}

// Supertypes returns the extra direct supertypes configured for name.
func (tables *Tables) Supertypes(name string) []string {
	return tables.hierarchy[name]
}

// Hierarchy returns a copy of the configured supertype edges.
func (tables *Tables) Hierarchy() map[string][]string {
	out := make(map[string][]string, len(tables.hierarchy))
	for name, supers := range tables.hierarchy {
		out[name] = slices.Clone(supers)
	}

	return out
}
