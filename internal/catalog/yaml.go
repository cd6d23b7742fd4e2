package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// File is the top level of a YAML type description file.
type File struct {
	// Classes lists the described classes and interfaces.
	Classes []ClassSpec `yaml:"classes"`
}

// ClassSpec describes one class or interface.
type ClassSpec struct {
	// Name is the dotted class name (e.g. "java.lang.Integer").
	Name string `yaml:"name"`

	// Super is the dotted name of the supertype. Omitted for interfaces and
	// for classes extending java.lang.Object.
	Super string `yaml:"super,omitempty"`

	// Interfaces lists the directly implemented interfaces.
	Interfaces []string `yaml:"interfaces,omitempty"`

	// Modifiers are keywords such as "public", "final", "interface".
	Modifiers []string `yaml:"modifiers,omitempty"`

	Fields       []FieldSpec  `yaml:"fields,omitempty"`
	Constructors []MethodSpec `yaml:"constructors,omitempty"`
	Methods      []MethodSpec `yaml:"methods,omitempty"`
}

// FieldSpec describes a field.
type FieldSpec struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Modifiers []string `yaml:"modifiers,omitempty"`
}

// MethodSpec describes a method or, inside Constructors, a constructor.
type MethodSpec struct {
	// Name is ignored for constructors.
	Name string `yaml:"name,omitempty"`

	// Params lists parameter types, e.g. ["int", "java.lang.String[]"].
	Params []string `yaml:"params,omitempty"`

	// Returns is the return type. Defaults to "void".
	Returns string `yaml:"returns,omitempty"`

	// Throws lists declared exception types.
	Throws []string `yaml:"throws,omitempty"`

	Modifiers []string `yaml:"modifiers,omitempty"`
}

// LoadYAML reads a type description file into a new catalog.
func LoadYAML(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseYAML(data, path)
}

// ParseYAML parses type description content into a new catalog.
// The path argument is used only for error messages.
func ParseYAML(data []byte, path string) (*Memory, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m := &Memory{classes: make(map[string]*typesystem.ClassDef, len(f.Classes))}
	for i, spec := range f.Classes {
		def, err := spec.Build(false)
		if err != nil {
			return nil, fmt.Errorf("%s: classes[%d]: %w", path, i, err)
		}
		if err := m.Add(def); err != nil {
			return nil, fmt.Errorf("%s: classes[%d]: %w", path, i, err)
		}
	}
	return m, nil
}

// ParseClassYAML parses a single class description. With asSelf set the
// members are owned by the self placeholder, as the description of the type
// under construction requires.
func ParseClassYAML(data []byte, asSelf bool) (*typesystem.ClassDef, error) {
	var spec ClassSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing class description: %w", err)
	}
	return spec.Build(asSelf)
}

// Build converts the spec into a validated class description.
func (s ClassSpec) Build(asSelf bool) (*typesystem.ClassDef, error) {
	if s.Name == "" {
		return nil, typesystem.NewUsageError("class name is required")
	}
	owner := typesystem.Class(s.Name)
	if asSelf {
		owner = typesystem.Self
	}
	mods, err := typesystem.ParseModifiers(s.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	def := &typesystem.ClassDef{Name: s.Name, Modifiers: mods}
	if s.Super != "" {
		if def.Super, err = typesystem.Parse(s.Super); err != nil {
			return nil, fmt.Errorf("%s: super: %w", s.Name, err)
		}
	}
	if def.Interfaces, err = parseTypes(s.Interfaces); err != nil {
		return nil, fmt.Errorf("%s: interfaces: %w", s.Name, err)
	}

	for _, fs := range s.Fields {
		f := &typesystem.Field{Owner: owner, Name: fs.Name}
		if f.Type, err = typesystem.Parse(fs.Type); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
		}
		if f.Modifiers, err = typesystem.ParseModifiers(fs.Modifiers); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, fs.Name, err)
		}
		def.Fields = append(def.Fields, f)
	}
	for _, ms := range s.Constructors {
		ms.Name = config.ConstructorName
		ms.Returns = "void"
		m, err := ms.build(owner)
		if err != nil {
			return nil, fmt.Errorf("%s.<init>: %w", s.Name, err)
		}
		def.Constructors = append(def.Constructors, m)
	}
	for _, ms := range s.Methods {
		m, err := ms.build(owner)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, ms.Name, err)
		}
		def.Methods = append(def.Methods, m)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func (s MethodSpec) build(owner typesystem.Type) (*typesystem.Method, error) {
	m := &typesystem.Method{Owner: owner, Name: s.Name, Return: typesystem.Void}
	var err error
	if s.Returns != "" {
		if m.Return, err = typesystem.Parse(s.Returns); err != nil {
			return nil, err
		}
	}
	if m.Params, err = parseTypes(s.Params); err != nil {
		return nil, err
	}
	if m.Exceptions, err = parseTypes(s.Throws); err != nil {
		return nil, err
	}
	if m.Modifiers, err = typesystem.ParseModifiers(s.Modifiers); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTypes(names []string) ([]typesystem.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]typesystem.Type, len(names))
	for i, n := range names {
		t, err := typesystem.Parse(n)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// Spec converts a class description back into its YAML form.
func Spec(def *typesystem.ClassDef) ClassSpec {
	s := ClassSpec{
		Name:       def.Name,
		Interfaces: typeNames(def.Interfaces),
		Modifiers:  modifierWords(def.Modifiers),
	}
	if !def.Super.IsZero() {
		s.Super = def.Super.String()
	}
	for _, f := range def.Fields {
		s.Fields = append(s.Fields, FieldSpec{Name: f.Name, Type: f.Type.String(), Modifiers: modifierWords(f.Modifiers)})
	}
	for _, c := range def.Constructors {
		s.Constructors = append(s.Constructors, methodSpec(c))
	}
	for _, m := range def.Methods {
		s.Methods = append(s.Methods, methodSpec(m))
	}
	return s
}

func methodSpec(m *typesystem.Method) MethodSpec {
	s := MethodSpec{
		Params:    typeNames(m.Params),
		Throws:    typeNames(m.Exceptions),
		Modifiers: modifierWords(m.Modifiers),
	}
	if !m.IsConstructor() {
		s.Name = m.Name
		if !m.Return.IsVoid() {
			s.Returns = m.Return.String()
		}
	}
	return s
}

func typeNames(types []typesystem.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func modifierWords(m typesystem.Modifiers) []string {
	if m == 0 {
		return nil
	}
	return strings.Fields(m.String())
}
