// Package config holds the options of one generation run and reads them from
// a YAML file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Flag names the engine understands in object overrides.
const (
	FlagReference = "asOBJ_REF"
	FlagValue     = "asOBJ_VALUE"
	FlagNoCount   = "asOBJ_NOCOUNT"
)

// Options is the configuration of one generation run.
type Options struct {
	FileInclude   Pattern `yaml:"file_include"`
	FileExclude   Pattern `yaml:"file_exclude"`
	MethodInclude Pattern `yaml:"method_include"`
	MethodExclude Pattern `yaml:"method_exclude"`
	ObjectInclude Pattern `yaml:"object_include"`
	ObjectExclude Pattern `yaml:"object_exclude"`
	FieldInclude  Pattern `yaml:"field_include"`
	FieldExclude  Pattern `yaml:"field_exclude"`

	// GenericWrapper selects declarations, by signature, that are bound
	// through a generic calling-convention thunk.
	GenericWrapper Pattern `yaml:"generic_wrapper"`

	Verbose      bool `yaml:"verbose"`
	AssertChecks bool `yaml:"assert_checks"`
	// KeepUnknowns keeps declarations naming types that this run does not
	// register, for types another generation unit registers.
	KeepUnknowns bool `yaml:"keep_unknowns"`

	OutputPath   string `yaml:"output"`
	FunctionName string `yaml:"function_name"`

	// Includes are emitted as #include lines in the generated source.
	Includes  []string `yaml:"includes,omitempty"`
	ClangArgs []string `yaml:"clang_args,omitempty"`

	Objects map[string]ObjectOverride `yaml:"objects,omitempty"`
}

// ObjectOverride forces how one object type is registered.
type ObjectOverride struct {
	// Reference forces reference (true) or value (false) semantics.
	Reference *bool `yaml:"reference,omitempty"`
	// Flags replace the computed registration flags.
	Flags []string `yaml:"flags,omitempty"`
	// ExtraFlags are appended to the registration flags.
	ExtraFlags []string `yaml:"extra_flags,omitempty"`
}

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		OutputPath:   "bindings.cpp",
		FunctionName: "RegisterBindings",
		Objects:      make(map[string]ObjectOverride),
	}
}

// Load reads and parses a YAML options file.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML options on top of the defaults. The path argument is
// used only for error messages.
func Parse(data []byte, path string) (*Options, error) {
	options := Default()
	if err := yaml.Unmarshal(data, options); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := options.validate(path); err != nil {
		return nil, err
	}
	if options.Objects == nil {
		options.Objects = make(map[string]ObjectOverride)
	}
	return options, nil
}

func (options *Options) validate(path string) error {
	if options.FunctionName == "" {
		return fmt.Errorf("%s: function_name must not be empty", path)
	}
	if options.OutputPath == "" {
		return fmt.Errorf("%s: output must not be empty", path)
	}
	for name, override := range options.Objects {
		flags := override.Flags
		if slices.Contains(flags, FlagReference) && slices.Contains(flags, FlagValue) {
			return fmt.Errorf("%s: objects.%s: flags cannot contain both %s and %s", path, name, FlagReference, FlagValue)
		}
		if override.Reference != nil && *override.Reference && slices.Contains(flags, FlagValue) {
			return fmt.Errorf("%s: objects.%s: reference: true contradicts %s", path, name, FlagValue)
		}
		if override.Reference != nil && !*override.Reference && slices.Contains(flags, FlagReference) {
			return fmt.Errorf("%s: objects.%s: reference: false contradicts %s", path, name, FlagReference)
		}
	}
	return nil
}

// Override returns the override for an object type, if any.
func (options *Options) Override(name string) (ObjectOverride, bool) {
	override, found := options.Objects[name]
	return override, found
}

// ExplicitReference reports whether the override pins the classification,
// and to which side.
func (override ObjectOverride) ExplicitReference() (reference bool, explicit bool) {
	if override.Reference != nil {
		return *override.Reference, true
	}
	if slices.Contains(override.Flags, FlagReference) {
		return true, true
	}
	if slices.Contains(override.Flags, FlagValue) {
		return false, true
	}
	return false, false
}

// NoCount reports whether the type opts out of reference counting.
func (override ObjectOverride) NoCount() bool {
	return slices.Contains(override.Flags, FlagNoCount) || slices.Contains(override.ExtraFlags, FlagNoCount)
}

// Pattern is an optional regular expression. The zero Pattern is unset.
type Pattern struct {
	*regexp.Regexp
}

// MustPattern compiles expr and panics on error. Intended for tests and
// flag defaults.
func MustPattern(expr string) Pattern {
	return Pattern{regexp.MustCompile(expr)}
}

// NewPattern compiles expr. An empty expression yields the unset Pattern.
func NewPattern(expr string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, nil
	}
	compiled, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{compiled}, nil
}

// IsSet reports whether a pattern was configured.
func (pattern Pattern) IsSet() bool {
	return pattern.Regexp != nil
}

// Matches reports whether a configured pattern matches text. An unset
// pattern never matches.
func (pattern Pattern) Matches(text string) bool {
	return pattern.Regexp != nil && pattern.Regexp.MatchString(text)
}

// UnmarshalYAML compiles the pattern while decoding, so a bad expression
// fails config parsing.
func (pattern *Pattern) UnmarshalYAML(value *yaml.Node) error {
	var expr string
	if err := value.Decode(&expr); err != nil {
		return err
	}
	compiled, err := NewPattern(expr)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*pattern = compiled
	return nil
}

// MarshalYAML writes the pattern back as its source text.
func (pattern Pattern) MarshalYAML() (interface{}, error) {
	if pattern.Regexp == nil {
		return "", nil
	}
	return pattern.String(), nil
}

// Admits applies an include/exclude pair: text passes when it matches the
// include pattern (or none is set) and does not match the exclude pattern.
func Admits(include Pattern, exclude Pattern, text string) bool {
	if include.IsSet() && !include.Matches(text) {
		return false
	}
	return !exclude.Matches(text)
}
