package config

import (
	"flag"
	"fmt"
	"strings"
)

// Flags are the command line spellings of Options. Only flags given on the
// command line override values loaded from a file.
type Flags struct {
	patterns     map[string]string
	verbose      bool
	assertChecks bool
	keepUnknowns bool
	output       string
	function     string
	includes     string
	cflags       string
}

var patternFlags = map[string]func(*Options) *Pattern{
	"file-include-regex":    func(options *Options) *Pattern { return &options.FileInclude },
	"file-exclude-regex":    func(options *Options) *Pattern { return &options.FileExclude },
	"method-include-regex":  func(options *Options) *Pattern { return &options.MethodInclude },
	"method-exclude-regex":  func(options *Options) *Pattern { return &options.MethodExclude },
	"object-include-regex":  func(options *Options) *Pattern { return &options.ObjectInclude },
	"object-exclude-regex":  func(options *Options) *Pattern { return &options.ObjectExclude },
	"field-include-regex":   func(options *Options) *Pattern { return &options.FieldInclude },
	"field-exclude-regex":   func(options *Options) *Pattern { return &options.FieldExclude },
	"generic-wrapper-regex": func(options *Options) *Pattern { return &options.GenericWrapper },
}

// RegisterFlags defines the option flags on set. verboseDefault is the
// default of -verbose.
func RegisterFlags(set *flag.FlagSet, verboseDefault bool) *Flags {
	flags := &Flags{patterns: make(map[string]string)}
	for name := range patternFlags {
		name := name
		set.Func(name, "Regular expression for "+strings.ReplaceAll(strings.TrimSuffix(name, "-regex"), "-", " ")+".", func(value string) error {
			flags.patterns[name] = value
			return nil
		})
	}
	set.BoolVar(&flags.verbose, "verbose", verboseDefault, "Print every diagnostic, not only the count.")
	set.BoolVar(&flags.assertChecks, "assert-checks", false, "Check registration results with assert instead of counting failures.")
	set.BoolVar(&flags.keepUnknowns, "keep-unknown-types", false, "Keep declarations naming types registered elsewhere.")
	set.StringVar(&flags.output, "output-path", "", "The path of the generated source file.")
	set.StringVar(&flags.function, "generated-function-name", "", "The name of the generated registration function.")
	set.StringVar(&flags.includes, "includes", "", "Comma separated headers the generated source includes.")
	set.StringVar(&flags.cflags, "cflags", "", "Space separated arguments passed to the C/C++ parser.")
	return flags
}

// Apply copies the flags that were set on set into options.
func (flags *Flags) Apply(set *flag.FlagSet, options *Options) error {
	var err error
	set.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		if field, found := patternFlags[f.Name]; found {
			var pattern Pattern
			if pattern, err = NewPattern(flags.patterns[f.Name]); err != nil {
				err = fmt.Errorf("-%s: %w", f.Name, err)
				return
			}
			*field(options) = pattern
			return
		}
		switch f.Name {
		case "verbose":
			options.Verbose = flags.verbose
		case "assert-checks":
			options.AssertChecks = flags.assertChecks
		case "keep-unknown-types":
			options.KeepUnknowns = flags.keepUnknowns
		case "output-path":
			options.OutputPath = flags.output
		case "generated-function-name":
			options.FunctionName = flags.function
		case "includes":
			options.Includes = splitList(flags.includes, ",")
		case "cflags":
			options.ClangArgs = strings.Fields(flags.cflags)
		}
	})
	if err != nil {
		return err
	}
	if !flagSet(set, "verbose") && flags.verbose {
		// Environment default; a file value of true still wins.
		options.Verbose = true
	}
	return options.validate("command line")
}

func flagSet(set *flag.FlagSet, name string) bool {
	found := false
	set.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func splitList(value string, separator string) []string {
	var items []string
	for _, item := range strings.Split(value, separator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
