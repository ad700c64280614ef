// Command asbindgen generates AngelScript registration code for C and C++
// declarations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/xyproto/env/v2"

	"asbindgen/internal/ast"
	"asbindgen/internal/bindgen"
	"asbindgen/internal/clangast"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
	"asbindgen/internal/metadata"
)

func main() {
	var configPath = flag.String("config", env.Str("ASBINDGEN_CONFIG"), "The path to a YAML options file. Default: $ASBINDGEN_CONFIG")
	var frontend = flag.String("frontend", "clang", "The frontend reading the input: clang (C/C++ header) or winmd (Windows metadata).")
	var inputFilePath = flag.String("input", "", "The header to parse, or for winmd the file listing the methods and types to read.")
	var metadataFilePath = flag.String("metadataPath", "Windows.Win32.winmd", "The path to the metadata file to read. Downloaded when missing.")
	var manifestPath = flag.String("manifest", "", "Also write a Go manifest of the registrations to this path.")
	var manifestPackage = flag.String("manifest-package", "bindings", "The package name of the Go manifest.")
	flags := config.RegisterFlags(flag.CommandLine, env.Bool("ASBINDGEN_VERBOSE"))
	flag.Usage = func() {
		fmt.Println("App that generates AngelScript bindings.")
		flag.PrintDefaults()
	}
	flag.Parse()

	options := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		options = loaded
	}
	if err := flags.Apply(flag.CommandLine, options); err != nil {
		log.Fatal(err)
	}

	if *inputFilePath == "" {
		log.Fatal("Input file path is missing!")
	} else if _, err := os.Stat(*inputFilePath); errors.Is(err, fs.ErrNotExist) {
		log.Fatal("Input file does not exist!")
	}

	unit, err := readUnit(*frontend, *inputFilePath, *metadataFilePath, options)
	if err != nil {
		log.Fatal(err)
	}

	diagnostics := diag.New(os.Stderr, options.Verbose)
	result, err := bindgen.Generate(unit, options, diagnostics)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(options.OutputPath, result.Source, 0644); err != nil {
		log.Fatal(err)
	}
	if *manifestPath != "" {
		manifest, err := result.Manifest(*manifestPackage)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*manifestPath, manifest, 0644); err != nil {
			log.Fatal(err)
		}
	}
	diagnostics.Summary()
}

func readUnit(frontend string, inputFilePath string, metadataFilePath string, options *config.Options) (ast.TranslationUnit, error) {
	switch frontend {
	case "clang":
		return clangast.Parse(inputFilePath, options.ClangArgs)
	case "winmd":
		return readMetadata(inputFilePath, metadataFilePath)
	}
	return nil, fmt.Errorf("unknown frontend %q", frontend)
}

func readMetadata(inputFilePath string, metadataFilePath string) (ast.TranslationUnit, error) {
	if _, err := os.Stat(metadataFilePath); errors.Is(err, fs.ErrNotExist) {
		downloaded, err := metadata.DownloadMetadata(context.Background(), metadata.DefinitionAddress, metadataFilePath)
		if err != nil {
			return nil, fmt.Errorf("downloading metadata: %w", err)
		}
		log.Printf("Downloaded metadata %s to %s", downloaded, metadataFilePath)
	}

	reader, err := metadata.NewReader(metadataFilePath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	names, err := metadata.ReadNames(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inputFilePath, err)
	}
	return reader.Unit(names)
}
