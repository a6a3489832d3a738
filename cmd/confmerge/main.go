package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/confmerge/confmerge/internal/application"
	"github.com/confmerge/confmerge/internal/loader"
	"github.com/confmerge/confmerge/internal/logging"
)

func main() {
	cli := kingpin.New("confmerge", "Load a YAML configuration file, resolve its inheritance chain, and apply key.path=value overrides")
	configPath := cli.Arg("config", "Path to the YAML configuration file").Required().String()
	overrideArgs := cli.Arg("overrides", "key.path=value overrides applied after merging").Strings()
	setFlags := cli.Flag("set", "key.path=value override (repeatable)").Short('s').Strings()
	searchPaths := cli.Flag("search-path", "Directory used to resolve bare file references (repeatable)").Strings()
	inheritKey := cli.Flag("inherit-key", "Reserved top-level key naming parent configuration files").Default(loader.DefaultInheritKey).String()
	outputPath := cli.Flag("output", "Write the merged document to a file instead of stdout").Short('o').String()
	noResolvePaths := cli.Flag("no-resolve-paths", "Keep ./, ../ and ~/ string values verbatim").Bool()
	verbose := cli.Flag("verbose", "Enable debug logging on stderr").Short('v').Bool()

	kingpin.MustParse(cli.Parse(os.Args[1:]))

	logger, err := logging.New(*verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	cfg := application.Config{
		ConfigPath:        *configPath,
		Overrides:         append(*setFlags, *overrideArgs...),
		OutputPath:        *outputPath,
		InheritKey:        *inheritKey,
		SearchPaths:       *searchPaths,
		ResolvePathValues: !*noResolvePaths,
	}

	if err := application.New(cfg, logger).Run(); err != nil {
		_ = logger.Sync()
		fmt.Fprintf(os.Stderr, "confmerge: %v\n", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}
