package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	goversion "github.com/caarlos0/go-version"

	"github.com/origadmin/unimpl/internal/config"
	"github.com/origadmin/unimpl/internal/generate"
	"github.com/origadmin/unimpl/internal/rewrite"
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

var (
	configFile  = flag.String("config", "", "Path to a YAML config file. Defaults to ./"+config.DefaultFile+" when present.")
	tag         = flag.String("tag", "", "Build tag guarding the signature files. Overrides the config file.")
	suffix      = flag.String("suffix", "", "Suffix of generated file names. Overrides the config file.")
	tests       = flag.Bool("tests", false, "Include _test.go files.")
	write       = flag.Bool("w", false, "Fill marked signatures in place in the given files instead of generating files.")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	logFile     = flag.String("log-file", "", "Path to a file where logs should be written. If empty, logs go to stderr.")
	showVersion = flag.Bool("version", false, "Print version information and exit.")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the command. A failure is logged before the log file is
// closed; the returned error only decides the exit status.
func run() (err error) {
	logWriter := io.Writer(os.Stderr)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("Failed to open log file", "file", *logFile, "error", err)
			return err
		}
		defer f.Close()
		logWriter = f
	}

	logLevel := slog.LevelWarn
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})))
	defer func() {
		if err != nil {
			slog.Error(config.Application+" failed", "error", err)
		}
	}()

	if *showVersion {
		fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Without arguments generate mode works on the current package, which is
	// what go generate expects. Filling in place needs explicit files.
	args := flag.Args()
	if len(args) == 0 && cfg.Write {
		fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
		fmt.Println("Usage: unimpl [options] [packages]")
		fmt.Println("       unimpl -w [options] <files>")
		flag.PrintDefaults()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Write {
		return runWrite(args)
	}
	return runGenerate(ctx, cfg, args)
}

// loadConfig merges the config file with the flags that were set explicitly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tag":
			cfg.Tag = *tag
		case "suffix":
			cfg.Suffix = *suffix
		case "tests":
			cfg.Tests = *tests
		case "w":
			cfg.Write = *write
		}
	})
	return cfg, cfg.Validate()
}

// runGenerate writes one generated file per signature file. Files that were
// generated successfully are written even when others failed.
func runGenerate(ctx context.Context, cfg *config.Config, patterns []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	slog.Info("Starting "+config.Application, "dir", wd, "patterns", patterns)

	files, genErr := generate.New(cfg).Generate(ctx, wd, patterns...)
	var errs []error
	if genErr != nil {
		errs = append(errs, genErr)
	}
	for _, f := range files {
		if err := f.Write(); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Println("Generated:", f.Path)
	}
	return errors.Join(errs...)
}

func runWrite(paths []string) error {
	var errs []error
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out, n, err := rewrite.File(path, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if n == 0 {
			slog.Debug("No marked functions", "file", path)
			continue
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", path, err))
			continue
		}
		fmt.Printf("Filled %d function(s): %s\n", n, path)
	}
	return errors.Join(errs...)
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(config.Application, config.Description, config.WebSite),
		func(i *goversion.Info) {
			i.ASCIIName = config.UI
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
