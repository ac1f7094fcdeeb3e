package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/metaconv/cli/cmd"
	"github.com/ardnew/metaconv/codegen"
	"github.com/ardnew/metaconv/composite"
	"github.com/ardnew/metaconv/pkg"
)

// CLI is the top-level command-line interface for metaconv.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Source    []string `help:"Expression file(s), one per line, or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	Interpret bool     `help:"Interpret expressions without a native implementation" default:"true" negatable:""`
	Formatter []string `help:"External normalization command and its arguments"     placeholder:"CMD,ARG"`

	Resolve   cmd.Resolve   `cmd:"" default:"withargs" help:"Resolve composite tags of images or pool documents"`
	Normalize cmd.Normalize `cmd:""                    help:"Print the canonical form of expressions"`
	Classify  cmd.Classify  `cmd:""                    help:"Report how expressions are evaluated"`
	Eval      cmd.Eval      `cmd:""                    help:"Evaluate an expression"`
	Repl      cmd.Repl      `cmd:""                    help:"Evaluate expressions interactively"`
	Generate  cmd.Generate  `cmd:""                    help:"Generate Go functions from tag definitions"`
	Catalog   cmd.Catalog   `cmd:""                    help:"List composite tag definitions"`
	Init      cmd.Init      `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the metaconv CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(configFile)

	vars := kong.Vars{
		"version":            pkg.Version(),
		"maxPasses":          strconv.Itoa(composite.DefaultMaxPasses),
		"generateDir":        codegen.DefaultLayout.Dir,
		"generatePackage":    codegen.DefaultLayout.Package,
		"historyFile":        filepath.Join(cacheDir(), historyFile),
		cmd.ConfigIdentifier: configFilePath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// The provider reads ctx when a command runs, after the values
		// below are added to it.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath("config.json")),
		kong.Configuration(loadConfig, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithGlobals(ctx, &cmd.Globals{
		Interpret: cli.Interpret,
		Formatter: cli.Formatter,
		Logger:    logger,
	})

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, logger)()

	return ktx.Run()
}
