package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/c2h5oh/datasize"

	"github.com/DmitryKokorin/grantlee/cli/cmd"
	"github.com/DmitryKokorin/grantlee/engine"
	"github.com/DmitryKokorin/grantlee/loader"
	"github.com/DmitryKokorin/grantlee/log"
	"github.com/DmitryKokorin/grantlee/pkg"
)

// CLI is the top-level command-line interface for grantlee.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Dir        []string          `default:"."            help:"Template directories, searched in order before $$${envPath}" name:"dir" short:"d" type:"existingdir"`
	CacheSize  int               `default:"${cacheSize}" help:"Number of parsed templates to keep cached"`
	MaxSize    datasize.ByteSize `default:"${maxSize}"   help:"Largest template source accepted"`
	Autoescape bool              `default:"true"         help:"HTML-escape variable output"                                                   negatable:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a template inheritance chain"`
	Blocks cmd.Blocks `cmd:""                   help:"Print the blocks a template chain declares"`
	Tokens cmd.Tokens `cmd:""                   help:"Print the token stream of a template"`
	Repl   cmd.Repl   `cmd:""                   help:"Render template text interactively"`
}

// Run executes the grantlee CLI with the given context and arguments.
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

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version,
		"envPath":            loader.EnvPath(),
		"cacheSize":          strconv.Itoa(loader.DefaultCacheSize),
		"maxSize":            loader.DefaultMaxSize.String(),
		cmd.ConfigIdentifier: configFilePath,
		cmd.HistoryIdentifier: filepath.Join(
			cacheDir(), cmd.HistoryFile,
		),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that messages emitted while parsing use
	// the requested format regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
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
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	eng, err := engine.New(
		engine.WithDirs(cli.Dir...),
		engine.WithCacheSize(cli.CacheSize),
		engine.WithMaxSize(cli.MaxSize),
		engine.WithAutoescape(cli.Autoescape),
		engine.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEngine(ctx, eng)

	return ktx.Run(ctx, &cli)
}
