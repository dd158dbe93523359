package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/sanitize"
	"github.com/goliatone/go-formstate/pkg/screens"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// errInvalidForm is returned by check when the submit gate rejects the values.
var errInvalidForm = errors.New("form is invalid")

// runtime holds what the Before hook resolves for the commands.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
	registry *screens.Registry
}

func newApp() *cli.App {
	rt := &runtime{logger: zap.NewNop()}
	return &cli.App{
		Name:                 "formstate",
		Usage:                "validate the sign-in, sign-up and employee screens",
		Version:              version,
		EnableBashCompletion: true,
		Suggest:              true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (yaml, json or toml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to a rotating file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "schemas",
				Usage: "directory of screen definitions overriding the built-in ones",
			},
			&cli.BoolFlag{
				Name:  "no-sanitize",
				Usage: "submit values without stripping markup",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "text or json",
			},
		},
		Before: rt.setup,
		After:  rt.teardown,
		Commands: []*cli.Command{
			screensCommand(rt),
			fillCommand(rt),
			checkCommand(rt),
			openapiCommand(rt),
		},
	}
}

func (rt *runtime) setup(c *cli.Context) error {
	overrides := map[string]any{}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-file") {
		overrides["log.file"] = c.String("log-file")
	}
	if c.IsSet("schemas") {
		overrides["schemas"] = c.String("schemas")
	}
	if c.Bool("no-sanitize") {
		overrides["sanitize"] = false
	}
	if c.IsSet("output") {
		overrides["output"] = c.String("output")
	}

	cfg, err := config.Load(c.String("config"), overrides)
	if err != nil {
		return err
	}
	rt.cfg = cfg

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	rt.logger = logger
	rt.closeLog = closeLog

	registry, err := loadRegistry(cfg.Schemas)
	if err != nil {
		return err
	}
	rt.registry = registry
	logger.Debug("formstate ready",
		zap.Strings("screens", registry.IDs()),
		zap.String("schemas", cfg.Schemas),
		zap.Bool("sanitize", cfg.Sanitize),
	)
	return nil
}

func (rt *runtime) teardown(*cli.Context) error {
	if rt.closeLog == nil {
		return nil
	}
	return rt.closeLog()
}

func loadRegistry(dir string) (*screens.Registry, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return screens.Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schemas directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schemas directory: %s is not a directory", dir)
	}
	return screens.WithOverrides(os.DirFS(dir))
}

// formOptions returns the engine options every screen session gets.
func (rt *runtime) formOptions(screen uischema.Screen) []form.Option {
	opts := []form.Option{form.WithLogger(rt.logger.With(zap.String("screen", screen.ID)))}
	if rt.cfg.Sanitize {
		opts = append(opts, form.WithSubmitTransformer(sanitize.Transformer(screen.SecretFields()...)))
	}
	return opts
}

// screenArg resolves the first positional argument, falling back to the
// registry's start screen when fallback is set.
func (rt *runtime) screenArg(c *cli.Context, fallback bool) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		if !fallback {
			return "", fmt.Errorf("a screen is required, one of %s", strings.Join(rt.registry.IDs(), ", "))
		}
		id = rt.registry.Start()
	}
	if _, err := rt.registry.Screen(id); err != nil {
		return "", err
	}
	return id, nil
}
