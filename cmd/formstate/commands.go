package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/goliatone/go-formstate/internal/prompt"
	"github.com/goliatone/go-formstate/internal/session"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

func screensCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "screens",
		Usage: "list the screens and their fields",
		Action: func(c *cli.Context) error {
			var data [][]string
			for _, screen := range rt.registry.Screens() {
				for _, field := range screen.Fields {
					decl, _ := screen.Schema.Field(field.Name)
					data = append(data, []string{
						screen.ID,
						field.Name,
						field.Label,
						ruleKinds(decl.Rules),
						successAction(screen.OnSuccess),
					})
				}
			}

			table := tablewriter.NewWriter(c.App.Writer)
			table.SetHeader([]string{"Screen", "Field", "Label", "Rules", "On success"})
			table.SetBorder(false)
			table.SetAutoMergeCells(true)
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}
}

func fillCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "fill the screens interactively, starting at [screen]",
		ArgsUsage: "[screen]",
		Action: func(c *cli.Context) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("fill needs an interactive terminal, use check instead")
			}
			start, err := rt.screenArg(c, true)
			if err != nil {
				return err
			}

			out := c.App.Writer
			s, err := session.New(prompt.NewSurvey(out), rt.registry,
				session.WithStart(start),
				session.WithLogger(rt.logger),
				session.WithFormOptions(rt.formOptions),
				session.WithSubmitHook(func(sub session.Submission) {
					screen, _ := rt.registry.Screen(sub.Screen)
					sub.Values = session.Redact(sub.Values, screen.SecretFields())
					if err := rt.printSubmission(out, sub); err != nil {
						rt.logger.Warn("print submission", zap.Error(err))
					}
				}),
			)
			if err != nil {
				return err
			}

			err = s.Run(c.Context)
			if errors.Is(err, prompt.ErrAborted) {
				fmt.Fprintln(out, "aborted")
				return nil
			}
			return err
		},
	}
}

func checkCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "submit values to a screen and report the visible errors",
		ArgsUsage: "<screen>",
		Flags: []cli.Flag{
			&cli.GenericFlag{
				Name:  "set",
				Usage: "field=value, repeatable",
				Value: &assignments{},
			},
		},
		Action: func(c *cli.Context) error {
			id, err := rt.screenArg(c, false)
			if err != nil {
				return err
			}
			screen, _ := rt.registry.Screen(id)
			f, _, err := rt.registry.NewForm(id, rt.formOptions(screen)...)
			if err != nil {
				return err
			}

			set, _ := c.Generic("set").(*assignments)
			if set != nil {
				for _, pair := range set.pairs {
					if err := f.SetValue(pair.field, pair.value); err != nil {
						return err
					}
				}
			}

			var result checkResult
			result.Screen = id
			result.Valid = f.Submit(func(values form.Values) {
				result.Receipt = uuid.NewString()
				result.Values = session.Redact(values, screen.SecretFields())
			})
			result.Errors = f.State().Visible
			rt.logger.Info("screen checked",
				zap.String("screen", id),
				zap.Bool("valid", result.Valid),
				zap.Int("errors", len(result.Errors)),
			)

			if err := rt.printCheck(c.App.Writer, screen, result); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalidForm
			}
			return nil
		},
	}
}

func openapiCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "openapi",
		Usage:     "export the screens as an OpenAPI 3 document",
		ArgsUsage: "[screen...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "yaml or json"},
			&cli.StringFlag{Name: "title", Usage: "document title"},
			&cli.StringFlag{Name: "file", Usage: "write to file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			ids := c.Args().Slice()
			if len(ids) == 0 {
				ids = rt.registry.IDs()
			}
			selected := make([]uischema.Screen, 0, len(ids))
			for _, id := range ids {
				screen, err := rt.registry.Screen(id)
				if err != nil {
					return err
				}
				selected = append(selected, screen)
			}

			info := openapi.Info{Title: rt.cfg.OpenAPI.Title, Version: rt.cfg.OpenAPI.Version}
			if c.IsSet("title") {
				info.Title = c.String("title")
			}
			format := rt.cfg.OpenAPI.Format
			if c.IsSet("format") {
				format = c.String("format")
			}

			out, err := openapi.Encode(openapi.Document(info, selected...), format)
			if err != nil {
				return err
			}
			if path := c.String("file"); path != "" {
				if err := os.WriteFile(path, out, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(c.App.Writer, "OpenAPI document written to %s\n", path)
				return nil
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}

type checkResult struct {
	Screen  string            `json:"screen"`
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors"`
	Receipt string            `json:"receipt,omitempty"`
	Values  form.Values       `json:"values,omitempty"`
}

func (rt *runtime) printCheck(w io.Writer, screen uischema.Screen, result checkResult) error {
	if rt.cfg.Output == "json" {
		return writeJSON(w, result)
	}
	if result.Valid {
		msg := screen.OnSuccess.Message
		if msg == "" {
			msg = "valid"
		}
		_, err := fmt.Fprintf(w, "%s (receipt %s)\n", color.GreenString(msg), result.Receipt)
		return err
	}
	for _, field := range screen.Fields {
		msg, ok := result.Errors[field.Name]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", field.Label, color.RedString(msg)); err != nil {
			return err
		}
	}
	return nil
}

func (rt *runtime) printSubmission(w io.Writer, sub session.Submission) error {
	if rt.cfg.Output == "json" {
		return writeJSON(w, sub)
	}
	_, err := fmt.Fprintf(w, "%s submitted (receipt %s)\n", sub.Screen, sub.Receipt)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ruleKinds(rules []form.Rule) string {
	kinds := make([]string, 0, len(rules))
	for _, rule := range rules {
		kinds = append(kinds, rule.Kind)
	}
	return strings.Join(kinds, ", ")
}

func successAction(cfg uischema.SuccessConfig) string {
	switch {
	case cfg.Navigate != "":
		return "navigate " + cfg.Navigate
	case cfg.Back:
		return "back"
	default:
		return "reset"
	}
}

type assignment struct {
	field string
	value string
}

// assignments collects repeated --set field=value flags. Values may contain
// commas and further '=' signs.
type assignments struct {
	pairs []assignment
}

func (a *assignments) Set(raw string) error {
	field, value, ok := strings.Cut(raw, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return fmt.Errorf("expected field=value, got %q", raw)
	}
	a.pairs = append(a.pairs, assignment{field: field, value: value})
	return nil
}

func (a *assignments) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, len(a.pairs))
	for _, pair := range a.pairs {
		parts = append(parts, pair.field+"="+pair.value)
	}
	return strings.Join(parts, ",")
}
