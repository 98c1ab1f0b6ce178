package cli

// This file contains the reset, validate and schema commands.

import (
	"fmt"
	"os"

	"github.com/qadesk/qadesk/model"
	"github.com/qadesk/qadesk/schema"
	"github.com/qadesk/qadesk/store"
	"github.com/urfave/cli/v2"
)

func (a *App) resetCommand() *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Delete the data file and start with empty collections",
		Action: a.reset,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Confirm the reset",
			},
		},
	}
}

func (a *App) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a data file against the JSON schema and report dangling references",
		ArgsUsage: "[FILE]",
		Action:    a.validate,
	}
}

func (a *App) schemaCommand() *cli.Command {
	return &cli.Command{
		Name:   "schema",
		Usage:  "Print the JSON schema of the data file",
		Action: a.schema,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the schema to this file instead of stdout",
			},
		},
	}
}

func (a *App) reset(ctx *cli.Context) error {
	if !ctx.Bool("force") {
		return fmt.Errorf("refusing to delete %s without --force", a.cfg.DataFile)
	}
	// Not loaded first, so a corrupt data file can be reset too
	s := store.New(a.cfg.DataFile, model.Empty(), store.WithLogger(a.logger))
	if err := s.Reset(); err != nil {
		return err
	}
	a.printf("Deleted %s, all collections are empty\n", s.Path())
	return nil
}

func (a *App) validate(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		path = a.cfg.DataFile
	}

	data, issues := schema.ValidateFile(path)
	for _, issue := range issues {
		a.printf("%s: %s\n", issue.Severity, issue.Error())
	}
	if schema.HasErrors(issues) {
		return fmt.Errorf("%s is not valid (%d issues)", path, len(issues))
	}
	a.printf("%s is valid: %d scenarios, %d cases, %d bugs, %d warnings\n",
		path, len(data.Scenarios), len(data.Cases), len(data.Bugs), len(issues))
	return nil
}

func (a *App) schema(ctx *cli.Context) error {
	b, err := schema.GenerateJSONSchema()
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if out := ctx.String("output"); out != "" {
		if err := os.WriteFile(out, b, 0644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		a.printf("Wrote %s\n", out)
		return nil
	}
	_, err = a.out.Write(b)
	return err
}
