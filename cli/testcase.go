package cli

// This file contains the test case commands.

import (
	"github.com/qadesk/qadesk/model"
	"github.com/qadesk/qadesk/query"
	"github.com/qadesk/qadesk/store"
	"github.com/urfave/cli/v2"
)

const caseKind = "test case"

func caseFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Test case title (required)",
		},
		&cli.StringFlag{
			Name:  "preconditions",
			Usage: "Preconditions",
		},
		&cli.StringFlag{
			Name:    "scenario",
			Aliases: []string{"ts"},
			Usage:   "Id of the test scenario this case belongs to (empty to unset)",
		},
		&cli.StringFlag{
			Name:  "expected",
			Usage: "Expected result",
		},
		&cli.StringFlag{
			Name:  "actual",
			Usage: "Actual result",
		},
		&cli.StringFlag{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "PASSED, FAILED or NOT RUN (default NOT RUN, any case)",
		},
	}
	return append(flags, stepFlags()...)
}

func (a *App) caseCommand() *cli.Command {
	return &cli.Command{
		Name:    "case",
		Aliases: []string{"tc"},
		Usage:   "Manage test cases",
		Subcommands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Create a test case (at least one step is required)",
				Action: a.caseAdd,
				Flags:  caseFlags(),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List test cases",
				Action:  a.caseList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Only show cases with this status (PASSED, FAILED, NOT RUN or ALL)",
						Value:   model.StatusAll,
					},
					&cli.StringFlag{
						Name:    "where",
						Aliases: []string{"w"},
						Usage:   `Filter expression, e.g. 'ts_id == "TS01" && len(steps) > 3'`,
					},
				},
			},
			{
				Name:            "show",
				Usage:           "Show a test case",
				ArgsUsage:       "[SELECTOR] [--raw]",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.caseShow,
			},
			{
				Name:        "edit",
				Usage:       "Change fields of a test case",
				ArgsUsage:   "SELECTOR",
				Description: selectorHelp,
				Flags:       caseFlags(),
				Action:      a.caseEdit,
			},
			{
				Name:            "rm",
				Aliases:         []string{"delete"},
				Usage:           "Delete a test case (bug reports linking to it are kept)",
				ArgsUsage:       "SELECTOR",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.caseRemove,
			},
		},
	}
}

func caseInput(ctx *cli.Context, in store.CaseInput) store.CaseInput {
	setString(ctx, "title", &in.Title)
	setString(ctx, "preconditions", &in.Preconditions)
	if ctx.IsSet("scenario") {
		in.ScenarioID = model.Ref(ctx.String("scenario"))
	}
	setString(ctx, "expected", &in.Expected)
	setString(ctx, "actual", &in.Actual)
	setString(ctx, "status", &in.Status)
	if steps, ok := stepsFromFlags(ctx); ok {
		in.Steps = steps
	}
	return in
}

func (a *App) caseAdd(ctx *cli.Context) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	tc, err := s.AddCase(caseInput(ctx, store.CaseInput{}))
	if err != nil {
		return err
	}
	a.printf("Added test case %s\n", tc.ID)
	return nil
}

func (a *App) caseList(ctx *cli.Context) error {
	filter, err := query.CompileCases(ctx.String("where"))
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	items, err := s.Cases(ctx.String("status"))
	if err != nil {
		return err
	}
	if items, err = filter.Cases(items); err != nil {
		return err
	}
	a.printCases(items)
	return nil
}

func pickCase(s *store.Store, sel string) (int, model.TestCase, error) {
	items, _ := s.Cases(model.StatusAll)
	i, err := resolveSelector(caseKind, sel, caseIDs(items))
	if err != nil {
		return -1, model.TestCase{}, err
	}
	return i, items[i], nil
}

func (a *App) caseShow(ctx *cli.Context) error {
	sel, raw, err := showArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	_, tc, err := pickCase(s, sel)
	if err != nil {
		return err
	}
	return a.printDetail(caseMarkdown(tc), raw)
}

func (a *App) caseEdit(ctx *cli.Context) error {
	sel, err := editArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, tc, err := pickCase(s, sel)
	if err != nil {
		return err
	}

	in := caseInput(ctx, store.CaseInput{
		Title:         tc.Title,
		Preconditions: tc.Preconditions,
		ScenarioID:    tc.ScenarioID,
		Steps:         tc.Steps,
		Expected:      tc.Expected,
		Actual:        tc.Actual,
		Status:        string(tc.Status),
	})
	if tc, err = s.UpdateCaseAt(i, in); err != nil {
		return err
	}
	a.printf("Updated test case %s\n", tc.ID)
	return nil
}

func (a *App) caseRemove(ctx *cli.Context) error {
	sel, err := removeArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, tc, err := pickCase(s, sel)
	if err != nil {
		return err
	}
	if _, err := s.DeleteCaseAt(i); err != nil {
		return err
	}
	a.printf("Deleted test case %s\n", tc.ID)
	return nil
}

func caseIDs(items []model.TestCase) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
