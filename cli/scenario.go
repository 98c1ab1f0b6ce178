package cli

// This file contains the scenario commands.

import (
	"github.com/qadesk/qadesk/model"
	"github.com/qadesk/qadesk/store"
	"github.com/urfave/cli/v2"
)

const scenarioKind = "test scenario"

func scenarioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Scenario title (required)",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Free-text description",
		},
	}
}

func (a *App) scenarioCommand() *cli.Command {
	return &cli.Command{
		Name:    "scenario",
		Aliases: []string{"ts"},
		Usage:   "Manage test scenarios",
		Subcommands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Create a test scenario",
				Action: a.scenarioAdd,
				Flags:  scenarioFlags(),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List test scenarios",
				Action:  a.scenarioList,
			},
			{
				Name:            "show",
				Usage:           "Show a test scenario and its test cases",
				ArgsUsage:       "[SELECTOR] [--raw]",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.scenarioShow,
			},
			{
				Name:        "edit",
				Usage:       "Change fields of a test scenario",
				ArgsUsage:   "SELECTOR",
				Description: selectorHelp,
				Flags:       scenarioFlags(),
				Action:      a.scenarioEdit,
			},
			{
				Name:            "rm",
				Aliases:         []string{"delete"},
				Usage:           "Delete a test scenario (its test cases are kept)",
				ArgsUsage:       "SELECTOR",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.scenarioRemove,
			},
		},
	}
}

func scenarioInput(ctx *cli.Context, in store.ScenarioInput) store.ScenarioInput {
	setString(ctx, "title", &in.Title)
	setString(ctx, "description", &in.Description)
	return in
}

func (a *App) scenarioAdd(ctx *cli.Context) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	ts, err := s.AddScenario(scenarioInput(ctx, store.ScenarioInput{}))
	if err != nil {
		return err
	}
	a.printf("Added test scenario %s\n", ts.ID)
	return nil
}

func (a *App) scenarioList(ctx *cli.Context) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	a.printScenarios(s.Scenarios())
	return nil
}

// pickScenario resolves sel against the current scenarios.
func pickScenario(s *store.Store, sel string) (int, model.TestScenario, error) {
	items := s.Scenarios()
	i, err := resolveSelector(scenarioKind, sel, scenarioIDs(items))
	if err != nil {
		return -1, model.TestScenario{}, err
	}
	return i, items[i], nil
}

func (a *App) scenarioShow(ctx *cli.Context) error {
	sel, raw, err := showArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	_, ts, err := pickScenario(s, sel)
	if err != nil {
		return err
	}
	cases, _ := s.Cases(model.StatusAll)
	return a.printDetail(scenarioMarkdown(ts, cases), raw)
}

func (a *App) scenarioEdit(ctx *cli.Context) error {
	sel, err := editArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, ts, err := pickScenario(s, sel)
	if err != nil {
		return err
	}

	in := scenarioInput(ctx, store.ScenarioInput{Title: ts.Title, Description: ts.Description})
	if ts, err = s.UpdateScenarioAt(i, in); err != nil {
		return err
	}
	a.printf("Updated test scenario %s\n", ts.ID)
	return nil
}

func (a *App) scenarioRemove(ctx *cli.Context) error {
	sel, err := removeArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, ts, err := pickScenario(s, sel)
	if err != nil {
		return err
	}
	if _, err := s.DeleteScenarioAt(i); err != nil {
		return err
	}
	a.printf("Deleted test scenario %s\n", ts.ID)
	return nil
}

func scenarioIDs(items []model.TestScenario) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
