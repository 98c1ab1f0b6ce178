package cli

// This file contains the bug report commands.

import (
	"os"

	"github.com/qadesk/qadesk/model"
	"github.com/qadesk/qadesk/query"
	"github.com/qadesk/qadesk/store"
	"github.com/urfave/cli/v2"
)

const bugKind = "bug report"

func bugFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Bug title (required)",
		},
		&cli.StringFlag{
			Name:    "case",
			Aliases: []string{"tc"},
			Usage:   "Id of the test case that exposed the bug; it is marked FAILED (empty to unset)",
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
			Name:  "severity",
			Usage: "Low, Medium, High or Critical (default Medium)",
		},
		&cli.StringFlag{
			Name:  "note",
			Usage: "Additional note",
		},
		&cli.StringFlag{
			Name:  "screenshot",
			Usage: "Path to a screenshot image (empty to unset)",
		},
	}
	return append(flags, stepFlags()...)
}

func (a *App) bugCommand() *cli.Command {
	return &cli.Command{
		Name:  "bug",
		Usage: "Manage bug reports",
		Subcommands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Create a bug report (at least one step is required)",
				Action: a.bugAdd,
				Flags:  bugFlags(),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List bug reports",
				Action:  a.bugList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "where",
						Aliases: []string{"w"},
						Usage:   `Filter expression, e.g. 'severity in ["High", "Critical"]'`,
					},
				},
			},
			{
				Name:            "show",
				Usage:           "Show a bug report",
				ArgsUsage:       "[SELECTOR] [--raw]",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.bugShow,
			},
			{
				Name:        "edit",
				Usage:       "Change fields of a bug report",
				ArgsUsage:   "SELECTOR",
				Description: selectorHelp,
				Flags:       bugFlags(),
				Action:      a.bugEdit,
			},
			{
				Name:            "rm",
				Aliases:         []string{"delete"},
				Usage:           "Delete a bug report (the linked test case keeps its status)",
				ArgsUsage:       "SELECTOR",
				Description:     selectorHelp,
				SkipFlagParsing: true,
				Action:          a.bugRemove,
			},
		},
	}
}

func bugInput(ctx *cli.Context, in store.BugInput) store.BugInput {
	setString(ctx, "title", &in.Title)
	if ctx.IsSet("case") {
		in.RelatedCase = model.Ref(ctx.String("case"))
	}
	setString(ctx, "expected", &in.Expected)
	setString(ctx, "actual", &in.Actual)
	setString(ctx, "severity", &in.Severity)
	setString(ctx, "note", &in.Note)
	setString(ctx, "screenshot", &in.Screenshot)
	if steps, ok := stepsFromFlags(ctx); ok {
		in.Steps = steps
	}
	return in
}

// checkScreenshot warns about a newly given screenshot that cannot be read.
// The path is stored anyway.
func (a *App) checkScreenshot(ctx *cli.Context, path string) {
	if !ctx.IsSet("screenshot") || path == "" || a.cfg.Screenshots.Copy {
		return
	}
	if _, err := os.Stat(path); err != nil {
		a.logger.Warn().Err(err).Str("screenshot", path).Msg("Screenshot is not readable, exports will show a placeholder")
	}
}

func (a *App) bugAdd(ctx *cli.Context) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	in := bugInput(ctx, store.BugInput{})
	a.checkScreenshot(ctx, in.Screenshot)

	bug, err := s.AddBug(in)
	if err != nil {
		return err
	}
	a.printf("Added bug report %s\n", bug.ID)
	a.reportLinkedCase(s, bug)
	return nil
}

// reportLinkedCase tells the user which test case was marked as failed.
func (a *App) reportLinkedCase(s *store.Store, bug model.BugReport) {
	if !bug.RelatedCase.IsSet() {
		return
	}
	if _, err := s.Case(string(bug.RelatedCase)); err != nil {
		a.logger.Warn().Str("related_tc", string(bug.RelatedCase)).Msg("Related test case does not exist")
		return
	}
	a.printf("Marked test case %s as %s\n", bug.RelatedCase, model.StatusFailed)
}

func (a *App) bugList(ctx *cli.Context) error {
	filter, err := query.CompileBugs(ctx.String("where"))
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	items, err := filter.Bugs(s.Bugs())
	if err != nil {
		return err
	}
	a.printBugs(items)
	return nil
}

func pickBug(s *store.Store, sel string) (int, model.BugReport, error) {
	items := s.Bugs()
	i, err := resolveSelector(bugKind, sel, bugIDs(items))
	if err != nil {
		return -1, model.BugReport{}, err
	}
	return i, items[i], nil
}

func (a *App) bugShow(ctx *cli.Context) error {
	sel, raw, err := showArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	_, bug, err := pickBug(s, sel)
	if err != nil {
		return err
	}
	return a.printDetail(bugMarkdown(bug), raw)
}

func (a *App) bugEdit(ctx *cli.Context) error {
	sel, err := editArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, bug, err := pickBug(s, sel)
	if err != nil {
		return err
	}

	in := bugInput(ctx, store.BugInput{
		Title:       bug.Title,
		RelatedCase: bug.RelatedCase,
		Steps:       bug.Steps,
		Expected:    bug.Expected,
		Actual:      bug.Actual,
		Severity:    string(bug.Severity),
		Note:        bug.Note,
		Screenshot:  string(bug.Screenshot),
	})
	a.checkScreenshot(ctx, in.Screenshot)
	if bug, err = s.UpdateBugAt(i, in); err != nil {
		return err
	}
	a.printf("Updated bug report %s\n", bug.ID)
	a.reportLinkedCase(s, bug)
	return nil
}

func (a *App) bugRemove(ctx *cli.Context) error {
	sel, err := removeArgs(ctx)
	if err != nil {
		return err
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	i, bug, err := pickBug(s, sel)
	if err != nil {
		return err
	}
	if _, err := s.DeleteBugAt(i); err != nil {
		return err
	}
	a.printf("Deleted bug report %s\n", bug.ID)
	return nil
}

func bugIDs(items []model.BugReport) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
