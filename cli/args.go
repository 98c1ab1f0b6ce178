package cli

// This file contains argument helpers shared by the record commands.

import (
	"fmt"
	"strings"

	"github.com/qadesk/qadesk/model"
	"github.com/urfave/cli/v2"
)

// showArgs parses the raw arguments of a show command.
func showArgs(ctx *cli.Context) (sel string, raw bool, err error) {
	sel, rest := parseSelectorArgs(ctx.Args().Slice())
	for _, opt := range rest {
		switch opt {
		case "--raw", "-raw":
			raw = true
		default:
			return "", false, fmt.Errorf("unknown option %q (show accepts only --raw)", opt)
		}
	}
	return sel, raw, nil
}

// removeArgs parses the raw arguments of an rm command. A selector is
// required.
func removeArgs(ctx *cli.Context) (string, error) {
	args := removeFirstDashDash(ctx.Args().Slice())
	if len(args) == 0 {
		return "", fmt.Errorf("missing selector (see --help)")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	}
	return args[0], nil
}

// editArgs returns the single positional selector of an edit command.
func editArgs(ctx *cli.Context) (string, error) {
	args := ctx.Args().Slice()
	switch len(args) {
	case 0:
		return "", fmt.Errorf("missing selector (flags go before it, use -- before a negative index)")
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
}

func stepFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "step",
			Usage: "Add a step (repeat for each step, in order)",
		},
		&cli.StringFlag{
			Name:  "steps",
			Usage: "Steps as multi-line text, one per line; blank lines are dropped",
		},
	}
}

// stepsFromFlags reports the steps given on the command line and whether
// any step flag was set. --step values come first.
func stepsFromFlags(ctx *cli.Context) ([]string, bool) {
	if !ctx.IsSet("step") && !ctx.IsSet("steps") {
		return nil, false
	}
	steps := model.NormalizeSteps(ctx.StringSlice("step"))
	steps = append(steps, model.SplitSteps(ctx.String("steps"))...)
	return steps, true
}

// setString copies flag name into dst when it was given.
func setString(ctx *cli.Context, name string, dst *string) {
	if ctx.IsSet(name) {
		*dst = ctx.String(name)
	}
}
