package cli

// This file contains the export command.

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/qadesk/qadesk/assets"
	"github.com/qadesk/qadesk/export"
	"github.com/urfave/cli/v2"
)

func (a *App) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write reports of all records",
		ArgsUsage: "FORMAT...",
		Description: `Formats:
  txt    qa_export.txt
  html   qa_export.html
  word   qa_export_professional.docx
  pdf    qa_export.pdf
  all    every format above

Existing files are overwritten. Screenshots that cannot be read are replaced
by a placeholder line.`,
		Action: a.export,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to write to (default: export_dir from the config)",
			},
		},
	}
}

func (a *App) exportFormats(names []string, opts export.Options) ([]export.Format, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("missing format (one or more of %s, all)", strings.Join(export.Names, ", "))
	}
	var formats []export.Format
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			return export.All(opts), nil
		}
		f, err := export.Lookup(name, opts)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func (a *App) export(ctx *cli.Context) error {
	resolver := assets.NewResolver(a.dataDir())
	opts := export.Options{
		Logger:      a.logger,
		Images:      resolver.ReadFile,
		ResolvePath: resolver.Resolve,
		FontPath:    a.cfg.PDF.Font,
	}
	formats, err := a.exportFormats(ctx.Args().Slice(), opts)
	if err != nil {
		return err
	}

	dir := a.cfg.ExportDir
	if ctx.IsSet("dir") {
		dir = ctx.String("dir")
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	doc := export.NewDocument(s.Snapshot(), a.now())

	// Formats are independent: one failing does not stop the others
	var errs []error
	for _, f := range formats {
		path, err := export.WriteFile(dir, f, doc)
		if err != nil {
			a.logger.Error().Err(err).Str("format", f.Name()).Msg("Export failed")
			errs = append(errs, err)
			continue
		}
		a.logger.Debug().Str("format", f.Name()).Str("path", path).Msg("Exported")
		a.printf("Exported %s to %s\n", f.Name(), path)
		a.printf("  open with: %s\n", openCommand(path))
	}
	return errors.Join(errs...)
}

// openCommand returns a shell command line that opens path with the
// desktop's default application.
func openCommand(path string) string {
	opener := "xdg-open"
	switch runtime.GOOS {
	case "darwin":
		opener = "open"
	case "windows":
		opener = "start"
	}
	return opener + " " + shellescape.Quote(path)
}
