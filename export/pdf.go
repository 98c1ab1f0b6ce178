package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// PDF renders an A4 report with fixed line spacing and automatic page
// breaks.
type PDF struct {
	Logger zerolog.Logger
	Images ImageLoader
	// TrueType font file; empty uses the core Helvetica font
	FontPath string
	// Disables stream compression, which keeps the output greppable
	Uncompressed bool
}

func (PDF) Name() string     { return "pdf" }
func (PDF) Filename() string { return "qa_export.pdf" }

const (
	pdfMargin     = 20.0
	pdfLineHeight = 6.0
	pdfIndent     = 5.0
	// Tallest a screenshot may be drawn, in mm
	pdfMaxImageHeight = 80.0
	// Screen pixels are taken as 96 dpi
	mmPerPixel = 25.4 / 96
)

// pdfWriter keeps the cursor and font state of one render.
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
	y      float64
	pageW  float64
	pageH  float64
}

func (p PDF) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCompression(!p.Uncompressed)
	pdf.SetCreationDate(doc.Generated)
	pdf.SetTitle("QA Test Report", true)
	pdf.SetCreator("qadesk", true)

	pw := &pdfWriter{pdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if p.FontPath != "" {
		font, err := os.ReadFile(p.FontPath)
		if err != nil {
			return fmt.Errorf("failed to read PDF font: %w", err)
		}
		pdf.AddUTF8FontFromBytes("body", "", font)
		if pdf.Err() {
			return fmt.Errorf("failed to load PDF font %s: %w", p.FontPath, pdf.Error())
		}
		pw.family, pw.utf8 = "body", true
		pw.tr = func(s string) string { return s }
	}
	pw.pageW, pw.pageH = pdf.GetPageSize()
	pw.newPage()

	d := doc.Data
	pw.line(0, 16, true, "QA Test Report")
	pw.line(0, 10, false, "Generated: "+doc.Generated.Format(generatedLayout))
	pw.gap(4)

	pw.section("Test Scenarios")
	if len(d.Scenarios) == 0 {
		pw.line(0, 10, false, "No test scenarios.")
	}
	for _, ts := range d.Scenarios {
		pw.line(0, 12, true, headline(ts.ID, ts.Title))
		if ts.Description != "" {
			pw.field("Description", ts.Description)
		}
		pw.rule()
	}

	pw.section("Test Cases")
	if len(d.Cases) == 0 {
		pw.line(0, 10, false, "No test cases.")
	}
	for _, tc := range d.Cases {
		pw.line(0, 12, true, headline(tc.ID, tc.Title))
		pw.field("Scenario", refText(tc.ScenarioID))
		pw.field("Preconditions", tc.Preconditions)
		pw.steps("Steps", tc.Steps)
		pw.field("Expected result", tc.Expected)
		pw.field("Actual result", tc.Actual)
		pw.field("Status", string(tc.Status))
		pw.rule()
	}

	pw.section("Bug Reports")
	if len(d.Bugs) == 0 {
		pw.line(0, 10, false, "No bug reports.")
	}
	for _, bug := range d.Bugs {
		pw.line(0, 12, true, headline(bug.ID, bug.Title))
		pw.field("Test case", refText(bug.RelatedCase))
		pw.field("Severity", string(bug.Severity))
		pw.steps("Steps to reproduce", bug.Steps)
		pw.field("Expected result", bug.Expected)
		pw.field("Actual result", bug.Actual)
		if bug.Note != "" {
			pw.field("Note", bug.Note)
		}
		pw.field("Created", bug.CreatedAt.String())
		if bug.Screenshot.IsSet() {
			pw.field("Screenshot", "")
			if err := pw.image(p.Images, bug.ID, string(bug.Screenshot)); err != nil {
				p.Logger.Warn().Err(err).Str("id", bug.ID).Str("screenshot", string(bug.Screenshot)).Msg("Could not embed screenshot")
				pw.line(pdfIndent, 10, false, placeholder(err))
			}
		}
		pw.rule()
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (pw *pdfWriter) newPage() {
	pw.pdf.AddPage()
	pw.y = pdfMargin
}

// ensure starts a new page unless h more millimetres fit above the bottom
// margin.
func (pw *pdfWriter) ensure(h float64) {
	if pw.y+h > pw.pageH-pdfMargin {
		pw.newPage()
	}
}

func (pw *pdfWriter) gap(h float64) {
	pw.y += h
}

func (pw *pdfWriter) setFont(size float64, bold bool) {
	style := ""
	if bold && !pw.utf8 {
		style = "B"
	}
	pw.pdf.SetFont(pw.family, style, size)
}

// line writes text at the given indent, wrapping at the right margin.
func (pw *pdfWriter) line(indent, size float64, bold bool, text string) {
	pw.setFont(size, bold)
	x := pdfMargin + indent
	width := pw.pageW - pdfMargin - x
	for _, l := range pw.wrap(text, width) {
		pw.ensure(pdfLineHeight)
		pw.pdf.SetXY(x, pw.y)
		pw.pdf.CellFormat(width, pdfLineHeight, l, "", 0, "L", false, 0, "")
		pw.y += pdfLineHeight
	}
}

func (pw *pdfWriter) wrap(text string, width float64) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if pw.utf8 {
			if raw == "" {
				out = append(out, "")
				continue
			}
			out = append(out, pw.pdf.SplitText(raw, width)...)
			continue
		}
		lines := pw.pdf.SplitLines([]byte(pw.tr(raw)), width)
		if len(lines) == 0 {
			out = append(out, "")
		}
		for _, l := range lines {
			out = append(out, string(l))
		}
	}
	return out
}

func (pw *pdfWriter) section(title string) {
	pw.gap(4)
	pw.ensure(3 * pdfLineHeight)
	pw.line(0, 14, true, title)
	pw.gap(2)
}

func (pw *pdfWriter) field(label, value string) {
	pw.line(pdfIndent, 10, false, label+": "+value)
}

func (pw *pdfWriter) steps(label string, steps []string) {
	pw.line(pdfIndent, 10, false, label+":")
	for i, s := range steps {
		pw.line(2*pdfIndent, 10, false, fmt.Sprintf("%d. %s", i+1, s))
	}
}

func (pw *pdfWriter) rule() {
	pw.gap(2)
	pw.ensure(4)
	pw.pdf.SetDrawColor(180, 180, 180)
	pw.pdf.Line(pdfMargin, pw.y, pw.pageW-pdfMargin, pw.y)
	pw.gap(4)
}

// image draws the screenshot below the cursor, moving to a new page when it
// does not fit. Errors leave the document usable.
func (pw *pdfWriter) image(load ImageLoader, id, ref string) error {
	pic, err := loadPicture(load, ref)
	if err != nil {
		return err
	}

	name := id + ":" + ref
	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(pic.ext())}
	pw.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(pic.data))
	if pw.pdf.Err() {
		err := pw.pdf.Error()
		pw.pdf.ClearError()
		return err
	}

	maxW := pw.pageW - 2*pdfMargin - pdfIndent
	w, h := pic.fit(maxW/mmPerPixel, pdfMaxImageHeight/mmPerPixel)
	w, h = w*mmPerPixel, h*mmPerPixel
	pw.ensure(h)
	pw.pdf.ImageOptions(name, pdfMargin+pdfIndent, pw.y, w, h, false, opts, 0, "")
	pw.y += h + 2
	return nil
}
