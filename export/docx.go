package export

// docx.go contains a small WordprocessingML writer. It emits just the parts
// Word needs for headings, grid tables, page breaks and inline pictures.

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Word renders an Office Open XML document with one table per section.
type Word struct {
	Logger zerolog.Logger
	Images ImageLoader
}

func (Word) Name() string     { return "word" }
func (Word) Filename() string { return "qa_export_professional.docx" }

const (
	emuPerInch   = 914400
	pictureWidth = 3 * emuPerInch
)

func (wd Word) Render(w io.Writer, doc Document) error {
	b := &docxBuilder{}
	d := doc.Data

	b.heading("QA Test Report", 0)
	b.para("Generated: " + doc.Generated.Format(generatedLayout))

	b.heading("Test Scenarios", 1)
	if len(d.Scenarios) == 0 {
		b.para("No test scenarios.")
	} else {
		rows := [][]string{}
		for _, ts := range d.Scenarios {
			rows = append(rows, []string{ts.ID, ts.Title, ts.Description})
		}
		b.table([]string{"ID", "Title", "Description"}, rows)
	}
	b.pageBreak()

	b.heading("Test Cases", 1)
	if len(d.Cases) == 0 {
		b.para("No test cases.")
	} else {
		rows := [][]string{}
		for _, tc := range d.Cases {
			rows = append(rows, []string{
				tc.ID, tc.Title, refText(tc.ScenarioID), tc.Preconditions,
				numbered(tc.Steps), tc.Expected, tc.Actual, string(tc.Status),
			})
		}
		b.table([]string{"ID", "Title", "Scenario", "Preconditions", "Steps", "Expected", "Actual", "Status"}, rows)
	}
	b.pageBreak()

	b.heading("Bug Reports", 1)
	if len(d.Bugs) == 0 {
		b.para("No bug reports.")
	} else {
		rows := [][]string{}
		for _, bug := range d.Bugs {
			rows = append(rows, []string{
				bug.ID, bug.Title, refText(bug.RelatedCase), string(bug.Severity),
				numbered(bug.Steps), bug.Expected, bug.Actual, bug.Note, bug.CreatedAt.String(),
			})
		}
		b.table([]string{"ID", "Title", "Test case", "Severity", "Steps", "Expected", "Actual", "Note", "Created"}, rows)

		for _, bug := range d.Bugs {
			if !bug.Screenshot.IsSet() {
				continue
			}
			b.para(fmt.Sprintf("Screenshot for %s:", headline(bug.ID, bug.Title)))
			pic, err := loadPicture(wd.Images, string(bug.Screenshot))
			if err != nil {
				wd.Logger.Warn().Err(err).Str("id", bug.ID).Str("screenshot", string(bug.Screenshot)).Msg("Could not embed screenshot")
				b.para(placeholder(err))
				continue
			}
			b.picture(pic)
		}
	}

	return b.write(w)
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

type docxMedia struct {
	rid  string
	name string
	data []byte
}

type docxBuilder struct {
	body  strings.Builder
	media []docxMedia
	// content types by file extension
	types map[string]string
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// runs renders text as runs, turning newlines into line breaks.
func runs(text string, props string) string {
	var sb strings.Builder
	sb.WriteString("<w:r>")
	sb.WriteString(props)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(line))
		sb.WriteString("</w:t>")
	}
	sb.WriteString("</w:r>")
	return sb.String()
}

func (b *docxBuilder) heading(text string, level int) {
	style := "Title"
	if level > 0 {
		style = fmt.Sprintf("Heading%d", level)
	}
	fmt.Fprintf(&b.body, `<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr>%s</w:p>`, style, runs(text, ""))
}

func (b *docxBuilder) para(text string) {
	fmt.Fprintf(&b.body, "<w:p>%s</w:p>", runs(text, ""))
}

func (b *docxBuilder) pageBreak() {
	b.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (b *docxBuilder) table(header []string, rows [][]string) {
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="5000" w:type="pct"/></w:tblPr><w:tblGrid>`)
	for range header {
		b.body.WriteString(`<w:gridCol/>`)
	}
	b.body.WriteString("</w:tblGrid>")

	b.row(header, "<w:rPr><w:b/></w:rPr>")
	for _, r := range rows {
		b.row(r, "")
	}
	b.body.WriteString("</w:tbl>")
}

func (b *docxBuilder) row(cells []string, props string) {
	b.body.WriteString("<w:tr>")
	for _, c := range cells {
		fmt.Fprintf(&b.body, "<w:tc><w:p>%s</w:p></w:tc>", runs(c, props))
	}
	b.body.WriteString("</w:tr>")
}

func (b *docxBuilder) picture(pic picture) {
	n := len(b.media) + 1
	rid := fmt.Sprintf("rIdImage%d", n)
	name := fmt.Sprintf("image%d.%s", n, pic.ext())
	b.media = append(b.media, docxMedia{rid: rid, name: name, data: pic.data})
	if b.types == nil {
		b.types = map[string]string{}
	}
	b.types[pic.ext()] = pic.contentType()

	cx := int64(pictureWidth)
	cy := cx * int64(pic.height) / int64(pic.width)
	fmt.Fprintf(&b.body, `<w:p><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, n, name, rid)
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
%s<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

	docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
%s</Relationships>`

	docxDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">
<w:body>%s<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body>
</w:document>`

	docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="20"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:color w:val="2E4A7A"/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`
)

type docxPart struct {
	name string
	data []byte
}

// write packages the document parts into a zip archive.
func (b *docxBuilder) write(w io.Writer) error {
	var defaults, rels strings.Builder
	for _, ext := range []string{"png", "jpg", "gif"} {
		if ct, ok := b.types[ext]; ok {
			fmt.Fprintf(&defaults, "<Default Extension=%q ContentType=%q/>\n", ext, ct)
		}
	}
	for _, m := range b.media {
		fmt.Fprintf(&rels, "<Relationship Id=%q Type=\"http://schemas.openxmlformats.org/officeDocument/2006/relationships/image\" Target=\"media/%s\"/>\n", m.rid, m.name)
	}

	parts := []docxPart{
		{"[Content_Types].xml", []byte(fmt.Sprintf(docxContentTypes, defaults.String()))},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/_rels/document.xml.rels", []byte(fmt.Sprintf(docxDocumentRels, rels.String()))},
		{"word/document.xml", []byte(fmt.Sprintf(docxDocument, b.body.String()))},
		{"word/styles.xml", []byte(docxStyles)},
	}
	for _, m := range b.media {
		parts = append(parts, docxPart{"word/media/" + m.name, m.data})
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish docx archive: %w", err)
	}
	return nil
}
