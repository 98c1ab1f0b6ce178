package export

// This file contains the format registry and the file writer shared by all
// serializers.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qadesk/qadesk/model"
	"github.com/rs/zerolog"
)

// Document is the input of every serializer: a read-only snapshot of the
// store plus the time the export was generated.
type Document struct {
	Data      model.Data
	Generated time.Time
}

// NewDocument snapshots data at the given time.
func NewDocument(data model.Data, generated time.Time) Document {
	return Document{Data: data.Clone(), Generated: generated}
}

// Format renders a Document into one output file.
type Format interface {
	// Name is the short format name used on the command line.
	Name() string
	// Filename is the fixed output file name.
	Filename() string
	// Render writes the complete document to w.
	Render(w io.Writer, doc Document) error
}

// ImageLoader returns the bytes of a stored screenshot reference.
type ImageLoader func(ref string) ([]byte, error)

// Options carries what the image-embedding serializers need.
type Options struct {
	Logger zerolog.Logger
	// Reads screenshots at export time; defaults to os.ReadFile
	Images ImageLoader
	// Maps screenshot references to file paths for HTML links
	ResolvePath func(ref string) string
	// TrueType font for PDF output; empty selects the core Helvetica font
	FontPath string
}

func (o Options) images() ImageLoader {
	if o.Images != nil {
		return o.Images
	}
	return os.ReadFile
}

// Names of the supported formats, in the order "all" writes them.
var Names = []string{"txt", "html", "word", "pdf"}

// Lookup returns the format with the given name or alias.
func Lookup(name string, opts Options) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "txt", "text":
		return Text{}, nil
	case "html", "htm":
		return HTML{ResolvePath: opts.ResolvePath}, nil
	case "word", "docx", "doc":
		return Word{Logger: opts.Logger, Images: opts.images()}, nil
	case "pdf":
		return PDF{Logger: opts.Logger, Images: opts.images(), FontPath: opts.FontPath}, nil
	}
	return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Names, ", "))
}

// All returns every format in Names order.
func All(opts Options) []Format {
	formats := make([]Format, 0, len(Names))
	for _, name := range Names {
		f, _ := Lookup(name, opts)
		formats = append(formats, f)
	}
	return formats
}

// WriteFile renders doc with f into dir, replacing any existing file of the
// same name. Nothing is written if rendering fails.
func WriteFile(dir string, f Format, doc Document) (string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", f.Name(), err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, f.Filename())
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

const (
	generatedLayout = "2006-01-02 15:04:05"
	separator       = "------------------------------------------------------------"
)

// placeholder is the inline text used when a screenshot cannot be embedded.
func placeholder(err error) string {
	return fmt.Sprintf("(could not embed image: %v)", err)
}

func refText(r model.Ref) string {
	if !r.IsSet() {
		return "-"
	}
	return string(r)
}

func headline(id, title string) string {
	return id + " – " + title
}
