package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"golang.org/x/net/html"
)

type pdfLoader struct {
	path string
}

func (l pdfLoader) Load(ctx context.Context) (string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("reading pdf %s: %v", l.path, err)
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading pdf %s page %d: %v", l.path, i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}
	return strings.TrimSpace(text.String()), nil
}

type docxLoader struct {
	path string
}

func (l docxLoader) Load(ctx context.Context) (string, error) {
	r, err := docx.ReadDocxFile(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	return extractTaggedText(content, "<w:t", "</w:t>"), nil
}

type xlsxLoader struct {
	path string
}

func (l xlsxLoader) Load(ctx context.Context) (string, error) {
	f, err := xlsx.OpenFile(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
	}
	return strings.TrimSpace(text.String()), nil
}

type odsLoader struct {
	path string
}

func (l odsLoader) Load(ctx context.Context) (string, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
	}
	return strings.TrimSpace(text.String()), nil
}

type markdownLoader struct {
	path string
}

// Load renders markdown to HTML and strips it back to text, which
// normalizes away markup syntax before chunking.
func (l markdownLoader) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown %s: %v", l.path, err)
	}

	node, err := html.Parse(&buf)
	if err != nil {
		return "", fmt.Errorf("parsing rendered markdown %s: %v", l.path, err)
	}
	return htmlToText(node), nil
}

type textLoader struct {
	path string
}

func (l textLoader) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// extractTaggedText pulls the text between occurrences of an XML tag pair,
// e.g. <w:t ...>text</w:t> runs in a DOCX body.
func extractTaggedText(content, openTag, closeTag string) string {
	var text strings.Builder
	for {
		start := strings.Index(content, openTag)
		if start < 0 {
			break
		}
		content = content[start+len(openTag):]
		gt := strings.Index(content, ">")
		if gt < 0 {
			break
		}
		content = content[gt+1:]
		end := strings.Index(content, closeTag)
		if end < 0 {
			break
		}
		text.WriteString(content[:end])
		text.WriteString(" ")
		content = content[end+len(closeTag):]
	}
	return strings.TrimSpace(text.String())
}
