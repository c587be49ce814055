// Package docx reads and writes the OOXML word-processing container: a zip
// archive whose main part is word/document.xml.
package docx

import (
	"archive/zip"
	"bytes"
	"docflow/internal/models"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const pkg = "docx/"

const documentPart = "word/document.xml"

// Extract pulls the plain text out of a .docx payload. Runs of <w:t> inside
// one <w:p> become one line. The resulting string is the anchoring surface
// for field offsets.
func Extract(data []byte) (string, error) {
	op := pkg + "Extract"

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%s: not a docx container: %w", op, models.ErrValidation)
	}

	var part *zip.File

	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}

	if part == nil {
		return "", fmt.Errorf("%s: missing %s: %w", op, documentPart, models.ErrValidation)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer rc.Close()

	text, err := extractText(rc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return text, nil
}

func extractText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
			if t.Name.Local == "br" || t.Name.Local == "cr" {
				sb.WriteByte('\n')
			}
			if t.Name.Local == "tab" {
				sb.WriteByte('\t')
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Build writes a minimal single-part docx where each input line becomes one
// paragraph.
func Build(text string) ([]byte, error) {
	op := pkg + "Build"

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{documentPart, documentXML(text)},
	}

	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func documentXML(text string) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		_ = xml.EscapeText(&sb, []byte(line))
		sb.WriteString(`</w:t></w:r></w:p>`)
	}

	sb.WriteString(`</w:body></w:document>`)

	return sb.String()
}
