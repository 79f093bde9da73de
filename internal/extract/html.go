// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parsePageBlocks parses one page of MuPDF structured-text HTML into text
// blocks. MuPDF emits one <p> per text block and one <span> per font run,
// with font-family and font-size carried in the style attribute. Image
// blocks come out as <img> elements and are skipped by selecting <p> only.
func parsePageBlocks(pageHTML string) ([][]Span, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var blocks [][]Span
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		var spans []Span
		p.Find("span").Each(func(_ int, sel *goquery.Selection) {
			style, ok := sel.Attr("style")
			if !ok {
				return
			}
			font, size, ok := parseSpanStyle(style)
			if !ok {
				return
			}
			spans = append(spans, Span{Font: font, Size: size, Text: sel.Text()})
		})
		if len(spans) > 0 {
			blocks = append(blocks, spans)
		}
	})

	return blocks, nil
}

// parseSpanStyle pulls the font name and size out of a span style attribute,
// e.g. `font-family:TimesNewRomanPS-BoldMT,serif;font-size:9pt`. The font
// name is the first font-family token with quotes stripped; MuPDF appends a
// generic fallback family after it.
func parseSpanStyle(style string) (font string, size float64, ok bool) {
	var haveSize bool
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(name) {
		case "font-family":
			first, _, _ := strings.Cut(value, ",")
			font = strings.Trim(strings.TrimSpace(first), `"'`)
		case "font-size":
			v := strings.TrimSpace(strings.TrimSuffix(value, "pt"))
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			size = f
			haveSize = true
		}
	}
	return font, size, font != "" && haveSize
}
