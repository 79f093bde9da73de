// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/progbook/internal/logger"
)

// Extractor scans a program-book PDF for article records.
type Extractor struct {
	startPage int // 1-based; pages before it are skipped
}

// NewExtractor creates an extractor that starts at the given 1-based page.
func NewExtractor(startPage int) *Extractor {
	if startPage < 1 {
		startPage = 1
	}
	return &Extractor{startPage: startPage}
}

// Extract opens a PDF with go-fitz (MuPDF) and scans every page from the
// start page, classifying spans into records. Pages that fail to render warn
// and are skipped. The returned records are still unmerged: continuation
// blocks have already been folded into their predecessor, but one session
// can span several records.
func (e *Extractor) Extract(filePath string) ([]*Record, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var blocks [][]Span
	numPages := doc.NumPage()
	for i := e.startPage - 1; i < numPages; i++ {
		pageHTML, err := doc.HTML(i, false)
		if err != nil {
			logger.Warnf("failed to render page %d of %s: %v", i+1, filePath, err)
			continue
		}
		pageBlocks, err := parsePageBlocks(pageHTML)
		if err != nil {
			logger.Warnf("failed to parse page %d of %s: %v", i+1, filePath, err)
			continue
		}
		blocks = append(blocks, pageBlocks...)
	}

	return ScanBlocks(blocks), nil
}

// ScanBlocks classifies block spans into records with a one-record lookback:
// a block that produced no session text is a continuation and merges its
// title/affiliations/abstract into the previously emitted record instead of
// starting a new one. Blocks with no classified text are not emitted but
// still reset the lookback. The lookback deliberately spans page boundaries.
func ScanBlocks(blocks [][]Span) []*Record {
	var records []*Record
	var previous *Record

	for _, spans := range blocks {
		current := &Record{}
		for _, s := range spans {
			current.addSpan(s)
		}

		if !current.Empty() {
			if current.Session == "" && previous != nil {
				previous.absorb(current)
				current = previous
			}
			records = append(records, current)
		}
		previous = current
	}

	return records
}
