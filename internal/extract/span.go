// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import "math"

// Font rules for the program book typesetting. Each span role is keyed by the
// exact embedded font name plus the rendered size; the abstract body is keyed
// by size alone because the book mixes roman and italic runs inside abstracts.
const (
	sessionFont = "TimesNewRomanPS-BoldItal"
	titleFont   = "TimesNewRomanPS-BoldMT"
	italicFont  = "TimesNewRomanPS-ItalicMT"

	sessionSize      = 9.5
	titleSize        = 9
	authorsSize      = 9
	affiliationsSize = 8
	abstractSize     = 9.134002685546875
)

// sizeTolerance absorbs the float round-trip through MuPDF's text output,
// which prints sizes with %g (9.134002685546875 comes back as "9.134").
// The closest pair of rule sizes is 0.134pt apart, so rules stay disjoint.
const sizeTolerance = 0.01

// Role is the semantic slot a span contributes to.
type Role int

const (
	RoleNone Role = iota
	RoleSession
	RoleTitle
	RoleAuthors
	RoleAffiliations
	RoleAbstract
)

// Span is a contiguous run of page text sharing one font and size.
type Span struct {
	Font string
	Size float64
	Text string
}

func sizeMatch(a, b float64) bool {
	return math.Abs(a-b) <= sizeTolerance
}

// Classify assigns a span to exactly one role. Rules are checked in the
// original layout order; a span matching none is dropped by the caller.
func Classify(s Span) Role {
	switch {
	case s.Font == sessionFont && sizeMatch(s.Size, sessionSize):
		return RoleSession
	case s.Font == titleFont && sizeMatch(s.Size, titleSize):
		return RoleTitle
	case s.Font == italicFont && sizeMatch(s.Size, authorsSize):
		return RoleAuthors
	case s.Font == italicFont && sizeMatch(s.Size, affiliationsSize):
		return RoleAffiliations
	case sizeMatch(s.Size, abstractSize):
		return RoleAbstract
	}
	return RoleNone
}
