// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

// Record is one program entry built up from classified spans. An empty
// Session marks a continuation of the previous entry rather than a new one.
type Record struct {
	Session      string
	Title        string
	Authors      []string
	Affiliations []string
	Abstract     string
}

// addSpan folds one classified span into the record. Session, title and
// abstract text concatenate; authors and affiliations keep one entry per span.
func (r *Record) addSpan(s Span) {
	switch Classify(s) {
	case RoleSession:
		r.Session += s.Text
	case RoleTitle:
		r.Title += s.Text
	case RoleAuthors:
		r.Authors = append(r.Authors, s.Text)
	case RoleAffiliations:
		r.Affiliations = append(r.Affiliations, s.Text)
	case RoleAbstract:
		r.Abstract += s.Text
	}
}

// Empty reports whether no span contributed to any field.
func (r *Record) Empty() bool {
	return r.Session == "" && r.Title == "" && r.Abstract == "" &&
		len(r.Authors) == 0 && len(r.Affiliations) == 0
}

// absorb merges a continuation record into r. Only title, affiliations and
// abstract carry over; a continuation never contributes session or authors.
func (r *Record) absorb(c *Record) {
	r.Title += c.Title
	r.Affiliations = append(r.Affiliations, c.Affiliations...)
	r.Abstract += c.Abstract
}
