// Package taskquery parses filter queries for the task board. It supports
// quoted strings, field:value filters, and bare words matched against the
// task text.
//
// Examples:
//
//	status:todo priority:high
//	owner:"Priya Patel" due-before:2026-09-01
//	-status:done runbook
package taskquery

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/quantum-ai/quantum-cli/client"
)

// Known filter fields.
const (
	FieldStatus   = "status"
	FieldPriority = "priority"
	FieldOwner    = "owner"
	FieldMeeting  = "meeting"
	FieldDueAfter = "due-after"
	FieldDueBefore = "due-before"
)

// dateLayouts are the accepted due-date formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Filter is one field:value condition.
type Filter struct {
	Field   string
	Value   string
	Negated bool
}

// Query is a parsed task filter.
type Query struct {
	// Text are the bare words, matched case-insensitively against the
	// task description.
	Text []string

	// Filters are the field:value conditions.
	Filters []Filter

	// DueAfter and DueBefore bound the due date when set.
	DueAfter  *time.Time
	DueBefore *time.Time

	// Original is the raw input.
	Original string
}

// ParseError reports where parsing failed.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// Parse parses a filter query. An empty input yields a query that matches
// every task.
func Parse(input string) (*Query, error) {
	q := &Query{Original: input}

	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	for _, tok := range tokens {
		if !tok.isFilter {
			q.Text = append(q.Text, tok.value)
			continue
		}

		switch tok.key {
		case FieldStatus, FieldPriority, FieldOwner, FieldMeeting:
			q.Filters = append(q.Filters, Filter{
				Field:   tok.key,
				Value:   tok.value,
				Negated: tok.negated,
			})
		case FieldDueAfter, FieldDueBefore:
			date, err := parseDate(tok.value)
			if err != nil {
				return nil, &ParseError{
					Message:  fmt.Sprintf("invalid date for %s: %q", tok.key, tok.value),
					Position: tok.position,
				}
			}
			if tok.key == FieldDueAfter {
				q.DueAfter = &date
			} else {
				q.DueBefore = &date
			}
		default:
			return nil, &ParseError{
				Message:  fmt.Sprintf("unknown filter field %q", tok.key),
				Position: tok.position,
			}
		}
	}

	return q, nil
}

// Match reports whether an action item satisfies the query. meetingID is the
// meeting the item belongs to, used by the meeting: filter.
func (q *Query) Match(item client.ActionItem, meetingID string) bool {
	for _, f := range q.Filters {
		var got string
		switch f.Field {
		case FieldStatus:
			got = item.Status
		case FieldPriority:
			got = item.Priority
		case FieldOwner:
			got = item.Owner
		case FieldMeeting:
			got = meetingID
		}

		matched := strings.EqualFold(got, f.Value) ||
			(f.Field == FieldOwner && containsFold(got, f.Value))
		if matched == f.Negated {
			return false
		}
	}

	if q.DueAfter != nil || q.DueBefore != nil {
		due, err := parseDate(item.DueDate)
		if err != nil {
			return false
		}
		if q.DueAfter != nil && due.Before(*q.DueAfter) {
			return false
		}
		if q.DueBefore != nil && !due.Before(*q.DueBefore) {
			return false
		}
	}

	for _, word := range q.Text {
		if !containsFold(item.Task, word) {
			return false
		}
	}

	return true
}

// Empty reports whether the query has no conditions.
func (q *Query) Empty() bool {
	return len(q.Text) == 0 && len(q.Filters) == 0 && q.DueAfter == nil && q.DueBefore == nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// token is one parsed unit of the input.
type token struct {
	value    string
	position int
	isFilter bool
	key      string
	negated  bool
}

// tokenize splits the input into bare words and field:value filters.
// Values may be quoted to include spaces; a leading '-' negates a filter.
func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	n := len(runes)
	pos := 0

	for pos < n {
		for pos < n && unicode.IsSpace(runes[pos]) {
			pos++
		}
		if pos >= n {
			break
		}

		startPos := pos

		// Quoted bare word.
		if runes[pos] == '"' {
			value, next, err := readQuoted(runes, pos)
			if err != nil {
				return nil, &ParseError{Message: err.Error(), Position: startPos}
			}
			pos = next
			tokens = append(tokens, token{value: value, position: startPos})
			continue
		}

		negated := false
		if runes[pos] == '-' && pos+1 < n && !unicode.IsSpace(runes[pos+1]) {
			negated = true
			pos++
		}

		var sb strings.Builder
		for pos < n && !unicode.IsSpace(runes[pos]) && runes[pos] != '"' {
			sb.WriteRune(runes[pos])
			pos++
		}
		word := sb.String()
		if word == "" {
			continue
		}

		colonIdx := strings.Index(word, ":")
		if colonIdx <= 0 {
			tokens = append(tokens, token{value: word, position: startPos, negated: negated})
			continue
		}

		key := strings.ToLower(word[:colonIdx])
		value := word[colonIdx+1:]

		// Quoted value after the colon: owner:"Priya Patel"
		if value == "" && pos < n && runes[pos] == '"' {
			quoted, next, err := readQuoted(runes, pos)
			if err != nil {
				return nil, &ParseError{Message: err.Error() + " in filter value", Position: startPos}
			}
			pos = next
			value = quoted
		}

		tokens = append(tokens, token{
			value:    value,
			position: startPos,
			isFilter: true,
			key:      key,
			negated:  negated,
		})
	}

	return tokens, nil
}

// readQuoted reads a double-quoted string starting at runes[pos] == '"'.
// Returns the unquoted value and the position after the closing quote.
func readQuoted(runes []rune, pos int) (string, int, error) {
	n := len(runes)
	pos++ // opening quote
	var sb strings.Builder
	for pos < n && runes[pos] != '"' {
		if runes[pos] == '\\' && pos+1 < n {
			pos++
		}
		sb.WriteRune(runes[pos])
		pos++
	}
	if pos >= n {
		return "", pos, fmt.Errorf("unclosed quoted string")
	}
	return sb.String(), pos + 1, nil
}
