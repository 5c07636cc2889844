// Package query turns a free-text search string and a structured filter
// configuration into an ordered view over a task snapshot. Nothing here
// mutates its input.
package query

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/josephgoksu/litedo/models"
)

// Kind identifies the predicate a search clause applies.
type Kind int

const (
	// KindText is a bare word: substring of title, description or a tag.
	KindText Kind = iota
	KindTag
	KindPriority
	KindCompleted
	KindIs
	KindBefore
	KindAfter
	KindDue
	KindCreated
	KindCreatedBefore
	KindCreatedAfter
	// KindTextField is text:v, a substring of title or description only.
	KindTextField
	// KindRawText is any unrecognized key:value token. It matches when the
	// lowercased token is a substring of RawText(task).
	KindRawText
)

var kindNames = map[Kind]string{
	KindText:          "text",
	KindTag:           "tag",
	KindPriority:      "priority",
	KindCompleted:     "completed",
	KindIs:            "is",
	KindBefore:        "before",
	KindAfter:         "after",
	KindDue:           "due",
	KindCreated:       "created",
	KindCreatedBefore: "createdbefore",
	KindCreatedAfter:  "createdafter",
	KindTextField:     "text:",
	KindRawText:       "raw",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var keyedKinds = map[string]Kind{
	"tag":           KindTag,
	"priority":      KindPriority,
	"completed":     KindCompleted,
	"is":            KindIs,
	"before":        KindBefore,
	"after":         KindAfter,
	"due":           KindDue,
	"created":       KindCreated,
	"createdbefore": KindCreatedBefore,
	"createdafter":  KindCreatedAfter,
	"text":          KindTextField,
}

// Clause is one parsed search token.
type Clause struct {
	Kind Kind
	// Value is the comparison operand: the trimmed value with surrounding
	// double quotes removed, or the lowercased needle for KindText and
	// KindRawText.
	Value string
	// Raw is the token as typed.
	Raw string
}

var (
	keyValueRe = regexp.MustCompile(`^\s*([a-zA-Z_\-]+)\s*:\s*(.*)$`)
	tagTokenRe = regexp.MustCompile(`(?i)(^|\s)tag\s*:\s*("[^"]+"|'[^']+'|[^\s]+)`)
)

// Tokenize splits on whitespace outside double-quoted spans. Quote characters
// stay in the token.
func Tokenize(search string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range search {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Parse classifies every token of a search string. A blank string yields no
// clauses, which matches everything.
func Parse(search string) []Clause {
	tokens := Tokenize(strings.TrimSpace(search))
	clauses := make([]Clause, 0, len(tokens))
	for _, tok := range tokens {
		clauses = append(clauses, parseToken(tok))
	}
	return clauses
}

func parseToken(tok string) Clause {
	m := keyValueRe.FindStringSubmatch(tok)
	if m == nil {
		return Clause{Kind: KindText, Value: strings.ToLower(stripQuotes(tok, '"')), Raw: tok}
	}
	key := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(m[1]))
	value := stripQuotes(strings.TrimSpace(m[2]), '"')

	kind, ok := keyedKinds[key]
	if !ok {
		return Clause{Kind: KindRawText, Value: strings.ToLower(m[0]), Raw: tok}
	}
	return Clause{Kind: kind, Value: value, Raw: tok}
}

// stripQuotes drops one leading and one trailing q, independently.
func stripQuotes(s string, q byte) string {
	if len(s) > 0 && s[0] == q {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == q {
		s = s[:len(s)-1]
	}
	return s
}

// Match evaluates the clause against one task. cal supplies today and
// yesterday for the relative keys.
func (c Clause) Match(t models.Task, cal models.Calendar) bool {
	v := c.Value
	switch c.Kind {
	case KindText:
		return containsFold(t.Title, v) || containsFold(t.Description, v) || anyTagContains(t.Tags, v)
	case KindTag:
		return t.HasTagFold(v)
	case KindPriority:
		return strings.EqualFold(string(t.Priority), v)
	case KindCompleted:
		return t.Completed == strings.EqualFold(v, "true")
	case KindIs:
		switch strings.ToLower(v) {
		case "overdue":
			return isOverdue(t, cal.Today)
		case "today":
			return isDueToday(t, cal.Today)
		case "upcoming":
			return isUpcoming(t, cal.Today)
		case "completed":
			return t.Completed
		}
		return true
	case KindBefore:
		return t.DueDate != "" && t.DueDate < v
	case KindAfter:
		return t.DueDate != "" && t.DueDate > v
	case KindDue:
		return t.DueDate == v
	case KindCreated:
		switch strings.ToLower(v) {
		case "today":
			return t.CreatedDate == cal.Today
		case "yesterday":
			return t.CreatedDate == cal.Yesterday
		}
		return t.CreatedDate == v
	case KindCreatedBefore:
		return t.CreatedDate != "" && t.CreatedDate < v
	case KindCreatedAfter:
		return t.CreatedDate != "" && t.CreatedDate > v
	case KindTextField:
		needle := strings.ToLower(v)
		return containsFold(t.Title, needle) || containsFold(t.Description, needle)
	case KindRawText:
		return strings.Contains(RawText(t), v)
	}
	return true
}

// RequiredTags extracts the tag: operands of a search string when there is
// more than one of them, lowercased with quotes removed. Callers enforce them
// as a conjunctive membership filter on top of the parsed clauses.
func RequiredTags(search string) []string {
	matches := tagTokenRe.FindAllStringSubmatch(search, -1)
	if len(matches) < 2 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		v := stripQuotes(stripQuotes(strings.TrimSpace(m[2]), '"'), '\'')
		tags = append(tags, strings.ToLower(v))
	}
	return tags
}

// containsFold reports whether lowercased s contains needle, which must
// already be lowercase.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func anyTagContains(tags []string, needle string) bool {
	for _, tag := range tags {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

func isOverdue(t models.Task, today string) bool {
	return t.DueDate != "" && t.DueDate < today && !t.Completed
}

func isDueToday(t models.Task, today string) bool {
	return t.DueDate == today && !t.Completed
}

func isUpcoming(t models.Task, today string) bool {
	return t.DueDate != "" && t.DueDate > today && !t.Completed
}
