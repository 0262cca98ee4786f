package notification

import (
	"strings"
	"unicode/utf8"
)

// Sentinel departments that open a target to every manager.
const (
	DepartmentGeneral = "general"
	DepartmentAll     = "all"
)

// Identity describes the manager a session is authenticated as. Any field
// may be empty; empty fields never satisfy a targeting rule.
type Identity struct {
	ID         string
	Name       string
	Email      string
	Department string
}

// Target describes which managers should receive a notification, as sets of
// department/name/email/id hints. An empty target is an open audience.
type Target struct {
	Departments   []string `json:"departments,omitempty"`
	ManagerNames  []string `json:"manager_names,omitempty"`
	ManagerEmails []string `json:"manager_emails,omitempty"`
	ManagerIDs    []string `json:"manager_ids,omitempty"`
}

// IsEmpty reports whether the target carries no rules at all.
func (t *Target) IsEmpty() bool {
	if t == nil {
		return true
	}
	return len(t.Departments) == 0 &&
		len(t.ManagerNames) == 0 &&
		len(t.ManagerEmails) == 0 &&
		len(t.ManagerIDs) == 0
}

// Matcher decides whether a normalized identity field satisfies a single
// normalized targeting rule. Department labels are free text, so the
// tolerance of the comparison is a policy choice rather than a string
// operation buried in routing code.
type Matcher interface {
	Match(value, rule string) bool
}

// SubstringMatcher matches when either string contains the other, or when
// one is the initialism of the other, which tolerates pairs like "it" and
// "information technology". This is the default policy.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(value, rule string) bool {
	if strings.Contains(value, rule) || strings.Contains(rule, value) {
		return true
	}
	return initialism(rule) == value || initialism(value) == rule
}

// initialism reduces a multi-word label to its first letters. Single words
// return "" so a bare word never collides with an unrelated acronym.
func initialism(s string) string {
	words := strings.Fields(s)
	if len(words) < 2 {
		return ""
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return b.String()
}

// ExactMatcher matches only identical normalized strings.
type ExactMatcher struct{}

func (ExactMatcher) Match(value, rule string) bool {
	return value == rule
}

// Matches reports whether a manager identity falls inside the target's
// audience. It is a total function: no identity/target combination errors.
//
// Rules, in order:
//  1. a nil or empty target is an open audience;
//  2. a target whose departments include "general" or "all" is open
//     regardless of its other rules;
//  3. otherwise the identity matches if ANY category matches (OR, not AND):
//     a manager matching on email alone is included even if the department
//     differs.
func (t *Target) Matches(id Identity, m Matcher) bool {
	if t.IsEmpty() {
		return true
	}

	for _, d := range t.Departments {
		switch Normalize(d) {
		case DepartmentGeneral, DepartmentAll:
			return true
		}
	}

	return matchAny(m, id.Department, t.Departments) ||
		matchAny(m, id.Name, t.ManagerNames) ||
		matchAny(m, id.Email, t.ManagerEmails) ||
		matchAny(m, id.ID, t.ManagerIDs)
}

func matchAny(m Matcher, value string, rules []string) bool {
	v := Normalize(value)
	if v == "" {
		// An absent identity field must not act as a wildcard.
		return false
	}
	for _, rule := range rules {
		if r := Normalize(rule); r != "" && m.Match(v, r) {
			return true
		}
	}
	return false
}

// Normalize lower-cases and trims a routing string.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StripSpaces removes all whitespace from a normalized routing string, so
// "information  technology" and "informationtechnology" compare equal.
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(Normalize(s)), "")
}
