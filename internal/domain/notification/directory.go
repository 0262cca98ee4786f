package notification

import (
	"encoding/json"
	"fmt"
	"os"
)

// Route is one routing directory entry: the canonical key for a department
// plus its known aliases and the managers known to own it.
type Route struct {
	Key          string   `json:"key"`
	Aliases      []string `json:"aliases,omitempty"`
	ManagerNames []string `json:"manager_names,omitempty"`
}

// Directory maps normalized department aliases to routes. It is
// configuration data, injected at construction, never derived in code.
type Directory map[string]Route

// Lookup resolves a free-text department label against the directory,
// trying the normalized label first and its whitespace-stripped form second.
func (d Directory) Lookup(label string) (Route, bool) {
	if route, ok := d[Normalize(label)]; ok {
		return route, true
	}
	route, ok := d[StripSpaces(label)]
	return route, ok
}

// DefaultDirectory is the built-in routing directory. Deployments override
// it with ROUTING_DIRECTORY_FILE.
func DefaultDirectory() Directory {
	return Directory{
		"it":                     {Key: "it", Aliases: []string{"information technology"}},
		"information technology": {Key: "it", Aliases: []string{"information technology"}},
		"hr":                     {Key: "hr", Aliases: []string{"human resources"}},
		"human resources":        {Key: "hr", Aliases: []string{"human resources"}},
		"finance":                {Key: "finance", Aliases: []string{"accounting"}},
		"accounting":             {Key: "finance", Aliases: []string{"accounting"}},
		"marketing":              {Key: "marketing"},
		"sales":                  {Key: "sales"},
		"operations":             {Key: "operations", Aliases: []string{"ops"}},
		"ops":                    {Key: "operations", Aliases: []string{"ops"}},
	}
}

// LoadDirectory reads a routing directory from a JSON file. Keys are
// normalized so the file may use any casing.
func LoadDirectory(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing directory: %w", err)
	}

	var raw map[string]Route
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse routing directory: %w", err)
	}

	dir := make(Directory, len(raw))
	for alias, route := range raw {
		dir[Normalize(alias)] = route
	}
	return dir, nil
}

// Overrides are caller-supplied additions to a built target.
type Overrides struct {
	Departments   []string
	ManagerNames  []string
	ManagerEmails []string
	ManagerIDs    []string
}

// Builder produces normalized notification targets from free-text
// department labels and the routing directory.
type Builder struct {
	directory Directory
}

func NewBuilder(directory Directory) *Builder {
	if directory == nil {
		directory = DefaultDirectory()
	}
	return &Builder{directory: directory}
}

// Build resolves a department label into a target. The departments set
// unions the normalized label, its whitespace-stripped variant, the
// directory's canonical key and aliases, and any override departments;
// manager names union directory-known owners with overrides. All sets are
// deduplicated case-insensitively.
//
// An unrecognized department degrades to just the label's own normalized
// variants: routing stays deterministic, never silently unrestricted.
func (b *Builder) Build(department string, ov Overrides) Target {
	departments := newStringSet()
	departments.add(Normalize(department))
	departments.add(StripSpaces(department))

	names := newStringSet()

	if route, ok := b.directory.Lookup(department); ok {
		departments.add(Normalize(route.Key))
		for _, alias := range route.Aliases {
			departments.add(Normalize(alias))
			departments.add(StripSpaces(alias))
		}
		for _, name := range route.ManagerNames {
			names.add(Normalize(name))
		}
	}

	for _, d := range ov.Departments {
		departments.add(Normalize(d))
	}
	for _, n := range ov.ManagerNames {
		names.add(Normalize(n))
	}

	emails := newStringSet()
	for _, e := range ov.ManagerEmails {
		emails.add(Normalize(e))
	}
	ids := newStringSet()
	for _, id := range ov.ManagerIDs {
		ids.add(Normalize(id))
	}

	return Target{
		Departments:   departments.values(),
		ManagerNames:  names.values(),
		ManagerEmails: emails.values(),
		ManagerIDs:    ids.values(),
	}
}

// stringSet deduplicates while preserving insertion order, so built targets
// are deterministic.
type stringSet struct {
	seen  map[string]struct{}
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *stringSet) values() []string {
	return s.items
}
