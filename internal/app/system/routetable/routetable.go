// Package routetable is the console's static route tree.
//
// A tree of Nodes is compiled once by New into a flat list of routes.
// Each route knows its full pattern, its view, the layouts of its ancestors,
// and the capabilities required by it or any ancestor. Nothing is registered
// at runtime.
package routetable

import (
	"fmt"
	"sort"
	"strings"
)

// Node declares one path in the tree. Path is relative to the parent ("/"
// for a root). A segment starting with ':' captures a parameter.
// Requires and Layout apply to the node and everything beneath it.
type Node struct {
	Path     string
	View     string
	Layout   string
	Requires []string
	Children []Node
}

// Match is the outcome of Resolve.
type Match struct {
	Pattern  string
	View     string
	Params   map[string]string
	Layouts  []string
	Requires []string
}

// Layout returns the innermost layout, or "" when there is none.
func (m Match) Layout() string {
	if len(m.Layouts) == 0 {
		return ""
	}
	return m.Layouts[len(m.Layouts)-1]
}

type route struct {
	pattern  string
	segments []string
	view     string
	layouts  []string
	requires []string
	static   int
	order    int
}

// Table is an immutable compiled route tree. It is safe for concurrent use.
type Table struct {
	routes []route
}

// New compiles the given root nodes. It fails on duplicate patterns,
// empty parameter names, or nodes without a view and without children.
func New(roots ...Node) (*Table, error) {
	t := &Table{}
	seen := make(map[string]bool)
	for _, n := range roots {
		if err := t.compile(n, nil, nil, nil, seen); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(t.routes, func(i, j int) bool {
		a, b := t.routes[i], t.routes[j]
		if len(a.segments) != len(b.segments) {
			return len(a.segments) < len(b.segments)
		}
		if a.static != b.static {
			return a.static > b.static
		}
		return a.order < b.order
	})
	return t, nil
}

// MustNew is New for package-level tables.
func MustNew(roots ...Node) *Table {
	t, err := New(roots...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) compile(n Node, parent []string, layouts, requires []string, seen map[string]bool) error {
	segs := append(append([]string(nil), parent...), split(n.Path)...)
	for _, s := range segs {
		if s == ":" {
			return fmt.Errorf("routetable: empty parameter name in %q", n.Path)
		}
	}

	if n.Layout != "" {
		layouts = append(append([]string(nil), layouts...), n.Layout)
	}
	if len(n.Requires) > 0 {
		requires = union(requires, n.Requires)
	}

	if n.View == "" && len(n.Children) == 0 {
		return fmt.Errorf("routetable: node %q has no view and no children", n.Path)
	}

	if n.View != "" {
		pattern := "/" + strings.Join(segs, "/")
		key := shape(segs)
		if seen[key] {
			return fmt.Errorf("routetable: duplicate route %q", pattern)
		}
		seen[key] = true

		static := 0
		for _, s := range segs {
			if !isParam(s) {
				static++
			}
		}
		t.routes = append(t.routes, route{
			pattern:  pattern,
			segments: segs,
			view:     n.View,
			layouts:  layouts,
			requires: requires,
			static:   static,
			order:    len(t.routes),
		})
	}

	for _, c := range n.Children {
		if err := t.compile(c, segs, layouts, requires, seen); err != nil {
			return err
		}
	}
	return nil
}

// Resolve finds the route for path. Static segments win over parameters at
// the same depth; among equals the earlier declaration wins.
func (t *Table) Resolve(path string) (Match, bool) {
	in := split(path)
	for _, rt := range t.routes {
		if len(rt.segments) != len(in) {
			continue
		}
		params, ok := bind(rt.segments, in)
		if !ok {
			continue
		}
		return Match{
			Pattern:  rt.pattern,
			View:     rt.view,
			Params:   params,
			Layouts:  append([]string(nil), rt.layouts...),
			Requires: append([]string(nil), rt.requires...),
		}, true
	}
	return Match{}, false
}

// Patterns lists every compiled pattern in match order.
func (t *Table) Patterns() []string {
	out := make([]string, len(t.routes))
	for i, rt := range t.routes {
		out[i] = rt.pattern
	}
	return out
}

func bind(pattern, in []string) (map[string]string, bool) {
	params := map[string]string{}
	for i, seg := range pattern {
		if isParam(seg) {
			if in[i] == "" {
				return nil, false
			}
			params[seg[1:]] = in[i]
			continue
		}
		if seg != in[i] {
			return nil, false
		}
	}
	return params, true
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func isParam(s string) bool { return strings.HasPrefix(s, ":") }

// shape makes /a/:id and /a/:slug collide.
func shape(segs []string) string {
	out := make([]string, len(segs))
	for i, s := range segs {
		if isParam(s) {
			out[i] = ":"
		} else {
			out[i] = s
		}
	}
	return "/" + strings.Join(out, "/")
}

func union(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, s := range b {
		dup := false
		for _, have := range out {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
