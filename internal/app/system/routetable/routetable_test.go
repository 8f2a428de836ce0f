package routetable_test

import (
	"testing"

	"github.com/dalemusser/storeadmin/internal/app/system/routetable"
)

func TestConsole_Resolve(t *testing.T) {
	tests := []struct {
		path   string
		view   string
		gated  bool
		params map[string]string
	}{
		{"/", routetable.ViewLogin, false, nil},
		{"/home", routetable.ViewHome, false, nil},
		{"/dashboard", routetable.ViewDashboard, true, nil},
		{"/dashboard/", routetable.ViewDashboard, true, nil},
		{"/dashboard/addProducts", routetable.ViewAddProducts, true, nil},
		{"/dashboard/products", routetable.ViewProductList, true, nil},
		{"/dashboard/products/details/abc123", routetable.ViewProductDetail, true, map[string]string{"id": "abc123"}},
		{"/dashboard/products/update/abc123", routetable.ViewProductUpdate, true, map[string]string{"id": "abc123"}},
		{"/dashboard/adminProfile", routetable.ViewAdminProfile, true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			m, ok := routetable.Console.Resolve(tc.path)
			if !ok {
				t.Fatalf("no match for %q", tc.path)
			}
			if m.View != tc.view {
				t.Errorf("view: got %q, want %q", m.View, tc.view)
			}
			if gated := len(m.Requires) > 0; gated != tc.gated {
				t.Errorf("gated: got %v, want %v", gated, tc.gated)
			}
			for k, v := range tc.params {
				if m.Params[k] != v {
					t.Errorf("param %q: got %q, want %q", k, m.Params[k], v)
				}
			}
		})
	}
}

func TestConsole_Unknown(t *testing.T) {
	for _, p := range []string{"/nope", "/dashboard/products/details", "/dashboard/products/details/1/extra", "/home/more"} {
		if _, ok := routetable.Console.Resolve(p); ok {
			t.Errorf("expected no match for %q", p)
		}
	}
}

func TestConsole_LayoutsInherited(t *testing.T) {
	m, _ := routetable.Console.Resolve("/home")
	if m.Layout() != routetable.LayoutPublic {
		t.Errorf("/home layout: got %q, want %q", m.Layout(), routetable.LayoutPublic)
	}
	m, _ = routetable.Console.Resolve("/dashboard/products/update/1")
	if m.Layout() != routetable.LayoutDashboard {
		t.Errorf("update layout: got %q, want %q", m.Layout(), routetable.LayoutDashboard)
	}
}

func TestNew_StaticBeatsParam(t *testing.T) {
	tbl, err := routetable.New(routetable.Node{
		Path: "/items",
		View: "list",
		Children: []routetable.Node{
			{Path: ":id", View: "detail"},
			{Path: "new", View: "create"},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m, ok := tbl.Resolve("/items/new")
	if !ok || m.View != "create" {
		t.Errorf("/items/new: got %q, want create", m.View)
	}
	m, ok = tbl.Resolve("/items/42")
	if !ok || m.View != "detail" || m.Params["id"] != "42" {
		t.Errorf("/items/42: got %q %v", m.View, m.Params)
	}
}

func TestNew_RequiresUnion(t *testing.T) {
	tbl := routetable.MustNew(routetable.Node{
		Path:     "/a",
		View:     "a",
		Requires: []string{"x"},
		Children: []routetable.Node{
			{Path: "b", View: "b", Requires: []string{"y", "x"}},
		},
	})
	m, _ := tbl.Resolve("/a/b")
	if len(m.Requires) != 2 || m.Requires[0] != "x" || m.Requires[1] != "y" {
		t.Errorf("requires: got %v, want [x y]", m.Requires)
	}
}

func TestNew_Errors(t *testing.T) {
	cases := map[string][]routetable.Node{
		"duplicate": {
			{Path: "/a/:id", View: "one"},
			{Path: "/a/:slug", View: "two"},
		},
		"empty param": {
			{Path: "/a/:", View: "one"},
		},
		"no view no children": {
			{Path: "/a"},
		},
	}
	for name, nodes := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := routetable.New(nodes...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGate(t *testing.T) {
	open, _ := routetable.Console.Resolve("/")
	gated, _ := routetable.Console.Resolve("/dashboard/products")

	tests := []struct {
		name string
		m    routetable.Match
		p    routetable.Principal
		want routetable.Decision
	}{
		{"open visitor", open, routetable.Principal{}, routetable.Allow},
		{"gated visitor", gated, routetable.Principal{}, routetable.SignIn},
		{"gated without capability", gated, routetable.Principal{SignedIn: true, Capabilities: []string{"authenticated"}}, routetable.Deny},
		{"gated admin", gated, routetable.Principal{SignedIn: true, Capabilities: []string{"authenticated", routetable.CapAdmin}}, routetable.Allow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := routetable.Gate(tc.m, tc.p); got != tc.want {
				t.Errorf("Gate: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolve_ReturnsCopies(t *testing.T) {
	m, _ := routetable.Console.Resolve("/dashboard")
	m.Requires[0] = "tampered"

	again, _ := routetable.Console.Resolve("/dashboard")
	if again.Requires[0] != routetable.CapAdmin {
		t.Error("Resolve leaked internal slice")
	}
}
