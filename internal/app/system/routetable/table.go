package routetable

// Capabilities used by the console tree.
const (
	CapAdmin = "admin"
)

// Console views. Each name matches a template registered by the console
// feature.
const (
	ViewLogin         = "login"
	ViewHome          = "home"
	ViewDashboard     = "dashboard_body"
	ViewAddProducts   = "add_products"
	ViewProductList   = "product_list"
	ViewProductDetail = "product_detail"
	ViewProductUpdate = "product_update"
	ViewAdminProfile  = "admin_profile"
)

// Console layouts.
const (
	LayoutPublic    = "public_layout"
	LayoutDashboard = "dashboard_layout"
)

// Console is the admin console's route tree. Everything under /dashboard
// requires an admin session.
var Console = MustNew(
	Node{
		Path:   "/",
		View:   ViewLogin,
		Layout: LayoutPublic,
		Children: []Node{
			{Path: "home", View: ViewHome},
		},
	},
	Node{
		Path:     "/dashboard",
		View:     ViewDashboard,
		Layout:   LayoutDashboard,
		Requires: []string{CapAdmin},
		Children: []Node{
			{Path: "addProducts", View: ViewAddProducts},
			{Path: "products", View: ViewProductList},
			{Path: "products/details/:id", View: ViewProductDetail},
			{Path: "products/update/:id", View: ViewProductUpdate},
			{Path: "adminProfile", View: ViewAdminProfile},
		},
	},
)
