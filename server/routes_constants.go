package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	// Dashboard
	RouteIndex     = "/{$}"
	RouteDashboard = "/dashboard"

	// Inventory
	RouteProducts    = "/products"
	RouteProductNew  = "/products/new"
	RouteProduct     = "/products/{id}"
	RouteMovements   = "/movements"
	RouteMovementNew = "/movements/new"
	RouteCategories  = "/categories"

	// Account
	RouteProfile = "/profile"

	// Operations
	RouteLivez   = "/livez"
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
