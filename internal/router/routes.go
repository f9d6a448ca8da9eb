package router

import (
	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
)

// Route is a declared dashboard destination.
// Pattern uses chi syntax, e.g. "/company/{id}/edit".
type Route struct {
	Name        string
	Pattern     string
	Requirement domainauth.RouteRequirement
}

// Match is a resolved navigation target.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a URL parameter of the match.
func (m Match) Param(key string) string { return m.Params[key] }

// Dashboard route names referenced outside the table.
const (
	RouteLogin     = "Login"
	RouteDashboard = "Dashboard"
)

var (
	authenticated = domainauth.RouteRequirement{RequiresAuth: true}
	editorOnly    = domainauth.RouteRequirement{RequiresAuth: true, RequiresRole: domainauth.RoleEditor}
	adminOnly     = domainauth.RouteRequirement{RequiresAuth: true, RequiresRole: domainauth.RoleAdmin}
)

// DashboardRoutes returns the admin dashboard's declared routes.
func DashboardRoutes() []Route {
	return []Route{
		{Name: RouteLogin, Pattern: "/login"},
		{Name: RouteDashboard, Pattern: "/", Requirement: authenticated},
		{Name: "Knowledge", Pattern: "/knowledge", Requirement: authenticated},
		{Name: "Companies", Pattern: "/companies", Requirement: authenticated},
		{Name: "CompanyNew", Pattern: "/company/new", Requirement: editorOnly},
		{Name: "CompanyEdit", Pattern: "/company/{id}/edit", Requirement: editorOnly},
		{Name: "Concepts", Pattern: "/concepts", Requirement: editorOnly},
		{Name: "ConceptNew", Pattern: "/concept/new", Requirement: editorOnly},
		{Name: "ConceptEdit", Pattern: "/concept/{id}/edit", Requirement: editorOnly},
		{Name: "Categories", Pattern: "/categories", Requirement: editorOnly},
		{Name: "CategoryEdit", Pattern: "/category/{id}/edit", Requirement: editorOnly},
		{Name: "Select", Pattern: "/select", Requirement: authenticated},
		{Name: "Upload", Pattern: "/upload", Requirement: adminOnly},
		{Name: "Users", Pattern: "/users", Requirement: adminOnly},
	}
}
