package domain

import "fmt"

type ViewKind string

const (
	ViewOwner ViewKind = "owner"
	ViewStaff ViewKind = "staff"
)

// View describes the dashboard a role lands on and the actions it offers.
type View struct {
	Kind    ViewKind
	Title   string
	Actions []string
}

// ViewFor is the single role dispatch point for dashboards.
func ViewFor(role UserRole) (View, error) {
	switch role {
	case RoleOwner:
		return View{
			Kind:    ViewOwner,
			Title:   "Owner dashboard",
			Actions: []string{"summary", "employees", "settings", "products"},
		}, nil
	case RoleManager:
		return View{
			Kind:    ViewStaff,
			Title:   "Manager functions",
			Actions: []string{"sales_reports", "manage_inventory", "schedules"},
		}, nil
	case RoleEmployee:
		return View{
			Kind:    ViewStaff,
			Title:   "Employee functions",
			Actions: []string{"register_sale", "check_inventory", "my_schedule"},
		}, nil
	case RoleCashier:
		return View{
			Kind:    ViewStaff,
			Title:   "Cashier functions",
			Actions: []string{"point_of_sale", "cash_closing"},
		}, nil
	}
	return View{}, fmt.Errorf("unrecognized role %q", role)
}
