package services

import "strings"

// NavEntry is one back-office navigation item
type NavEntry struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// navEntries is the full back-office navigation, in display order
var navEntries = []NavEntry{
	{Title: "Dashboard", Href: "/dashboard"},
	{Title: "Orders", Href: "/orders"},
	{Title: "Menu", Href: "/products"},
	{Title: "Pizza Sizes", Href: "/pizza-sizes"},
	{Title: "Toppings", Href: "/toppings"},
	{Title: "Customers", Href: "/customers"},
	{Title: "Staff Management", Href: "/staff"},
}

// roleNav maps a lowercased role to the titles it may see. Roles not in
// the table fall back to the minimal set: unrecognized roles never gain
// access by default.
var roleNav = map[string][]string{
	"admin":        {"Dashboard", "Orders", "Menu", "Pizza Sizes", "Toppings", "Customers", "Staff Management"},
	"manager":      {"Dashboard", "Orders", "Menu", "Pizza Sizes", "Toppings", "Customers"},
	"chef":         {"Dashboard", "Orders", "Menu"},
	"receptionist": {"Dashboard", "Orders", "Customers"},
}

var defaultNav = []string{"Dashboard", "Orders"}

// NavigationForRole returns the navigation entries visible to a role,
// matched case-insensitively.
func NavigationForRole(role string) []NavEntry {
	visible, ok := roleNav[strings.ToLower(role)]
	if !ok {
		visible = defaultNav
	}

	allowed := make(map[string]bool, len(visible))
	for _, title := range visible {
		allowed[title] = true
	}

	entries := make([]NavEntry, 0, len(visible))
	for _, entry := range navEntries {
		if allowed[entry.Title] {
			entries = append(entries, entry)
		}
	}
	return entries
}
