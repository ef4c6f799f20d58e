/*
sites.go - Portal detection from the reported page URL

PURPOSE:
  Every operation request carries the URL of the page it was captured
  from. The role derived here gates the operation: extraction only
  runs against the Source portal, fill plans only against the Target.
*/
package api

import "strings"

// Role says which side of the bridge a portal page belongs to.
type Role string

const (
	RoleSource Role = "source" // attendance portal, read from
	RoleTarget Role = "target" // payroll portal, written to
)

type site struct {
	domain string
	paths  []string
	role   Role
}

var sites = []site{
	{
		domain: "hilan.co.il",
		paths:  []string{"/hilannetv2/attendance/"},
		role:   RoleSource,
	},
	{
		domain: "payroll.malam.com",
		paths:  []string{"/salprd5root/faces/"},
		role:   RoleTarget,
	},
}

// DetectRole matches a page URL against the known portals,
// case-insensitively on both domain and path. False means the page is
// neither portal and no operation may run against it.
func DetectRole(pageURL string) (Role, bool) {
	lower := strings.ToLower(pageURL)
	for _, s := range sites {
		if !strings.Contains(lower, s.domain) {
			continue
		}
		for _, p := range s.paths {
			if strings.Contains(lower, p) {
				return s.role, true
			}
		}
	}
	return "", false
}
