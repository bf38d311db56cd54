package guard

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"storefront-shell/internal/config"
)

// Tier is the authorization class of a route.
type Tier string

const (
	TierPublic                Tier = "public"
	TierCustomerOnly          Tier = "customer-only"
	TierAdminOnly             Tier = "admin-only"
	TierRedirectAuthenticated Tier = "public-authenticated-redirect"
)

func parseTier(s string) (Tier, error) {
	switch t := Tier(strings.TrimSpace(s)); t {
	case TierPublic, TierCustomerOnly, TierAdminOnly, TierRedirectAuthenticated:
		return t, nil
	default:
		return "", fmt.Errorf("unknown access tier %q", s)
	}
}

type route struct {
	path  string
	tier  Tier
	exact bool
}

// Routes classifies destination paths. Exact matches win over prefixes and
// longer prefixes win over shorter ones; unmatched paths are public.
type Routes struct {
	routes []route
}

func NewRoutes(entries []config.RouteEntry) (*Routes, error) {
	routes := make([]route, 0, len(entries))
	for _, e := range entries {
		tier, err := parseTier(e.Tier)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route{path: normalize(e.Path), tier: tier, exact: e.Exact})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].path) > len(routes[j].path)
	})
	return &Routes{routes: routes}, nil
}

// Classify returns the tier for a destination path. Query strings and
// fragments are ignored.
func (r *Routes) Classify(destination string) Tier {
	p := normalize(destination)
	for _, rt := range r.routes {
		if p == rt.path {
			return rt.tier
		}
	}
	for _, rt := range r.routes {
		if rt.exact {
			continue
		}
		if rt.path == "/" || strings.HasPrefix(p, rt.path+"/") {
			return rt.tier
		}
	}
	return TierPublic
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
