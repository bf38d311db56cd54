package guard

import "storefront-shell/internal/service/session"

// Landing holds the redirect targets used by the policy.
type Landing struct {
	Login   string
	Admin   string
	Catalog string
}

// Decision is the outcome of a guard evaluation. Redirect is empty when the
// navigation is allowed.
type Decision struct {
	Tier     Tier   `json:"tier"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

type rule struct {
	tier     Tier
	reason   string
	applies  func(session.Snapshot) bool
	redirect func(session.Snapshot, Landing) string
}

// policy is evaluated top to bottom; the first rule that applies decides.
var policy = []rule{
	{
		tier:     TierCustomerOnly,
		reason:   "login required",
		applies:  func(s session.Snapshot) bool { return !s.Authenticated() },
		redirect: func(_ session.Snapshot, l Landing) string { return l.Login },
	},
	{
		tier:     TierCustomerOnly,
		reason:   "admins are not customers",
		applies:  func(s session.Snapshot) bool { return s.IsAdmin() },
		redirect: func(_ session.Snapshot, l Landing) string { return l.Admin },
	},
	{
		tier:     TierAdminOnly,
		reason:   "admin role required",
		applies:  func(s session.Snapshot) bool { return !s.IsAdmin() },
		redirect: func(_ session.Snapshot, l Landing) string { return l.Login },
	},
	{
		tier:    TierRedirectAuthenticated,
		reason:  "already authenticated",
		applies: func(s session.Snapshot) bool { return s.Authenticated() },
		redirect: func(s session.Snapshot, l Landing) string {
			if s.IsAdmin() {
				return l.Admin
			}
			return l.Catalog
		},
	},
}

// Evaluate applies the policy table to a destination tier and session
// snapshot. It has no side effects.
func Evaluate(tier Tier, snap session.Snapshot, landing Landing) Decision {
	for _, r := range policy {
		if r.tier != tier || !r.applies(snap) {
			continue
		}
		return Decision{Tier: tier, Redirect: r.redirect(snap, landing), Reason: r.reason}
	}
	return Decision{Tier: tier}
}
