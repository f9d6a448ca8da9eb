package auth

// RouteRequirement is the static gating metadata attached to a declared route.
type RouteRequirement struct {
	RequiresAuth bool `json:"requires_auth,omitempty"`
	RequiresRole Role `json:"requires_role,omitempty"`
}

// Public reports whether the route carries no gating at all.
func (r RouteRequirement) Public() bool {
	return !r.RequiresAuth && r.RequiresRole == RoleNone
}

// Verdict is the navigation decision for a single transition: proceed, or redirect to a path.
// The zero value is Proceed.
type Verdict struct {
	redirect string
}

// Proceed returns the verdict allowing the transition.
func Proceed() Verdict { return Verdict{} }

// RedirectTo returns a verdict diverting the transition to path.
func RedirectTo(path string) Verdict { return Verdict{redirect: path} }

// IsProceed reports whether the transition may be committed.
func (v Verdict) IsProceed() bool { return v.redirect == "" }

// Redirect returns the redirect target and whether the verdict is a redirect.
func (v Verdict) Redirect() (string, bool) { return v.redirect, v.redirect != "" }

func (v Verdict) String() string {
	if v.IsProceed() {
		return "proceed"
	}
	return "redirect:" + v.redirect
}
