package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/domain"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// Requirement classifies what a rule demands of the caller.
type Requirement int

const (
	// Public allows the request regardless of authentication.
	Public Requirement = iota
	// AnyAuthenticated requires some valid principal, any role.
	AnyAuthenticated
	// RoleIn requires the principal's role to be in the rule's role set.
	RoleIn
)

// Decision is the outcome of evaluating the policy for one request.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Rule maps an HTTP method/path pattern onto a requirement. Patterns are
// either exact paths or a prefix followed by "/**"; an empty method list
// matches every method.
type Rule struct {
	Methods     []string
	PathPattern string
	Requirement Requirement
	Roles       []domain.Role
}

// Policy is an ordered rule table. Rules are evaluated top down and the
// first match wins; unmatched requests fall through to AnyAuthenticated.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from an ordered rule list.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules is the route table served by this backend. Ordering matters:
// public carve-outs first, then seeker actions, then employer actions, with
// the implicit authenticated catch-all covering the rest.
func DefaultRules() []Rule {
	employer := []domain.Role{domain.RoleEmployer, domain.RoleAdmin}
	seeker := []domain.Role{domain.RoleJobSeeker}
	return []Rule{
		{Methods: []string{fiber.MethodOptions}, PathPattern: "/**", Requirement: Public},
		{PathPattern: "/health/**", Requirement: Public},
		{PathPattern: "/api/auth/**", Requirement: Public},
		{Methods: []string{fiber.MethodGet}, PathPattern: "/api/jobs/**", Requirement: Public},
		// Downloads stay public so plain browser tabs can open stored CVs.
		{PathPattern: "/api/applications/download/**", Requirement: Public},

		{Methods: []string{fiber.MethodPost}, PathPattern: "/api/applications/apply", Requirement: RoleIn, Roles: seeker},
		{PathPattern: "/api/profiles/upload-resume", Requirement: RoleIn, Roles: seeker},

		{PathPattern: "/api/jobs/my-listings", Requirement: RoleIn, Roles: employer},
		{Methods: []string{fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete}, PathPattern: "/api/jobs/**", Requirement: RoleIn, Roles: employer},
		{PathPattern: "/api/applications/job/**", Requirement: RoleIn, Roles: employer},
		{Methods: []string{fiber.MethodPut}, PathPattern: "/api/applications/**", Requirement: RoleIn, Roles: employer},
	}
}

// NormalizeRole maps the legacy prefixed convention ("ROLE_Employer") onto
// the canonical role name. Matching stays case-sensitive after the prefix
// is stripped.
func NormalizeRole(role string) string {
	return strings.TrimPrefix(role, "ROLE_")
}

// Evaluate resolves the decision for a request.
func (p *Policy) Evaluate(method, path string, principal *Principal) Decision {
	requirement := AnyAuthenticated
	var roles []domain.Role

	for _, rule := range p.rules {
		if rule.matches(method, path) {
			requirement = rule.Requirement
			roles = rule.Roles
			break
		}
	}

	switch requirement {
	case Public:
		return Allow
	case AnyAuthenticated:
		if principal == nil {
			return DenyUnauthenticated
		}
		return Allow
	default:
		if principal == nil {
			return DenyUnauthenticated
		}
		role := NormalizeRole(principal.Role)
		for _, allowed := range roles {
			if role == string(allowed) {
				return Allow
			}
		}
		return DenyForbidden
	}
}

// Enforce runs policy evaluation after the authenticator has had its turn.
func (p *Policy) Enforce(c *fiber.Ctx) error {
	principal, _ := PrincipalFromContext(c)
	switch p.Evaluate(c.Method(), c.Path(), principal) {
	case Allow:
		return c.Next()
	case DenyForbidden:
		return apperrors.NewForbidden("insufficient role")
	default:
		return apperrors.NewUnauthenticated("authentication required")
	}
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if m == method {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return matchPath(r.PathPattern, path)
}

func matchPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if prefix == "" {
			return true
		}
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
