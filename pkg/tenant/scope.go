package tenant

import "fmt"

// Scope narrows tenant queries by lifecycle state. The zero value is ExcludePending,
// so every read path hides pending records unless the caller opts in.
// Provisioning records are hidden by every scope.
type Scope uint8

const (
	// ExcludePending returns only active tenants.
	ExcludePending Scope = iota
	// IncludePending returns active and pending tenants.
	IncludePending
	// OnlyPending returns pending tenants only.
	OnlyPending
)

// WithPending mirrors the boolean form of the modifier: true includes pending records.
func WithPending(include bool) Scope {
	if include {
		return IncludePending
	}
	return ExcludePending
}

// Matches reports whether t is visible under the scope.
func (s Scope) Matches(t *Tenant) bool {
	if t == nil || t.Provisioning {
		return false
	}
	switch s {
	case IncludePending:
		return true
	case OnlyPending:
		return t.PendingSince != nil
	default:
		return t.PendingSince == nil
	}
}

func (s Scope) String() string {
	switch s {
	case ExcludePending:
		return "exclude_pending"
	case IncludePending:
		return "include_pending"
	case OnlyPending:
		return "only_pending"
	default:
		return fmt.Sprintf("scope(%d)", uint8(s))
	}
}
