// Package tenant defines the tenant record shared by the tenancy and pending packages.
//
// A tenant moves through three lifecycle states:
//
//	provisioning -> pending -> active
//
// A record is provisioning while its provisioning hooks run, pending once it is fully
// provisioned but unclaimed (PendingSince set), and active after a caller claims it
// (PendingSince cleared). A record never returns to pending.
//
// # Query scopes
//
// Every read path filters records through a Scope. The zero value, ExcludePending,
// hides pending and provisioning records so ordinary listings only ever see active
// tenants:
//
//	tenants, err := store.List(ctx, tenant.ExcludePending)
//	pool, err := store.List(ctx, tenant.OnlyPending)
//
// # Context
//
// WithTenant and FromContext carry the current tenant through a request or job.
// LoggerExtractor plugs into the logger package to tag log records with tenant_id.
package tenant
