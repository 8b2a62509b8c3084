package tenancy

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

const (
	// MaxIdentifierLength keeps identifiers DNS compatible.
	MaxIdentifierLength = 63
)

// identifierPattern accepts DNS-safe labels and UUIDs.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// Resolver extracts a tenant identifier from a request.
// Returns an empty string if the request carries no identifier.
type Resolver func(r *http.Request) (string, error)

func validIdentifier(id string) bool {
	return id != "" && len(id) <= MaxIdentifierLength && identifierPattern.MatchString(id)
}

// NewHeaderResolver reads the identifier from a header, X-Tenant-ID by default.
func NewHeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}
	return func(r *http.Request) (string, error) {
		value := strings.TrimSpace(r.Header.Get(headerName))
		if value == "" {
			return "", nil
		}
		if !validIdentifier(value) {
			return "", fmt.Errorf("%w: header value %q", tenant.ErrInvalidIdentifier, value)
		}
		return value, nil
	}
}

// NewSubdomainResolver reads the first subdomain label, stripping suffix when set.
// Requests to the base domain (fewer than three labels) carry no identifier.
func NewSubdomainResolver(suffix string) Resolver {
	return func(r *http.Request) (string, error) {
		host := r.Host
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
		if len(strings.Split(host, ".")) < 3 {
			return "", nil
		}
		if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			host = strings.TrimSuffix(host, suffix)
		}

		parts := strings.Split(host, ".")
		sub := parts[0]
		if sub == "www" {
			if len(parts) < 2 {
				return "", nil
			}
			sub = parts[1]
		}
		if sub == "" {
			return "", nil
		}
		if !validIdentifier(sub) {
			return "", fmt.Errorf("%w: subdomain %q", tenant.ErrInvalidIdentifier, sub)
		}
		return sub, nil
	}
}

// NewPathResolver reads the identifier from a 1-based path segment.
// Position 2 extracts {id} from /tenants/{id}/dashboard.
func NewPathResolver(position int) Resolver {
	return func(r *http.Request) (string, error) {
		if position < 1 {
			return "", fmt.Errorf("invalid path position: %d", position)
		}
		path := strings.Trim(r.URL.Path, "/")
		if path == "" {
			return "", nil
		}
		parts := strings.Split(path, "/")
		if position > len(parts) {
			return "", nil
		}
		value := strings.TrimSpace(parts[position-1])
		if value == "" {
			return "", nil
		}
		if !validIdentifier(value) {
			return "", fmt.Errorf("%w: path segment %q", tenant.ErrInvalidIdentifier, value)
		}
		return value, nil
	}
}

// NewCompositeResolver returns the first non-empty identifier. When every resolver
// fails or finds nothing, the collected errors are returned.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		var errs []error
		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}
		if len(errs) > 0 {
			return "", fmt.Errorf("composite resolver errors: %w", errors.Join(errs...))
		}
		return "", nil
	}
}
