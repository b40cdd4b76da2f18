package adapters

import (
	"strings"

	"github.com/goliatone/go-sdk-loader/core"
)

// MapPermissions translates internal permission names to vendor scope
// strings. First-occurrence order is preserved and duplicate scopes collapse,
// so two permissions mapping to the same scope yield one entry. Unknown names
// follow mode: passed through verbatim, dropped, or rejected.
func MapPermissions(
	permissions []string,
	table map[string]string,
	mode core.UnknownPermissionMode,
) ([]string, error) {
	if !mode.Valid() {
		mode = core.UnknownPermissionPassthrough
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		permission = strings.TrimSpace(permission)
		if permission == "" {
			continue
		}
		scope, ok := table[permission]
		if !ok {
			switch mode {
			case core.UnknownPermissionDrop:
				continue
			case core.UnknownPermissionError:
				return nil, core.NewUnknownPermissionError(permission)
			default:
				scope = permission
			}
		}
		if _, dup := seen[scope]; dup {
			continue
		}
		seen[scope] = struct{}{}
		out = append(out, scope)
	}
	return out, nil
}

// ComputeScope builds the comma-joined scope string the vendor login expects.
func ComputeScope(
	permissions []string,
	table map[string]string,
	mode core.UnknownPermissionMode,
) (string, error) {
	scopes, err := MapPermissions(permissions, table, mode)
	if err != nil {
		return "", err
	}
	return strings.Join(scopes, ","), nil
}
