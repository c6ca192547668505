// Package reportpolicy provides authorization policies for report access.
//
// Only admins can view reports. Moderators manage menu content but do not
// see sales figures.
package reportpolicy

import (
	"net/http"

	"github.com/dalemusser/menuhub/internal/app/system/authz"
)

// CanViewReports reports whether the current user may see sales reports.
func CanViewReports(r *http.Request) bool {
	return authz.IsAdmin(r)
}
