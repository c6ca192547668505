// Package menupolicy provides authorization policies for the menu catalog.
//
// Authorization rules:
//   - Admins and moderators can create, edit, and delete items and see
//     unavailable ones
//   - Everyone else, signed in or not, sees only available items
package menupolicy

import (
	"net/http"

	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/domain/models"
)

// CanManage reports whether the current user may change the menu.
func CanManage(r *http.Request) bool {
	return authz.CanManageMenu(r)
}

// CanView reports whether the current user may see m.
func CanView(r *http.Request, m *models.MenuItem) bool {
	if m == nil {
		return false
	}
	return m.Available || CanManage(r)
}
