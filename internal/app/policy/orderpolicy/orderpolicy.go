// Package orderpolicy provides authorization policies for orders.
//
// Authorization rules:
//   - Admins can list every order, filter by any user, and change status
//   - Everyone else sees only their own orders
//   - Another user's order is reported as not found, never as forbidden
package orderpolicy

import (
	"net/http"

	"github.com/dalemusser/menuhub/internal/app/system/authz"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope represents which orders a user may list.
type ListScope struct {
	// CanList is false only when nobody is signed in.
	CanList bool
	// UserID, when set, restricts the listing to that owner.
	UserID *primitive.ObjectID
}

// ListOrders narrows a listing request. requested is the user filter the
// caller supplied, if any; it is honored only for admins.
func ListOrders(r *http.Request, requested *primitive.ObjectID) ListScope {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return ListScope{CanList: false}
	}
	if role == models.RoleAdmin {
		return ListScope{CanList: true, UserID: requested}
	}
	return ListScope{CanList: true, UserID: &uid}
}

// CanViewOrder reports whether the current user may see o.
func CanViewOrder(r *http.Request, o *models.Order) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || o == nil {
		return false
	}
	return role == models.RoleAdmin || o.UserID == uid
}

// CanUpdateStatus reports whether the current user may change order status.
func CanUpdateStatus(r *http.Request) bool {
	return authz.IsAdmin(r)
}
