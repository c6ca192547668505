package menupolicy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/policy/menupolicy"
	"github.com/dalemusser/menuhub/internal/app/system/auth"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(role string) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	if role == "" {
		return r
	}
	return auth.WithTestUser(r, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: role})
}

func TestCanView(t *testing.T) {
	available := &models.MenuItem{Available: true}
	hidden := &models.MenuItem{Available: false}

	tests := []struct {
		role       string
		seesHidden bool
	}{
		{"", false},
		{models.RoleUser, false},
		{models.RoleModerator, true},
		{models.RoleAdmin, true},
	}
	for _, tt := range tests {
		r := requestAs(tt.role)
		if !menupolicy.CanView(r, available) {
			t.Errorf("role %q must see available items", tt.role)
		}
		if got := menupolicy.CanView(r, hidden); got != tt.seesHidden {
			t.Errorf("role %q CanView(hidden) = %v, want %v", tt.role, got, tt.seesHidden)
		}
		if got := menupolicy.CanManage(r); got != tt.seesHidden {
			t.Errorf("role %q CanManage = %v, want %v", tt.role, got, tt.seesHidden)
		}
	}
}
