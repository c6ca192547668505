package cart_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/features/cart"
	uierrors "github.com/dalemusser/menuhub/internal/app/features/errors"
	cartstore "github.com/dalemusser/menuhub/internal/app/store/carts"
	menuitemstore "github.com/dalemusser/menuhub/internal/app/store/menuitems"
	"github.com/dalemusser/menuhub/internal/app/system/indexes"
	"github.com/dalemusser/menuhub/internal/app/system/metrics"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/dalemusser/menuhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	h    *cart.Handler
	db   *mongo.Database
	fx   *testutil.Fixtures
	user testutil.TestUser
	m    *metrics.Metrics
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	logger := zap.NewNop()
	m := metrics.New()
	return env{
		h:    cart.NewHandler(db, m, uierrors.NewErrorLogger(logger), logger),
		db:   db,
		fx:   testutil.NewFixtures(t, db),
		user: testutil.CustomerUser(),
		m:    m,
	}
}

func (e env) do(t *testing.T, fn http.HandlerFunc, method, target string, body any, param string) (*httptest.ResponseRecorder, cart.View) {
	t.Helper()
	req := testutil.WithUser(testutil.NewJSONRequest(t, method, target, body), e.user)
	if param != "" {
		req = testutil.WithChiURLParam(req, "menuItemId", param)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	var v cart.View
	if rec.Code == http.StatusOK {
		testutil.DecodeJSON(t, rec, &v)
	}
	return rec, v
}

func TestServeCart_Empty(t *testing.T) {
	e := newEnv(t)

	rec, v := e.do(t, e.h.ServeCart, "GET", "/api/cart", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v.Cart == nil || len(v.Cart) != 0 || v.Subtotal != 0 {
		t.Errorf("got %+v, want empty cart", v)
	}
	if !strings.Contains(rec.Body.String(), `"cart":[]`) {
		t.Errorf("cart must serialize as an empty array: %s", rec.Body.String())
	}
}

func TestHandleAdd_AccumulatesAndSubtotal(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4.10)
	tea := e.fx.CreateMenuItem(ctx, "Tea", "Drinks", 1.10)

	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex()}, "")
	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 2}, "")
	rec, v := e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": tea.ID.Hex(), "quantity": 3}, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(v.Cart) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(v.Cart))
	}
	if v.Cart[0].MenuItemID != soup.ID || v.Cart[0].Quantity != 3 {
		t.Errorf("soup line = %+v", v.Cart[0])
	}
	if v.Cart[0].MenuItem == nil || v.Cart[0].MenuItem.Name != "Soup" {
		t.Errorf("soup line not joined: %+v", v.Cart[0])
	}
	// 3 x 4.10 + 3 x 1.10
	if v.Subtotal != 15.60 {
		t.Errorf("subtotal = %v, want 15.60", v.Subtotal)
	}
}

func TestHandleAdd_Errors(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4)
	hidden := e.fx.CreateMenuItemWith(ctx, models.MenuItem{Name: "Hidden", Description: "x", Category: "Mains", Price: 1})

	cases := []struct {
		name string
		body any
		want int
	}{
		{"zero quantity", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 0}, http.StatusBadRequest},
		{"negative quantity", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": -1}, http.StatusBadRequest},
		{"quantity over limit", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 1001}, http.StatusBadRequest},
		{"missing id", map[string]any{"quantity": 1}, http.StatusBadRequest},
		{"malformed id", map[string]any{"menuItemId": "nope"}, http.StatusBadRequest},
		{"unknown item", map[string]any{"menuItemId": "64b000000000000000000000"}, http.StatusNotFound},
		{"unavailable item", map[string]any{"menuItemId": hidden.ID.Hex()}, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec, _ := e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", tc.body, "")
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}

	if _, err := cartstore.New(e.db).Get(ctx, e.user.OID()); err != mongo.ErrNoDocuments {
		t.Errorf("failed adds must not create a cart, got err %v", err)
	}
}

func TestHandleAdd_LineQuantityCapped(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4)

	if rec, _ := e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 600}, ""); rec.Code != http.StatusOK {
		t.Fatalf("first add: expected 200, got %d", rec.Code)
	}
	rec, _ := e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 500}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("add past the cap: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	rec, _ = e.do(t, e.h.HandleUpdateQuantity, "POST", "/api/cart/items/"+soup.ID.Hex(), map[string]any{"quantity": 1001}, soup.ID.Hex())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update past the cap: expected 400, got %d", rec.Code)
	}
	rec, v := e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex(), "quantity": 400}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("add up to the cap: expected 200, got %d", rec.Code)
	}
	if len(v.Cart) != 1 || v.Cart[0].Quantity != models.MaxLineQuantity {
		t.Errorf("cart = %+v, want one line of %d", v.Cart, models.MaxLineQuantity)
	}
}

func TestHandleUpdateQuantityAndRemove(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4)
	id := soup.ID.Hex()

	if rec, _ := e.do(t, e.h.HandleUpdateQuantity, "POST", "/api/cart/items/"+id, map[string]any{"quantity": 2}, id); rec.Code != http.StatusNotFound {
		t.Errorf("update without cart: expected 404, got %d", rec.Code)
	}

	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": id}, "")

	rec, v := e.do(t, e.h.HandleUpdateQuantity, "POST", "/api/cart/items/"+id, map[string]any{"quantity": 5}, id)
	if rec.Code != http.StatusOK || v.Cart[0].Quantity != 5 {
		t.Fatalf("set quantity: code %d, cart %+v", rec.Code, v.Cart)
	}
	if rec, _ := e.do(t, e.h.HandleUpdateQuantity, "POST", "/api/cart/items/"+id, map[string]any{"quantity": 0}, id); rec.Code != http.StatusBadRequest {
		t.Errorf("quantity 0: expected 400, got %d", rec.Code)
	}

	rec, v = e.do(t, e.h.HandleRemove, "DELETE", "/api/cart/items/"+id, nil, id)
	if rec.Code != http.StatusOK || len(v.Cart) != 0 {
		t.Fatalf("remove: code %d, cart %+v", rec.Code, v.Cart)
	}
	if rec, _ := e.do(t, e.h.HandleRemove, "DELETE", "/api/cart/items/"+id, nil, id); rec.Code != http.StatusNotFound {
		t.Errorf("second remove: expected 404, got %d", rec.Code)
	}
}

func TestServeCart_DeletedItemIsNull(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4)
	tea := e.fx.CreateMenuItem(ctx, "Tea", "Drinks", 1)

	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex()}, "")
	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": tea.ID.Hex()}, "")
	if _, err := menuitemstore.New(e.db).Delete(ctx, soup.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, v := e.do(t, e.h.ServeCart, "GET", "/api/cart", nil, "")
	if len(v.Cart) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(v.Cart))
	}
	if v.Cart[0].MenuItem != nil {
		t.Errorf("deleted item should be null, got %+v", v.Cart[0].MenuItem)
	}
	if v.Subtotal != 1 {
		t.Errorf("subtotal = %v, want 1", v.Subtotal)
	}
}

func TestHandleClear_RecordsMetrics(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	soup := e.fx.CreateMenuItem(ctx, "Soup", "Starters", 4)

	e.do(t, e.h.HandleAdd, "POST", "/api/cart/items", map[string]any{"menuItemId": soup.ID.Hex()}, "")
	rec, v := e.do(t, e.h.HandleClear, "DELETE", "/api/cart", nil, "")
	if rec.Code != http.StatusOK || len(v.Cart) != 0 {
		t.Fatalf("clear: code %d, cart %+v", rec.Code, v.Cart)
	}

	scrape := httptest.NewRecorder()
	e.m.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	out := scrape.Body.String()
	for _, want := range []string{
		`menuhub_cart_mutations_total{op="add"} 1`,
		`menuhub_cart_mutations_total{op="clear"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServeCart_Unauthenticated(t *testing.T) {
	e := newEnv(t)

	rec := httptest.NewRecorder()
	e.h.ServeCart(rec, httptest.NewRequest("GET", "/api/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
