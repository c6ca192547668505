// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/menuhub/internal/app/store/audit"
	"github.com/dalemusser/menuhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration, one setting per category.
type Config struct {
	// Auth covers login, logout and registration.
	Auth string
	// Admin covers moderator creation and menu changes.
	Admin string
	// Orders covers order placement and status changes.
	Orders string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// IsValidSetting reports whether s is a recognized destination setting.
func IsValidSetting(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryAdmin:
		s = l.config.Admin
	case audit.CategoryOrders:
		s = l.config.Orders
	}
	if s == "" {
		return All
	}
	return s
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers and tests can run without auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) fromRequest(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := l.fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	e := l.fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	e.Success = false
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": attemptedEmail}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a login with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := l.fromRequest(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	e.UserID = &userID
	e.Success = false
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// Logout logs a sign-out. userIDStr comes from the session user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	e := l.fromRequest(r, audit.CategoryAuth, audit.EventLogout)
	e.UserID = oidPtr(userIDStr)
	l.Log(ctx, e)
}

// UserRegistered logs a self-service registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := l.fromRequest(r, audit.CategoryAuth, audit.EventUserRegistered)
	e.UserID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// --- Admin Events ---

// ModeratorCreated logs an admin creating a moderator account.
func (l *Logger) ModeratorCreated(ctx context.Context, r *http.Request, actorID, moderatorID primitive.ObjectID, email string) {
	e := l.fromRequest(r, audit.CategoryAdmin, audit.EventModeratorCreated)
	e.UserID = &moderatorID
	e.ActorID = &actorID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

func (l *Logger) menuItemEvent(ctx context.Context, r *http.Request, eventType string, actorID, itemID primitive.ObjectID, actorRole, itemName string, extra map[string]string) {
	e := l.fromRequest(r, audit.CategoryAdmin, eventType)
	e.ActorID = &actorID
	e.Details = map[string]string{
		"actor_role":   actorRole,
		"menu_item_id": itemID.Hex(),
		"name":         itemName,
	}
	for k, v := range extra {
		e.Details[k] = v
	}
	l.Log(ctx, e)
}

// MenuItemCreated logs a new menu item.
func (l *Logger) MenuItemCreated(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, actorRole, itemName string) {
	l.menuItemEvent(ctx, r, audit.EventMenuItemCreated, actorID, itemID, actorRole, itemName, nil)
}

// MenuItemUpdated logs an edit; fieldsChanged is a comma-separated list.
func (l *Logger) MenuItemUpdated(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, actorRole, itemName, fieldsChanged string) {
	l.menuItemEvent(ctx, r, audit.EventMenuItemUpdated, actorID, itemID, actorRole, itemName,
		map[string]string{"fields_changed": fieldsChanged})
}

// MenuItemDeleted logs a deleted menu item.
func (l *Logger) MenuItemDeleted(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, actorRole, itemName string) {
	l.menuItemEvent(ctx, r, audit.EventMenuItemDeleted, actorID, itemID, actorRole, itemName, nil)
}

// --- Order Events ---

// OrderPlaced logs a new order.
func (l *Logger) OrderPlaced(ctx context.Context, r *http.Request, userID, orderID primitive.ObjectID, lines int, total float64) {
	e := l.fromRequest(r, audit.CategoryOrders, audit.EventOrderPlaced)
	e.UserID = &userID
	e.ActorID = &userID
	e.Details = map[string]string{
		"order_id":     orderID.Hex(),
		"lines":        strconv.Itoa(lines),
		"total_amount": strconv.FormatFloat(total, 'f', 2, 64),
	}
	l.Log(ctx, e)
}

// OrderStatusChanged logs an admin moving an order between statuses.
func (l *Logger) OrderStatusChanged(ctx context.Context, r *http.Request, actorID, ownerID, orderID primitive.ObjectID, from, to string) {
	e := l.fromRequest(r, audit.CategoryOrders, audit.EventOrderStatusChanged)
	e.UserID = &ownerID
	e.ActorID = &actorID
	e.Details = map[string]string{
		"order_id": orderID.Hex(),
		"from":     from,
		"to":       to,
	}
	l.Log(ctx, e)
}
