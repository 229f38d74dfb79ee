package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/http/handlers"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Professionals *handlers.ProfessionalsHandler
	Catalog       *handlers.CatalogHandler
	Reviews       *handlers.ReviewsHandler
	Reports       *handlers.ReportsHandler
	Requests      *handlers.RequestsHandler
	Conversations *handlers.ConversationsHandler
	Notifications *handlers.NotificationsHandler
	Support       *handlers.SupportHandler
	Moderator     *handlers.ModeratorHandler
	Admin         *handlers.AdminHandler
	ChatSocket    *realtime.ChatHandler

	AuthMiddleware *auth.AuthMiddleware
}

// registrar wraps route registration with a duplicate check. Registering the
// same method+path twice is a wiring bug; better a panic at startup than two
// handlers silently shadowing each other.
type registrar struct {
	app  *fiber.App
	seen map[string]struct{}
}

func newRegistrar(app *fiber.App) *registrar {
	return &registrar{app: app, seen: make(map[string]struct{})}
}

func (r *registrar) add(method, path string, handlers ...fiber.Handler) {
	key := method + " " + path
	if _, dup := r.seen[key]; dup {
		panic("duplicate route registration: " + key)
	}
	r.seen[key] = struct{}{}
	r.app.Add(method, path, handlers...)
}

// RegisterRoutes wires the full HTTP surface.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	r := newRegistrar(app)

	user := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser()}
	admin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser(), auth.RequireAdmin()}
	moderator := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireModerator()}

	r.add(fiber.MethodGet, "/health/live", cfg.Health.Live)
	r.add(fiber.MethodGet, "/health/ready", cfg.Health.Ready)

	// auth
	r.add(fiber.MethodPost, "/api/auth/register", cfg.Auth.Register)
	r.add(fiber.MethodPost, "/api/auth/login", cfg.Auth.Login)
	r.add(fiber.MethodPost, "/api/auth/logout", chain(user, cfg.Auth.Logout)...)
	r.add(fiber.MethodGet, "/api/auth/user", chain(user, cfg.Auth.CurrentUser)...)
	r.add(fiber.MethodPost, "/api/auth/request-password-reset", cfg.Auth.RequestPasswordReset)
	r.add(fiber.MethodPost, "/api/auth/verify-reset-code", cfg.Auth.VerifyResetCode)
	r.add(fiber.MethodGet, "/api/auth/verify-reset-token/:token", cfg.Auth.VerifyResetToken)
	r.add(fiber.MethodPost, "/api/auth/reset-password", cfg.Auth.ResetPassword)

	// public directory; /me must land before the :id wildcard
	r.add(fiber.MethodGet, "/api/professionals", cfg.Professionals.Search)
	r.add(fiber.MethodPut, "/api/professionals/me", chain(user, cfg.Professionals.UpdateOwn)...)
	r.add(fiber.MethodGet, "/api/professionals/:id", cfg.Professionals.Get)
	r.add(fiber.MethodGet, "/api/professionals/:id/services", cfg.Professionals.ListServices)
	r.add(fiber.MethodGet, "/api/professionals/:id/reviews", cfg.Professionals.ListReviews)
	r.add(fiber.MethodGet, "/api/professionals/:id/portfolio", cfg.Professionals.ListPortfolio)

	r.add(fiber.MethodGet, "/api/categories", cfg.Catalog.ListCategories)
	r.add(fiber.MethodGet, "/api/categories/:id/services", cfg.Catalog.ListCategoryServices)

	// professional-owned resources
	r.add(fiber.MethodPost, "/api/services", chain(user, cfg.Catalog.CreateService)...)
	r.add(fiber.MethodPut, "/api/services/:id", chain(user, cfg.Catalog.UpdateService)...)
	r.add(fiber.MethodDelete, "/api/services/:id", chain(user, cfg.Catalog.DeleteService)...)
	r.add(fiber.MethodPost, "/api/portfolio", chain(user, cfg.Professionals.AddPortfolio)...)
	r.add(fiber.MethodDelete, "/api/portfolio/:id", chain(user, cfg.Professionals.DeletePortfolio)...)
	r.add(fiber.MethodPost, "/api/verification-requests", chain(user, cfg.Professionals.SubmitVerification)...)

	// marketplace interactions
	r.add(fiber.MethodPost, "/api/reviews", chain(user, cfg.Reviews.Create)...)
	r.add(fiber.MethodPost, "/api/reports", chain(user, cfg.Reports.Create)...)
	r.add(fiber.MethodPost, "/api/service-requests", chain(user, cfg.Requests.Create)...)
	r.add(fiber.MethodGet, "/api/service-requests", chain(user, cfg.Requests.List)...)
	r.add(fiber.MethodPost, "/api/service-requests/:id/accept", chain(user, cfg.Requests.Accept)...)
	r.add(fiber.MethodPost, "/api/service-requests/:id/decline", chain(user, cfg.Requests.Decline)...)
	r.add(fiber.MethodPost, "/api/service-requests/:id/complete", chain(user, cfg.Requests.Complete)...)
	r.add(fiber.MethodPost, "/api/service-requests/:id/cancel", chain(user, cfg.Requests.Cancel)...)

	// chat
	r.add(fiber.MethodPost, "/api/conversations", chain(user, cfg.Conversations.Start)...)
	r.add(fiber.MethodGet, "/api/conversations", chain(user, cfg.Conversations.List)...)
	r.add(fiber.MethodGet, "/api/conversations/:id/messages", chain(user, cfg.Conversations.Messages)...)
	r.add(fiber.MethodPost, "/api/conversations/:id/messages", chain(user, cfg.Conversations.SendMessage)...)
	r.add(fiber.MethodPost, "/api/conversations/:id/read", chain(user, cfg.Conversations.MarkRead)...)

	// notifications
	r.add(fiber.MethodGet, "/api/notifications", chain(user, cfg.Notifications.List)...)
	r.add(fiber.MethodGet, "/api/notifications/unread-count", chain(user, cfg.Notifications.UnreadCount)...)
	r.add(fiber.MethodPost, "/api/notifications/read-all", chain(user, cfg.Notifications.MarkAllRead)...)
	r.add(fiber.MethodPost, "/api/notifications/:id/read", chain(user, cfg.Notifications.MarkRead)...)

	// support, user side
	r.add(fiber.MethodPost, "/api/support-chats", chain(user, cfg.Support.Open)...)
	r.add(fiber.MethodGet, "/api/support-chats", chain(user, cfg.Support.List)...)
	r.add(fiber.MethodGet, "/api/support-chats/:id/messages", chain(user, cfg.Support.Messages)...)
	r.add(fiber.MethodPost, "/api/support-chats/:id/messages", chain(user, cfg.Support.SendMessage)...)

	// moderator desk
	r.add(fiber.MethodPost, "/api/moderator/login", cfg.Moderator.Login)
	r.add(fiber.MethodGet, "/api/moderator/support-chats", chain(moderator, cfg.Moderator.ListChats)...)
	r.add(fiber.MethodGet, "/api/moderator/support-chats/:id/messages", chain(moderator, cfg.Moderator.Messages)...)
	r.add(fiber.MethodPost, "/api/moderator/support-chats/:id/assign", chain(moderator, cfg.Moderator.Assign)...)
	r.add(fiber.MethodPost, "/api/moderator/support-chats/:id/escalate", chain(moderator, cfg.Moderator.Escalate)...)
	r.add(fiber.MethodPost, "/api/moderator/support-chats/:id/close", chain(moderator, cfg.Moderator.Close)...)
	r.add(fiber.MethodPost, "/api/moderator/support-chats/:id/messages", chain(moderator, cfg.Moderator.SendMessage)...)

	// admin console
	r.add(fiber.MethodGet, "/api/admin/dashboard", chain(admin, cfg.Admin.Dashboard)...)
	r.add(fiber.MethodGet, "/api/admin/users", chain(admin, cfg.Admin.ListUsers)...)
	r.add(fiber.MethodGet, "/api/admin/professionals", chain(admin, cfg.Admin.ListProfessionals)...)
	r.add(fiber.MethodGet, "/api/admin/actions", chain(admin, cfg.Admin.ListActions)...)
	r.add(fiber.MethodGet, "/api/admin/reports", chain(admin, cfg.Admin.ListReports)...)
	r.add(fiber.MethodGet, "/api/admin/support-chats", chain(admin, cfg.Admin.ListSupportChats)...)
	r.add(fiber.MethodGet, "/api/admin/moderators", chain(admin, cfg.Admin.ListModerators)...)
	r.add(fiber.MethodGet, "/api/admin/verification-requests", chain(admin, cfg.Admin.ListVerifications)...)

	r.add(fiber.MethodPost, "/api/admin/ban-user", chain(admin, cfg.Admin.BanUser)...)
	r.add(fiber.MethodPost, "/api/admin/unban-user", chain(admin, cfg.Admin.UnbanUser)...)
	r.add(fiber.MethodPost, "/api/admin/suspend-user", chain(admin, cfg.Admin.SuspendUser)...)
	r.add(fiber.MethodPost, "/api/admin/remove-suspension", chain(admin, cfg.Admin.RemoveSuspension)...)
	r.add(fiber.MethodPost, "/api/admin/ban-professional", chain(admin, cfg.Admin.BanProfessional)...)
	r.add(fiber.MethodPost, "/api/admin/unban-professional", chain(admin, cfg.Admin.UnbanProfessional)...)
	r.add(fiber.MethodPost, "/api/admin/remove-professional-suspension", chain(admin, cfg.Admin.RemoveProfessionalSuspension)...)
	r.add(fiber.MethodPost, "/api/admin/verify-professional", chain(admin, cfg.Admin.VerifyProfessional)...)
	r.add(fiber.MethodPost, "/api/admin/toggle-premium", chain(admin, cfg.Admin.TogglePremium)...)
	r.add(fiber.MethodPost, "/api/admin/promote-admin", chain(admin, cfg.Admin.PromoteAdmin)...)
	r.add(fiber.MethodPost, "/api/admin/change-user-type", chain(admin, cfg.Admin.ChangeUserType)...)
	r.add(fiber.MethodPost, "/api/admin/update-rating", chain(admin, cfg.Admin.UpdateRating)...)
	r.add(fiber.MethodPost, "/api/admin/send-notification", chain(admin, cfg.Admin.SendNotification)...)
	r.add(fiber.MethodPost, "/api/admin/moderators", chain(admin, cfg.Admin.CreateModerator)...)
	r.add(fiber.MethodPost, "/api/admin/categories", chain(admin, cfg.Admin.CreateCategory)...)
	r.add(fiber.MethodPost, "/api/admin/support-chats/:id/intervene", chain(admin, cfg.Admin.Intervene)...)
	r.add(fiber.MethodPost, "/api/admin/support-chats/:id/messages", chain(admin, cfg.Admin.SendSupportMessage)...)
	r.add(fiber.MethodPost, "/api/admin/verification-requests/:id/approve", chain(admin, cfg.Admin.ApproveVerification)...)
	r.add(fiber.MethodPost, "/api/admin/verification-requests/:id/reject", chain(admin, cfg.Admin.RejectVerification)...)

	r.add(fiber.MethodPut, "/api/admin/reports/:id", chain(admin, cfg.Admin.UpdateReport)...)
	r.add(fiber.MethodPut, "/api/admin/users/:id", chain(admin, cfg.Admin.UpdateUser)...)
	r.add(fiber.MethodPut, "/api/admin/professionals/:id", chain(admin, cfg.Admin.UpdateProfessional)...)
	r.add(fiber.MethodPut, "/api/admin/moderators/:id", chain(admin, cfg.Admin.UpdateModerator)...)
	r.add(fiber.MethodPut, "/api/admin/services/:id", chain(admin, cfg.Admin.UpdateService)...)
	r.add(fiber.MethodDelete, "/api/admin/reviews/:id", chain(admin, cfg.Admin.DeleteReview)...)

	// websocket relay; identity is established in-band via join frames
	r.add(fiber.MethodGet, "/ws-chat", wsUpgrade, websocket.New(cfg.ChatSocket.Handle))
}

func chain(middlewares []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(middlewares)+1)
	out = append(out, middlewares...)
	return append(out, handler)
}

func wsUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
