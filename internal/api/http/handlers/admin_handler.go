package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hazzlo/hazzlo-server/internal/api/dto"
	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/service"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// AdminHandler serves the admin console. Every mutation here is audit-logged
// by the service layer.
type AdminHandler struct {
	admin   *service.AdminService
	catalog *service.CatalogService
	support *service.SupportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, catalog *service.CatalogService, support *service.SupportService) *AdminHandler {
	return &AdminHandler{admin: admin, catalog: catalog, support: support}
}

// --- read side -------------------------------------------------------------

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.admin.GetDashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboard})
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListProfessionals GET /api/admin/professionals.
func (h *AdminHandler) ListProfessionals(c *fiber.Ctx) error {
	list, err := h.admin.ListProfessionals(c.UserContext(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// ListActions GET /api/admin/actions.
func (h *AdminHandler) ListActions(c *fiber.Ctx) error {
	list, err := h.admin.ListActions(c.UserContext(), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// ListReports GET /api/admin/reports.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	var status *domain.ReportStatus
	if v := c.Query("status"); v != "" {
		s := domain.ReportStatus(v)
		status = &s
	}
	list, err := h.admin.ListReports(c.UserContext(), status, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// ListSupportChats GET /api/admin/support-chats.
func (h *AdminHandler) ListSupportChats(c *fiber.Ctx) error {
	var status *domain.SupportChatStatus
	if v := c.Query("status"); v != "" {
		s := domain.SupportChatStatus(v)
		status = &s
	}
	list, err := h.admin.ListSupportChats(c.UserContext(), status, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// ListModerators GET /api/admin/moderators.
func (h *AdminHandler) ListModerators(c *fiber.Ctx) error {
	mods, err := h.admin.ListModerators(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]*dto.ModeratorResponse, 0, len(mods))
	for i := range mods {
		items = append(items, dto.NewModeratorResponse(&mods[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListVerifications GET /api/admin/verification-requests.
func (h *AdminHandler) ListVerifications(c *fiber.Ctx) error {
	var status *domain.VerificationStatus
	if v := c.Query("status"); v != "" {
		s := domain.VerificationStatus(v)
		status = &s
	}
	list, err := h.admin.ListVerifications(c.UserContext(), status, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// --- user moderation -------------------------------------------------------

// BanUser POST /api/admin/ban-user.
func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	adminID, req, err := targetUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.admin.BanUser(c.UserContext(), adminID, req.UserID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Usuario suspendido permanentemente",
		"data":    dto.NewUserResponse(user),
	})
}

// UnbanUser POST /api/admin/unban-user.
func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	adminID, req, err := targetUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.admin.UnbanUser(c.UserContext(), adminID, req.UserID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Usuario reactivado",
		"data":    dto.NewUserResponse(user),
	})
}

// SuspendUser POST /api/admin/suspend-user.
func (h *AdminHandler) SuspendUser(c *fiber.Ctx) error {
	adminID := adminID(c)
	var req dto.SuspendUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	user, err := h.admin.SuspendUser(c.UserContext(), adminID, req.UserID, req.Days, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Usuario suspendido temporalmente",
		"data":    dto.NewUserResponse(user),
	})
}

// RemoveSuspension POST /api/admin/remove-suspension.
func (h *AdminHandler) RemoveSuspension(c *fiber.Ctx) error {
	adminID, req, err := targetUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.admin.RemoveSuspension(c.UserContext(), adminID, req.UserID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Suspensión removida",
		"data":    dto.NewUserResponse(user),
	})
}

// PromoteAdmin POST /api/admin/promote-admin.
func (h *AdminHandler) PromoteAdmin(c *fiber.Ctx) error {
	adminID, req, err := targetUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.admin.PromoteAdmin(c.UserContext(), adminID, req.UserID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Usuario promovido a administrador",
		"data":    dto.NewUserResponse(user),
	})
}

// ChangeUserType POST /api/admin/change-user-type.
func (h *AdminHandler) ChangeUserType(c *fiber.Ctx) error {
	var req dto.ChangeUserTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	user, err := h.admin.ChangeUserType(c.UserContext(), adminID(c), req.UserID, req.UserType, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Tipo de cuenta actualizado",
		"data":    dto.NewUserResponse(user),
	})
}

// UpdateUser PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	user, err := h.admin.UpdateUser(c.UserContext(), adminID(c), c.Params("id"), service.AdminUserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Usuario actualizado", "data": dto.NewUserResponse(user)})
}

// --- professional moderation ----------------------------------------------

// BanProfessional POST /api/admin/ban-professional.
func (h *AdminHandler) BanProfessional(c *fiber.Ctx) error {
	adminID, req, err := targetProfessionalRequest(c)
	if err != nil {
		return err
	}
	prof, err := h.admin.BanProfessional(c.UserContext(), adminID, req.ProfessionalID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Profesional suspendido permanentemente", "data": prof})
}

// UnbanProfessional POST /api/admin/unban-professional.
func (h *AdminHandler) UnbanProfessional(c *fiber.Ctx) error {
	adminID, req, err := targetProfessionalRequest(c)
	if err != nil {
		return err
	}
	prof, err := h.admin.UnbanProfessional(c.UserContext(), adminID, req.ProfessionalID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Profesional reactivado", "data": prof})
}

// RemoveProfessionalSuspension POST /api/admin/remove-professional-suspension.
func (h *AdminHandler) RemoveProfessionalSuspension(c *fiber.Ctx) error {
	adminID, req, err := targetProfessionalRequest(c)
	if err != nil {
		return err
	}
	prof, err := h.admin.RemoveProfessionalSuspension(c.UserContext(), adminID, req.ProfessionalID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Suspensión removida", "data": prof})
}

// VerifyProfessional POST /api/admin/verify-professional.
func (h *AdminHandler) VerifyProfessional(c *fiber.Ctx) error {
	adminID, req, err := targetProfessionalRequest(c)
	if err != nil {
		return err
	}
	prof, err := h.admin.VerifyProfessional(c.UserContext(), adminID, req.ProfessionalID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Profesional verificado", "data": prof})
}

// TogglePremium POST /api/admin/toggle-premium.
func (h *AdminHandler) TogglePremium(c *fiber.Ctx) error {
	adminID, req, err := targetProfessionalRequest(c)
	if err != nil {
		return err
	}
	prof, err := h.admin.TogglePremium(c.UserContext(), adminID, req.ProfessionalID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Estado premium actualizado", "data": prof})
}

// UpdateRating POST /api/admin/update-rating.
func (h *AdminHandler) UpdateRating(c *fiber.Ctx) error {
	var req dto.UpdateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	prof, err := h.admin.UpdateRating(c.UserContext(), adminID(c), req.ProfessionalID, req.Rating, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Calificación actualizada", "data": prof})
}

// UpdateProfessional PUT /api/admin/professionals/:id.
func (h *AdminHandler) UpdateProfessional(c *fiber.Ctx) error {
	var req dto.AdminUpdateProfessionalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	prof, err := h.admin.UpdateProfessional(c.UserContext(), adminID(c), c.Params("id"), service.AdminProfessionalUpdate{
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Location:     req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Profesional actualizado", "data": prof})
}

// --- notifications, reports, reviews --------------------------------------

// SendNotification POST /api/admin/send-notification.
func (h *AdminHandler) SendNotification(c *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	count, err := h.admin.SendNotification(c.UserContext(), adminID(c), service.DispatchInput{
		Target: service.DispatchTarget{
			UserID:   req.TargetUserID,
			Email:    req.TargetEmail,
			UserType: req.TargetUserType,
			All:      req.SendToAll,
		},
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Metadata:  req.Metadata,
		ActionURL: req.ActionURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Notificación enviada",
		"data":    fiber.Map{"recipients": count},
	})
}

// UpdateReport PUT /api/admin/reports/:id.
func (h *AdminHandler) UpdateReport(c *fiber.Ctx) error {
	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	report, err := h.admin.UpdateReport(c.UserContext(), adminID(c), c.Params("id"), req.Status, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Reporte actualizado", "data": report})
}

// DeleteReview DELETE /api/admin/reviews/:id.
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	var req dto.DeleteReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	if err := h.admin.DeleteReview(c.UserContext(), adminID(c), c.Params("id"), req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Reseña eliminada"})
}

// --- verification requests -------------------------------------------------

// ApproveVerification POST /api/admin/verification-requests/:id/approve.
func (h *AdminHandler) ApproveVerification(c *fiber.Ctx) error {
	return h.resolveVerification(c, true, "Solicitud de verificación aprobada")
}

// RejectVerification POST /api/admin/verification-requests/:id/reject.
func (h *AdminHandler) RejectVerification(c *fiber.Ctx) error {
	return h.resolveVerification(c, false, "Solicitud de verificación rechazada")
}

func (h *AdminHandler) resolveVerification(c *fiber.Ctx, approve bool, message string) error {
	var req dto.ResolveVerificationRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	verification, err := h.admin.ResolveVerification(c.UserContext(), adminID(c), c.Params("id"), approve, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": message, "data": verification})
}

// --- moderators and support ------------------------------------------------

// CreateModerator POST /api/admin/moderators.
func (h *AdminHandler) CreateModerator(c *fiber.Ctx) error {
	var req dto.CreateModeratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	mod, err := h.admin.CreateModerator(c.UserContext(), adminID(c), service.ModeratorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Moderador creado",
		"data":    dto.NewModeratorResponse(mod),
	})
}

// UpdateModerator PUT /api/admin/moderators/:id.
func (h *AdminHandler) UpdateModerator(c *fiber.Ctx) error {
	var req dto.UpdateModeratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	mod, err := h.admin.UpdateModerator(c.UserContext(), adminID(c), c.Params("id"),
		req.Name, req.Email, req.Password, req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Moderador actualizado", "data": dto.NewModeratorResponse(mod)})
}

// Intervene POST /api/admin/support-chats/:id/intervene.
func (h *AdminHandler) Intervene(c *fiber.Ctx) error {
	chat, err := h.admin.InterveneSupportChat(c.UserContext(), adminID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Intervención registrada", "data": chat})
}

// SendSupportMessage POST /api/admin/support-chats/:id/messages.
func (h *AdminHandler) SendSupportMessage(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	msg, err := h.support.PostMessage(c.UserContext(), c.Params("id"),
		domain.SupportSenderAdmin, adminID(c), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": msg})
}

// CreateCategory POST /api/admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Solicitud inválida", nil)
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), req.Name, req.Icon)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Categoría creada",
		"data":    category,
	})
}

// UpdateService PUT /api/admin/services/:id. Unlike the owner-scoped route,
// this edits any professional's offering.
func (h *AdminHandler) UpdateService(c *fiber.Ctx) error {
	req, err := parseServiceRequest(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.AdminUpdateService(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Servicio actualizado",
		"data":    svc,
	})
}

// --- helpers ---------------------------------------------------------------

func adminID(c *fiber.Ctx) string {
	principal, _ := auth.PrincipalFromContext(c)
	return principal.User.ID
}

func targetUserRequest(c *fiber.Ctx) (string, dto.TargetUserRequest, error) {
	var req dto.TargetUserRequest
	if err := c.BodyParser(&req); err != nil {
		return "", req, apperrors.NewValidationError("Solicitud inválida", nil)
	}
	return adminID(c), req, nil
}

func targetProfessionalRequest(c *fiber.Ctx) (string, dto.TargetProfessionalRequest, error) {
	var req dto.TargetProfessionalRequest
	if err := c.BodyParser(&req); err != nil {
		return "", req, apperrors.NewValidationError("Solicitud inválida", nil)
	}
	return adminID(c), req, nil
}
