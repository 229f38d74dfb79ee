package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/auth"
	"github.com/hazzlo/hazzlo-server/internal/config"
	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/observability"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// Dashboard aggregates the admin console's headline numbers.
type Dashboard struct {
	Users            int64   `json:"users"`
	Professionals    int64   `json:"professionals"`
	PendingReports   int64   `json:"pendingReports"`
	OpenSupportChats int64   `json:"openSupportChats"`
	RequestsServed   int64   `json:"requestsServed"`
	RequestErrors    int64   `json:"requestErrors"`
	Uptime           float64 `json:"uptimeSeconds"`
}

// ModeratorInput carries moderator account fields.
type ModeratorInput struct {
	Name     string
	Email    string
	Password string
}

// AdminUserUpdate is the typed user edit surface.
type AdminUserUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

// AdminProfessionalUpdate is the typed professional edit surface.
type AdminProfessionalUpdate struct {
	BusinessName *string
	Description  *string
	Location     *string
}

// AdminService implements every privileged mutation. Each operation runs its
// state change, its audit row and (where applicable) the target's
// notification row in one transaction; live pushes happen only after commit.
type AdminService struct {
	tx            TxRunner
	users         repository.UserRepository
	professionals repository.ProfessionalRepository
	reviews       repository.ReviewRepository
	reports       repository.ReportRepository
	moderators    repository.ModeratorRepository
	verifications repository.VerificationRepository
	actions       repository.AdminActionRepository
	notifications repository.NotificationRepository
	support       repository.SupportRepository

	notifier   *NotificationService
	supportSvc *SupportService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	authCfg    config.AuthConfig
	logger     *zap.Logger
	startedAt  time.Time
}

// NewAdminService constructs the service.
func NewAdminService(
	tx TxRunner,
	users repository.UserRepository,
	professionals repository.ProfessionalRepository,
	reviews repository.ReviewRepository,
	reports repository.ReportRepository,
	moderators repository.ModeratorRepository,
	verifications repository.VerificationRepository,
	actions repository.AdminActionRepository,
	notifications repository.NotificationRepository,
	support repository.SupportRepository,
	notifier *NotificationService,
	supportSvc *SupportService,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		tx:            tx,
		users:         users,
		professionals: professionals,
		reviews:       reviews,
		reports:       reports,
		moderators:    moderators,
		verifications: verifications,
		actions:       actions,
		notifications: notifications,
		support:       support,
		notifier:      notifier,
		supportSvc:    supportSvc,
		dispatcher:    dispatcher,
		metrics:       metrics,
		authCfg:       authCfg,
		logger:        logger,
		startedAt:     time.Now(),
	}
}

// --- user moderation -------------------------------------------------------

// BanUser flags the account permanently.
func (s *AdminService) BanUser(ctx context.Context, adminID, userID, reason string) (*domain.User, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	return s.moderateUser(ctx, adminID, userID, domain.ActionBanUser, reason, nil,
		func(u *domain.User) {
			u.IsBanned = true
			u.SuspensionReason = &reason
		},
		&domain.Notification{
			Title:    "Cuenta Suspendida Permanentemente",
			Message:  "Tu cuenta ha sido suspendida permanentemente. Motivo: " + reason,
			Type:     domain.NotificationTypeAdmin,
			Metadata: map[string]any{"suspensionType": "permanent", "reason": reason},
		},
		events.EventUserBanned,
	)
}

// UnbanUser lifts a permanent ban.
func (s *AdminService) UnbanUser(ctx context.Context, adminID, userID, reason string) (*domain.User, error) {
	return s.moderateUser(ctx, adminID, userID, domain.ActionUnbanUser, strings.TrimSpace(reason), nil,
		func(u *domain.User) {
			u.IsBanned = false
			u.SuspensionReason = nil
		},
		&domain.Notification{
			Title:   "Cuenta Reactivada",
			Message: "Tu cuenta ha sido reactivada. Ya puedes volver a usar Hazzlo.",
			Type:    domain.NotificationTypeAdmin,
		},
		events.EventUserUnbanned,
	)
}

// SuspendUser applies a temporary suspension of the given length.
func (s *AdminService) SuspendUser(ctx context.Context, adminID, userID string, days int, reason string) (*domain.User, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, apperrors.NewValidationError("La duración debe ser mayor a cero días", nil)
	}
	reason = strings.TrimSpace(reason)
	until := time.Now().AddDate(0, 0, days)
	return s.moderateUser(ctx, adminID, userID, domain.ActionSuspendUser, reason,
		map[string]any{"days": days, "suspendedUntil": until},
		func(u *domain.User) {
			u.SuspendedUntil = &until
			u.SuspensionReason = &reason
		},
		&domain.Notification{
			Title:   "Cuenta Suspendida",
			Message: fmt.Sprintf("Tu cuenta ha sido suspendida por %d días. Motivo: %s", days, reason),
			Type:    domain.NotificationTypeAdmin,
			Metadata: map[string]any{
				"suspensionType": "temporary",
				"suspendedUntil": until,
				"reason":         reason,
			},
		},
		events.EventUserSuspended,
	)
}

// RemoveSuspension clears a temporary suspension. A permanent ban stays.
func (s *AdminService) RemoveSuspension(ctx context.Context, adminID, userID, reason string) (*domain.User, error) {
	return s.moderateUser(ctx, adminID, userID, domain.ActionRemoveSuspension, strings.TrimSpace(reason), nil,
		func(u *domain.User) {
			u.SuspendedUntil = nil
			u.SuspensionReason = nil
		},
		&domain.Notification{
			Title:   "Suspensión Removida",
			Message: "La suspensión de tu cuenta ha sido removida.",
			Type:    domain.NotificationTypeAdmin,
		},
		events.EventSuspensionRemoved,
	)
}

// PromoteAdmin grants the admin flag.
func (s *AdminService) PromoteAdmin(ctx context.Context, adminID, userID, reason string) (*domain.User, error) {
	return s.moderateUser(ctx, adminID, userID, domain.ActionPromoteAdmin, strings.TrimSpace(reason), nil,
		func(u *domain.User) { u.IsAdmin = true },
		&domain.Notification{
			Title:   "Permisos de Administrador",
			Message: "Tu cuenta ahora tiene permisos de administrador.",
			Type:    domain.NotificationTypeAdmin,
		},
		"",
	)
}

// ChangeUserType switches an account between client and professional. Moving
// to professional creates the business profile when missing.
func (s *AdminService) ChangeUserType(ctx context.Context, adminID, userID string, newType domain.UserType, reason string) (*domain.User, error) {
	if newType != domain.UserTypeClient && newType != domain.UserTypeProfessional {
		return nil, apperrors.NewValidationError("Tipo de cuenta inválido", nil)
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldType := user.UserType

	updated, err := s.moderateUser(ctx, adminID, userID, domain.ActionChangeUserType, strings.TrimSpace(reason),
		map[string]any{"from": oldType, "to": newType},
		func(u *domain.User) { u.UserType = newType },
		&domain.Notification{
			Title:   "Tipo de Cuenta Actualizado",
			Message: "El tipo de tu cuenta ha sido actualizado por un administrador.",
			Type:    domain.NotificationTypeAdmin,
		},
		"",
	)
	if err != nil {
		return nil, err
	}

	if newType == domain.UserTypeProfessional {
		if _, err := s.professionals.GetByUserID(ctx, userID); err == pgx.ErrNoRows {
			prof := &domain.Professional{UserID: userID, BusinessName: updated.FullName()}
			if err := s.professionals.Create(ctx, prof); err != nil {
				return nil, apperrors.MapError(err)
			}
		} else if err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return updated, nil
}

// UpdateUser is the typed admin edit of account fields.
func (s *AdminService) UpdateUser(ctx context.Context, adminID, userID string, input AdminUserUpdate) (*domain.User, error) {
	details := map[string]any{}
	mutate := func(u *domain.User) {
		if input.FirstName != nil {
			u.FirstName = strings.TrimSpace(*input.FirstName)
			details["firstName"] = u.FirstName
		}
		if input.LastName != nil {
			u.LastName = strings.TrimSpace(*input.LastName)
			details["lastName"] = u.LastName
		}
		if input.Phone != nil {
			u.Phone = input.Phone
			details["phone"] = *input.Phone
		}
		if input.Email != nil {
			u.Email = strings.TrimSpace(strings.ToLower(*input.Email))
			details["email"] = u.Email
		}
	}
	return s.moderateUser(ctx, adminID, userID, domain.ActionUpdateUser, "", details, mutate, nil, "")
}

// moderateUser loads the target, applies the mutation and commits it together
// with the audit row and the target's notification row. The push and the
// domain event go out only after the transaction commits.
func (s *AdminService) moderateUser(
	ctx context.Context,
	adminID, userID string,
	action domain.AdminActionType,
	reason string,
	details map[string]any,
	mutate func(*domain.User),
	notification *domain.Notification,
	eventType events.EventType,
) (*domain.User, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	mutate(user)

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.users.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		if err := s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetUser,
			TargetID:   userID,
			Action:     action,
			Reason:     reason,
			Details:    details,
		}); err != nil {
			return err
		}
		if notification != nil {
			notification.UserID = userID
			return s.notifications.WithTx(tx).Create(ctx, notification)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if notification != nil {
		s.notifier.Push(notification)
	}
	if eventType != "" {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:  eventType,
			Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &adminID},
			Payload: events.UserModeratedPayload{
				UserID:         userID,
				Action:         string(action),
				Reason:         reason,
				SuspendedUntil: user.SuspendedUntil,
			},
		})
	}

	s.logger.Info("admin action",
		zap.String("action", string(action)),
		zap.String("admin_id", adminID),
		zap.String("target_id", userID))
	return user, nil
}

// --- professional moderation ----------------------------------------------

// BanProfessional hides a profile permanently.
func (s *AdminService) BanProfessional(ctx context.Context, adminID, professionalID, reason string) (*domain.Professional, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	return s.moderateProfessional(ctx, adminID, professionalID, domain.ActionBanProfessional, reason, nil,
		func(p *domain.Professional) {
			p.IsBanned = true
			p.SuspensionReason = &reason
		},
		&domain.Notification{
			Title:    "Perfil Suspendido Permanentemente",
			Message:  "Tu perfil profesional ha sido suspendido permanentemente. Motivo: " + reason,
			Type:     domain.NotificationTypeAdmin,
			Metadata: map[string]any{"suspensionType": "permanent", "reason": reason},
		},
	)
}

// UnbanProfessional restores a banned profile.
func (s *AdminService) UnbanProfessional(ctx context.Context, adminID, professionalID, reason string) (*domain.Professional, error) {
	return s.moderateProfessional(ctx, adminID, professionalID, domain.ActionUnbanProfessional, strings.TrimSpace(reason), nil,
		func(p *domain.Professional) {
			p.IsBanned = false
			p.SuspensionReason = nil
		},
		&domain.Notification{
			Title:   "Perfil Reactivado",
			Message: "Tu perfil profesional ha sido reactivado.",
			Type:    domain.NotificationTypeAdmin,
		},
	)
}

// RemoveProfessionalSuspension clears a profile's temporary suspension.
func (s *AdminService) RemoveProfessionalSuspension(ctx context.Context, adminID, professionalID, reason string) (*domain.Professional, error) {
	return s.moderateProfessional(ctx, adminID, professionalID, domain.ActionRemoveProfSuspension, strings.TrimSpace(reason), nil,
		func(p *domain.Professional) {
			p.SuspendedUntil = nil
			p.SuspensionReason = nil
		},
		&domain.Notification{
			Title:   "Suspensión Removida",
			Message: "La suspensión de tu perfil profesional ha sido removida.",
			Type:    domain.NotificationTypeAdmin,
		},
	)
}

// VerifyProfessional grants the verified badge directly.
func (s *AdminService) VerifyProfessional(ctx context.Context, adminID, professionalID, reason string) (*domain.Professional, error) {
	prof, err := s.moderateProfessional(ctx, adminID, professionalID, domain.ActionVerifyProfessional, strings.TrimSpace(reason), nil,
		func(p *domain.Professional) { p.IsVerified = true },
		&domain.Notification{
			Title:   "Perfil Verificado",
			Message: "¡Felicidades! Tu perfil profesional ha sido verificado.",
			Type:    domain.NotificationTypeAdmin,
		},
	)
	if err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:    events.EventProfessionalVerified,
		Actor:   events.Actor{Type: domain.SubjectTypeUser, UserID: &adminID},
		Payload: events.ReviewPayload{ProfessionalID: professionalID, RecipientUserID: prof.UserID},
	})
	return prof, nil
}

// TogglePremium flips the premium flag. Applying it twice restores the
// original state.
func (s *AdminService) TogglePremium(ctx context.Context, adminID, professionalID, reason string) (*domain.Professional, error) {
	var enabled bool
	prof, err := s.moderateProfessionalWithDetails(ctx, adminID, professionalID, domain.ActionTogglePremium, strings.TrimSpace(reason),
		func(p *domain.Professional) map[string]any {
			p.IsPremium = !p.IsPremium
			enabled = p.IsPremium
			return map[string]any{"premium": p.IsPremium}
		},
	)
	if err != nil {
		return nil, err
	}

	message := "Tu suscripción Hazzlo Premium ha sido desactivada."
	if enabled {
		message = "Tu perfil ahora cuenta con Hazzlo Premium."
	}
	s.notifyAfterCommit(ctx, prof.UserID, &domain.Notification{
		Title:   "Hazzlo Premium",
		Message: message,
		Type:    domain.NotificationTypeAdmin,
	})
	return prof, nil
}

// UpdateRating overrides the displayed rating by hand. The next review write
// recomputes the true average over the rows.
func (s *AdminService) UpdateRating(ctx context.Context, adminID, professionalID string, rating float64, reason string) (*domain.Professional, error) {
	if rating < 0 || rating > 5 {
		return nil, apperrors.NewValidationError("La calificación debe estar entre 0 y 5", nil)
	}
	prof, err := s.professional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	previous := prof.Rating

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.professionals.WithTx(tx).UpdateAggregate(ctx, professionalID, rating, prof.ReviewCount); err != nil {
			return err
		}
		return s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetProfessional,
			TargetID:   professionalID,
			Action:     domain.ActionUpdateRating,
			Reason:     strings.TrimSpace(reason),
			Details:    map[string]any{"previous": previous, "rating": rating, "manual": true},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	prof.Rating = rating
	return prof, nil
}

// UpdateProfessional is the typed admin edit of profile fields.
func (s *AdminService) UpdateProfessional(ctx context.Context, adminID, professionalID string, input AdminProfessionalUpdate) (*domain.Professional, error) {
	return s.moderateProfessionalWithDetails(ctx, adminID, professionalID, domain.ActionUpdateProfessional, "",
		func(p *domain.Professional) map[string]any {
			details := map[string]any{}
			if input.BusinessName != nil {
				p.BusinessName = strings.TrimSpace(*input.BusinessName)
				details["businessName"] = p.BusinessName
			}
			if input.Description != nil {
				p.Description = input.Description
				details["description"] = *input.Description
			}
			if input.Location != nil {
				p.Location = input.Location
				details["location"] = *input.Location
			}
			return details
		},
	)
}

func (s *AdminService) moderateProfessional(
	ctx context.Context,
	adminID, professionalID string,
	action domain.AdminActionType,
	reason string,
	details map[string]any,
	mutate func(*domain.Professional),
	notification *domain.Notification,
) (*domain.Professional, error) {
	prof, err := s.professional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	mutate(prof)

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.professionals.WithTx(tx).Update(ctx, prof); err != nil {
			return err
		}
		if err := s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetProfessional,
			TargetID:   professionalID,
			Action:     action,
			Reason:     reason,
			Details:    details,
		}); err != nil {
			return err
		}
		if notification != nil {
			notification.UserID = prof.UserID
			return s.notifications.WithTx(tx).Create(ctx, notification)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if notification != nil {
		s.notifier.Push(notification)
	}
	s.logger.Info("admin action",
		zap.String("action", string(action)),
		zap.String("admin_id", adminID),
		zap.String("target_id", professionalID))
	return prof, nil
}

func (s *AdminService) moderateProfessionalWithDetails(
	ctx context.Context,
	adminID, professionalID string,
	action domain.AdminActionType,
	reason string,
	mutate func(*domain.Professional) map[string]any,
) (*domain.Professional, error) {
	prof, err := s.professional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	details := mutate(prof)

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.professionals.WithTx(tx).Update(ctx, prof); err != nil {
			return err
		}
		return s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetProfessional,
			TargetID:   professionalID,
			Action:     action,
			Reason:     reason,
			Details:    details,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("admin action",
		zap.String("action", string(action)),
		zap.String("admin_id", adminID),
		zap.String("target_id", professionalID))
	return prof, nil
}

// --- notifications ---------------------------------------------------------

// SendNotification fans a notification out via the dispatcher and records the
// batch in the audit log.
func (s *AdminService) SendNotification(ctx context.Context, adminID string, input DispatchInput) (int, error) {
	count, err := s.notifier.Dispatch(ctx, input)
	if err != nil {
		return 0, err
	}
	if err := s.actions.Create(ctx, &domain.AdminAction{
		AdminID:    adminID,
		TargetType: domain.TargetSystem,
		TargetID:   "notifications",
		Action:     domain.ActionSendNotification,
		Details:    map[string]any{"recipients": count, "title": input.Title},
	}); err != nil {
		return count, apperrors.MapError(err)
	}
	return count, nil
}

// --- reports and reviews ---------------------------------------------------

// UpdateReport moves a report through the moderation workflow; resolving one
// notifies the reporter.
func (s *AdminService) UpdateReport(ctx context.Context, adminID, reportID string, status domain.ReportStatus, resolution *string) (*domain.Report, error) {
	switch status {
	case domain.ReportStatusPending, domain.ReportStatusInvestigating, domain.ReportStatusResolved:
	default:
		return nil, apperrors.NewValidationError("Estado de reporte inválido", nil)
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Reporte no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	oldStatus := report.Status
	report.Status = status
	if resolution != nil {
		report.Resolution = resolution
	}

	var notification *domain.Notification
	if status == domain.ReportStatusResolved && oldStatus != domain.ReportStatusResolved {
		notification = &domain.Notification{
			UserID:  report.ReporterID,
			Title:   "Reporte Resuelto",
			Message: "Tu reporte ha sido revisado y resuelto. Gracias por ayudarnos a mantener Hazzlo seguro.",
			Type:    domain.NotificationTypeSystem,
		}
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.reports.WithTx(tx).Update(ctx, report); err != nil {
			return err
		}
		if err := s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetReport,
			TargetID:   reportID,
			Action:     domain.ActionUpdateReport,
			Details:    map[string]any{"from": oldStatus, "to": status},
		}); err != nil {
			return err
		}
		if notification != nil {
			return s.notifications.WithTx(tx).Create(ctx, notification)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if notification != nil {
		s.notifier.Push(notification)
	}
	return report, nil
}

// DeleteReview removes a review and recomputes the professional's aggregate
// in the same transaction.
func (s *AdminService) DeleteReview(ctx context.Context, adminID, reviewID, reason string) error {
	if err := requireReason(reason); err != nil {
		return err
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("Reseña no encontrada")
		}
		return apperrors.MapError(err)
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		reviews := s.reviews.WithTx(tx)
		if err := reviews.Delete(ctx, reviewID); err != nil {
			return err
		}
		avg, count, err := reviews.Aggregate(ctx, review.ProfessionalID)
		if err != nil {
			return err
		}
		if err := s.professionals.WithTx(tx).UpdateAggregate(ctx, review.ProfessionalID, avg, count); err != nil {
			return err
		}
		return s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetReview,
			TargetID:   reviewID,
			Action:     domain.ActionDeleteReview,
			Reason:     strings.TrimSpace(reason),
			Details:    map[string]any{"professionalId": review.ProfessionalID},
		})
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventReviewDeleted,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &adminID},
		Payload: events.ReviewPayload{
			ReviewID:       reviewID,
			ProfessionalID: review.ProfessionalID,
		},
	})
	return nil
}

// --- verification requests -------------------------------------------------

// ResolveVerification approves or rejects a badge application. Approval flips
// the profile's verified flag in the same transaction.
func (s *AdminService) ResolveVerification(ctx context.Context, adminID, requestID string, approve bool, notes *string) (*domain.VerificationRequest, error) {
	req, err := s.verifications.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Solicitud de verificación no encontrada")
		}
		return nil, apperrors.MapError(err)
	}
	if req.Status != domain.VerificationPending {
		return nil, apperrors.NewConflict("La solicitud ya fue resuelta", nil)
	}

	prof, err := s.professional(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	action := domain.ActionRejectVerification
	req.Status = domain.VerificationRejected
	if approve {
		action = domain.ActionApproveVerification
		req.Status = domain.VerificationApproved
	}
	req.ReviewedBy = &adminID
	if notes != nil {
		req.Notes = notes
	}

	var notification *domain.Notification
	if approve {
		notification = &domain.Notification{
			UserID:  prof.UserID,
			Title:   "Perfil Verificado",
			Message: "¡Felicidades! Tu solicitud de verificación fue aprobada.",
			Type:    domain.NotificationTypeAdmin,
		}
	} else {
		notification = &domain.Notification{
			UserID:  prof.UserID,
			Title:   "Verificación Rechazada",
			Message: "Tu solicitud de verificación fue rechazada. Puedes volver a aplicar.",
			Type:    domain.NotificationTypeAdmin,
		}
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.verifications.WithTx(tx).Update(ctx, req); err != nil {
			return err
		}
		if approve {
			prof.IsVerified = true
			if err := s.professionals.WithTx(tx).Update(ctx, prof); err != nil {
				return err
			}
		}
		if err := s.actions.WithTx(tx).Create(ctx, &domain.AdminAction{
			AdminID:    adminID,
			TargetType: domain.TargetProfessional,
			TargetID:   req.ProfessionalID,
			Action:     action,
			Details:    map[string]any{"requestId": requestID},
		}); err != nil {
			return err
		}
		return s.notifications.WithTx(tx).Create(ctx, notification)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.notifier.Push(notification)
	return req, nil
}

// --- moderators ------------------------------------------------------------

// CreateModerator provisions a support operator account.
func (s *AdminService) CreateModerator(ctx context.Context, adminID string, input ModeratorInput) (*domain.Moderator, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("Nombre y correo son requeridos", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("La contraseña debe tener al menos 8 caracteres", nil)
	}
	if _, err := s.moderators.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("El correo ya está registrado", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.authCfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	mod := &domain.Moderator{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.moderators.Create(ctx, mod); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordModeratorAction(ctx, adminID, mod.ID, domain.ActionCreateModerator); err != nil {
		return mod, err
	}
	return mod, nil
}

// UpdateModerator edits a moderator account; a nil Password leaves the hash
// untouched.
func (s *AdminService) UpdateModerator(ctx context.Context, adminID, moderatorID string, name, email, password *string, active *bool) (*domain.Moderator, error) {
	mod, err := s.moderators.GetByID(ctx, moderatorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Moderador no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	if name != nil {
		mod.Name = strings.TrimSpace(*name)
	}
	if email != nil {
		mod.Email = strings.TrimSpace(strings.ToLower(*email))
	}
	if password != nil {
		if len(*password) < 8 {
			return nil, apperrors.NewValidationError("La contraseña debe tener al menos 8 caracteres", nil)
		}
		hash, err := auth.HashPassword(*password, s.authCfg.BcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		mod.PasswordHash = hash
	}
	action := domain.ActionUpdateModerator
	if active != nil {
		mod.Active = *active
		if !*active {
			action = domain.ActionDeactivateModerator
		}
	}
	if err := s.moderators.Update(ctx, mod); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordModeratorAction(ctx, adminID, mod.ID, action); err != nil {
		return mod, err
	}
	return mod, nil
}

func (s *AdminService) recordModeratorAction(ctx context.Context, adminID, moderatorID string, action domain.AdminActionType) error {
	if err := s.actions.Create(ctx, &domain.AdminAction{
		AdminID:    adminID,
		TargetType: domain.TargetModerator,
		TargetID:   moderatorID,
		Action:     action,
	}); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// --- support chats ---------------------------------------------------------

// InterveneSupportChat lets an admin join a moderator-owned chat.
func (s *AdminService) InterveneSupportChat(ctx context.Context, adminID, chatID string) (*domain.SupportChat, error) {
	chat, err := s.supportSvc.MarkIntervened(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.actions.Create(ctx, &domain.AdminAction{
		AdminID:    adminID,
		TargetType: domain.TargetSupportChat,
		TargetID:   chatID,
		Action:     domain.ActionInterveneSupportChat,
	}); err != nil {
		return chat, apperrors.MapError(err)
	}
	return chat, nil
}

// --- read side -------------------------------------------------------------

// GetDashboard aggregates the console's counters.
func (s *AdminService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	professionals, err := s.professionals.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pendingReports, err := s.reports.CountByStatus(ctx, domain.ReportStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	openChats, err := s.support.CountByStatus(ctx, domain.SupportStatusOpen)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	requests, errors := s.metrics.Snapshot()

	return &Dashboard{
		Users:            users,
		Professionals:    professionals,
		PendingReports:   pendingReports,
		OpenSupportChats: openChats,
		RequestsServed:   requests,
		RequestErrors:    errors,
		Uptime:           time.Since(s.startedAt).Seconds(),
	}, nil
}

// ListUsers returns accounts for the console.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	list, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListProfessionals returns profiles including banned ones.
func (s *AdminService) ListProfessionals(ctx context.Context, limit, offset int) ([]domain.Professional, error) {
	list, err := s.professionals.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListActions returns the audit log, newest first.
func (s *AdminService) ListActions(ctx context.Context, limit, offset int) ([]domain.AdminAction, error) {
	list, err := s.actions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListReports returns reports, optionally by status.
func (s *AdminService) ListReports(ctx context.Context, status *domain.ReportStatus, limit, offset int) ([]domain.Report, error) {
	list, err := s.reports.List(ctx, status, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListModerators returns all moderator accounts.
func (s *AdminService) ListModerators(ctx context.Context) ([]domain.Moderator, error) {
	list, err := s.moderators.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListVerifications returns badge applications, optionally by status.
func (s *AdminService) ListVerifications(ctx context.Context, status *domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, error) {
	list, err := s.verifications.List(ctx, status, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListSupportChats returns the help desk queue for the console.
func (s *AdminService) ListSupportChats(ctx context.Context, status *domain.SupportChatStatus, limit, offset int) ([]domain.SupportChat, error) {
	return s.supportSvc.ListForModerators(ctx, status, limit, offset)
}

func (s *AdminService) user(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Usuario no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *AdminService) professional(ctx context.Context, professionalID string) (*domain.Professional, error) {
	prof, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return prof, nil
}

// notifyAfterCommit persists and pushes a post-commit notification. Failures
// are logged, not surfaced; the mutation already committed.
func (s *AdminService) notifyAfterCommit(ctx context.Context, userID string, notification *domain.Notification) {
	notification.UserID = userID
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("post-commit notification failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.notifier.Push(notification)
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidationError("El motivo es requerido", nil)
	}
	return nil
}
