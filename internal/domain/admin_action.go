package domain

import "time"

// AdminActionType enumerates privileged mutations recorded in the audit log.
type AdminActionType string

const (
	ActionBanUser                   AdminActionType = "ban_user"
	ActionUnbanUser                 AdminActionType = "unban_user"
	ActionSuspendUser               AdminActionType = "suspend_user"
	ActionRemoveSuspension          AdminActionType = "remove_suspension"
	ActionBanProfessional           AdminActionType = "ban_professional"
	ActionUnbanProfessional         AdminActionType = "unban_professional"
	ActionRemoveProfSuspension      AdminActionType = "remove_professional_suspension"
	ActionVerifyProfessional        AdminActionType = "verify_professional"
	ActionTogglePremium             AdminActionType = "toggle_premium"
	ActionPromoteAdmin              AdminActionType = "promote_admin"
	ActionChangeUserType            AdminActionType = "change_user_type"
	ActionUpdateRating              AdminActionType = "update_rating"
	ActionSendNotification          AdminActionType = "send_notification"
	ActionUpdateReport              AdminActionType = "update_report"
	ActionDeleteReview              AdminActionType = "delete_review"
	ActionApproveVerification       AdminActionType = "approve_verification"
	ActionRejectVerification        AdminActionType = "reject_verification"
	ActionInterveneSupportChat      AdminActionType = "intervene_support_chat"
	ActionCreateModerator           AdminActionType = "create_moderator"
	ActionUpdateModerator           AdminActionType = "update_moderator"
	ActionDeactivateModerator       AdminActionType = "deactivate_moderator"
	ActionUpdateUser                AdminActionType = "update_user"
	ActionUpdateProfessional        AdminActionType = "update_professional"
)

// AdminTargetType identifies what an admin action was applied to.
type AdminTargetType string

const (
	TargetUser         AdminTargetType = "user"
	TargetProfessional AdminTargetType = "professional"
	TargetReport       AdminTargetType = "report"
	TargetReview       AdminTargetType = "review"
	TargetModerator    AdminTargetType = "moderator"
	TargetSupportChat  AdminTargetType = "support_chat"
	TargetSystem       AdminTargetType = "system"
)

// AdminAction is an append-only audit record of a privileged mutation.
// Rows are never updated or deleted.
type AdminAction struct {
	ID         string
	AdminID    string
	TargetType AdminTargetType
	TargetID   string
	Action     AdminActionType
	Reason     string
	Details    map[string]any
	CreatedAt  time.Time
}
