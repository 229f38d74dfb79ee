package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/realtime"
	"github.com/hazzlo/hazzlo-server/internal/repository"
)

// passTxRunner runs the function without a real transaction. The in-memory
// repositories below ignore the tx handle, so WithTx(nil) is safe here.
type passTxRunner struct{}

func (passTxRunner) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// recordingRegistry captures every push instead of writing to sockets.
type recordingRegistry struct {
	mu        sync.Mutex
	online    map[string]bool
	sent      map[string][]*realtime.Message
	broadcast []*realtime.Message
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{
		online: make(map[string]bool),
		sent:   make(map[string][]*realtime.Message),
	}
}

func (r *recordingRegistry) Register(id string, _ *realtime.Client)   { r.setOnline(id, true) }
func (r *recordingRegistry) Unregister(id string, _ *realtime.Client) { r.setOnline(id, false) }

func (r *recordingRegistry) setOnline(id string, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online[id] = online
}

func (r *recordingRegistry) Send(id string, msg *realtime.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[id] = append(r.sent[id], msg)
	return r.online[id]
}

func (r *recordingRegistry) Broadcast(msg *realtime.Message) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = append(r.broadcast, msg)
	n := 0
	for _, up := range r.online {
		if up {
			n++
		}
	}
	return n
}

func (r *recordingRegistry) Online(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online[id]
}

func (r *recordingRegistry) sentTo(id string) []*realtime.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*realtime.Message{}, r.sent[id]...)
}

// --- users -----------------------------------------------------------------

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memUserRepo) ListIDs(_ context.Context, userType *domain.UserType) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.users))
	for _, user := range r.users {
		if userType != nil && user.UserType != *userType {
			continue
		}
		ids = append(ids, user.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUserRepo) WithTx(pgx.Tx) repository.UserRepository { return r }

// --- professionals ---------------------------------------------------------

type memProfessionalRepo struct {
	mu    sync.Mutex
	profs map[string]*domain.Professional
}

func newMemProfessionalRepo() *memProfessionalRepo {
	return &memProfessionalRepo{profs: make(map[string]*domain.Professional)}
}

func (r *memProfessionalRepo) Create(_ context.Context, prof *domain.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prof.ID == "" {
		prof.ID = uuid.NewString()
	}
	clone := *prof
	r.profs[prof.ID] = &clone
	return nil
}

func (r *memProfessionalRepo) Update(_ context.Context, prof *domain.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profs[prof.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *prof
	r.profs[prof.ID] = &clone
	return nil
}

func (r *memProfessionalRepo) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.profs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *prof
	return &clone, nil
}

func (r *memProfessionalRepo) GetByUserID(_ context.Context, userID string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prof := range r.profs {
		if prof.UserID == userID {
			clone := *prof
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProfessionalRepo) Search(_ context.Context, filter repository.ProfessionalFilter) ([]domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Professional, 0, len(r.profs))
	for _, prof := range r.profs {
		if prof.IsBanned {
			continue
		}
		out = append(out, *prof)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, filter.Limit, filter.Offset), nil
}

func (r *memProfessionalRepo) List(_ context.Context, limit, offset int) ([]domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Professional, 0, len(r.profs))
	for _, prof := range r.profs {
		out = append(out, *prof)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memProfessionalRepo) UpdateAggregate(_ context.Context, id string, rating float64, reviewCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.profs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	prof.Rating = rating
	prof.ReviewCount = reviewCount
	return nil
}

func (r *memProfessionalRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.profs)), nil
}

func (r *memProfessionalRepo) WithTx(pgx.Tx) repository.ProfessionalRepository { return r }

// --- reviews ---------------------------------------------------------------

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review
	// createErr, when set, fails the next Create to exercise rollback paths.
	createErr error
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*domain.Review)}
}

func (r *memReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reviews, id)
	return nil
}

func (r *memReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *review
	return &clone, nil
}

func (r *memReviewRepo) ListByProfessional(_ context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Review{}
	for _, review := range r.reviews {
		if review.ProfessionalID == professionalID {
			out = append(out, *review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memReviewRepo) Aggregate(_ context.Context, professionalID string) (float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, count := 0, 0
	for _, review := range r.reviews {
		if review.ProfessionalID == professionalID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *memReviewRepo) WithTx(pgx.Tx) repository.ReviewRepository { return r }

// --- service requests ------------------------------------------------------

type memRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.ServiceRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]*domain.ServiceRequest)}
}

func (r *memRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memRequestRepo) Update(_ context.Context, req *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memRequestRepo) GetByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *req
	return &clone, nil
}

func (r *memRequestRepo) ListByClient(_ context.Context, clientID string, limit, offset int) ([]domain.ServiceRequest, error) {
	return r.listBy(func(req *domain.ServiceRequest) bool { return req.ClientID == clientID }, limit, offset)
}

func (r *memRequestRepo) ListByProfessional(_ context.Context, professionalID string, limit, offset int) ([]domain.ServiceRequest, error) {
	return r.listBy(func(req *domain.ServiceRequest) bool { return req.ProfessionalID == professionalID }, limit, offset)
}

func (r *memRequestRepo) listBy(match func(*domain.ServiceRequest) bool, limit, offset int) ([]domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ServiceRequest{}
	for _, req := range r.requests {
		if match(req) {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

// --- admin actions ---------------------------------------------------------

type memActionRepo struct {
	mu      sync.Mutex
	actions []domain.AdminAction
	// createErr, when set, fails every Create to exercise rollback paths.
	createErr error
}

func newMemActionRepo() *memActionRepo { return &memActionRepo{} }

func (r *memActionRepo) Create(_ context.Context, action *domain.AdminAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	r.actions = append(r.actions, *action)
	return nil
}

func (r *memActionRepo) List(_ context.Context, limit, offset int) ([]domain.AdminAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return window(append([]domain.AdminAction{}, r.actions...), limit, offset), nil
}

func (r *memActionRepo) ListByTarget(_ context.Context, targetType domain.AdminTargetType, targetID string) ([]domain.AdminAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.AdminAction{}
	for _, action := range r.actions {
		if action.TargetType == targetType && action.TargetID == targetID {
			out = append(out, action)
		}
	}
	return out, nil
}

func (r *memActionRepo) WithTx(pgx.Tx) repository.AdminActionRepository { return r }

func (r *memActionRepo) all() []domain.AdminAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AdminAction{}, r.actions...)
}

// --- notifications ---------------------------------------------------------

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[string]*domain.Notification)}
}

func (r *memNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	clone := *n
	r.notifications[n.ID] = &clone
	return nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *n
	return &clone, nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return pgx.ErrNoRows
	}
	n.IsRead = true
	return nil
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) WithTx(pgx.Tx) repository.NotificationRepository { return r }

func (r *memNotificationRepo) forUser(userID string) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

// --- reports ---------------------------------------------------------------

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*domain.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: make(map[string]*domain.Report)}
}

func (r *memReportRepo) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *memReportRepo) Update(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *memReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *report
	return &clone, nil
}

func (r *memReportRepo) List(_ context.Context, status *domain.ReportStatus, limit, offset int) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Report{}
	for _, report := range r.reports {
		if status != nil && report.Status != *status {
			continue
		}
		out = append(out, *report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memReportRepo) CountByStatus(_ context.Context, status domain.ReportStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, report := range r.reports {
		if report.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memReportRepo) WithTx(pgx.Tx) repository.ReportRepository { return r }

// --- moderators ------------------------------------------------------------

type memModeratorRepo struct {
	mu   sync.Mutex
	mods map[string]*domain.Moderator
}

func newMemModeratorRepo() *memModeratorRepo {
	return &memModeratorRepo{mods: make(map[string]*domain.Moderator)}
}

func (r *memModeratorRepo) Create(_ context.Context, mod *domain.Moderator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mod.ID == "" {
		mod.ID = uuid.NewString()
	}
	clone := *mod
	r.mods[mod.ID] = &clone
	return nil
}

func (r *memModeratorRepo) Update(_ context.Context, mod *domain.Moderator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mods[mod.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *mod
	r.mods[mod.ID] = &clone
	return nil
}

func (r *memModeratorRepo) GetByID(_ context.Context, id string) (*domain.Moderator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mod, ok := r.mods[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *mod
	return &clone, nil
}

func (r *memModeratorRepo) GetByEmail(_ context.Context, email string) (*domain.Moderator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mod := range r.mods {
		if strings.EqualFold(mod.Email, email) {
			clone := *mod
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memModeratorRepo) List(_ context.Context) ([]domain.Moderator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Moderator, 0, len(r.mods))
	for _, mod := range r.mods {
		out = append(out, *mod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- verification requests -------------------------------------------------

type memVerificationRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.VerificationRequest
}

func newMemVerificationRepo() *memVerificationRepo {
	return &memVerificationRepo{requests: make(map[string]*domain.VerificationRequest)}
}

func (r *memVerificationRepo) Create(_ context.Context, req *domain.VerificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memVerificationRepo) Update(_ context.Context, req *domain.VerificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memVerificationRepo) GetByID(_ context.Context, id string) (*domain.VerificationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *req
	return &clone, nil
}

func (r *memVerificationRepo) GetPendingByProfessional(_ context.Context, professionalID string) (*domain.VerificationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ProfessionalID == professionalID && req.Status == domain.VerificationPending {
			clone := *req
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memVerificationRepo) List(_ context.Context, status *domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.VerificationRequest{}
	for _, req := range r.requests {
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, limit, offset), nil
}

func (r *memVerificationRepo) WithTx(pgx.Tx) repository.VerificationRepository { return r }

// --- support ---------------------------------------------------------------

type memSupportRepo struct {
	mu       sync.Mutex
	chats    map[string]*domain.SupportChat
	messages map[string][]domain.SupportMessage
}

func newMemSupportRepo() *memSupportRepo {
	return &memSupportRepo{
		chats:    make(map[string]*domain.SupportChat),
		messages: make(map[string][]domain.SupportMessage),
	}
}

func (r *memSupportRepo) CreateChat(_ context.Context, chat *domain.SupportChat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	clone := *chat
	r.chats[chat.ID] = &clone
	return nil
}

func (r *memSupportRepo) UpdateChat(_ context.Context, chat *domain.SupportChat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chat.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *chat
	r.chats[chat.ID] = &clone
	return nil
}

func (r *memSupportRepo) GetChatByID(_ context.Context, id string) (*domain.SupportChat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *chat
	return &clone, nil
}

func (r *memSupportRepo) ListChats(_ context.Context, filter repository.SupportChatFilter) ([]domain.SupportChat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SupportChat{}
	for _, chat := range r.chats {
		if filter.Status != nil && chat.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && chat.UserID != *filter.UserID {
			continue
		}
		if filter.ModeratorID != nil && (chat.ModeratorID == nil || *chat.ModeratorID != *filter.ModeratorID) {
			continue
		}
		out = append(out, *chat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, filter.Limit, filter.Offset), nil
}

func (r *memSupportRepo) CountByStatus(_ context.Context, status domain.SupportChatStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, chat := range r.chats {
		if chat.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memSupportRepo) CreateMessage(_ context.Context, msg *domain.SupportMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.messages[msg.ChatID] = append(r.messages[msg.ChatID], *msg)
	return nil
}

func (r *memSupportRepo) ListMessages(_ context.Context, chatID string) ([]domain.SupportMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SupportMessage{}, r.messages[chatID]...), nil
}

// --- conversations ---------------------------------------------------------

type memConversationRepo struct {
	mu       sync.Mutex
	convs    map[string]*domain.Conversation
	messages map[string][]domain.Message
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		convs:    make(map[string]*domain.Conversation),
		messages: make(map[string][]domain.Message),
	}
}

func (r *memConversationRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	clone := *conv
	r.convs[conv.ID] = &clone
	return nil
}

func (r *memConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *conv
	return &clone, nil
}

func (r *memConversationRepo) GetByParticipants(_ context.Context, clientID, professionalID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.convs {
		if conv.ClientID == clientID && conv.ProfessionalID == professionalID {
			clone := *conv
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memConversationRepo) ListByUser(_ context.Context, userID string) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Conversation{}
	for _, conv := range r.convs {
		if conv.ClientID == userID || conv.ProfessionalID == userID {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memConversationRepo) CreateMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}

func (r *memConversationRepo) ListMessages(_ context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return window(append([]domain.Message{}, r.messages[conversationID]...), limit, offset), nil
}

func (r *memConversationRepo) MarkMessagesRead(_ context.Context, conversationID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	for i := range msgs {
		if msgs[i].SenderID != readerID {
			msgs[i].IsRead = true
		}
	}
	return nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
