package service

import (
	"context"
	"strings"

	"raf_pnp_backend/internal/users/repository"
	"raf_pnp_backend/internal/users/transport"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/phone"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence the user service needs.
type Store interface {
	Create(ctx context.Context, u repository.User) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	List(ctx context.Context, includeDeactivated bool) ([]repository.User, error)
	Update(ctx context.Context, u repository.User) (repository.User, error)
	SetState(ctx context.Context, id uuid.UUID, state string) error
}

// VerificationSender delivers phone verification codes.
type VerificationSender interface {
	SendVerificationCode(ctx context.Context, phoneNumber, code string) error
}

// Service provides business logic for users.
type Service struct {
	repo   Store
	codes  *codeStore
	sender VerificationSender
	log    *logger.Logger
}

// New creates a new users service.
func New(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, codes: newCodeStore(), log: log}
}

// SetVerificationSender wires the WhatsApp verification channel.
func (s *Service) SetVerificationSender(sender VerificationSender) {
	s.sender = sender
}

func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	channel := req.PreferredChannel
	if channel == "" {
		channel = repository.ChannelInApp
	}
	created, err := s.repo.Create(ctx, repository.User{
		FullName:         sanitize.Text(req.FullName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:      phone.Optional(req.PhoneNumber),
		WhatsAppEnabled:  req.WhatsAppEnabled,
		PreferredChannel: channel,
		Role:             sanitize.Optional(req.Role),
	})
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.Info("user created", "userId", created.ID)
	return toUserResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(u), nil
}

// Get returns the stored user, for adapters.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, includeDeactivated bool) ([]transport.UserResponse, error) {
	users, err := s.repo.List(ctx, includeDeactivated)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if req.FullName != nil {
		u.FullName = sanitize.Text(*req.FullName)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PhoneNumber != nil {
		s.changePhone(&u, *req.PhoneNumber)
	}
	if req.Role != nil {
		u.Role = sanitize.Optional(*req.Role)
	}
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(updated), nil
}

// UpdateNotificationPreferences sets the channel and WhatsApp opt-in.
// WhatsApp needs a phone number on file.
func (s *Service) UpdateNotificationPreferences(ctx context.Context, id uuid.UUID, req transport.NotificationPreferencesRequest) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if req.PhoneNumber != "" {
		s.changePhone(&u, req.PhoneNumber)
	}
	wantsWhatsApp := req.WhatsAppEnabled || req.PreferredChannel == repository.ChannelWhatsApp
	if wantsWhatsApp && u.PhoneNumber == nil {
		return transport.UserResponse{}, apperr.Validation("a phone number is required for WhatsApp notifications")
	}
	u.WhatsAppEnabled = req.WhatsAppEnabled
	u.PreferredChannel = req.PreferredChannel

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.Info("notification preferences updated", "userId", id, "channel", updated.PreferredChannel)
	return toUserResponse(updated), nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetState(ctx, id, repository.StateDeactivated); err != nil {
		return err
	}
	s.log.Info("user deactivated", "userId", id)
	return nil
}

// SendPhoneVerification issues a six digit code to the user's phone.
func (s *Service) SendPhoneVerification(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.PhoneNumber == nil {
		return apperr.Validation("user has no phone number")
	}
	if s.sender == nil {
		return apperr.Internal("phone verification is not available")
	}
	code, err := s.codes.Issue(id, *u.PhoneNumber)
	if err != nil {
		return err
	}
	if err := s.sender.SendVerificationCode(ctx, *u.PhoneNumber, code); err != nil {
		return apperr.TransportFailure("could not send verification code", err)
	}
	return nil
}

// ConfirmPhone marks the phone verified when code matches the last one sent.
func (s *Service) ConfirmPhone(ctx context.Context, id uuid.UUID, code string) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if u.PhoneNumber == nil || !s.codes.Verify(id, *u.PhoneNumber, code) {
		return transport.UserResponse{}, apperr.Validation("invalid or expired verification code")
	}
	u.PhoneVerified = true
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(updated), nil
}

func (s *Service) changePhone(u *repository.User, value string) {
	next := phone.Optional(value)
	if !samePhone(u.PhoneNumber, next) {
		u.PhoneVerified = false
	}
	u.PhoneNumber = next
}

func samePhone(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:               u.ID,
		FullName:         u.FullName,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		WhatsAppEnabled:  u.WhatsAppEnabled,
		PhoneVerified:    u.PhoneVerified,
		PreferredChannel: u.PreferredChannel,
		Role:             u.Role,
		State:            u.State,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
