package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo   ports.IdentityRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo ports.IdentityRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		return nil, domain.ErrIdentityExists
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		DisplayName:  strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		Email:        email,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(domain.PayloadFor(identity), s.tokens.TTL())
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", identity.ID).Str("role", string(role)).Msg("identity registered")
	s.audit.Record(domain.AuditEvent{
		Kind:      domain.AuditRegister,
		SubjectID: identity.ID,
		Email:     email,
		Role:      role,
	})

	return &ports.AuthResult{Identity: identity, Token: token}, nil
}

// Login never tells the caller whether the email exists: an unknown email
// and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.loginFailed(email, "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(identity.PasswordHash, password) {
		s.loginFailed(email, "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.PayloadFor(identity), s.tokens.TTL())
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Kind:      domain.AuditLogin,
		SubjectID: identity.ID,
		Email:     email,
		Role:      identity.Role,
	})

	return &ports.AuthResult{Identity: identity, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, id int64) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) loginFailed(email, detail string) {
	s.log.Debug().Str("email", email).Str("reason", detail).Msg("login rejected")
	s.audit.Record(domain.AuditEvent{
		Kind:   domain.AuditLoginFailed,
		Email:  email,
		Detail: detail,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
