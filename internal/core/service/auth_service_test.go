package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

type stubIdentityRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Identity
	nextID  int64
	creates int
	findErr error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byEmail: make(map[string]*domain.Identity)}
}

func cloneIdentity(u *domain.Identity) *domain.Identity {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if _, exists := r.byEmail[identity.Email]; exists {
		return domain.ErrIdentityExists
	}
	r.nextID++
	identity.ID = r.nextID
	r.byEmail[identity.Email] = cloneIdentity(identity)
	return nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.byEmail[email]; ok {
		return cloneIdentity(u), nil
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneIdentity(u), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) List(_ context.Context) ([]domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Identity, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

// plainHasher keeps tests fast; bcrypt is covered in the security package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) bool   { return hash == "hashed:"+p }

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *recordingAudit) kinds() []domain.AuditKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditKind, len(a.events))
	for i, e := range a.events {
		out[i] = e.Kind
	}
	return out
}

func newTestAuthService(t *testing.T) (*AuthService, *stubIdentityRepo, *TokenService, *recordingAudit) {
	t.Helper()
	tokens, err := NewTokenService(TokenConfig{Secret: []byte("secret"), TTL: time.Hour})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	repo := newStubIdentityRepo()
	audit := &recordingAudit{}
	return NewAuthService(repo, plainHasher{}, tokens, audit, zerolog.Nop()), repo, tokens, audit
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, tokens, audit := newTestAuthService(t)

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     " Alice ",
		Email:    "Alice@Example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Identity.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if res.Identity.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if res.Identity.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", res.Identity.Role)
	}
	if res.Identity.Email != "alice@example.com" || res.Identity.DisplayName != "Alice" {
		t.Fatalf("expected normalized identity, got %+v", res.Identity)
	}

	payload, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if payload.SubjectID != res.Identity.ID || payload.Role != domain.RoleUser {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if got := audit.kinds(); len(got) != 1 || got[0] != domain.AuditRegister {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "bob", Email: "bob@example.com", Password: "pass12"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "bob2", Email: "BOB@example.com", Password: "pass34"})
	if !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected a single insert, got %d", repo.creates)
	}
	if len(repo.byEmail) != 1 {
		t.Fatalf("duplicate identity stored")
	}
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	repo.findErr = errors.New("db down")

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "x", Email: "x@example.com", Password: "pass12"})
	if err == nil || errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("create must not run after a failed lookup")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, tokens, audit := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Name: "carol", Email: "carol@example.com", Password: "s3cret", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	payload, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if payload.Role != domain.RoleAdmin || payload.Email != "carol@example.com" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if got := audit.kinds(); len(got) != 2 || got[1] != domain.AuditLogin {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _, audit := newTestAuthService(t)
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Name: "dave", Email: "dave@example.com", Password: "goodpass"})
	if _, err := svc.Login(ctx, "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := audit.kinds(); got[len(got)-1] != domain.AuditLoginFailed {
		t.Fatalf("expected login_failed audit, got %v", got)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	res, _ := svc.Register(ctx, ports.RegisterInput{Name: "eve", Email: "eve@example.com", Password: "pass12"})

	got, err := svc.Profile(ctx, res.Identity.ID)
	if err != nil || got.Email != "eve@example.com" {
		t.Fatalf("unexpected profile %+v, err %v", got, err)
	}
	if _, err := svc.Profile(ctx, 999); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}
