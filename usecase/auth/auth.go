package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/idgen"
	appLogger "github.com/homeharmony/backend/pkg/logger"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/usecase"
)

// Claims is the JWT payload handed to a signed-in member.
type Claims struct {
	MemberID  string `json:"member_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type UseCase struct {
	members     repository.MemberRepository
	sessions    repository.SessionRepository
	credentials usecase.Credentials
	cfg         Config
	clock       clock.Clock
	ids         idgen.Generator
	logger      *zap.Logger
}

type Deps struct {
	Members     repository.MemberRepository
	Sessions    repository.SessionRepository
	Credentials usecase.Credentials
	Config      Config
	Clock       clock.Clock
	IDs         idgen.Generator
	Logger      *zap.Logger
}

func New(deps Deps) *UseCase {
	uc := &UseCase{
		members:     deps.Members,
		sessions:    deps.Sessions,
		credentials: deps.Credentials,
		cfg:         deps.Config,
		clock:       deps.Clock,
		ids:         deps.IDs,
		logger:      deps.Logger,
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}
	if uc.credentials == nil {
		uc.credentials = BcryptCredentials{}
	}
	if uc.clock == nil {
		uc.clock = clock.System{}
	}
	if uc.ids == nil {
		uc.ids = idgen.UUID{}
	}
	if uc.cfg.TTL <= 0 {
		uc.cfg.TTL = 24 * time.Hour
	}
	return uc
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
	Member      domain.Member
	Session     domain.Session
}

// Login checks a member's password, opens a session and signs a token for it.
// Unknown names and wrong passwords produce the same error.
func (uc *UseCase) Login(ctx context.Context, name, password string) (*Token, error) {
	member, err := uc.members.GetByName(ctx, name)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := uc.credentials.Verify(member.PasswordHash, password); err != nil {
		appLogger.WithRequestID(ctx, uc.logger).Warn("login rejected", zap.String("member_id", member.ID))
		return nil, err
	}

	now := uc.clock.Now()
	session := &domain.Session{
		ID:        uc.ids.NewID(),
		MemberID:  member.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.TTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	signed, err := uc.sign(member.ID, session)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	appLogger.WithRequestID(ctx, uc.logger).Info("member signed in",
		zap.String("member_id", member.ID),
		zap.String("session_id", session.ID))
	return &Token{AccessToken: signed, ExpiresAt: session.ExpiresAt, Member: *member, Session: *session}, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Authenticate parses a bearer token and confirms its session is still open.
func (uc *UseCase) Authenticate(ctx context.Context, raw string) (*domain.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(uc.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if uc.cfg.Issuer != "" && claims.Issuer != uc.cfg.Issuer {
		return nil, domain.ErrUnauthorized
	}
	return uc.ValidateSession(ctx, claims.SessionID, claims.MemberID)
}

// ValidateSession returns the stored session when it belongs to memberID, has
// not expired and the member still exists.
func (uc *UseCase) ValidateSession(ctx context.Context, sessionID, memberID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.MemberID != memberID {
		return nil, domain.ErrUnauthorized
	}
	if session.IsExpired(uc.clock.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.members.GetByID(ctx, memberID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			_ = uc.sessions.Delete(ctx, sessionID)
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) sign(memberID string, session *domain.Session) (string, error) {
	claims := Claims{
		MemberID:  memberID,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.cfg.Issuer,
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
}
