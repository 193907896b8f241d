package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type sessionGateway interface {
	LoadSession(ctx context.Context) (*models.UserSession, bool, error)
	SaveSession(ctx context.Context, session *models.UserSession) error
	DeleteSession(ctx context.Context) error
}

// LoginRequest selects the demo role to log in as. Identity fields are
// optional; absent ones get a synthetic demo identity. There are no
// credentials: this mirrors the demo login the product ships with.
type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// LoginResult carries the persisted session and its transport token.
type LoginResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	Session   *models.UserSession `json:"session"`
}

// SessionService owns the single local session record and the signed tokens
// that reference it. The token is a handle, not an authentication proof.
type SessionService struct {
	gw         sessionGateway
	secret     []byte
	expiration time.Duration
	issuer     string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(gw sessionGateway, secret string, expiration time.Duration, issuer string, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &SessionService{
		gw:         gw,
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		validator:  validate,
		logger:     logger,
	}
}

// Login persists a session for the requested role and issues a token.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRole.Code, appErrors.ErrInvalidRole.Status, "invalid login payload")
	}

	role := models.UserRole(req.Role)
	session := &models.UserSession{
		UserType:  role,
		FullName:  req.FullName,
		Email:     req.Email,
		LoginTime: time.Now().UTC().Format(time.RFC3339),
	}
	if session.FullName == "" {
		session.FullName = "Demo " + capitalize(req.Role)
	}
	if session.Email == "" {
		session.Email = req.Role + "@demo.school.edu"
	}

	if err := s.gw.SaveSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	token, expiresAt, err := s.issueToken(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	s.logger.Info("session started",
		zap.String("role", req.Role),
		zap.String("email", session.Email),
	)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Session: session}, nil
}

// Current returns the persisted session, or ErrUnauthorized when none exists.
func (s *SessionService) Current(ctx context.Context) (*models.UserSession, error) {
	session, ok, err := s.gw.LoadSession(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no active session")
	}
	return session, nil
}

// IsAuthenticated reports whether a parseable session record exists.
func (s *SessionService) IsAuthenticated(ctx context.Context) bool {
	_, ok, err := s.gw.LoadSession(ctx)
	return err == nil && ok
}

// Logout removes the session record and nothing else. Collections survive;
// erasing them is a separate, explicitly named factory reset.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.gw.DeleteSession(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	s.logger.Info("session ended")
	return nil
}

// ValidateToken parses and verifies a session token.
func (s *SessionService) ValidateToken(raw string) (*models.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &models.SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*models.SessionClaims)
	if !ok || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	return claims, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *SessionService) issueToken(session *models.UserSession) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.expiration)
	claims := models.SessionClaims{
		Role:     session.UserType,
		FullName: session.FullName,
		Email:    session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   session.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
