package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type fakeSessionGateway struct {
	session *models.UserSession
	loadErr error
}

func (f *fakeSessionGateway) LoadSession(context.Context) (*models.UserSession, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return f.session, f.session != nil, nil
}

func (f *fakeSessionGateway) SaveSession(_ context.Context, s *models.UserSession) error {
	f.session = s
	return nil
}

func (f *fakeSessionGateway) DeleteSession(context.Context) error {
	f.session = nil
	return nil
}

func newSessionService(gw sessionGateway) *SessionService {
	return NewSessionService(gw, "test_secret", time.Hour, "eduerp-test", nil, nil)
}

func TestLoginPersistsSessionAndIssuesToken(t *testing.T) {
	gw := &fakeSessionGateway{}
	svc := newSessionService(gw)

	result, err := svc.Login(context.Background(), LoginRequest{Role: "teacher"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleTeacher, result.Session.UserType)
	assert.Equal(t, "Demo Teacher", result.Session.FullName)
	assert.Equal(t, "teacher@demo.school.edu", result.Session.Email)
	require.NotNil(t, gw.session)
	assert.NotEmpty(t, gw.session.LoginTime)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc := newSessionService(&fakeSessionGateway{})

	_, err := svc.Login(context.Background(), LoginRequest{Role: "superuser"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRole.Code, appErrors.FromError(err).Code)
}

func TestLoginKeepsProvidedIdentity(t *testing.T) {
	svc := newSessionService(&fakeSessionGateway{})

	result, err := svc.Login(context.Background(), LoginRequest{
		Role:     "admin",
		FullName: "Pat Chen",
		Email:    "pat.chen@school.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pat Chen", result.Session.FullName)
	assert.Equal(t, "pat.chen@school.edu", result.Session.Email)
}

func TestCurrentWithoutSession(t *testing.T) {
	svc := newSessionService(&fakeSessionGateway{})

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	assert.False(t, svc.IsAuthenticated(context.Background()))
}

func TestLogoutRemovesOnlySession(t *testing.T) {
	gw := &fakeSessionGateway{}
	svc := newSessionService(gw)

	_, err := svc.Login(context.Background(), LoginRequest{Role: "student"})
	require.NoError(t, err)
	require.True(t, svc.IsAuthenticated(context.Background()))

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, svc.IsAuthenticated(context.Background()))
	assert.Nil(t, gw.session)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newSessionService(&fakeSessionGateway{})

	result, err := svc.Login(context.Background(), LoginRequest{Role: "admin"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(result.Token + "x")
	assert.Error(t, err)

	other := NewSessionService(&fakeSessionGateway{}, "different_secret", time.Hour, "eduerp-test", nil, nil)
	_, err = other.ValidateToken(result.Token)
	assert.Error(t, err)
}
