package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gamearena/wakegate/core"
)

type mockRouter struct {
	mock.Mock
}

func (m *mockRouter) Login(ctx context.Context, cred core.Credential) (string, error) {
	args := m.Called(ctx, cred)
	return args.String(0), args.Error(1)
}

func (m *mockRouter) Wake(ctx context.Context, baseURL, sessionToken, mac string) error {
	args := m.Called(ctx, baseURL, sessionToken, mac)
	return args.Error(0)
}

func (m *mockRouter) RequestAuthorization(ctx context.Context, baseURL string, app core.AppMetadata) (core.AuthorizationRequest, error) {
	args := m.Called(ctx, baseURL, app)
	return args.Get(0).(core.AuthorizationRequest), args.Error(1)
}

func (m *mockRouter) AuthorizationStatus(ctx context.Context, baseURL string, trackID int) (core.AuthStatus, error) {
	args := m.Called(ctx, baseURL, trackID)
	return args.Get(0).(core.AuthStatus), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load() (core.Credential, error) {
	args := m.Called()
	return args.Get(0).(core.Credential), args.Error(1)
}

func (m *mockStore) Save(cred core.Credential) error {
	args := m.Called(cred)
	return args.Error(0)
}

func (m *mockStore) Exists() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockStore) Path() string {
	args := m.Called()
	return args.String(0)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) HostUp(ctx context.Context, ip string) bool {
	args := m.Called(ctx, ip)
	return args.Bool(0)
}

func (m *mockProber) ServiceUp(host string, port int, timeout time.Duration) bool {
	args := m.Called(host, port, timeout)
	return args.Bool(0)
}
