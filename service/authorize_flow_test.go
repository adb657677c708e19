package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gamearena/wakegate/core"
)

const freeboxURL = "http://mafreebox.freebox.fr"

func testApp() core.AppMetadata {
	return core.AppMetadata{
		ID:         "fr.gamearena.deploy",
		Name:       "GameArena Deploy",
		Version:    "1.0.0",
		DeviceName: "wakegate",
	}
}

// newTestFlow builds a flow with a recording no-op sleeper so the poll loop
// runs instantly.
func newTestFlow(router *mockRouter, store *mockStore, attempts int) (*AuthorizeFlow, *[]time.Duration) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	flow := NewAuthorizeFlow(router, store, testApp(), freeboxURL, time.Second, attempts, logger)

	var sleeps []time.Duration
	flow.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return flow, &sleeps
}

func grantedRequest() core.AuthorizationRequest {
	return core.AuthorizationRequest{AppToken: "long-lived-token", TrackID: 42}
}

func TestAuthorize_GrantedAfterPending(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, sleeps := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthPending, nil).Twice()
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthGranted, nil).Once()

	want := core.Credential{
		AppID:      "fr.gamearena.deploy",
		AppToken:   "long-lived-token",
		FreeboxURL: freeboxURL,
	}
	store.On("Save", want).Return(nil).Once()

	cred, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, cred)
	assert.Len(t, *sleeps, 3)
	store.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestAuthorize_DeniedStopsImmediately(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, sleeps := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthDenied, nil).Once()

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrAuthorizationDenied)
	assert.Len(t, *sleeps, 1)
	store.AssertNotCalled(t, "Save")
	router.AssertNumberOfCalls(t, "AuthorizationStatus", 1)
}

func TestAuthorize_RouterReportedTimeout(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, _ := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthTimeout, nil).Once()

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrAuthorizationTimedOut)
	store.AssertNotCalled(t, "Save")
}

func TestAuthorize_BudgetExhausted(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, sleeps := newTestFlow(router, store, 5)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthPending, nil)

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrAuthorizationTimedOut)
	assert.Len(t, *sleeps, 5)
	router.AssertNumberOfCalls(t, "AuthorizationStatus", 5)
	store.AssertNotCalled(t, "Save")
}

func TestAuthorize_PollErrorFailsWithoutRetry(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, _ := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthStatus(""), errors.New("connection reset")).Once()

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrPolling)
	router.AssertNumberOfCalls(t, "AuthorizationStatus", 1)
	store.AssertNotCalled(t, "Save")
}

func TestAuthorize_RegistrationRejected(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, _ := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(core.AuthorizationRequest{}, core.ErrRegistrationRejected)

	_, err := flow.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrRegistrationRejected)
	router.AssertNotCalled(t, "AuthorizationStatus")
}

func TestAuthorize_SaveFailureSurfaces(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, _ := newTestFlow(router, store, 60)

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthGranted, nil).Once()
	store.On("Save", mock.Anything).Return(errors.New("disk full"))

	_, err := flow.Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestAuthorize_ProgressCallback(t *testing.T) {
	router := new(mockRouter)
	store := new(mockStore)
	flow, _ := newTestFlow(router, store, 60)

	var seen []int
	flow.OnProgress(func(attempt, attempts int) {
		seen = append(seen, attempt)
		assert.Equal(t, 60, attempts)
	})

	router.On("RequestAuthorization", context.Background(), freeboxURL, testApp()).
		Return(grantedRequest(), nil)
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthPending, nil).Twice()
	router.On("AuthorizationStatus", context.Background(), freeboxURL, 42).
		Return(core.AuthGranted, nil).Once()
	store.On("Save", mock.Anything).Return(nil)

	_, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}
