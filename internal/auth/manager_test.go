package auth

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "eatfit/internal/errors"
	"eatfit/internal/model"
	"eatfit/internal/session"
)

// MockGateway is a mock implementation of Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, creds model.Credentials) (model.Token, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *MockGateway) Signup(ctx context.Context, input model.SignupInput) (*model.UserProfile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockGateway) CurrentUser(ctx context.Context) (*model.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockGateway) UpdateCurrentUser(ctx context.Context, patch model.ProfileUpdate) (*model.UserProfile, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockGateway) SetToken(token string) {
	m.Called(token)
}

func (m *MockGateway) ClearToken() {
	m.Called()
}

func newTestManager(t *testing.T) (*Manager, *MockGateway, *session.FileStore) {
	t.Helper()
	gw := new(MockGateway)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	return NewManager(gw, store), gw, store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "a@b.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func profileWith(email string) *model.UserProfile {
	return &model.UserProfile{Email: email}
}

func TestLogin(t *testing.T) {
	authErr := apperrors.FromStatus(http.StatusUnauthorized, "Incorrect username or password")

	tests := []struct {
		name          string
		setupMock     func(*MockGateway)
		expectedError error
		wantAuth      bool
		wantToken     string
	}{
		{
			name: "valid credentials persist the token and fetch the profile",
			setupMock: func(gw *MockGateway) {
				gw.On("Login", mock.Anything, model.Credentials{Email: "a@b.com", Password: "pw1234"}).
					Return(model.Token{AccessToken: "tok-login", TokenType: "bearer"}, nil)
				gw.On("SetToken", "tok-login").Return()
				gw.On("CurrentUser", mock.Anything).Return(profileWith("a@b.com"), nil)
			},
			wantAuth:  true,
			wantToken: "tok-login",
		},
		{
			name: "invalid credentials leave state and store untouched",
			setupMock: func(gw *MockGateway) {
				gw.On("Login", mock.Anything, mock.Anything).Return(model.Token{}, authErr)
			},
			expectedError: authErr,
		},
		{
			name: "profile fetch failure after login is tolerated",
			setupMock: func(gw *MockGateway) {
				gw.On("Login", mock.Anything, mock.Anything).
					Return(model.Token{AccessToken: "tok-login", TokenType: "bearer"}, nil)
				gw.On("SetToken", "tok-login").Return()
				gw.On("CurrentUser", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			wantAuth:  true,
			wantToken: "tok-login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, gw, store := newTestManager(t)
			tt.setupMock(gw)

			err := mgr.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "pw1234"})

			snap := mgr.Snapshot()
			sess, loadErr := store.Load()
			require.NoError(t, loadErr)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.False(t, snap.IsAuthenticated)
				assert.Empty(t, sess.Token, "store must stay untouched")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAuth, snap.IsAuthenticated)
				assert.Equal(t, tt.wantToken, sess.Token)
			}
			assert.False(t, snap.Loading)
			gw.AssertExpectations(t)
		})
	}
}

func TestSignupChainsLogin(t *testing.T) {
	mgr, gw, store := newTestManager(t)

	input := model.SignupInput{Email: "a@b.com", Password: "pw1", FullName: "A"}
	gw.On("Signup", mock.Anything, input).Return(profileWith("a@b.com"), nil)
	gw.On("Login", mock.Anything, model.Credentials{Email: "a@b.com", Password: "pw1"}).
		Return(model.Token{AccessToken: "tok-from-login", TokenType: "bearer"}, nil)
	gw.On("SetToken", "tok-from-login").Return()
	gw.On("CurrentUser", mock.Anything).Return(profileWith("a@b.com"), nil)

	require.NoError(t, mgr.Signup(context.Background(), input))

	snap := mgr.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-from-login", sess.Token, "persisted token comes from the login call")
	gw.AssertExpectations(t)
}

func TestSignupFailureStaysUnauthenticated(t *testing.T) {
	mgr, gw, store := newTestManager(t)

	dupErr := apperrors.FromStatus(http.StatusBadRequest, "The user with this username already exists in the system.")
	gw.On("Signup", mock.Anything, mock.Anything).Return(nil, dupErr)

	err := mgr.Signup(context.Background(), model.SignupInput{Email: "a@b.com", Password: "pw1234", FullName: "A"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, mgr.Snapshot().IsAuthenticated)

	sess, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, sess.Token)
	gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogoutIsIdempotent(t *testing.T) {
	mgr, gw, store := newTestManager(t)
	require.NoError(t, store.SaveToken("tok-123"))
	require.NoError(t, store.SaveProfile(profileWith("a@b.com")))

	gw.On("ClearToken").Return()

	mgr.Logout()
	mgr.Logout()

	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.Profile)
	gw.AssertNumberOfCalls(t, "ClearToken", 2)
}

func TestBootstrap(t *testing.T) {
	liveToken := func(t *testing.T) string { return signedToken(t, time.Now().Add(time.Hour)) }

	t.Run("no stored session stays unauthenticated", func(t *testing.T) {
		mgr, gw, _ := newTestManager(t)

		mgr.Bootstrap(context.Background())

		assert.False(t, mgr.Snapshot().IsAuthenticated)
		gw.AssertNotCalled(t, "CurrentUser", mock.Anything)
	})

	t.Run("stored token authenticates optimistically and reconciles", func(t *testing.T) {
		mgr, gw, store := newTestManager(t)
		tok := liveToken(t)
		require.NoError(t, store.SaveToken(tok))
		require.NoError(t, store.SaveProfile(profileWith("stale@b.com")))

		gw.On("SetToken", tok).Return()
		gw.On("CurrentUser", mock.Anything).Return(profileWith("fresh@b.com"), nil)

		mgr.Bootstrap(context.Background())

		snap := mgr.Snapshot()
		assert.True(t, snap.IsAuthenticated)
		require.NotNil(t, snap.User)
		assert.Equal(t, "fresh@b.com", snap.User.Email, "server wins over the cached blob")
		gw.AssertExpectations(t)
	})

	t.Run("unreachable network keeps the optimistic state", func(t *testing.T) {
		mgr, gw, store := newTestManager(t)
		require.NoError(t, store.SaveToken(liveToken(t)))

		gw.On("SetToken", mock.Anything).Return()
		gw.On("CurrentUser", mock.Anything).Return(nil, errors.New("dial tcp: no route to host"))

		mgr.Bootstrap(context.Background())

		snap := mgr.Snapshot()
		assert.True(t, snap.IsAuthenticated)
		assert.Nil(t, snap.User, "profile stays absent, not a crash")
		assert.False(t, snap.Loading)
	})

	t.Run("server-rejected token demotes and clears the store", func(t *testing.T) {
		mgr, gw, store := newTestManager(t)
		require.NoError(t, store.SaveToken(liveToken(t)))

		gw.On("SetToken", mock.Anything).Return()
		gw.On("CurrentUser", mock.Anything).
			Return(nil, apperrors.FromStatus(http.StatusUnauthorized, "Could not validate credentials"))
		gw.On("ClearToken").Return()

		mgr.Bootstrap(context.Background())

		assert.False(t, mgr.Snapshot().IsAuthenticated)
		sess, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, sess.Token)
		gw.AssertExpectations(t)
	})

	t.Run("expired stored token skips the network entirely", func(t *testing.T) {
		mgr, gw, store := newTestManager(t)
		require.NoError(t, store.SaveToken(signedToken(t, time.Now().Add(-time.Minute))))

		mgr.Bootstrap(context.Background())

		assert.False(t, mgr.Snapshot().IsAuthenticated)
		sess, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, sess.Token)
		gw.AssertNotCalled(t, "CurrentUser", mock.Anything)
		gw.AssertNotCalled(t, "SetToken", mock.Anything)
	})
}

func TestUpdateProfile(t *testing.T) {
	mgr, gw, store := newTestManager(t)

	gw.On("Login", mock.Anything, mock.Anything).Return(model.Token{AccessToken: "tok"}, nil)
	gw.On("SetToken", "tok").Return()
	gw.On("CurrentUser", mock.Anything).Return(profileWith("a@b.com"), nil)
	require.NoError(t, mgr.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "pw1234"}))

	height := 180.0
	updated := profileWith("a@b.com")
	updated.Height = &height
	gw.On("UpdateCurrentUser", mock.Anything, model.ProfileUpdate{Height: &height}).Return(updated, nil)

	require.NoError(t, mgr.UpdateProfile(context.Background(), model.ProfileUpdate{Height: &height}))

	snap := mgr.Snapshot()
	require.NotNil(t, snap.User)
	require.NotNil(t, snap.User.Height)
	assert.Equal(t, 180.0, *snap.User.Height)

	sess, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, sess.Profile)
	require.NotNil(t, sess.Profile.Height)
	assert.Equal(t, 180.0, *sess.Profile.Height, "cached blob follows the server response")
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	err := mgr.UpdateProfile(context.Background(), model.ProfileUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNoSession)
}

func TestSubscribersSeeEveryTransition(t *testing.T) {
	mgr, gw, _ := newTestManager(t)

	var seen []Snapshot
	mgr.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	gw.On("Login", mock.Anything, mock.Anything).Return(model.Token{AccessToken: "tok"}, nil)
	gw.On("SetToken", "tok").Return()
	gw.On("CurrentUser", mock.Anything).Return(profileWith("a@b.com"), nil)
	require.NoError(t, mgr.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "pw1234"}))

	gw.On("ClearToken").Return()
	mgr.Logout()

	require.NotEmpty(t, seen)
	assert.True(t, seen[0].Loading, "first notification is the in-flight state")
	last := seen[len(seen)-1]
	assert.False(t, last.IsAuthenticated)
	assert.Nil(t, last.User)

	// some intermediate snapshot was authenticated
	var sawAuth bool
	for _, s := range seen {
		if s.IsAuthenticated {
			sawAuth = true
		}
	}
	assert.True(t, sawAuth)
}
