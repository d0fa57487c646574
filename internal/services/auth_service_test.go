package services_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.UserRecord) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.UserRecord, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.UserRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(id string, patch models.UserPatch) (*models.User, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newAuthService(t *testing.T) (*services.AuthService, repositories.Repositories) {
	t.Helper()
	st, repos, _ := newTestStore(t)
	return services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret}), repos
}

func registerRequest(name, email, password string) services.RegisterRequest {
	return services.RegisterRequest{Name: name, Email: email, Password: password, ConfirmPassword: password}
}

func TestAuthService_Register(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	res, err := authService.Register(registerRequest("Jane Doe", " jane@example.com ", "secret1"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Contains(t, res.User.ID, "user-")
	assert.Contains(t, res.User.Avatar, "Jane+Doe")

	state := st.State()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	if assert.NotNil(t, state.User) {
		assert.Equal(t, res.User.ID, state.User.ID)
	}

	record, err := repos.Users.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", record.PasswordHash)

	sess, err := repos.Session.Get()
	require.NoError(t, err)
	assert.Equal(t, res.Token, sess.Token)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), record.PasswordHash)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	authService, repos := newAuthService(t)

	before, err := repos.Users.GetAll()
	require.NoError(t, err)

	_, err = authService.Register(registerRequest("Impostor", "ADMIN@luxe.com", "secret1"))
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	after, err := repos.Users.GetAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthService_RegisterDuplicateEmail_Mock(t *testing.T) {
	st, repos, _ := newTestStore(t)
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	existing := &models.UserRecord{User: models.User{ID: "user-1", Email: "taken@example.com"}}
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil).Once()

	_, err := authService.Register(registerRequest("Taken", "taken@example.com", "secret1"))
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	assert.False(t, st.State().IsLoading)
	assert.False(t, st.State().IsAuthenticated)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterLookupFailure(t *testing.T) {
	st, repos, _ := newTestStore(t)
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	mockRepo.On("GetByEmail", "jane@example.com").Return(nil, errors.New("disk full")).Once()

	_, err := authService.Register(registerRequest("Jane", "jane@example.com", "secret1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	authService, repos := newAuthService(t)

	tests := []struct {
		name  string
		req   services.RegisterRequest
		field string
		msg   string
	}{
		{"missing name", registerRequest("", "a@example.com", "secret1"), "name", "This field is required"},
		{"bad email", registerRequest("A", "not-an-email", "secret1"), "email", "Must be a valid email address"},
		{"short password", registerRequest("A", "a@example.com", "abc"), "password", "Password must be at least 6 characters"},
		{"mismatch", services.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2"}, "confirm_password", "Passwords do not match"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authService.Register(tc.req)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.msg, verr.Fields[tc.field])
		})
	}

	users, err := repos.Users.GetAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_Login(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	res, err := authService.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := authService.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.True(t, st.State().IsAuthenticated)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	_, err := authService.Login(repositories.SeedAdminEmail, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = authService.Login("nobody@example.com", "admin")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	state := st.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.False(t, state.IsLoading)

	_, err = repos.Session.Get()
	assert.ErrorIs(t, err, repositories.ErrKeyNotFound)
}

func TestAuthService_LoginRaisesLoadingFlag(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{
		JWTSecret: testJWTSecret,
		Latency:   100 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() {
		_, err := authService.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
		done <- err
	}()

	assert.Eventually(t, func() bool { return st.State().IsLoading }, time.Second, 5*time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, st.State().IsLoading)
	assert.True(t, st.State().IsAuthenticated)
}

func TestAuthService_Logout(t *testing.T) {
	st, repos, kv := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})
	cartService := services.NewCartService(st)

	_, err := authService.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
	require.NoError(t, err)
	require.NoError(t, cartService.AddItem(1, 1))

	require.NoError(t, authService.Logout())

	state := st.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Cart)

	ok, err := kv.Has(repositories.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = authService.CurrentUser()
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestAuthService_RestoreSession(t *testing.T) {
	st, repos, kv := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})
	res, err := authService.Register(registerRequest("Jane", "jane@example.com", "secret1"))
	require.NoError(t, err)

	// A second process over the same storage.
	repos2 := repositories.NewKVRepositories(kv)
	st2 := store.New(repos2)
	require.NoError(t, st2.Dispatch(store.InitApp{}))
	restored := services.NewAuthService(repos2.Users, repos2.Session, st2, services.AuthConfig{JWTSecret: testJWTSecret})

	require.NoError(t, restored.RestoreSession())
	user, err := restored.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
}

func TestAuthService_RestoreSessionWithoutSession(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	assert.NoError(t, authService.RestoreSession())
	assert.False(t, st.State().IsAuthenticated)
}

func TestAuthService_RestoreSessionDiscardsExpiredToken(t *testing.T) {
	st, repos, kv := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	admin, err := repos.Users.GetByEmail(repositories.SeedAdminEmail)
	require.NoError(t, err)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": admin.ID,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	require.NoError(t, repos.Session.Save(&models.Session{User: admin.Public(), Token: expired}))

	require.NoError(t, authService.RestoreSession())
	assert.False(t, st.State().IsAuthenticated)
	ok, err := kv.Has(repositories.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_RestoreSessionForDeletedUser(t *testing.T) {
	st, repos, kv := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	ghost := models.User{ID: "user-ghost", Email: "ghost@example.com", Role: models.RoleUser}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": ghost.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	require.NoError(t, repos.Session.Save(&models.Session{User: ghost, Token: token}))

	require.NoError(t, authService.RestoreSession())
	assert.False(t, st.State().IsAuthenticated)
	ok, err := kv.Has(repositories.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{
		JWTSecret: testJWTSecret,
		Latency:   10 * time.Millisecond,
	})

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = authService.Register(registerRequest("Dup", "dup@example.com", "secret1"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, succeeded)

	users, err := repos.Users.GetAll()
	require.NoError(t, err)
	matching := 0
	for _, u := range users {
		if u.Email == "dup@example.com" {
			matching++
		}
	}
	assert.Equal(t, 1, matching)
}

func TestAuthService_Register_EmailTakenOnWrite(t *testing.T) {
	mockRepo := new(MockUserRepository)
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(mockRepo, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	mockRepo.On("GetByEmail", "late@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.UserRecord")).Return(repositories.ErrEmailTaken).Once()

	_, err := authService.Register(registerRequest("Late", "late@example.com", "secret1"))
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	assert.False(t, st.State().IsAuthenticated)
	assert.False(t, st.State().IsLoading)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	st, repos, _ := newTestStore(t)
	authService := services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{JWTSecret: testJWTSecret})

	name := "Ignored"
	_, err := authService.UpdateProfile(models.UserPatch{Name: &name})
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	res, err := authService.Register(registerRequest("Jane", "jane@example.com", "secret1"))
	require.NoError(t, err)

	address := "221B Baker St"
	phone := "555-0100"
	user, err := authService.UpdateProfile(models.UserPatch{Address: &address, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, address, user.Address)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, res.User.Email, user.Email)

	stored, err := repos.Users.GetByID(res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, address, stored.Address)

	sess, err := repos.Session.Get()
	require.NoError(t, err)
	assert.Equal(t, address, sess.User.Address)

	taken := repositories.SeedAdminEmail
	_, err = authService.UpdateProfile(models.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	// Keeping one's own email is not a conflict.
	own := res.User.Email
	_, err = authService.UpdateProfile(models.UserPatch{Email: &own})
	assert.NoError(t, err)

	// The new profile is visible to a fresh login.
	require.NoError(t, authService.Logout())
	again, err := authService.Login("jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, address, again.User.Address)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _ := newAuthService(t)
	res, err := authService.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
	require.NoError(t, err)

	_, err = authService.ValidateToken(res.Token)
	assert.NoError(t, err)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "admin-01",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other_secret"))
	require.NoError(t, err)
	_, err = authService.ValidateToken(forged)
	assert.Error(t, err)
}
