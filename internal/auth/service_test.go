package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-lms/internal/models"
)

func testService(t *testing.T, blacklist TokenBlacklist) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))
	return NewService(NewRepository(db), "test-secret", blacklist)
}

// memBlacklist is an in-memory TokenBlacklist standing in for Redis.
type memBlacklist struct {
	revoked map[string]time.Time
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]time.Time)}
}

func (b *memBlacklist) BlacklistToken(token string, until time.Time) error {
	b.revoked[token] = until
	return nil
}

func (b *memBlacklist) IsTokenBlacklisted(token string) (bool, error) {
	until, ok := b.revoked[token]
	return ok && time.Now().Before(until), nil
}

func validRegistration() Registration {
	return Registration{
		FullName:      "Amina Okello",
		Email:         "amina@example.com",
		Phone:         "+256700000000",
		Password:      "s3cret-pass",
		PasswordAgain: "s3cret-pass",
	}
}

func TestRegister_CreatesStudent(t *testing.T) {
	svc := testService(t, nil)

	user, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "Amina", user.FirstName)
	assert.Equal(t, "Okello", user.LastName)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := testService(t, nil)

	reg := validRegistration()
	reg.PasswordAgain = "different"
	_, err := svc.Register(reg)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(validRegistration())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLogin(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	token, err := svc.Login("amina@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := *parsed.Claims.(*jwt.MapClaims)
	assert.Equal(t, "amina@example.com", claims["email"])
	assert.Equal(t, models.RoleStudent, claims["role"])
}

func TestLogin_Failures(t *testing.T) {
	svc := testService(t, nil)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	_, err = svc.Login("amina@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.Login("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogout_RevokedTokenRejectedByMiddleware(t *testing.T) {
	blacklist := newMemBlacklist()
	svc := testService(t, blacklist)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)
	token, err := svc.Login("amina@example.com", "s3cret-pass")
	require.NoError(t, err)

	protected := JWTMiddleware("test-secret", blacklist)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, svc.Logout(token))

	// The token is still cryptographically valid but must now be refused.
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSplitFullName(t *testing.T) {
	first, last := splitFullName("Amina Grace Okello")
	assert.Equal(t, "Amina", first)
	assert.Equal(t, "Grace Okello", last)

	first, last = splitFullName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)

	first, last = splitFullName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
