package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-lms/internal/models"
)

var (
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("invalid email or password")
)

// TokenBlacklist revokes tokens until their natural expiry. cache.RedisCache
// satisfies it in production.
type TokenBlacklist interface {
	BlacklistToken(token string, until time.Time) error
	IsTokenBlacklisted(token string) (bool, error)
}

type Service struct {
	repo      *Repository
	jwtSecret []byte
	blacklist TokenBlacklist
}

func NewService(repo *Repository, jwtSecret string, blacklist TokenBlacklist) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		blacklist: blacklist,
	}
}

type Registration struct {
	FullName      string
	Email         string
	Phone         string
	Password      string
	PasswordAgain string
	InstitutionID *uint
}

func (s *Service) Register(reg Registration) (*models.User, error) {
	if reg.Password != reg.PasswordAgain {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.repo.EmailExists(reg.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	first, last := splitFullName(reg.FullName)
	user := &models.User{
		Email:         reg.Email,
		Password:      string(hashed),
		FirstName:     first,
		LastName:      last,
		Phone:         reg.Phone,
		Role:          models.RoleStudent,
		InstitutionID: reg.InstitutionID,
	}

	if err := s.repo.CreateUser(user); err != nil {
		// Concurrent registration with the same email lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	log.Printf("Registered user %d (%s)", user.ID, user.Email)
	return user, nil
}

func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrAuthenticationFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	return token.SignedString(s.jwtSecret)
}

// Logout blacklists the presented token until its own expiry; the JWT
// middleware rejects blacklisted tokens on subsequent requests.
func (s *Service) Logout(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrAuthenticationFailed
	}

	claims := *token.Claims.(*jwt.MapClaims)
	exp, ok := claims["exp"].(float64)
	if !ok {
		return ErrAuthenticationFailed
	}

	if s.blacklist == nil {
		return nil
	}
	return s.blacklist.BlacklistToken(tokenString, time.Unix(int64(exp), 0))
}

func (s *Service) GetProfile(userID uint) (*models.User, error) {
	return s.repo.GetUserByID(userID)
}

func (s *Service) ListUsers(institutionID *uint) ([]models.User, error) {
	return s.repo.ListUsers(institutionID)
}

func splitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
