package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"flood-alert-backend/models"

	"github.com/golang-jwt/jwt"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned for every credential failure: bad signature,
// expired token, missing subject, unknown user. Callers cannot tell which.
var ErrUnauthorized = errors.New("could not validate credentials")

// Service issues and verifies bearer tokens and hashes passwords. The signing
// secret and token lifetime are fixed at construction.
type Service struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clockwork.NewRealClock(),
	}
}

// NewServiceWithClock is used by tests that need to control token expiry.
func NewServiceWithClock(secret string, ttl time.Duration, clock clockwork.Clock) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) CheckPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken signs an HS256 token carrying the user's email as subject.
func (s *Service) GenerateToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": s.clock.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken returns the subject email of a valid token, or ErrUnauthorized.
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrUnauthorized
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", ErrUnauthorized
	}
	return email, nil
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrUnauthorized
	}
	return parts[1], nil
}

// CurrentUser resolves the request's bearer token to a user row. A token whose
// subject no longer exists (user deleted after issuance) fails the same way as
// an invalid token.
func (s *Service) CurrentUser(r *http.Request, db *sql.DB) (models.User, error) {
	var user models.User

	tokenString, err := BearerToken(r)
	if err != nil {
		return user, err
	}
	email, err := s.ParseToken(tokenString)
	if err != nil {
		return user, err
	}

	err = db.QueryRow(
		"SELECT id, full_name, email, hashed_password, is_volunteer, role FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.FullName, &user.Email, &user.HashedPassword, &user.IsVolunteer, &user.Role)
	if err != nil {
		return user, ErrUnauthorized
	}
	return user, nil
}
