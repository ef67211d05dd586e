package user

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a platform account. Accounts start muffled (unverified
// student) and gain voting rights once verified.
type User struct {
	ID               int64      `json:"-"`
	UserID           uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"`
	Bio              *string    `json:"bio,omitempty"`
	StudentSinceYear *int       `json:"student_since_year,omitempty"`
	IsMuffled        bool       `json:"is_muffled"`
	Echoes           int        `json:"echoes"`
	IsAdmin          bool       `json:"is_admin"`
	IsBanned         bool       `json:"is_banned"`
	BanReason        *string    `json:"ban_reason,omitempty"`
	BannedUntil      *time.Time `json:"banned_until,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CanVote reports whether the account may cast votes. Muffled and banned
// accounts are excluded; the API enforces the same rule server-side.
func (u *User) CanVote() bool {
	return !u.IsMuffled && !u.IsBanned
}

// BanExpired reports whether a temporary ban has lapsed.
func (u *User) BanExpired(now time.Time) bool {
	return u.IsBanned && u.BannedUntil != nil && now.After(*u.BannedUntil)
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{2,30}[A-Za-z0-9]$`)

func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 4-32 chars, start with a letter, and contain only letters, digits, '.', '_' or '-'")
	}
	return nil
}

func ValidatePassword(password string, username string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must include at least one letter and one digit")
	}
	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return errors.New("password must not contain username")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
