package users

import (
	"strings"
	"time"

	"github.com/jrsteele09/finvofy-auth/internal/utils"
	"github.com/jrsteele09/finvofy-auth/tenants"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used for new password hashes.
const DefaultPasswordCost = 12

type User struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenantId"`
	Email        string          `json:"email"`
	Name         *string         `json:"name,omitempty"`
	PasswordHash *string         `json:"-"` // nil means the user cannot log in with a password
	Role         Role            `json:"role"`
	Active       bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Tenant       *tenants.Tenant `json:"tenant,omitempty"` // Populated by lookups that join the tenant
}

// Profile is the public view of a user returned to clients.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenantId"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Email:    u.Email,
		Name:     utils.Value(u.Name),
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}

// HasPassword reports whether password login is possible for the user.
func (u *User) HasPassword() bool {
	return !utils.IsBlank(u.PasswordHash)
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword verifies password against the stored hash. Users without a hash never match.
func (u *User) CheckPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	return CheckPasswordHash(password, *u.PasswordHash)
}
