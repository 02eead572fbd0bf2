package auth

import (
	"errors"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the credential store: bcrypt with a fresh salt per hash
// and constant-time verification.
type PasswordHasher struct {
	cost  int
	dummy string
}

// NewPasswordHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is out of range.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &PasswordHasher{cost: cost}

	dummy, err := bcrypt.GenerateFromPassword([]byte("todokeeper"), cost)
	if err != nil {
		return nil, err
	}
	h.dummy = string(dummy)

	return h, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &common.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
		}
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash is a valid hash of the hasher's cost that matches no user input
// in practice. Verifying against it costs the same as a real comparison.
func (h *PasswordHasher) DummyHash() string {
	return h.dummy
}
