// Package provision creates batches of contest accounts with generated
// passwords. Self-service registration is disabled, so every account that
// exists came through here.
package provision

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
)

// Ambiguous characters (0, O, 1, l, I) are excluded so credentials survive
// being read aloud or written on paper.
const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789!@#$%^&*"

const (
	DefaultCount    = 60
	DefaultPrefix   = "Warrior"
	passwordLength  = 10
	bcryptCostLevel = bcrypt.DefaultCost
)

// Credential pairs a created username with its one-time plaintext password.
// The plaintext exists only at provisioning time; the store keeps a hash.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GeneratePassword returns a random password of n characters drawn from the
// provisioning alphabet.
func GeneratePassword(n int) (string, error) {
	if n <= 0 {
		n = passwordLength
	}
	buf := make([]byte, n)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("provision: random index: %w", err)
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

// Warriors creates count sequentially numbered accounts and returns their
// credentials. Each account starts with the full prompt quota.
func Warriors(ctx context.Context, users domain.UserRepository, count int, prefix string) ([]Credential, error) {
	if count <= 0 {
		count = DefaultCount
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	creds := make([]Credential, 0, count)
	for i := 1; i <= count; i++ {
		password, err := GeneratePassword(passwordLength)
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCostLevel)
		if err != nil {
			return nil, fmt.Errorf("provision: hash password: %w", err)
		}

		user := &domain.User{
			Username:         fmt.Sprintf("%s%d", prefix, i),
			PasswordHash:     string(hash),
			RemainingPrompts: domain.DefaultPromptQuota,
		}
		if err := users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("provision: create %s: %w", user.Username, err)
		}
		creds = append(creds, Credential{Username: user.Username, Password: password})
	}
	return creds, nil
}

// CredentialsCSV renders the credentials as a username,password CSV with a
// header row.
func CredentialsCSV(creds []Credential) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"username", "password"}); err != nil {
		return nil, err
	}
	for _, c := range creds {
		if err := w.Write([]string{c.Username, c.Password}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
