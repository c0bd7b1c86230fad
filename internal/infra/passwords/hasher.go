package passwords

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// Hasher hashes and verifies account passwords. Compare accepts hashes
// produced by any Hasher in this package so the configured algorithm can
// change without locking existing accounts out.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// New returns the hasher named by kind ("bcrypt" or "scrypt").
func New(kind string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "bcrypt":
		return NewBcrypt(bcrypt.DefaultCost), nil
	case "scrypt":
		return NewScrypt(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *Bcrypt) Compare(hash, password string) bool {
	return compare(hash, password)
}

const scryptPrefix = "scrypt$"

type Scrypt struct {
	n, r, p, keyLen int
}

func NewScrypt() *Scrypt {
	return &Scrypt{n: 1 << 15, r: 8, p: 1, keyLen: 64}
}

// Hash returns "scrypt$N$r$p$salt$key" with base64 salt and key.
func (s *Scrypt) Hash(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, s.n, s.r, s.p, s.keyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d$%d$%d$%s$%s", scryptPrefix, s.n, s.r, s.p,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (s *Scrypt) Compare(hash, password string) bool {
	return compare(hash, password)
}

func compare(hash, password string) bool {
	if strings.HasPrefix(hash, scryptPrefix) {
		return compareScrypt(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func compareScrypt(hash, password string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, scryptPrefix), "$")
	if len(parts) != 5 {
		return false
	}
	n, err1 := strconv.Atoi(parts[0])
	r, err2 := strconv.Atoi(parts[1])
	p, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	got, err := scrypt.Key([]byte(password), salt, n, r, p, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
