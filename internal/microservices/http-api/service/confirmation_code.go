package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/microservices/http-api/models"
)

const codeSignatureLen = 32

// CodeGenerator issues confirmation codes bound to a user's current state.
// A code is "<issued unix, base36>-<truncated hex HMAC>" where the HMAC covers
// the user id, the last login time and the issue time. Logging in moves
// last_login and so invalidates every code issued before.
type CodeGenerator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodeGenerator(secret string, ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (g *CodeGenerator) Generate(u *models.User) string {
	issued := g.now().Unix()
	return strconv.FormatInt(issued, 36) + "-" + g.sign(u, issued)
}

// Verify reports whether code was issued for u in its current state and is
// still inside the validity window.
func (g *CodeGenerator) Verify(u *models.User, code string) bool {
	stamp, sig, ok := strings.Cut(code, "-")
	if !ok || len(sig) != codeSignatureLen {
		return false
	}
	issued, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return false
	}

	now := g.now().Unix()
	if issued > now || now-issued > int64(g.ttl/time.Second) {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(g.sign(u, issued)))
}

func (g *CodeGenerator) sign(u *models.User, issued int64) string {
	var lastLogin int64
	if u.LastLogin != nil {
		lastLogin = u.LastLogin.Unix()
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(u.ID))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(lastLogin, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(issued, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:codeSignatureLen]
}
