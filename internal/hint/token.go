package hint

import (
	"fmt"
	"strconv"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"doudizhu/internal/hand"
)

// TokenService signs and verifies short-lived replay tokens. A replay token
// carries the exact two starting hands and the lead player, hex-encoded, so
// FetchReplay can rebuild an equivalent Game without the client resending
// both hands on every tree-walk call.
type TokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewTokenService builds a TokenService signing with HS256 under secret,
// identifying itself as issuer in every token's "iss" claim.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: secret, issuer: issuer, ttl: 10 * time.Minute}
}

// Issue signs a replay token for the given starting hands and lead player.
func (s *TokenService) Issue(hands [2]hand.Hand, lead int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("hint: token service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("hint: token service config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"h0":   strconv.FormatUint(uint64(hands[0]), 16),
		"h1":   strconv.FormatUint(uint64(hands[1]), 16),
		"lead": lead,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify parses and validates a replay token, returning the starting hands
// and lead player it carries.
func (s *TokenService) Verify(tokenString string) (hands [2]hand.Hand, lead int, err error) {
	if s == nil {
		return hands, 0, fmt.Errorf("hint: token service is nil")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("hint: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return hands, 0, fmt.Errorf("hint: invalid replay token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return hands, 0, fmt.Errorf("hint: invalid replay token claims")
	}

	h0, err := parseHexClaim(claims, "h0")
	if err != nil {
		return hands, 0, err
	}
	h1, err := parseHexClaim(claims, "h1")
	if err != nil {
		return hands, 0, err
	}
	leadF, ok := claims["lead"].(float64)
	if !ok {
		return hands, 0, fmt.Errorf("hint: replay token missing lead claim")
	}

	hands[0] = hand.Hand(h0)
	hands[1] = hand.Hand(h1)
	return hands, int(leadF), nil
}

func parseHexClaim(claims jwt.MapClaims, key string) (uint64, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return 0, fmt.Errorf("hint: replay token missing %s claim", key)
	}
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("hint: replay token has malformed %s claim: %w", key, err)
	}
	return v, nil
}
