package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"strings"

	"github.com/lampstandapp/lampstand-server/internal/store"
)

// pinDigits is the length of a generated pairing PIN.
const pinDigits = 6

// ErrPairingDisabled is returned when no PIN has been issued yet.
var ErrPairingDisabled = store.ErrForbidden.WithMessage("pairing is not active; start pairing from the desktop app")

// ErrBadPIN is returned for a wrong PIN.
var ErrBadPIN = store.ErrUnauthorized.WithMessage("incorrect pairing PIN")

// SecretStore persists the hashed pairing PIN across restarts.
type SecretStore interface {
	GetPairingSecret(ctx context.Context) ([]byte, error)
	SetPairingSecret(ctx context.Context, secret []byte) error
}

// Pairer issues pairing PINs and exchanges them for session tokens.
type Pairer struct {
	secrets SecretStore
	tokens  *TokenService
	logger  *slog.Logger
}

// NewPairer creates a pairer over the given secret store and token
// service.
func NewPairer(secrets SecretStore, tokens *TokenService, logger *slog.Logger) *Pairer {
	return &Pairer{secrets: secrets, tokens: tokens, logger: logger}
}

// StartPairing generates a fresh PIN, stores its hash, and returns the
// PIN for the desktop shell to display. Any previous PIN stops working.
func (p *Pairer) StartPairing(ctx context.Context) (string, error) {
	pin, err := generatePIN()
	if err != nil {
		return "", err
	}

	hash, err := HashPIN(pin)
	if err != nil {
		return "", err
	}
	if err := p.secrets.SetPairingSecret(ctx, []byte(hash)); err != nil {
		return "", fmt.Errorf("store pairing secret: %w", err)
	}

	p.logger.Info("pairing PIN issued")
	return pin, nil
}

// CompletePairing checks a submitted PIN and, on success, returns a
// session token for the device. The PIN stays valid until pairing is
// restarted, so several panels of one companion can pair in a row.
func (p *Pairer) CompletePairing(ctx context.Context, pin, deviceName string) (string, error) {
	secret, err := p.secrets.GetPairingSecret(ctx)
	if err != nil {
		return "", fmt.Errorf("load pairing secret: %w", err)
	}
	if secret == nil {
		return "", ErrPairingDisabled
	}

	if !VerifyPIN(string(secret), pin) {
		p.logger.Warn("pairing attempt with wrong PIN", "device", deviceName)
		return "", ErrBadPIN
	}

	token, err := p.tokens.GenerateSessionToken(deviceName)
	if err != nil {
		return "", err
	}
	p.logger.Info("companion paired", "device", deviceName)
	return token, nil
}

// Authenticate validates the bearer token on a request. Loopback
// requests pass without a token; the desktop shell talks to its own
// server and never pairs.
func (p *Pairer) Authenticate(r *http.Request) (*SessionClaims, error) {
	if isLoopback(r.RemoteAddr) {
		return &SessionClaims{DeviceName: "desktop"}, nil
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, store.ErrUnauthorized.WithMessage("missing bearer token")
	}

	claims, err := p.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, store.ErrUnauthorized.WithMessage("invalid or expired session token")
	}
	return claims, nil
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func generatePIN() (string, error) {
	max := big.NewInt(1)
	for range pinDigits {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate PIN: %w", err)
	}
	return fmt.Sprintf("%0*d", pinDigits, n), nil
}
