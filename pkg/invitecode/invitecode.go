package invitecode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"time"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// DefaultMaxAttempts is the number of random candidates tried before the timestamp fallback.
	DefaultMaxAttempts = 10
)

var pattern = regexp.MustCompile(`^[A-Z]{3}-[0-9]{4}$`)

// Valid reports whether code has the "LLL-NNNN" shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces invite codes. It is safe for concurrent use when its
// random source is.
type Generator struct {
	random      io.Reader
	now         func() time.Time
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandom replaces crypto/rand.Reader as the source of randomness.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.random = r
		}
	}
}

// WithClock sets the clock used by the timestamp fallback.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithMaxAttempts sets how many random candidates are checked before the fallback.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		random:      rand.Reader,
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Random returns a fresh code without checking for collisions.
func (g *Generator) Random() (string, error) {
	prefix, err := g.pick(letters, 3)
	if err != nil {
		return "", err
	}
	suffix, err := g.pick(digits, 4)
	if err != nil {
		return "", err
	}
	return prefix + "-" + suffix, nil
}

// Generate returns a code the exists check reports as free. After MaxAttempts
// collisions it returns the timestamp fallback without checking it.
// A nil exists accepts the first candidate.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for range g.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := g.Random()
		if err != nil {
			return "", err
		}
		if exists == nil {
			return code, nil
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("invitecode: check %q: %w", code, err)
		}
		if !taken {
			return code, nil
		}
	}

	return g.Fallback()
}

// Fallback returns random letters followed by the last four digits of the
// clock's Unix millisecond timestamp.
func (g *Generator) Fallback() (string, error) {
	prefix, err := g.pick(letters, 3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, g.now().UnixMilli()%10000), nil
}

func (g *Generator) pick(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(g.random, limit)
		if err != nil {
			return "", errors.Join(ErrRandomSource, err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
