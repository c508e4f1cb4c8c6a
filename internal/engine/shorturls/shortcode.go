package shorturls

import (
	"math/rand"
	"strings"

	apperr "shortspace/internal/pkg/errors"
	"shortspace/internal/platform/config"
)

// AvailabilityChecker answers whether a short code is already taken.
// Codes are unique across all namespaces.
type AvailabilityChecker interface {
	ExistsByShortCode(code string) (bool, error)
}

type Generator struct {
	alphabet    string
	length      int
	maxAttempts int
}

func NewGenerator(cfg config.ShortCodeConfig) *Generator {
	g := &Generator{
		alphabet:    cfg.Alphabet,
		length:      cfg.Length,
		maxAttempts: cfg.MaxAttempts,
	}
	if g.alphabet == "" {
		g.alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	}
	if g.length <= 0 {
		g.length = 7
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = 10
	}
	return g
}

// Generate draws codes uniformly from the alphabet until one is free,
// up to the attempt budget. Exhausting the budget is transient: the
// caller may retry the whole create.
func (g *Generator) Generate(checker AvailabilityChecker) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		code := g.randomCode()
		exists, err := checker.ExistsByShortCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperr.Exhausted("Unable to generate unique short code. Please try again.")
}

func (g *Generator) randomCode() string {
	b := make([]byte, g.length)
	for i := range b {
		b[i] = g.alphabet[rand.Intn(len(g.alphabet))]
	}
	return string(b)
}

// ValidateCustom checks a caller-supplied code against the configured
// alphabet.
func (g *Generator) ValidateCustom(code string) error {
	if len(code) < 1 || len(code) > 64 {
		return apperr.BadRequestField("short_code", "short code must be between 1 and 64 characters")
	}
	for _, c := range code {
		if !strings.ContainsRune(g.alphabet, c) {
			return apperr.BadRequestField("short_code", "short code contains characters outside the allowed alphabet")
		}
	}
	return nil
}
