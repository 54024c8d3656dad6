package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"gorm.io/gorm"

	"game-board-api/internal/domain"
	"game-board-api/internal/repository"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxCodeAttempts bounds the uniqueness retry loop. With a 62^10 keyspace a
// collision is already negligible, so hitting the bound means something is
// seriously wrong with the store.
const maxCodeAttempts = 5

// ErrCodeExhausted is returned when no unique join code could be generated
var ErrCodeExhausted = errors.New("could not generate a unique join code")

// CodeGenerator produces join codes for boards
type CodeGenerator interface {
	// Generate returns a random code of the given length drawn from the
	// 62-character alphanumeric alphabet
	Generate(length int) string
	// GenerateUnique returns a code no active board currently uses
	GenerateUnique(ctx context.Context, repo repository.BoardRepository) (string, error)
}

type codeGenerator struct{}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator() CodeGenerator {
	return &codeGenerator{}
}

// Generate returns a random alphanumeric code, uniform per character
func (g *codeGenerator) Generate(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(buf)
}

// GenerateUnique generates codes until the repository confirms no board uses one
func (g *codeGenerator) GenerateUnique(ctx context.Context, repo repository.BoardRepository) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := g.Generate(domain.CodeLength)
		_, err := repo.FindByCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// Code is taken, try again
	}
	return "", ErrCodeExhausted
}
