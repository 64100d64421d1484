package models

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator hands out unique identifiers.
type IDGenerator interface {
	ID() (string, error)
}

// ULIDGenerator produces sortable IDs, used for request IDs.
type ULIDGenerator struct {
	now func() time.Time
}

func (g ULIDGenerator) ID() (string, error) {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	id, err := ulid.New(ulid.Timestamp(now()), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RandomGenerator produces unguessable URL-safe IDs, used for browser session IDs.
type RandomGenerator struct {
	Length int
}

func (r RandomGenerator) ID() (string, error) {
	b := make([]byte, r.Length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func NewRandomGenerator(length int) RandomGenerator {
	return RandomGenerator{length}
}
