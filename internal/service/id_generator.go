package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

const (
	maxIDAttempts  = 5
	upperAlnum     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	mixedAlnum     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	applicationTag = "APP"
	licenseTag     = "DL"
)

type licenseIDChecker interface {
	ApplicationIDExists(ctx context.Context, id string) (bool, error)
	LicenseNumberExists(ctx context.Context, number string) (bool, error)
}

// IDGenerator allocates application IDs and license numbers.
type IDGenerator struct {
	repo   licenseIDChecker
	now    Clock
	random io.Reader
}

// NewIDGenerator constructs a generator backed by crypto/rand.
func NewIDGenerator(repo licenseIDChecker, now Clock) *IDGenerator {
	if now == nil {
		now = systemClock
	}
	return &IDGenerator{repo: repo, now: now, random: rand.Reader}
}

// ApplicationID returns APP + yyyyMMddHHmm + 4 chars of [A-Z0-9], unused in either license table.
func (g *IDGenerator) ApplicationID(ctx context.Context) (string, error) {
	return g.allocate(ctx, "application id", func() (string, error) {
		suffix, err := randomString(g.random, upperAlnum, 4)
		if err != nil {
			return "", err
		}
		return applicationTag + g.now().Format("200601021504") + suffix, nil
	}, g.repo.ApplicationIDExists)
}

// LicenseNumber returns DL + yyyyMMdd + 6 chars of [A-Z0-9], unused by any driving license.
func (g *IDGenerator) LicenseNumber(ctx context.Context) (string, error) {
	return g.allocate(ctx, "license number", func() (string, error) {
		suffix, err := randomString(g.random, upperAlnum, 6)
		if err != nil {
			return "", err
		}
		return licenseTag + g.now().Format("20060102") + suffix, nil
	}, g.repo.LicenseNumberExists)
}

func (g *IDGenerator) allocate(ctx context.Context, label string, next func() (string, error), exists func(context.Context, string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate, err := next()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate "+label)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check "+label)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", appErrors.Wrap(fmt.Errorf("%d attempts collided", maxIDAttempts), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate unique "+label)
}

func randomString(r io.Reader, alphabet string, n int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(r, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
