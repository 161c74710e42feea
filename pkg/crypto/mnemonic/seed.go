package mnemonic

import (
	"context"
	"crypto/sha512"
	"fmt"
	"runtime"

	"github.com/Davincible/seedphrase/pkg/crypto/normalize"
	"github.com/Davincible/seedphrase/pkg/crypto/wordlist"
	"github.com/Davincible/seedphrase/pkg/secure"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/errgroup"
)

const (
	SeedSize       = 64
	SeedIterations = 2048
	SeedSaltPrefix = "mnemonic"
)

// DeriveSeed stretches phrase into a 64-byte seed with
// PBKDF2-HMAC-SHA512(NFKD(phrase), "mnemonic"+NFKD(passphrase), 2048).
//
// The phrase text itself is the key material and its checksum is not
// checked; use DeriveSeedChecked when integrity matters. An empty passphrase
// is a valid passphrase.
func DeriveSeed(phrase, passphrase string) []byte {
	password := normalize.Bytes(phrase)
	defer secure.Zero(password)

	pass := normalize.Bytes(passphrase)
	defer secure.Zero(pass)

	salt := make([]byte, 0, len(SeedSaltPrefix)+len(pass))
	salt = append(salt, SeedSaltPrefix...)
	salt = append(salt, pass...)
	defer secure.Zero(salt)

	return pbkdf2.Key(password, salt, SeedIterations, SeedSize, sha512.New)
}

// DeriveSeedChecked validates phrase against wl before deriving the seed.
func DeriveSeedChecked(phrase, passphrase string, wl *wordlist.Wordlist) ([]byte, error) {
	if err := Validate(phrase, wl); err != nil {
		return nil, fmt.Errorf("refusing to derive seed: %w", err)
	}
	return DeriveSeed(phrase, passphrase), nil
}

// SeedRequest is one independent derivation for DeriveSeeds.
type SeedRequest struct {
	Phrase     string
	Passphrase string
}

// DeriveSeeds runs independent derivations on at most workers goroutines
// (GOMAXPROCS when workers <= 0). Seeds are returned in request order. If ctx
// is cancelled before every request started, all derived seeds are wiped and
// the context error is returned.
func DeriveSeeds(ctx context.Context, reqs []SeedRequest, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	seeds := make([][]byte, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range reqs {
		i, req := i, req
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seeds[i] = DeriveSeed(req.Phrase, req.Passphrase)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for _, s := range seeds {
			secure.Zero(s)
		}
		return nil, err
	}
	return seeds, nil
}

// Seed derives the seed for m's canonical phrase.
func (m *Mnemonic) Seed(passphrase string) []byte {
	return DeriveSeed(m.Phrase(), passphrase)
}
