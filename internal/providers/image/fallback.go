package image

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// CredentialedGenerator is a Generator that can report whether it is actually
// able to reach its upstream.
type CredentialedGenerator interface {
	Generator
	HasCredentials() bool
}

// FallbackGenerator tries the primary generator and, when the primary is
// unavailable or errors, serves a placeholder instead. Callers always get an
// asset back.
type FallbackGenerator struct {
	primary  CredentialedGenerator
	fallback Generator
	log      zerolog.Logger
}

func NewFallbackGenerator(primary CredentialedGenerator, fallback Generator, log *zerolog.Logger) *FallbackGenerator {
	g := &FallbackGenerator{primary: primary, fallback: fallback}
	if log != nil {
		g.log = *log
	} else {
		g.log = zerolog.New(io.Discard)
	}
	return g
}

func (g *FallbackGenerator) Generate(ctx context.Context, req Request) (*Asset, error) {
	if g.primary == nil || !g.primary.HasCredentials() {
		return g.fallback.Generate(ctx, req)
	}

	asset, err := g.primary.Generate(ctx, req)
	if err != nil {
		g.log.Warn().Err(err).Str("request_id", req.RequestID).Msg("primary image provider failed, using placeholder")
		return g.fallback.Generate(ctx, req)
	}
	return asset, nil
}

var _ Generator = (*FallbackGenerator)(nil)
