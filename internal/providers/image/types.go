package image

import "context"

// Request describes a normalized generation request passed to any provider.
type Request struct {
	Prompt    string
	UserID    string
	RequestID string
}

// Asset is a generated image locator. URL is either an externally hosted
// location, a served storage path, or an inline data URL.
type Asset struct {
	URL  string
	MIME string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Asset, error)
}
