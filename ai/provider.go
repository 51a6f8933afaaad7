package ai

// guardedProvider swaps a provider's embedder for the wrapped stack while
// keeping its model and lifecycle.
type guardedProvider struct {
	AIProvider
	embedder Embedder
}

func (p *guardedProvider) Embedder() Embedder {
	return p.embedder
}

// Guard returns provider with its embedder replaced by Wrap(provider.Embedder(), config).
// Closing the result closes provider.
func Guard(provider AIProvider, config *Config) (AIProvider, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	embedder, err := Wrap(provider.Embedder(), config)
	if err != nil {
		return nil, err
	}
	return &guardedProvider{AIProvider: provider, embedder: embedder}, nil
}
