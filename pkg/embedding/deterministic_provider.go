package embedding

// DeterministicProvider is an offline stand-in for a real embedding model.
// The same input always yields the same unit-length vector and different
// inputs diverge, which is all the ingestion pipeline needs: it makes runs
// reproducible without network access, API keys, or rate limits. It does not
// approximate semantic similarity.
type DeterministicProvider struct{}

func NewDeterministicProvider() Provider {
	return &DeterministicProvider{}
}

func (p *DeterministicProvider) Generate(text string) ([]float32, error) {
	vec := make([]float32, Dimensions)

	// Distribute byte values across the vector in a repeatable pattern so
	// the output is input-sensitive but stable.
	for i, b := range []byte(text) {
		vec[i%Dimensions] += float32(b%97) / 97.0
	}

	return normalizeVector(vec), nil
}
