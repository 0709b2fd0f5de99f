package embedding

// Dimensions is the fixed length of every embedding vector produced by the
// providers in this package, matching the notes table's vector column.
const Dimensions = 768

// Provider generates a fixed-length embedding vector for a piece of text.
// It is injected into the ingestion service so tests can swap in the
// deterministic provider without touching persistence logic.
type Provider interface {
	Generate(text string) ([]float32, error)
}
