// Package gemini provides an ai.Embedder backed by the Gemini API through
// google.golang.org/genai.
//
// Queries are embedded with the RETRIEVAL_QUERY task type and indexed
// chunks with RETRIEVAL_DOCUMENT, so both sides land in the same
// retrieval-tuned space.
//
//	config := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderGemini),
//	    ai.WithEmbeddingModel("gemini-embedding-001"),
//	    ai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    ai.WithDimension(768),
//	)
//	provider, err := gemini.NewProvider(ctx, config)
package gemini
