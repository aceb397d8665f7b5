// Package gemini implements generation.Provider on top of Google's Gemini API
// using the google.golang.org/genai client.
//
// Transport and API errors wrap generation.ErrProviderFailure. Responses
// without usable text (no candidates, safety blocks, empty parts) wrap
// generation.ErrSemanticFailure so the retrier treats them as error-flagged
// replies.
package gemini
