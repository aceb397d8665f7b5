// Package domain contains the core value types of the code generator: the
// supported providers and languages, the language profile table used for
// prompt enrichment, the immutable GenerationRequest, and the structured
// GenerationError that replaces the "Error"-prefixed text channel.
//
// The package has no infrastructure dependencies beyond request validation.
package domain
