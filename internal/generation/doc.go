// Package generation turns a validated request into formatted source code.
//
// A Provider adapter talks to one AI backend. The Retrier calls an adapter up
// to a bounded number of times with exponential backoff and formats the first
// successful reply. The Service ties the pieces together: it resolves the
// provider, consults the result cache, enriches the prompt with the language
// profile, dispatches through the Retrier and writes successes back to the
// cache.
package generation
