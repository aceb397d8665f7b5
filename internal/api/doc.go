// Package api exposes the generation pipeline over HTTP: request decoding
// and validation, mapping of generation failures to status codes, the
// language and provider catalogs, background generation jobs, and the
// static front-end configuration.
package api
