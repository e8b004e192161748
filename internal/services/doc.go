// Package services implements HTTP clients for the Scribbly processing backend.
//
// [ScribblyService] is the typed [Service] implementation covering the
// upload, extract, analyze, flashcards, and health endpoints, with request
// rate limiting and optional OAuth2 client-credentials authentication.
// [APIService] exposes raw GET/POST access for debugging commands.
package services
