// Package handler provides HTTP request handlers for the Clubhouse API.
//
// Handlers decode the request, call one service method, and translate the
// outcome. Every JSON body carries a "message" field: successes use
// WriteData or WriteMessage, failures go through MapServiceError and are
// written as RFC 9457 Problem Details.
//
// Routes are mounted on a chi router by RegisterRoutes; guards (Auth,
// RequireRole) are attached per route.
package handler
