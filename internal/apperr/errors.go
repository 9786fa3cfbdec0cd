// Package apperr defines the sentinel errors shared by the workflow and
// the HTTP layer. Controllers translate them into response envelopes;
// anything that does not wrap one of these is treated as an internal error.
package apperr

import "errors"

var (
	// ErrValidation is returned when input fails business validation (422).
	ErrValidation = errors.New("erreur de validation")

	// ErrForbidden is returned when the caller's role does not allow the
	// operation (403).
	ErrForbidden = errors.New("accès non autorisé")

	// ErrNotFound is returned when the agency, colis or courier does not
	// exist (404).
	ErrNotFound = errors.New("introuvable")

	// ErrConflict is returned on duplicate setup or on a stale version
	// token (409 or 422, depending on the surface).
	ErrConflict = errors.New("conflit")

	// ErrInvalidTransition is returned when a status move is not legal
	// from the colis' current status (422).
	ErrInvalidTransition = errors.New("transition de statut invalide")
)
