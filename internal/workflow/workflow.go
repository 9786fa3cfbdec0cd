// Package workflow applies the agency-side operations that move a colis
// through the delivery pipeline. Guards run against the in-memory colis,
// then every mutation is persisted through a version-checked update so two
// concurrent operations on the same colis cannot silently overwrite each
// other: the loser gets apperr.ErrConflict.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/apperr"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

// MotifMaxLen caps the length of a rejection reason, in runes.
const MotifMaxLen = 500

// Accept attaches the colis to the agency and validates the request.
// Legal from en_attente (first acceptance) and valide (idempotent re-accept,
// possibly by another agency while still unassigned).
func Accept(db *gorm.DB, colis *models.Colis, agence *models.Agence) error {
	if colis.Statut != models.StatusEnAttente && colis.Statut != models.StatusValide {
		return fmt.Errorf("%w: un colis %s ne peut pas être accepté", apperr.ErrInvalidTransition, colis.Statut)
	}
	agenceID := agence.ID
	colis.AgenceID = &agenceID
	colis.Statut = models.StatusValide
	return save(db, colis)
}

// Reject cancels a pending request and records the reason on the colis.
func Reject(db *gorm.DB, colis *models.Colis, motif string) error {
	motif = strings.TrimSpace(motif)
	if motif == "" {
		return fmt.Errorf("%w: le motif de refus est obligatoire", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(motif) > MotifMaxLen {
		return fmt.Errorf("%w: le motif de refus dépasse %d caractères", apperr.ErrValidation, MotifMaxLen)
	}
	if colis.Statut != models.StatusEnAttente {
		return fmt.Errorf("%w: seules les demandes en attente peuvent être refusées", apperr.ErrInvalidTransition)
	}
	colis.Statut = models.StatusAnnule
	colis.MotifAnnulation = motif
	return save(db, colis)
}

// AssignLivreur assigns a courier to the colis. The referenced user must
// exist and hold the livreur role. The status is left untouched.
func AssignLivreur(db *gorm.DB, colis *models.Colis, livreurID uint) error {
	var livreur models.User
	if err := db.First(&livreur, livreurID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: livreur %d", apperr.ErrNotFound, livreurID)
		}
		return err
	}
	if livreur.Role != models.RoleLivreur {
		return fmt.Errorf("%w: l'utilisateur choisi n'est pas un livreur", apperr.ErrValidation)
	}
	id := livreur.ID
	colis.LivreurID = &id
	return save(db, colis)
}

// forwardStatuses are the stages reachable through ChangeStatus. Acceptance,
// rejection and cancellation go through their dedicated operations.
var forwardStatuses = map[models.ColisStatus]bool{
	models.StatusEnEnlevement: true,
	models.StatusRecupere:     true,
	models.StatusEnTransit:    true,
	models.StatusEnAgence:     true,
	models.StatusEnLivraison:  true,
	models.StatusLivre:        true,
}

// ChangeStatus advances the colis one stage along the pipeline. The move
// must be a legal step from the current status; reaching livre stamps the
// delivery timestamp.
func ChangeStatus(db *gorm.DB, colis *models.Colis, next models.ColisStatus) error {
	if !forwardStatuses[next] {
		return fmt.Errorf("%w: statut %q non autorisé pour cette opération", apperr.ErrValidation, next.String())
	}
	if !colis.Statut.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s → %s", apperr.ErrInvalidTransition, colis.Statut, next)
	}
	colis.Statut = next
	if next == models.StatusLivre {
		now := time.Now()
		colis.DateLivraison = &now
	}
	return save(db, colis)
}

// AttachProofs records the stored proof references. Each reference is set
// independently; an empty argument leaves the existing value untouched.
func AttachProofs(db *gorm.DB, colis *models.Colis, photoPath, signaturePath string) error {
	if photoPath != "" {
		colis.PhotoLivraison = photoPath
	}
	if signaturePath != "" {
		colis.SignatureDestinataire = signaturePath
	}
	return save(db, colis)
}

// Verify overwrites the measured weight and/or adjusted price at the
// warehouse. Nil arguments leave the field untouched.
func Verify(db *gorm.DB, colis *models.Colis, poids, prixTotal *float64) error {
	if poids != nil && *poids <= 0 {
		return fmt.Errorf("%w: le poids doit être strictement positif", apperr.ErrValidation)
	}
	if prixTotal != nil && *prixTotal < 0 {
		return fmt.Errorf("%w: le prix total ne peut pas être négatif", apperr.ErrValidation)
	}
	if poids != nil {
		colis.Poids = *poids
	}
	if prixTotal != nil {
		colis.PrixTotal = *prixTotal
	}
	// TODO: recalculer le prix via le moteur de tarification une fois le
	// barème poids/zone branché.
	return save(db, colis)
}

// save persists the colis with a compare-and-swap on the version column.
// Zero rows affected means another request mutated the colis since it was
// loaded; the caller's view is stale and the operation must not win.
func save(db *gorm.DB, colis *models.Colis) error {
	current := colis.Version
	colis.Version = current + 1

	res := db.Model(&models.Colis{}).
		Where("id = ? AND version = ?", colis.ID, current).
		Updates(map[string]any{
			"statut":                 colis.Statut,
			"agence_id":              colis.AgenceID,
			"livreur_id":             colis.LivreurID,
			"poids":                  colis.Poids,
			"prix_total":             colis.PrixTotal,
			"photo_livraison":        colis.PhotoLivraison,
			"signature_destinataire": colis.SignatureDestinataire,
			"motif_annulation":       colis.MotifAnnulation,
			"date_livraison":         colis.DateLivraison,
			"version":                colis.Version,
		})
	if res.Error != nil {
		colis.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		colis.Version = current
		return fmt.Errorf("%w: le colis a été modifié par une autre opération", apperr.ErrConflict)
	}
	return nil
}
