package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/apperr"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/storage"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/workflow"
)

// Proofs is the gateway used to persist delivery proofs. Package-level so
// tests can point it at a temp directory.
var Proofs storage.ProofStore = storage.NewDiskStore(os.Getenv("PROOF_STORAGE_DIR"))

const (
	colisPerPage  = 20
	proofMaxBytes = 5 << 20 // 5MB
	dateLayout    = "2006-01-02"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ListExpeditions returns the colis operated by the caller's agency,
// newest first, filtered by status and creation-date range, 20 per page.
func ListExpeditions(c *gin.Context) {
	agence, ok := currentAgence(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.Colis{}).Where("agence_id = ?", agence.ID)

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseColisStatus(raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
			return
		}
		query = query.Where("statut = ?", status)
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: date 'from' invalide", apperr.ErrValidation))
			return
		}
		query = query.Where("created_at >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: date 'to' invalide", apperr.ErrValidation))
			return
		}
		// inclusive end of day
		query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var colis []models.Colis
	if err := query.
		Order("created_at DESC").
		Limit(colisPerPage).
		Offset((page - 1) * colisPerPage).
		Find(&colis).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    colis,
		"pagination": gin.H{
			"page":     page,
			"per_page": colisPerPage,
			"total":    total,
		},
	})
}

// AccepterColis accepts a delivery request and attaches it to the agency.
func AccepterColis(c *gin.Context) {
	agence, ok := currentAgence(c)
	if !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	if err := workflow.Accept(config.DB, colis, agence); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Demande acceptée.", "colis": colis})
}

// RefuserColis rejects a pending request; the reason is persisted.
func RefuserColis(c *gin.Context) {
	if _, ok := currentAgence(c); !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	var input struct {
		Motif string `json:"motif"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := workflow.Reject(config.DB, colis, input.Motif); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Demande refusée.", "colis": colis})
}

// AssignerLivreur assigns a courier to the colis.
func AssignerLivreur(c *gin.Context) {
	if _, ok := currentAgence(c); !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	var input struct {
		LivreurID uint `json:"livreur_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := workflow.AssignLivreur(config.DB, colis, input.LivreurID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Livreur assigné.", "colis": colis})
}

// ChangerStatut advances the colis along the delivery pipeline.
func ChangerStatut(c *gin.Context) {
	if _, ok := currentAgence(c); !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	status, err := models.ParseColisStatus(input.Status)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	if err := workflow.ChangeStatus(config.DB, colis, status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Statut mis à jour.", "colis": colis})
}

// AjouterPreuves uploads the delivery photo and/or recipient signature.
// Each file is optional and stored independently.
func AjouterPreuves(c *gin.Context) {
	if _, ok := currentAgence(c); !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	photoPath, ok := storeProof(c, "photo_livraison")
	if !ok {
		return
	}
	signaturePath, ok := storeProof(c, "signature_destinataire")
	if !ok {
		return
	}

	if err := workflow.AttachProofs(config.DB, colis, photoPath, signaturePath); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Preuves ajoutées.", "colis": colis})
}

// storeProof validates and stores one optional multipart file field.
// Returns ("", true) when the field is absent.
func storeProof(c *gin.Context, field string) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		// absent field, or no multipart form at all: nothing to store
		return "", true
	}

	if file.Size > proofMaxBytes {
		respondError(c, fmt.Errorf("%w: le fichier %s dépasse 5 Mo", apperr.ErrValidation, field))
		return "", false
	}
	if !imageExts[strings.ToLower(filepath.Ext(file.Filename))] {
		respondError(c, fmt.Errorf("%w: le fichier %s doit être une image", apperr.ErrValidation, field))
		return "", false
	}

	path, err := Proofs.Store(file)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return path, true
}

// VerifierColis records the measured weight and/or the adjusted price.
func VerifierColis(c *gin.Context) {
	if _, ok := currentAgence(c); !ok {
		return
	}
	colis, ok := findColis(c)
	if !ok {
		return
	}

	var input struct {
		Poids     *float64 `json:"poids"`
		PrixTotal *float64 `json:"prix_total"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := workflow.Verify(config.DB, colis, input.Poids, input.PrixTotal); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Colis vérifié.", "colis": colis})
}
