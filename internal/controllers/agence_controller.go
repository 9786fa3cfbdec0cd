package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

type horaireInput struct {
	Jour      string `json:"jour" binding:"required,jour"`
	Ouverture string `json:"ouverture" binding:"required,hhmm"`
	Fermeture string `json:"fermeture" binding:"required,hhmm"`
}

type setupAgenceInput struct {
	NomAgence        string         `json:"nom_agence" binding:"required,max=255"`
	Telephone        string         `json:"telephone" binding:"required,max=20"`
	Description      string         `json:"description" binding:"omitempty,max=1000"`
	Adresse          string         `json:"adresse" binding:"required,max=255"`
	Ville            string         `json:"ville" binding:"required,max=255"`
	Commune          string         `json:"commune" binding:"required,max=255"`
	Latitude         *float64       `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude        *float64       `json:"longitude" binding:"required,min=-180,max=180"`
	ZoneCouvertureKm *float64       `json:"zone_couverture_km" binding:"omitempty,min=1,max=100"`
	Horaires         []horaireInput `json:"horaires" binding:"omitempty,dive"`
	MessageAccueil   string         `json:"message_accueil" binding:"omitempty,max=1000"`
}

// SetupAgence creates the agency profile of the authenticated user.
// One profile per user: a second call always fails.
func SetupAgence(c *gin.Context) {
	userID := authUserID(c)

	var existing models.Agence
	err := config.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Une agence est déjà configurée pour cet utilisateur.",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	var input setupAgenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	agence := models.Agence{
		UserID:           userID,
		NomAgence:        input.NomAgence,
		Telephone:        input.Telephone,
		Description:      input.Description,
		Adresse:          input.Adresse,
		Ville:            input.Ville,
		Commune:          input.Commune,
		Latitude:         *input.Latitude,
		Longitude:        *input.Longitude,
		Horaires:         []models.Horaire{},
		ZoneCouvertureKm: 10,
		Actif:            true,
		MessageAccueil:   input.MessageAccueil,
	}
	for _, h := range input.Horaires {
		agence.Horaires = append(agence.Horaires, models.Horaire{
			Jour:      h.Jour,
			Ouverture: h.Ouverture,
			Fermeture: h.Fermeture,
		})
	}
	if input.ZoneCouvertureKm != nil {
		agence.ZoneCouvertureKm = *input.ZoneCouvertureKm
	}

	if err := config.DB.Create(&agence).Error; err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Une agence est déjà configurée pour cet utilisateur.",
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Agence configurée avec succès.",
		"agence":  agence,
	})
}

// CheckAgenceStatus reports whether the caller has configured an agency.
func CheckAgenceStatus(c *gin.Context) {
	var agence models.Agence
	err := config.DB.Where("user_id = ?", authUserID(c)).First(&agence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"has_agence": false,
				"agence":     nil,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"has_agence": true,
		"agence":     agence,
	})
}

// ShowAgence returns the caller's agency profile.
func ShowAgence(c *gin.Context) {
	agence, ok := currentAgence(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"agence":   agence,
		"position": agencePosition(agence),
	})
}

type updateAgenceInput struct {
	NomAgence        *string           `json:"nom_agence" binding:"omitempty,max=255"`
	Telephone        *string           `json:"telephone" binding:"omitempty,max=20"`
	Description      *string           `json:"description" binding:"omitempty,max=1000"`
	Adresse          *string           `json:"adresse" binding:"omitempty,max=255"`
	Ville            *string           `json:"ville" binding:"omitempty,max=255"`
	Commune          *string           `json:"commune" binding:"omitempty,max=255"`
	Latitude         *float64          `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64          `json:"longitude" binding:"omitempty,min=-180,max=180"`
	ZoneCouvertureKm *float64          `json:"zone_couverture_km" binding:"omitempty,min=0"`
	Horaires         *[]models.Horaire `json:"horaires"`
	MessageAccueil   *string           `json:"message_accueil"`
	Actif            *bool             `json:"actif"`
}

// UpdateAgence applies a partial update to the caller's agency profile.
// The update path is deliberately looser than setup: the coverage radius
// floor drops to 0 and horaires entries are taken as-is.
func UpdateAgence(c *gin.Context) {
	agence, ok := currentAgence(c)
	if !ok {
		return
	}

	var input updateAgenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	if input.NomAgence != nil {
		agence.NomAgence = *input.NomAgence
	}
	if input.Telephone != nil {
		agence.Telephone = *input.Telephone
	}
	if input.Description != nil {
		agence.Description = *input.Description
	}
	if input.Adresse != nil {
		agence.Adresse = *input.Adresse
	}
	if input.Ville != nil {
		agence.Ville = *input.Ville
	}
	if input.Commune != nil {
		agence.Commune = *input.Commune
	}
	if input.Latitude != nil {
		agence.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		agence.Longitude = *input.Longitude
	}
	if input.ZoneCouvertureKm != nil {
		agence.ZoneCouvertureKm = *input.ZoneCouvertureKm
	}
	if input.Horaires != nil {
		agence.Horaires = *input.Horaires
	}
	if input.MessageAccueil != nil {
		agence.MessageAccueil = *input.MessageAccueil
	}
	if input.Actif != nil {
		agence.Actif = *input.Actif
	}

	if err := config.DB.Save(agence).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profil de l'agence mis à jour avec succès.",
		"agence":  agence,
	})
}

// agencePosition renders the agency coordinates as a GeoJSON point for
// the map views of the mobile clients.
func agencePosition(a *models.Agence) json.RawMessage {
	p := geom.NewPointFlat(geom.XY, []float64{a.Longitude, a.Latitude})
	b, err := gjson.Marshal(p)
	if err != nil {
		return nil
	}
	return json.RawMessage(b)
}
