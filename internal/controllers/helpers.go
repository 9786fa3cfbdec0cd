package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/apperr"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

// respondError maps a workflow failure onto the JSON envelope. Anything
// outside the apperr taxonomy is logged with detail and answered with a
// generic 500 so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Une erreur inattendue est survenue. Veuillez réessayer ultérieurement.",
		})
	}
}

// respondBindingError answers a gin binding/validation failure with the
// 422 envelope the mobile clients expect: one entry per offending field,
// keyed by its json name. Raw decoder errors are never echoed back.
func respondBindingError(c *gin.Context, err error) {
	fields := gin.H{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msgs, _ := fields[fe.Field()].([]string)
			fields[fe.Field()] = append(msgs, validationMessage(fe))
		}
	} else {
		fields["corps"] = []string{"Le corps de la requête est mal formé."}
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "Erreur de validation des données.",
		"errors":  fields,
	})
}

// validationMessage renders one field error in French.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "Ce champ est obligatoire."
	case "email":
		return "Adresse email invalide."
	case "min":
		return "La valeur est inférieure au minimum autorisé (" + fe.Param() + ")."
	case "max":
		return "La valeur dépasse le maximum autorisé (" + fe.Param() + ")."
	case "oneof":
		return "La valeur n'est pas dans la liste autorisée."
	case "eqfield":
		return "La confirmation ne correspond pas."
	case "hhmm":
		return "Heure invalide, format attendu HH:MM."
	case "jour":
		return "Jour de la semaine invalide."
	default:
		return "Valeur invalide."
	}
}

// authUserID extracts the user id stored in the context by the JWT
// middleware. Claims decode numbers as float64.
func authUserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

// currentAgence loads the agency profile of the authenticated caller.
// Every workflow operation goes through this gate: no profile, no mutation.
func currentAgence(c *gin.Context) (*models.Agence, bool) {
	var agence models.Agence
	if err := config.DB.Where("user_id = ?", authUserID(c)).First(&agence).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Profil d'agence introuvable pour cet utilisateur.",
			})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return &agence, true
}

// findColis resolves the :id route parameter to a colis row.
func findColis(c *gin.Context) (*models.Colis, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Colis introuvable."})
		return nil, false
	}

	var colis models.Colis
	if err := config.DB.First(&colis, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Colis introuvable."})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return &colis, true
}
