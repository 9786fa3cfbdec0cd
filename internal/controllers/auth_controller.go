package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/middleware"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

type registerInput struct {
	Nom                  string `json:"nom" binding:"required,max=255"`
	Prenoms              string `json:"prenoms" binding:"required,max=255"`
	Telephone            string `json:"telephone" binding:"required,max=20"`
	Email                string `json:"email" binding:"omitempty,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	Role                 string `json:"role" binding:"required,oneof=client livreur agence backoffice"`
}

// Register creates a user account and issues its first token. Users of
// role agence still have to configure their profile before they can use
// the workflow; the response flags it.
func Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Nom:       input.Nom,
		Prenoms:   input.Prenoms,
		Telephone: input.Telephone,
		Password:  string(hashed),
		Role:      input.Role,
		Actif:     true,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}

	if err := config.DB.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Erreur de validation des données.",
				"errors":  gin.H{"telephone": []string{"Le téléphone ou l'email est déjà utilisé."}},
			})
			return
		}
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":               true,
		"message":               "Inscription réussie",
		"user":                  user,
		"token":                 token,
		"requires_agence_setup": user.Role == models.RoleAgence,
	})
}

type loginInput struct {
	Telephone string `json:"telephone" binding:"required_without=Email"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=client livreur agence backoffice"`
}

// Login authenticates by telephone or email, scoped to the declared role.
func Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	query := config.DB.Where("role = ?", input.Role)
	if input.Telephone != "" {
		query = query.Where("telephone = ?", input.Telephone)
	} else {
		query = query.Where("email = ?", input.Email)
	}

	var user models.User
	err := query.First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Erreur de validation des identifiants.",
			"errors":  gin.H{"auth": []string{"Les identifiants fournis sont incorrects."}},
		})
		return
	}

	if !user.Actif {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Erreur de validation des identifiants.",
			"errors":  gin.H{"account": []string{"Votre compte est désactivé."}},
		})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Connexion réussie",
		"user":    user,
		"token":   token,
	})
}

// Logout acknowledges the client-side token discard. Tokens are stateless
// JWTs; there is no server-side session to revoke.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Déconnexion réussie.",
	})
}

// Profile returns the authenticated user, with the agency profile when
// one has been configured.
func Profile(c *gin.Context) {
	var user models.User
	if err := config.DB.Preload("Agence").First(&user, authUserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Utilisateur introuvable."})
		} else {
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// isDuplicate detects a unique-constraint violation, whichever driver
// reported it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
