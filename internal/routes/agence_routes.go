package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/controllers"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/middleware"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

func AgenceRoutes(r *gin.Engine) {
	agence := r.Group("/agence")
	agence.Use(middleware.RequireAuthWithRole(models.RoleAgence))
	{
		agence.POST("/setup", controllers.SetupAgence)
		agence.GET("/status", controllers.CheckAgenceStatus)
		agence.GET("/show", controllers.ShowAgence)
		agence.PUT("/update", controllers.UpdateAgence)

		// Workflow opérationnel
		agence.GET("/expeditions", controllers.ListExpeditions)
		agence.POST("/expeditions/:id/accepter", controllers.AccepterColis)
		agence.POST("/expeditions/:id/refuser", controllers.RefuserColis)
		agence.POST("/expeditions/:id/assign-livreur", controllers.AssignerLivreur)
		agence.POST("/expeditions/:id/statut", controllers.ChangerStatut)
		agence.POST("/expeditions/:id/preuves", controllers.AjouterPreuves)
		agence.POST("/expeditions/:id/verifier", controllers.VerifierColis)
	}
}
