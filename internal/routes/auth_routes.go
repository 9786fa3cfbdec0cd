package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/controllers"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	authed := r.Group("/auth")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/logout", controllers.Logout)
		authed.GET("/user", controllers.Profile)
	}
}
