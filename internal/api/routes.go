package api

import (
	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/service"
	"fitnote/planner/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	planService service.PlanService,
	workoutCatalog *catalog.Catalog,
	presigner storage.Presigner, // nil when the storage driver cannot presign
) {

	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(workoutCatalog)
	planHandler := NewPlanHandler(planService, presigner)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.GET("/session", authHandler.GetSession)
			authGroup.POST("/signout", authHandler.SignOut)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Catalog Routes ---
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("", catalogHandler.SearchCatalog)
			catalogGroup.GET("/categories", catalogHandler.GetCategories)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.DELETE("", planHandler.ResetPlan)
			planGroup.GET("/events", planHandler.StreamPlan)
			planGroup.GET("/export", planHandler.ExportPlan)

			sections := planGroup.Group("/sections")
			{
				sections.POST("", planHandler.AddSection)
				sections.POST("/reorder", planHandler.ReorderSections)
				sections.PATCH("/:sectionId", planHandler.RenameSection)
				sections.DELETE("/:sectionId", planHandler.DeleteSection)

				// Workouts within a section
				sections.POST("/:sectionId/workouts", planHandler.AddWorkout)
				sections.POST("/:sectionId/workouts/reorder", planHandler.ReorderWorkouts)
				sections.PATCH("/:sectionId/workouts/:workoutId", planHandler.UpdateWorkout)
				sections.DELETE("/:sectionId/workouts/:workoutId", planHandler.DeleteWorkout)
			}
		}
	}
}
