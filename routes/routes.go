package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/owlCoder/task-management-system-software-sub000/clients"
	"github.com/owlCoder/task-management-system-software-sub000/constants"
	"github.com/owlCoder/task-management-system-software-sub000/controllers"
	"github.com/owlCoder/task-management-system-software-sub000/middleware"
	"github.com/owlCoder/task-management-system-software-sub000/services"
)

type Clients struct {
	Users         *clients.UserClient
	Tasks         *clients.TaskClient
	Notifications *clients.NotificationClient
}

func SetupRouter(db *gorm.DB, cl Clients) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	reviewController := controllers.ReviewController{
		Reviews: &services.ReviewService{DB: db},
	}
	templateController := controllers.TemplateController{
		Templates: services.NewTemplateService(db, cl.Users, cl.Tasks, cl.Notifications),
	}

	pm := middleware.RequireRole(constants.RoleProjectManager)

	api := r.Group("/api", middleware.Identity())

	reviews := api.Group("/reviews")
	reviews.GET("", pm, reviewController.GetReviews)
	reviews.GET("/pending", pm, reviewController.GetPending)
	reviews.POST("/:taskId/send", reviewController.SendToReview)
	reviews.POST("/:taskId/accept", pm, reviewController.Approve)
	reviews.POST("/:taskId/reject", pm, reviewController.Reject)
	reviews.GET("/:taskId/history", reviewController.GetHistory)

	api.GET("/comments/:id", reviewController.GetComment)

	templates := api.Group("/templates")
	templates.GET("", templateController.GetTemplates)
	templates.GET("/:id", templateController.GetTemplate)
	templates.POST("", pm, templateController.CreateTemplate)
	templates.POST("/:id/create", pm, templateController.CreateTask)
	templates.POST("/:id/dependencies/:dependsOnId", pm, templateController.AddDependency)

	return r
}
