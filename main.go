package main

import (
	"github.com/owlCoder/task-management-system-software-sub000/clients"
	"github.com/owlCoder/task-management-system-software-sub000/config"
	"github.com/owlCoder/task-management-system-software-sub000/models"
	"github.com/owlCoder/task-management-system-software-sub000/routes"
)

func main() {
	cfg := config.Load()

	db := config.ConnectDB(cfg)
	db.AutoMigrate(
		&models.Review{},
		&models.ReviewComment{},
		&models.ReviewEvent{},
		&models.TaskTemplate{},
		&models.TemplateDependency{},
	)

	r := routes.SetupRouter(db, routes.Clients{
		Users:         clients.NewUserClient(cfg.UserServiceURL, cfg.ClientTimeout),
		Tasks:         clients.NewTaskClient(cfg.TaskServiceURL, cfg.ClientTimeout),
		Notifications: clients.NewNotificationClient(cfg.NotificationServiceURL, cfg.ClientTimeout),
	})
	r.Run(":" + cfg.Port)
}
