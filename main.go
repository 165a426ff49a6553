package main

import (
	"CloudStore/config"
	"CloudStore/internal/repo"
	"CloudStore/internal/session"
	"CloudStore/internal/storage"
	"CloudStore/router"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	session.InitSessionStore()

	router := router.InitRouter()

	router.Run(":" + config.AppConfig.Port)
}
