package router

import (
	"CloudStore/internal/handler"
	"CloudStore/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
			auth.POST("/logout", handler.Logout)
			auth.GET("/me", utils.AuthMiddleware(), handler.Me)
		}

		files := api.Group("/files")
		files.Use(utils.AuthMiddleware())
		{
			files.POST("/upload", handler.UploadFile)
			files.GET("/my-files", handler.MyFiles)
			files.DELETE("/:fileId", handler.DeleteFile)
		}
	}
	return r
}
