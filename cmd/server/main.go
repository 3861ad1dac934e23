package main

import (
	"log"
	"os"

	"sleepless/internal/db"
	"sleepless/internal/router"
	"sleepless/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// 配额服务：服务端权威实例，SQLite 持久化
	quota := services.NewQuotaService(services.NewGormQuotaStore(db.DB), services.DailyPostLimit)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions（浏览状态：最近展示窗口 + 浏览历史）
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("sleepless_session", store))

	// Routes
	router.RegisterRoutes(r, quota)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("sleepless server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
