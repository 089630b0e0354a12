package main

import (
	"fmt"
	"log"
	"os"

	"medequip-backend/config"
	"medequip-backend/models"
	"medequip-backend/routes"
	"medequip-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Machine{},
		&models.Service{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.AMC{},
		&models.ReminderLog{},
		&models.NumberSequence{},
	)
}

func main() {
	services.NewReminderService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
