package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/controllers"
	"github.com/marco-delgado/pizzeria-api/middleware"
	"github.com/marco-delgado/pizzeria-api/models"
	"github.com/marco-delgado/pizzeria-api/services"
)

func main() {
	log.Println("Starting Pizzeria API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.PizzaSize{},
		&models.Topping{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Println("Image storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, product image uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter assembles the public storefront surface and the role-gated
// back-office surface
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.StorefrontOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		// Public storefront: menu browse, price quotes and guest checkout
		v1.GET("/menu", controllers.GetMenu)
		v1.GET("/menu/price", controllers.GetMenuPrice)
		v1.POST("/checkout", controllers.Checkout)

		authenticated := v1.Group("")
		authenticated.Use(middleware.EnsureValidToken(cfg))
		{
			// Profile bootstrap needs a valid token but no profile yet
			authenticated.POST("/staff/profile", controllers.CreateStaffProfile)
			authenticated.GET("/staff/profile", controllers.GetMyProfile)

			// All staff handle orders
			staff := authenticated.Group("")
			staff.Use(middleware.RequireStaff())
			{
				staff.GET("/navigation", controllers.GetNavigation)
				staff.GET("/orders", controllers.ListOrders)
				staff.GET("/orders/create", controllers.NewOrderForm)
				staff.POST("/orders", controllers.CreateOrder)
				staff.GET("/orders/:id/edit", controllers.EditOrderForm)
				staff.PATCH("/orders/:id", controllers.UpdateOrder)
			}

			// Admin, Manager and Chef manage the menu
			menu := authenticated.Group("")
			menu.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleChef))
			{
				menu.GET("/products", controllers.ListProducts)
				menu.GET("/products/:id", controllers.GetProduct)
				menu.POST("/products", controllers.CreateProduct)
				menu.PATCH("/products/:id", controllers.UpdateProduct)
				menu.DELETE("/products/:id", controllers.DeleteProduct)
				menu.POST("/products/:id/image", controllers.UploadProductImage)
				menu.DELETE("/products/:id/image", controllers.DeleteProductImage)

				menu.GET("/pizza-sizes", controllers.ListPizzaSizes)
				menu.POST("/pizza-sizes", controllers.CreatePizzaSize)
				menu.PUT("/pizza-sizes/:id", controllers.UpdatePizzaSize)
				menu.DELETE("/pizza-sizes/:id", controllers.DeletePizzaSize)

				menu.GET("/toppings", controllers.ListToppings)
				menu.POST("/toppings", controllers.CreateTopping)
				menu.PUT("/toppings/:id", controllers.UpdateTopping)
				menu.DELETE("/toppings/:id", controllers.DeleteTopping)
			}

			// Admin, Manager and Receptionist manage customers
			front := authenticated.Group("")
			front.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleReceptionist))
			{
				front.GET("/customers", controllers.ListCustomers)
				front.POST("/customers", controllers.CreateCustomer)
				front.PATCH("/customers/:id", controllers.UpdateCustomer)
				front.DELETE("/customers/:id", controllers.DeleteCustomer)
			}

			// Admin and Manager manage staff
			admin := authenticated.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				admin.GET("/staff", controllers.ListStaff)
				admin.PATCH("/staff/:id", controllers.UpdateStaff)
				admin.DELETE("/staff/:id", controllers.DeleteStaff)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pizzeria API is running",
	})
}
