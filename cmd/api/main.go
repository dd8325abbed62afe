package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/XylonMarkLabs/justpos-backend/internal/cart"
	"github.com/XylonMarkLabs/justpos-backend/internal/database"
	"github.com/XylonMarkLabs/justpos-backend/internal/handlers"
	"github.com/XylonMarkLabs/justpos-backend/internal/middleware"
	"github.com/XylonMarkLabs/justpos-backend/internal/models"
	"github.com/XylonMarkLabs/justpos-backend/internal/receipt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment")
	}

	database.Connect()

	// cart mirror: redis when configured, in-process otherwise
	var cartStore cart.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisStore, err := cart.NewRedisStore(addr)
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer redisStore.Close()
		cartStore = redisStore
	} else {
		log.Println("REDIS_ADDR not set, keeping carts in memory")
		cartStore = cart.NewMemoryStore()
	}

	merchant := os.Getenv("MERCHANT_NAME")
	if merchant == "" {
		merchant = "JustPOS"
	}

	catalog := handlers.GormCatalog{DB: database.DB}
	authHandler := handlers.NewAuthHandler(database.DB)
	cartHandler := handlers.NewCartHandler(cartStore, catalog)
	orderHandler := handlers.NewOrderHandler(
		database.DB,
		cartStore,
		handlers.GormPlacer{DB: database.DB},
		receipt.Generator{Merchant: merchant},
	)

	app := fiber.New()
	app.Use(logger.New())

	// product images uploaded through the catalog endpoints
	app.Static("/public/uploads", "./public/uploads")

	api := app.Group("/api")

	// === PUBLIC ROUTES ===
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "Running", "message": "API Ready"})
	})
	api.Post("/user/login", authHandler.Login)

	// === PROTECTED ROUTES (JWT) ===
	api.Use(middleware.JWTProtected())

	api.Get("/user/me", authHandler.GetProfile)
	api.Put("/user/change-password", authHandler.ChangePassword)

	// User management (admin)
	users := api.Group("/user")
	users.Use(middleware.RoleProtected(models.RoleAdmin))
	users.Get("/get-all", handlers.GetUsers(database.DB))
	users.Post("/add", authHandler.Register)
	users.Put("/update/:id", handlers.UpdateUser(database.DB))
	users.Delete("/delete/:id", handlers.DeleteUser(database.DB))

	// Catalog
	products := api.Group("/product")
	products.Get("/get-all", handlers.GetProducts(database.DB))
	products.Get("/get/:code", handlers.GetProduct(database.DB))
	products.Post("/add", middleware.RoleProtected(models.RoleAdmin), handlers.AddProduct(database.DB))
	products.Put("/update/:code", middleware.RoleProtected(models.RoleAdmin), handlers.UpdateProduct(database.DB))
	products.Put("/stock/:code", middleware.RoleProtected(models.RoleAdmin, models.RoleManager), handlers.StockIn(database.DB))
	products.Delete("/delete/:code", middleware.RoleProtected(models.RoleAdmin), handlers.DeleteProduct(database.DB))

	// Categories (admin)
	categories := api.Group("/category")
	categories.Get("/get-all", handlers.GetCategories(database.DB))
	categories.Post("/add", middleware.RoleProtected(models.RoleAdmin), handlers.AddCategory(database.DB))
	categories.Put("/update/:id", middleware.RoleProtected(models.RoleAdmin), handlers.UpdateCategory(database.DB))
	categories.Delete("/delete/:id", middleware.RoleProtected(models.RoleAdmin), handlers.DeleteCategory(database.DB))

	// Cart (any authenticated terminal role)
	carts := api.Group("/cart")
	carts.Get("/get/:username", cartHandler.GetCart)
	carts.Post("/add", cartHandler.AddToCart)
	carts.Post("/remove", cartHandler.RemoveFromCart)
	carts.Put("/update-quantity", cartHandler.UpdateQuantity)
	carts.Put("/clear/:username", cartHandler.ClearCart)

	// Orders
	orders := api.Group("/order")
	orders.Post("/checkout", orderHandler.Checkout)
	orders.Get("/get-all", middleware.RoleProtected(models.RoleAdmin, models.RoleManager), orderHandler.GetOrders)
	orders.Get("/get/:orderId", orderHandler.GetOrder)
	orders.Get("/receipt/:orderId", orderHandler.Receipt)

	// Reports (admin + manager)
	reports := api.Group("/report")
	reports.Use(middleware.RoleProtected(models.RoleAdmin, models.RoleManager))
	reports.Get("/sales", handlers.SalesReport(database.DB))
	reports.Get("/inventory", handlers.InventoryReport(database.DB))

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Server listening on port :" + port)
	log.Fatal(app.Listen(":" + port))
}
