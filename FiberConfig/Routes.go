package FiberConfig

import (
	"log"

	"Tracker/Config"
	"Tracker/Controllers"
	"Tracker/Models"
	"Tracker/Progress"
	"Tracker/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, engine *Progress.Engine, settings Config.Settings) {
	// Initialize handlers
	authController := Controllers.NewAuthController(db, settings.JWTSecret)
	userController := Controllers.NewUserController(db)
	definitionController := Controllers.NewTaskDefinitionController(db)
	entryController := Controllers.NewTaskEntryController(db)
	reportController := Controllers.NewDailyReportController(db, engine)
	progressController := Controllers.NewProgressController(engine)
	exportController := Controllers.NewExportController(engine)

	app.Post("/login", authController.Login)

	// Student-facing routes
	app.Post("/submit", middleware.Verify(Models.RoleStudent), reportController.Submit)
	app.Get("/last-known-data/:id/:date", middleware.Verify(Models.RoleStudent), reportController.LastKnownData)
	app.Get("/previous-day-data/:id/:date", middleware.Verify(Models.RoleStudent), reportController.PreviousDayData)
	app.Get("/weekly-progress/:id/:date", middleware.Verify(Models.RoleStudent), progressController.WeeklyProgress)

	// Admin routes
	admin := app.Group("/admin", middleware.Verify(Models.RoleAdmin))
	admin.Get("/users", userController.GetStudents)
	admin.Post("/add-user", userController.AddUser)
	admin.Post("/task-definition/:id/set-active-status", definitionController.SetActiveStatus)

	student := admin.Group("/user/:id")
	student.Get("/task-definitions", definitionController.GetTaskDefinitions)
	student.Post("/task-definitions", definitionController.UpdateTaskDefinitions)
	student.Get("/task-entries", entryController.GetTaskEntries)
	student.Post("/task-entries", entryController.UpdateTaskEntries)
	student.Get("/has-data", reportController.HasData)
	student.Get("/daily-report/:date", reportController.GetDailyReport)
	student.Post("/daily-report/:date", reportController.UpdateDailyReport)
	student.Get("/daily-report/:date/weekly-progress", progressController.WeeklyProgress)
	student.Get("/weekly-progress/:date/export", exportController.ExportWeeklyProgress)
}

func FiberConfig(engine *Progress.Engine, settings Config.Settings) {
	log.Println("Server Up...")
	middleware.SecretKey = settings.JWTSecret

	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, engine, settings)

	// React frontend build, index.html for client side routes
	app.Static("/", "./frontend/build")
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile("./frontend/build/index.html")
	})

	if err := app.Listen(settings.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
