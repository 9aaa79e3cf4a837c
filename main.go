package main

import (
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/veselovese/bronitech/handlers"
	"github.com/veselovese/bronitech/initializers"
	"github.com/veselovese/bronitech/middleware"
	"github.com/veselovese/bronitech/pkg/clock"
	"github.com/veselovese/bronitech/pkg/notify"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/websocket"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	if err := initializers.InitDefaults(db); err != nil {
		log.Fatal("Failed to initialize default data:", err)
	}

	if err := initializers.InitStorage(); err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	usersRepo := repository.NewUsersRepository(db)
	buildingsRepo := repository.NewBuildingsRepository(db)
	itemsRepo := repository.NewItemsRepository(db)
	spacesRepo := repository.NewSpacesRepository(db)
	imagesRepo := repository.NewImagesRepository(db)
	reviewsRepo := repository.NewReviewsRepository(db)
	bookingsRepo := repository.NewBookingsRepository(db)
	organizersRepo := repository.NewOrganizersRepository(db)
	eventsRepo := repository.NewEventsRepository(db)
	registrationsRepo := repository.NewRegistrationsRepository(db)
	favoritesRepo := repository.NewFavoritesRepository(db)
	notificationsRepo := repository.NewNotificationsRepository(db)

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLogger())
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	tgChatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
	alerter, err := notify.NewTelegramAlerter(os.Getenv("TELEGRAM_BOT_TOKEN"), tgChatID)
	if err != nil {
		log.Fatal("Failed to initialize telegram alerts:", err)
	}

	clk := clock.System{}
	publicBaseURL := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}

	authHandler := handlers.NewAuthHandler(usersRepo, jwtSecret)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	buildingsHandler := handlers.NewBuildingsHandler(buildingsRepo)
	itemsHandler := handlers.NewItemsHandler(itemsRepo)
	spacesHandler := handlers.NewSpacesHandler(spacesRepo, bookingsRepo, eventsRepo, clk)
	imagesHandler := handlers.NewImagesHandler(imagesRepo, spacesRepo, eventsRepo)
	reviewsHandler := handlers.NewReviewsHandler(reviewsRepo, bookingsRepo, usersRepo)
	bookingsHandler := handlers.NewBookingsHandler(bookingsRepo, spacesRepo, notificationsRepo, notifier, alerter, clk)
	organizersHandler := handlers.NewOrganizersHandler(organizersRepo, eventsRepo)
	eventsHandler := handlers.NewEventsHandler(eventsRepo, organizersRepo, usersRepo, clk, publicBaseURL)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsRepo, eventsRepo, notificationsRepo, notifier, alerter, clk)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesRepo, spacesRepo, eventsRepo)
	widgetsHandler := handlers.NewWidgetsHandler(spacesRepo, eventsRepo, organizersRepo, clk)
	notificationsHandler := handlers.NewNotificationsHandler(notificationsRepo)

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)
	r.GET("/widgets/home", widgetsHandler.Home)

	// Public endpoints with stricter auth rate limit
	authPublic := r.Group("/", middleware.RateLimitAuth())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", authHandler.Login)

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.GET("/ws", websocket.ServeWS(hub))

		auth.GET("/me", authHandler.Me)
		auth.PATCH("/me/profile", authHandler.UpdateProfile)
		auth.POST("/me/avatar", authHandler.UploadAvatar)
		auth.GET("/me/avatar", authHandler.Avatar)

		auth.GET("/buildings", buildingsHandler.List)
		auth.GET("/buildings/cities", buildingsHandler.Cities)
		auth.GET("/items/spaces", itemsHandler.ListSpaceItems)
		auth.GET("/items/events", itemsHandler.ListEventItems)

		auth.GET("/spaces", spacesHandler.Search)
		auth.GET("/spaces/short", spacesHandler.ShortList)
		auth.GET("/spaces/:id", spacesHandler.Get)
		auth.GET("/spaces/:id/images/:imageId", imagesHandler.DownloadSpaceImage)
		auth.POST("/spaces/:id/book", bookingsHandler.Book)
		auth.POST("/spaces/:id/reviews", reviewsHandler.Create)
		auth.POST("/spaces/:id/favorite", favoritesHandler.ToggleSpace)

		auth.GET("/events", eventsHandler.ListUpcoming)
		auth.GET("/events/:id", eventsHandler.Get)
		auth.GET("/events/:id/pdf", eventsHandler.Summary)
		auth.POST("/events", eventsHandler.Create)
		auth.PATCH("/events/:id", eventsHandler.Update)
		auth.POST("/events/:id/register", registrationsHandler.Register)
		auth.POST("/events/:id/favorite", favoritesHandler.ToggleEvent)

		auth.GET("/organizers", organizersHandler.Search)
		auth.GET("/organizers/:id", organizersHandler.Get)
		auth.GET("/organizers/:id/events", organizersHandler.Events)
		auth.PATCH("/organizers/:id", organizersHandler.Update)

		auth.GET("/bookings/my", bookingsHandler.ListMine)
		auth.GET("/registrations/my", registrationsHandler.ListMine)
		auth.GET("/favorites/my", favoritesHandler.ListMine)

		auth.GET("/notifications/unread", notificationsHandler.ListUnread)
		auth.POST("/notifications/:id/read", notificationsHandler.MarkRead)
		auth.POST("/notifications/read-all", notificationsHandler.MarkAllRead)

		auth.PATCH("/reviews/:id", reviewsHandler.Update)
		auth.DELETE("/reviews/:id", reviewsHandler.Delete)
	}

	admin := r.Group("/admin", handlers.AuthMiddleware(jwtSecret), handlers.RequireAdmin(usersRepo))
	{
		admin.GET("/users", usersHandler.List)
		admin.POST("/users/:id/makeadmin", usersHandler.MakeAdmin)
		admin.POST("/users/:id/unmakeadmin", usersHandler.UnmakeAdmin)

		admin.POST("/buildings", buildingsHandler.Create)
		admin.PATCH("/buildings/:id", buildingsHandler.Update)
		admin.POST("/items/spaces", itemsHandler.CreateSpaceItem)
		admin.POST("/items/events", itemsHandler.CreateEventItem)

		admin.POST("/spaces", spacesHandler.Create)
		admin.PATCH("/spaces/:id", spacesHandler.Update)
		admin.GET("/spaces/hidden", spacesHandler.ListHidden)
		admin.POST("/spaces/:id/show", spacesHandler.Show)
		admin.POST("/spaces/:id/hide", spacesHandler.Hide)
		admin.POST("/spaces/:id/images", imagesHandler.UploadSpaceImage)
		admin.DELETE("/spaces/:id/images/:imageId", imagesHandler.DeleteSpaceImage)
		admin.POST("/spaces/:id/images/:imageId/cover", imagesHandler.SetSpaceCover)
		admin.GET("/spaces/stats", spacesHandler.WeeklyStats)

		admin.GET("/events/hidden", eventsHandler.ListHidden)
		admin.POST("/events/:id/show", eventsHandler.Show)
		admin.POST("/events/:id/hide", eventsHandler.Hide)
		admin.POST("/events/:id/images", imagesHandler.UploadEventImage)
		admin.DELETE("/events/:id/images/:imageId", imagesHandler.DeleteEventImage)
		admin.POST("/events/:id/images/:imageId/cover", imagesHandler.SetEventCover)

		admin.POST("/organizers", organizersHandler.Create)

		admin.GET("/bookings/pending", bookingsHandler.ListPending)
		admin.POST("/bookings/:id/confirm", bookingsHandler.Confirm)
		admin.POST("/bookings/:id/cancel", bookingsHandler.Cancel)

		admin.GET("/registrations/pending", registrationsHandler.ListPending)
		admin.POST("/registrations/:id/confirm", registrationsHandler.Confirm)
		admin.POST("/registrations/:id/cancel", registrationsHandler.Cancel)

		admin.GET("/reviews/pending", reviewsHandler.ListPending)
		admin.POST("/reviews/:id/approve", reviewsHandler.Approve)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
