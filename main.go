// File: gatherly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatherly/config"
	"gatherly/cron"
	"gatherly/database"
	bookingRepoPkg "gatherly/database/repository/booking"
	chatRepoPkg "gatherly/database/repository/chat"
	listingRepoPkg "gatherly/database/repository/listing"
	promotionRepoPkg "gatherly/database/repository/promotion"
	providerRepoPkg "gatherly/database/repository/provider"
	reviewRepoPkg "gatherly/database/repository/review"
	userRepoPkg "gatherly/database/repository/user"
	"gatherly/handlers"
	"gatherly/middleware"
	"gatherly/routes"
	"gatherly/services/booking"
	"gatherly/services/chat"
	"gatherly/services/listing"
	"gatherly/services/notification"
	"gatherly/services/payment"
	"gatherly/services/promotion"
	"gatherly/services/provider"
	"gatherly/services/review"
	"gatherly/services/user"
	"gatherly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()
	payment.InitStripe(config.AppConfig.StripeKey)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	promotionRepo := promotionRepoPkg.NewMongoPromotionRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()

	// services.
	userService := &user.DefaultUserService{Repo: userRepo}
	providerService := &provider.DefaultProviderService{Repo: provRepo}

	notificationService, err := notification.NewDefaultNotificationService(userRepo, provRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	paymentHandler := payment.NewPaymentHandler(logger)
	subscriptionHandler := payment.NewSubscriptionHandler(logger)

	listingService := &listing.DefaultListingService{
		Repo:     listingRepo,
		Bookings: bookingRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:            bookingRepo,
		Listings:        listingRepo,
		PaymentHandler:  paymentHandler,
		NotificationSvc: notificationService,
	}

	reviewService := &review.DefaultReviewService{
		Repo:     reviewRepo,
		Bookings: bookingRepo,
		Listings: listingRepo,
	}

	promotionService := &promotion.DefaultPromotionService{
		Repo:          promotionRepo,
		Listings:      listingRepo,
		Providers:     provRepo,
		Subscriptions: subscriptionHandler,
	}

	chatService := &chat.DefaultChatService{
		Repo:            chatRepo,
		Listings:        listingRepo,
		NotificationSvc: notificationService,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:     userRepo,
		ProviderRepo: provRepo,

		User:      &handlers.UserHandler{UserService: userService},
		Provider:  &handlers.ProviderHandler{ProviderService: providerService},
		Listing:   &handlers.ListingHandler{ListingService: listingService},
		Booking:   &handlers.BookingHandler{BookingService: bookingService, SessionService: bookingService},
		Review:    &handlers.ReviewHandler{ReviewService: reviewService},
		Promotion: &handlers.PromotionHandler{PromotionService: promotionService},
		Chat:      &handlers.ChatHandler{ChatService: chatService},
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers: booking completion, promotion lifecycle, reminders.
	go cron.InitWorker(bookingRepo, promotionService, notificationService)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
