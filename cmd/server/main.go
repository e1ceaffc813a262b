package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	blogapp "github.com/baysoko/backend/internal/application/blog"
	bulkapp "github.com/baysoko/backend/internal/application/bulk"
	catalogapp "github.com/baysoko/backend/internal/application/catalog"
	chatapp "github.com/baysoko/backend/internal/application/chat"
	deliveryapp "github.com/baysoko/backend/internal/application/delivery"
	appevent "github.com/baysoko/backend/internal/application/event"
	identityapp "github.com/baysoko/backend/internal/application/identity"
	inventoryapp "github.com/baysoko/backend/internal/application/inventory"
	notificationapp "github.com/baysoko/backend/internal/application/notification"
	orderapp "github.com/baysoko/backend/internal/application/order"
	paymentapp "github.com/baysoko/backend/internal/application/payment"
	reportapp "github.com/baysoko/backend/internal/application/report"
	reviewapp "github.com/baysoko/backend/internal/application/review"
	storeapp "github.com/baysoko/backend/internal/application/store"
	subscriptionapp "github.com/baysoko/backend/internal/application/subscription"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/infrastructure/auth"
	"github.com/baysoko/backend/internal/infrastructure/cache"
	"github.com/baysoko/backend/internal/infrastructure/config"
	"github.com/baysoko/backend/internal/infrastructure/event"
	"github.com/baysoko/backend/internal/infrastructure/logger"
	mpesa "github.com/baysoko/backend/internal/infrastructure/payment"
	"github.com/baysoko/backend/internal/infrastructure/persistence"
	"github.com/baysoko/backend/internal/infrastructure/scheduler"
	"github.com/baysoko/backend/internal/infrastructure/storage"
	"github.com/baysoko/backend/internal/infrastructure/telemetry"
	"github.com/baysoko/backend/internal/infrastructure/webhook"
	"github.com/baysoko/backend/internal/interfaces/http/handler"
	"github.com/baysoko/backend/internal/interfaces/http/middleware"
	"github.com/baysoko/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("starting baysoko backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	payment.EscrowAutoReleaseAfter = time.Duration(cfg.Escrow.AutoReleaseDays) * 24 * time.Hour

	// Initialize database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	storeReviewRepo := persistence.NewGormStoreReviewRepository(db.DB)
	bundleRepo := persistence.NewGormBundleRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	faqRepo := persistence.NewGormFAQRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	imageRepo := persistence.NewGormListingImageRepository(db.DB)
	priceHistoryRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	favoriteRepo := persistence.NewGormFavoriteRepository(db.DB)
	recentRepo := persistence.NewGormRecentlyViewedRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reservationRepo := persistence.NewGormStockReservationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	escrowRepo := persistence.NewGormEscrowRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	trialRepo := persistence.NewGormUserTrialRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRequestRepository(db.DB)
	zoneRepo := persistence.NewGormZoneRepository(db.DB)
	webhookLogRepo := persistence.NewGormWebhookLogRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	alertRuleRepo := persistence.NewGormAlertRuleRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	likeRepo := persistence.NewGormLikeRepository(db.DB)
	blogCategoryRepo := persistence.NewGormBlogCategoryRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)
	stockReportRepo := persistence.NewGormStockReportRepository(db.DB)
	earningsReportRepo := persistence.NewGormEarningsReportRepository(db.DB)
	importHistoryRepo := persistence.NewGormImportHistoryRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all domain events
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Outbox publisher persists domain events inside the same transaction
	// as the aggregate they belong to
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	deliveryRepo.SetOutboxEventSaver(outboxPublisher)
	escrowRepo.SetOutboxEventSaver(outboxPublisher)
	alertRepo.SetOutboxEventSaver(outboxPublisher)
	reviewRepo.SetOutboxEventSaver(outboxPublisher)
	conversationRepo.SetOutboxEventSaver(outboxPublisher)
	messageRepo.SetOutboxEventSaver(outboxPublisher)

	// Select the M-Pesa gateway. Without Daraja credentials the simulated
	// gateway drives the full payment lifecycle locally.
	var gateway payment.MpesaGateway
	var simGateway *mpesa.SimulatedGateway
	if cfg.Mpesa.ConsumerKey == "" || cfg.Mpesa.ConsumerSecret == "" {
		simGateway = mpesa.NewSimulatedGateway(cfg.Mpesa.SimulatedDelay, log)
		gateway = simGateway
		log.Warn("no Daraja credentials configured, using simulated M-Pesa gateway")
	} else {
		darajaGateway, err := mpesa.NewDarajaGateway(&mpesa.DarajaConfig{
			ConsumerKey:    cfg.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Mpesa.ConsumerSecret,
			ShortCode:      cfg.Mpesa.ShortCode,
			Passkey:        cfg.Mpesa.Passkey,
			CallbackURL:    cfg.Mpesa.CallbackURL,
			IsSandbox:      cfg.Mpesa.Sandbox,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize Daraja gateway", zap.Error(err))
		}
		gateway = darajaGateway
	}

	// Object storage for listing images
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("no storage bucket configured, image uploads are stubbed")
	}

	// Token blacklist backs logout. Redis when available, otherwise
	// revocation only lasts until the process restarts.
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("redis token blacklist unavailable, using in-memory fallback", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Idempotency store deduplicates gateway callbacks
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("failed to initialize idempotency store", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Courier webhook dispatch
	webhookDispatcher := webhook.NewHTTPDispatcher(cfg.Webhook, log)
	webhookNotifier := deliveryapp.NewWebhookNotifier(webhookLogRepo, webhookDispatcher, log)

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	storeService := storeapp.NewStoreService(storeRepo, userRepo, subscriptionRepo, storeReviewRepo, log)
	storeReviewService := storeapp.NewReviewService(storeReviewRepo, storeRepo, log)
	bundleService := storeapp.NewBundleService(bundleRepo, storeRepo, listingRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	faqService := catalogapp.NewFAQService(faqRepo)
	listingService := catalogapp.NewListingService(listingRepo, storeRepo, subscriptionRepo, priceHistoryRepo, favoriteRepo, recentRepo, log)
	imageService := catalogapp.NewImageService(imageRepo, listingRepo, objectStorage, log)
	cartService := orderapp.NewCartService(cartRepo, listingRepo, log)
	alertService := inventoryapp.NewAlertService(alertRuleRepo, alertRepo, listingRepo, storeRepo, log)
	stockService := inventoryapp.NewStockService(listingRepo, storeRepo, movementRepo, alertService, log)
	orderService := orderapp.NewOrderService(orderRepo, storeRepo, listingRepo, reservationRepo, paymentRepo, escrowRepo, stockService, log)
	checkoutService := orderapp.NewCheckoutService(cartRepo, orderRepo, listingRepo, reservationRepo, paymentRepo, gateway, log)
	paymentService := paymentapp.NewPaymentService(paymentRepo, orderRepo, gateway, log)
	escrowService := paymentapp.NewEscrowService(escrowRepo, orderRepo, paymentRepo, log)
	subscriptionService := subscriptionapp.NewSubscriptionService(subscriptionRepo, trialRepo, storeRepo, listingRepo, paymentRepo, gateway, log)
	activator := &subscriptionActivator{subscriptions: subscriptionService}
	callbackService := paymentapp.NewCallbackService(paymentRepo, gateway, idempotencyStore, orderService, activator, log)
	reconciliationService := paymentapp.NewReconciliationService(paymentRepo, gateway, orderService, activator, log)
	zoneService := deliveryapp.NewZoneService(zoneRepo, log)
	deliveryService := deliveryapp.NewDeliveryService(deliveryRepo, zoneRepo, orderRepo, webhookNotifier, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, listingRepo, orderRepo, userRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	postService := blogapp.NewPostService(postRepo, commentRepo, likeRepo, blogCategoryRepo, log)
	commentService := blogapp.NewCommentService(postRepo, commentRepo, likeRepo, log)
	reportService := reportapp.NewReportService(salesReportRepo, stockReportRepo, earningsReportRepo, storeRepo, log)
	importService := bulkapp.NewListingImportService(importHistoryRepo, listingRepo, categoryRepo, storeRepo, log)
	importHistoryService := bulkapp.NewImportHistoryService(importHistoryRepo, storeRepo, log)
	chatService := chatapp.NewChatService(conversationRepo, messageRepo, userRepo, listingRepo, log)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// The simulated gateway feeds its synthetic callbacks straight into
	// the callback service, short-circuiting the HTTP round trip
	if simGateway != nil {
		simGateway.SetCallbackSink(func(ctx context.Context, payload []byte) {
			if _, err := callbackService.HandleCallback(ctx, payload); err != nil {
				log.Error("simulated callback failed", zap.Error(err))
			}
		})
	}

	// Event bus fans outbox events out to in-process handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(notificationapp.NewNotificationEventHandler(notificationService, orderRepo, storeRepo, listingRepo, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}

	// Outbox processor drains pending events to the bus
	processorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		processorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		processorConfig.PollInterval = cfg.Event.PollInterval
	}
	processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("failed to start outbox processor", zap.Error(err))
		}
	}

	// Background sweeps: trial expiry, escrow auto-release, reservation
	// release, payment reconciliation, webhook retries and cleanup jobs
	var sched *scheduler.Scheduler
	var sweepTrigger *scheduler.SweepTrigger
	if cfg.Scheduler.Enabled {
		sweepExecutor := scheduler.NewSweepExecutor(
			scheduler.DefaultSweepExecutorConfig(),
			subscriptionService,
			escrowService,
			reconciliationService,
			inventoryapp.NewReservationSweeper(reservationRepo, log),
			webhookNotifier,
			notificationService,
			importHistoryService,
			imageService,
			log,
		)
		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           true,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, sweepExecutor, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}
		sweepTrigger = scheduler.NewSweepTrigger(scheduler.SweepTriggerConfig{
			Interval: cfg.Scheduler.SweepInterval,
		}, sched, log)
		if err := sweepTrigger.Start(ctx); err != nil {
			log.Fatal("failed to start sweep trigger", zap.Error(err))
		}
	}

	// Optional OpenTelemetry wiring
	var tracerProvider *telemetry.TracerProvider
	var meterProvider *telemetry.MeterProvider
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize tracer provider", zap.Error(err))
		}
		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize meter provider", zap.Error(err))
		}
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("baysoko.business"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(ctx, 0, 0)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	storeHandler := handler.NewStoreHandler(storeService)
	storeReviewHandler := handler.NewStoreReviewHandler(storeReviewService)
	bundleHandler := handler.NewBundleHandler(bundleService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	faqHandler := handler.NewFAQHandler(faqService)
	listingHandler := handler.NewListingHandler(listingService)
	imageHandler := handler.NewImageHandler(imageService)
	cartHandler := handler.NewCartHandler(cartService, checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService, callbackService)
	escrowHandler := handler.NewEscrowHandler(escrowService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	courierWebhookHandler := handler.NewCourierWebhookHandler(deliveryService, cfg.Webhook.Secret, log)
	zoneHandler := handler.NewZoneHandler(zoneService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	inventoryHandler := handler.NewInventoryHandler(alertService, stockService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	chatHandler := handler.NewChatHandler(chatService)
	blogHandler := handler.NewBlogHandler(postService, commentService)
	reportHandler := handler.NewReportHandler(reportService)
	importHandler := handler.NewImportHandler(importService, importHistoryService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Initialize Gin engine and global middleware
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	middleware.SetupValidator()

	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Public surface: registration, gateway callbacks and anonymous
	// storefront browsing
	public := engine.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		if cfg.HTTP.AuthRateLimitEnabled {
			authRoutes.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)))
		}
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.RefreshToken)

		webhookRoutes := public.Group("/webhooks")
		webhookRoutes.POST("/mpesa", paymentHandler.MpesaCallback)
		webhookRoutes.POST("/courier", courierWebhookHandler.HandleUpdate)

		public.GET("/system/info", systemHandler.GetSystemInfo)
	}

	storefront := engine.Group("/api/v1/storefront")
	storefront.Use(middleware.OptionalJWTAuthMiddleware(jwtService))
	{
		storefront.GET("/listings", listingHandler.List)
		storefront.GET("/listings/featured", listingHandler.GetFeatured)
		storefront.GET("/listings/trending", listingHandler.GetTrending)
		storefront.GET("/listings/:id", listingHandler.Get)
		storefront.GET("/listings/slug/:slug", listingHandler.GetBySlug)
		storefront.GET("/listings/:id/price-history", listingHandler.GetPriceHistory)
		storefront.GET("/listings/:id/images", imageHandler.GetByListing)
		storefront.GET("/listings/:id/reviews", reviewHandler.ListByListing)
		storefront.GET("/listings/:id/rating", reviewHandler.GetListingRating)
		storefront.GET("/stores", storeHandler.List)
		storefront.GET("/stores/:id", storeHandler.Get)
		storefront.GET("/stores/slug/:slug", storeHandler.GetBySlug)
		storefront.GET("/stores/:id/listings", listingHandler.GetByStore)
		storefront.GET("/stores/:id/bundles", bundleHandler.GetByStore)
		storefront.GET("/stores/:id/reviews", storeReviewHandler.ListByStore)
		storefront.GET("/bundles/:id", bundleHandler.Get)
		storefront.GET("/bundles/slug/:slug", bundleHandler.GetBySlug)
		storefront.GET("/categories", categoryHandler.ListActive)
		storefront.GET("/categories/featured", categoryHandler.ListFeatured)
		storefront.GET("/categories/:id", categoryHandler.Get)
		storefront.GET("/sellers/:id/reviews", reviewHandler.ListBySeller)
		storefront.GET("/faqs", faqHandler.ListActive)
		storefront.GET("/blog/posts", blogHandler.ListPosts)
		storefront.GET("/blog/posts/slug/:slug", blogHandler.GetPost)
		storefront.GET("/blog/posts/:id/comments", blogHandler.ListComments)
		storefront.GET("/blog/categories", blogHandler.ListCategories)
		storefront.GET("/plans", subscriptionHandler.ListPlans)
		storefront.GET("/track/:trackingNumber", deliveryHandler.Track)
		storefront.GET("/zones", zoneHandler.ListActive)
	}

	// Authenticated API
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}))

	account := router.NewDomainGroup("account", "/auth")
	account.POST("/logout", authHandler.Logout)
	account.GET("/me", authHandler.GetProfile)
	account.PUT("/me", authHandler.UpdateProfile)
	account.PUT("/me/password", authHandler.ChangePassword)
	account.POST("/me/become-seller", authHandler.BecomeSeller)

	storeGroup := router.NewDomainGroup("stores", "/stores")
	storeGroup.Use(middleware.RequireSeller())
	storeGroup.POST("", storeHandler.Create)
	storeGroup.GET("/mine", storeHandler.GetMine)
	storeGroup.PUT("/:id", storeHandler.Update)
	storeGroup.PUT("/:id/logo", storeHandler.SetLogo)
	storeGroup.PUT("/:id/cover", storeHandler.SetCover)
	storeGroup.POST("/:id/activate", storeHandler.Activate)
	storeGroup.POST("/:id/deactivate", storeHandler.Deactivate)

	storeEngagement := router.NewDomainGroup("store-engagement", "/stores")
	storeEngagement.POST("/:id/reviews", storeReviewHandler.Create)

	storeReviews := router.NewDomainGroup("store-reviews", "/store-reviews")
	storeReviews.PUT("/:reviewId", storeReviewHandler.Update)
	storeReviews.DELETE("/:reviewId", storeReviewHandler.Delete)
	storeReviews.POST("/:reviewId/helpful", storeReviewHandler.MarkHelpful)

	listingGroup := router.NewDomainGroup("listings", "/listings")
	listingGroup.Use(middleware.RequireSeller())
	listingGroup.POST("", listingHandler.Create)
	listingGroup.PUT("/:id", listingHandler.Update)
	listingGroup.PUT("/:id/price", listingHandler.ChangePrice)
	listingGroup.POST("/:id/discount", listingHandler.ApplyDiscount)
	listingGroup.DELETE("/:id/discount", listingHandler.ClearDiscount)
	listingGroup.POST("/:id/feature", listingHandler.Feature)
	listingGroup.POST("/:id/unfeature", listingHandler.Unfeature)
	listingGroup.POST("/:id/activate", listingHandler.Activate)
	listingGroup.POST("/:id/deactivate", listingHandler.Deactivate)
	listingGroup.DELETE("/:id", listingHandler.Delete)
	listingGroup.PUT("/:id/images/reorder", imageHandler.Reorder)

	listingEngagement := router.NewDomainGroup("listing-engagement", "/listings")
	listingEngagement.POST("/:id/favorite", listingHandler.Favorite)
	listingEngagement.DELETE("/:id/favorite", listingHandler.Unfavorite)

	favorites := router.NewDomainGroup("favorites", "/favorites")
	favorites.GET("", listingHandler.GetFavorites)

	recentlyViewed := router.NewDomainGroup("recently-viewed", "/recently-viewed")
	recentlyViewed.GET("", listingHandler.GetRecentlyViewed)

	imageGroup := router.NewDomainGroup("images", "/images")
	imageGroup.Use(middleware.RequireSeller())
	imageGroup.POST("/uploads", imageHandler.InitiateUpload)
	imageGroup.POST("/:id/confirm", imageHandler.ConfirmUpload)
	imageGroup.PUT("/:id/main", imageHandler.SetAsMain)
	imageGroup.PUT("/:id/caption", imageHandler.SetCaption)
	imageGroup.DELETE("/:id", imageHandler.Delete)

	categoryGroup := router.NewDomainGroup("categories", "/categories")
	categoryGroup.Use(middleware.RequireSeller())
	categoryGroup.POST("", categoryHandler.Create)
	categoryGroup.GET("", categoryHandler.List)
	categoryGroup.PUT("/:id", categoryHandler.Update)
	categoryGroup.POST("/:id/activate", categoryHandler.Activate)
	categoryGroup.POST("/:id/deactivate", categoryHandler.Deactivate)
	categoryGroup.DELETE("/:id", categoryHandler.Delete)

	faqGroup := router.NewDomainGroup("faqs", "/faqs")
	faqGroup.Use(middleware.RequireSeller())
	faqGroup.POST("", faqHandler.Create)
	faqGroup.GET("", faqHandler.ListAll)
	faqGroup.PUT("/:id", faqHandler.Update)
	faqGroup.PUT("/:id/active", faqHandler.SetActive)
	faqGroup.DELETE("/:id", faqHandler.Delete)

	bundleGroup := router.NewDomainGroup("bundles", "/bundles")
	bundleGroup.Use(middleware.RequireSeller())
	bundleGroup.POST("", bundleHandler.Create)
	bundleGroup.PUT("/:id", bundleHandler.Update)
	bundleGroup.POST("/:id/items", bundleHandler.AddItem)
	bundleGroup.DELETE("/:id/items/:listingId", bundleHandler.RemoveItem)
	bundleGroup.DELETE("/:id", bundleHandler.Delete)

	cartGroup := router.NewDomainGroup("cart", "/cart")
	cartGroup.GET("", cartHandler.Get)
	cartGroup.DELETE("", cartHandler.Clear)
	cartGroup.POST("/items", cartHandler.AddItem)
	cartGroup.PUT("/items/:listingId", cartHandler.UpdateItem)
	cartGroup.DELETE("/items/:listingId", cartHandler.RemoveItem)
	cartGroup.POST("/checkout", cartHandler.Checkout)

	orderGroup := router.NewDomainGroup("orders", "/orders")
	orderGroup.GET("", orderHandler.ListMine)
	orderGroup.GET("/:id", orderHandler.Get)
	orderGroup.POST("/:id/cancel", orderHandler.Cancel)
	orderGroup.GET("/:id/escrow", escrowHandler.GetByOrder)
	orderGroup.POST("/:id/escrow/confirm-delivery", escrowHandler.ConfirmDelivery)
	orderGroup.POST("/:id/escrow/dispute", escrowHandler.OpenDispute)

	fulfilment := router.NewDomainGroup("fulfilment", "/orders")
	fulfilment.Use(middleware.RequireSeller())
	fulfilment.POST("/:id/confirm", orderHandler.Confirm)
	fulfilment.POST("/:id/items/:itemId/ship", orderHandler.ShipItem)
	fulfilment.GET("/stores/:id", orderHandler.ListStoreOrders)

	paymentGroup := router.NewDomainGroup("payments", "/payments")
	paymentGroup.GET("/orders/:id", paymentHandler.GetByOrder)
	paymentGroup.POST("/:id/retry", paymentHandler.Retry)

	subscriptionGroup := router.NewDomainGroup("subscriptions", "/subscriptions")
	subscriptionGroup.GET("", subscriptionHandler.ListMine)
	subscriptionGroup.POST("", subscriptionHandler.Subscribe)
	subscriptionGroup.POST("/trial", subscriptionHandler.StartTrial)
	subscriptionGroup.POST("/:id/cancel", subscriptionHandler.Cancel)
	subscriptionGroup.PUT("/:id/plan", subscriptionHandler.ChangePlan)
	subscriptionGroup.GET("/stores/:id", subscriptionHandler.GetCurrent)

	deliveryGroup := router.NewDomainGroup("deliveries", "/deliveries")
	deliveryGroup.GET("", deliveryHandler.List)
	deliveryGroup.GET("/:id", deliveryHandler.Get)

	dispatch := router.NewDomainGroup("dispatch", "/deliveries")
	dispatch.Use(middleware.RequireSeller())
	dispatch.POST("", deliveryHandler.Create)
	dispatch.PUT("/:id/status", deliveryHandler.UpdateStatus)
	dispatch.PUT("/:id/zone", deliveryHandler.AssignZone)
	dispatch.PUT("/:id/courier", deliveryHandler.AssignCourier)

	zoneGroup := router.NewDomainGroup("zones", "/zones")
	zoneGroup.Use(middleware.RequireSeller())
	zoneGroup.POST("", zoneHandler.Create)
	zoneGroup.PUT("/:id", zoneHandler.Update)
	zoneGroup.PUT("/:id/active", zoneHandler.SetActive)

	reviewGroup := router.NewDomainGroup("reviews", "/reviews")
	reviewGroup.POST("/listings", reviewHandler.CreateListingReview)
	reviewGroup.POST("/sellers", reviewHandler.CreateSellerReview)
	reviewGroup.POST("/orders", reviewHandler.CreateOrderReview)
	reviewGroup.GET("/orders/:id", reviewHandler.GetOrderReview)
	reviewGroup.PUT("/:id", reviewHandler.Update)
	reviewGroup.DELETE("/:id", reviewHandler.Delete)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory")
	inventoryGroup.Use(middleware.RequireSeller())
	inventoryGroup.POST("/alert-rules", inventoryHandler.SetAlertRule)
	inventoryGroup.DELETE("/alert-rules/:ruleId", inventoryHandler.RemoveAlertRule)
	inventoryGroup.GET("/stores/:id/alert-rules", inventoryHandler.ListAlertRules)
	inventoryGroup.GET("/stores/:id/alerts", inventoryHandler.ListAlerts)
	inventoryGroup.POST("/alerts/:alertId/acknowledge", inventoryHandler.AcknowledgeAlert)
	inventoryGroup.POST("/listings/:id/stock", inventoryHandler.AdjustStock)
	inventoryGroup.GET("/stores/:id/movements", inventoryHandler.ListMovements)

	reportGroup := router.NewDomainGroup("reports", "/reports")
	reportGroup.Use(middleware.RequireSeller())
	reportGroup.GET("/stores/:id/sales", reportHandler.Sales)
	reportGroup.GET("/stores/:id/earnings", reportHandler.Earnings)
	reportGroup.GET("/stores/:id/stock", reportHandler.Stock)
	reportGroup.GET("/stores/:id/dashboard", reportHandler.Dashboard)

	importGroup := router.NewDomainGroup("imports", "/imports")
	importGroup.Use(middleware.RequireSeller())
	importGroup.POST("", importHandler.ImportCSV)
	importGroup.GET("/:id", importHandler.GetUpload)
	importGroup.POST("/:id/cancel", importHandler.CancelUpload)
	importGroup.GET("/stores/:id", importHandler.ListUploads)

	notificationGroup := router.NewDomainGroup("notifications", "/notifications")
	notificationGroup.GET("", notificationHandler.List)
	notificationGroup.GET("/unread-count", notificationHandler.UnreadCount)
	notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
	notificationGroup.PUT("/read-all", notificationHandler.MarkAllRead)

	chatGroup := router.NewDomainGroup("chats", "/chats")
	chatGroup.POST("", chatHandler.Start)
	chatGroup.GET("", chatHandler.List)
	chatGroup.GET("/unread-count", chatHandler.UnreadCount)
	chatGroup.GET("/:id/messages", chatHandler.Messages)
	chatGroup.POST("/:id/messages", chatHandler.Send)
	chatGroup.PUT("/:id/read", chatHandler.MarkRead)
	chatGroup.PUT("/:id/archive", chatHandler.Archive)
	chatGroup.PUT("/:id/unarchive", chatHandler.Unarchive)
	chatGroup.PUT("/:id/mute", chatHandler.Mute)
	chatGroup.PUT("/:id/unmute", chatHandler.Unmute)

	chatMessages := router.NewDomainGroup("chat-messages", "/chat-messages")
	chatMessages.DELETE("/:id", chatHandler.DeleteMessage)
	chatMessages.PUT("/:id/pin", chatHandler.PinMessage)
	chatMessages.PUT("/:id/unpin", chatHandler.UnpinMessage)

	blogGroup := router.NewDomainGroup("blog", "/blog")
	blogGroup.POST("/posts", blogHandler.CreatePost)
	blogGroup.GET("/posts/mine", blogHandler.ListMyPosts)
	blogGroup.PUT("/posts/:id", blogHandler.UpdatePost)
	blogGroup.POST("/posts/:id/publish", blogHandler.PublishPost)
	blogGroup.POST("/posts/:id/unpublish", blogHandler.UnpublishPost)
	blogGroup.DELETE("/posts/:id", blogHandler.DeletePost)
	blogGroup.POST("/posts/:id/comments", blogHandler.CreateComment)
	blogGroup.DELETE("/comments/:commentId", blogHandler.RemoveComment)
	blogGroup.POST("/posts/:id/like", blogHandler.LikePost)
	blogGroup.DELETE("/posts/:id/like", blogHandler.UnlikePost)
	blogGroup.POST("/categories", blogHandler.CreateCategory)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/outbox/stats", outboxHandler.GetStats)
	systemGroup.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemGroup.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemGroup.GET("/outbox/:id", outboxHandler.GetEntry)
	systemGroup.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	r.Register(account).
		Register(storeGroup).
		Register(storeEngagement).
		Register(storeReviews).
		Register(listingGroup).
		Register(listingEngagement).
		Register(favorites).
		Register(recentlyViewed).
		Register(imageGroup).
		Register(categoryGroup).
		Register(faqGroup).
		Register(bundleGroup).
		Register(cartGroup).
		Register(orderGroup).
		Register(fulfilment).
		Register(paymentGroup).
		Register(subscriptionGroup).
		Register(deliveryGroup).
		Register(dispatch).
		Register(zoneGroup).
		Register(reviewGroup).
		Register(inventoryGroup).
		Register(reportGroup).
		Register(importGroup).
		Register(notificationGroup).
		Register(chatGroup).
		Register(chatMessages).
		Register(blogGroup).
		Register(systemGroup)
	r.Setup()

	// Start HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if sweepTrigger != nil {
		if err := sweepTrigger.Stop(shutdownCtx); err != nil {
			log.Error("sweep trigger shutdown failed", zap.Error(err))
		}
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("scheduler shutdown failed", zap.Error(err))
		}
	}
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("outbox processor shutdown failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown failed", zap.Error(err))
	}
	if businessMetrics != nil {
		businessMetrics.Stop()
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("meter provider shutdown failed", zap.Error(err))
		}
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("tracer provider shutdown failed", zap.Error(err))
		}
	}

	log.Info("shutdown complete")
}

// subscriptionActivator narrows SubscriptionService for the payment
// callback path, which only cares whether activation succeeded.
type subscriptionActivator struct {
	subscriptions *subscriptionapp.SubscriptionService
}

func (a *subscriptionActivator) ActivateFromPayment(ctx context.Context, pay *payment.Payment) error {
	_, err := a.subscriptions.ActivateFromPayment(ctx, pay)
	return err
}

func (a *subscriptionActivator) HandleFailedPayment(ctx context.Context, pay *payment.Payment) error {
	return a.subscriptions.HandleFailedPayment(ctx, pay)
}
