package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Gamenter95/weoo/internal/apipay"
	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/config"
	"github.com/Gamenter95/weoo/internal/funding"
	"github.com/Gamenter95/weoo/internal/giftcode"
	"github.com/Gamenter95/weoo/internal/ledger"
	"github.com/Gamenter95/weoo/internal/notification"
	"github.com/Gamenter95/weoo/internal/user"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, notifier *notification.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	RegisterValidators()

	userRepo := user.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	fundingRepo := funding.NewRepository(db)
	giftRepo := giftcode.NewRepository(db)
	apiRepo := apipay.NewRepository(db)
	notifRepo := notification.NewRepository(db)

	regStore := user.NewRegistrationStore(rdb)

	userSvc := user.NewService(userRepo, regStore, cfg.JWTSecret)
	ledgerSvc := ledger.NewService(ledgerRepo, userRepo)
	fundingSvc := funding.NewService(fundingRepo, notifier)
	giftSvc := giftcode.NewService(giftRepo, notifier)
	apiSvc := apipay.NewService(apiRepo, ledgerSvc, notifier)

	userHandler := user.NewHandler(userSvc)
	ledgerHandler := ledger.NewHandler(ledgerSvc)
	fundingHandler := funding.NewHandler(fundingSvc)
	giftHandler := giftcode.NewHandler(giftSvc)
	apiHandler := apipay.NewHandler(apiSvc)
	notifHandler := notification.NewHandler(notifRepo)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/setup-wwid", userHandler.SetupWWID)
		public.POST("/setup-spin", userHandler.SetupSPIN)
		public.POST("/login", userHandler.Login)
		public.POST("/forgot-password", userHandler.ForgotPassword)
		public.POST("/forgot-spin", userHandler.ForgotSPIN)
	}

	// The pin-phase token from /auth/login only opens this one door.
	router.POST("/auth/verify-pin", auth.PinPhaseMiddleware(cfg.JWTSecret), userHandler.VerifyPin)

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/profile/update", userHandler.UpdateProfile)

		protected.POST("/transactions/pay", ledgerHandler.PayToUser)
		protected.GET("/transactions", ledgerHandler.ListTransactions)

		protected.POST("/funds/add", fundingHandler.AddFund)
		protected.POST("/funds/withdraw", fundingHandler.Withdraw)
		protected.GET("/funds/requests", fundingHandler.MyFundRequests)
		protected.GET("/funds/withdrawals", fundingHandler.MyWithdrawRequests)

		protected.POST("/gift-codes/create", giftHandler.Create)
		protected.POST("/gift-codes/claim", giftHandler.Claim)
		protected.POST("/gift-codes/:code/stop", giftHandler.Stop)
		protected.GET("/gift-codes/my-codes", giftHandler.ListMine)
		protected.GET("/gift-codes/:code/claims", giftHandler.ListClaims)

		protected.GET("/api-settings", apiHandler.GetSettings)
		protected.POST("/api-settings/toggle", apiHandler.Toggle)
		protected.POST("/api-settings/generate-token", apiHandler.GenerateToken)
		protected.POST("/api-settings/revoke-token", apiHandler.RevokeToken)
		protected.POST("/api-settings/update-domain", apiHandler.UpdateDomain)

		protected.GET("/notifications", notifHandler.List)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/update-balance", ledgerHandler.AdjustBalance)
		admin.GET("/fund-requests", fundingHandler.ListFundRequests)
		admin.GET("/withdraw-requests", fundingHandler.ListWithdrawRequests)
		admin.POST("/approve-fund/:id", fundingHandler.ApproveFund)
		admin.POST("/decline-fund/:id", fundingHandler.DeclineFund)
		admin.POST("/approve-withdraw/:id", fundingHandler.ApproveWithdraw)
		admin.POST("/decline-withdraw/:id", fundingHandler.DeclineWithdraw)
	}

	// Public token-authenticated payment endpoint. Rate limited harder
	// than the session routes and replay-safe via Idempotency-Key.
	router.GET("/api/wallet",
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdempotencyMiddleware(rdb),
		apiHandler.Pay,
	)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// Router exposes the underlying engine for tests and for the http
// server in main.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Idempotency-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
