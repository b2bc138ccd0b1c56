package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dmtavares/pdv-varejo/docs"
	"github.com/dmtavares/pdv-varejo/internal/adapter/api/controller"
	"github.com/dmtavares/pdv-varejo/internal/adapter/api/route"
	"github.com/dmtavares/pdv-varejo/internal/adapter/gateway"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository"
	"github.com/dmtavares/pdv-varejo/internal/adapter/repository/memory"
	customerdomain "github.com/dmtavares/pdv-varejo/internal/domain/customer"
	paymentdomain "github.com/dmtavares/pdv-varejo/internal/domain/payment"
	productdomain "github.com/dmtavares/pdv-varejo/internal/domain/product"
	saledomain "github.com/dmtavares/pdv-varejo/internal/domain/sale"
	stockdomain "github.com/dmtavares/pdv-varejo/internal/domain/stock"
	userdomain "github.com/dmtavares/pdv-varejo/internal/domain/user"
	"github.com/dmtavares/pdv-varejo/internal/infrastructure/database"
	"github.com/dmtavares/pdv-varejo/internal/worker"
	"github.com/dmtavares/pdv-varejo/pkg/logger"
	"github.com/dmtavares/pdv-varejo/pkg/middleware"
)

// App representa a aplicação e suas dependências
type App struct {
	router    *gin.Engine
	db        *database.PostgresDB
	logger    logger.Logger
	scheduler *gocron.Scheduler
}

// NewApp cria uma nova instância do aplicativo. A fonte de dados é
// escolhida pela variável DATA_SOURCE: "memory" seleciona os
// repositórios em memória (modo demonstração); qualquer outro valor usa
// o PostgreSQL.
func NewApp() (*App, error) {
	appLogger := logger.NewLogger()

	var (
		db           *database.PostgresDB
		productRepo  productdomain.Repository
		stockRepo    stockdomain.Repository
		customerRepo customerdomain.Repository
		saleRepo     saledomain.Repository
		paymentRepo  paymentdomain.Repository
		userRepo     userdomain.Repository
	)

	if os.Getenv("DATA_SOURCE") == "memory" {
		appLogger.Warn("Usando repositórios em memória; os dados não serão persistidos")

		store := memory.NewStore()
		productRepo = memory.NewProductRepository(store)
		stockRepo = memory.NewStockRepository(store)
		customerRepo = memory.NewCustomerRepository(store)
		saleRepo = memory.NewSaleRepository(store)
		paymentRepo = memory.NewPaymentRepository(store)
		userRepo = memory.NewUserRepository(store)
	} else {
		var err error
		db, err = database.NewPostgresDB()
		if err != nil {
			return nil, err
		}

		productRepo = repository.NewProductRepository(db.Pool())
		stockRepo = repository.NewStockRepository(db.Pool())
		customerRepo = repository.NewCustomerRepository(db.Pool())
		saleRepo = repository.NewSaleRepository(db.Pool())
		paymentRepo = repository.NewPaymentRepository(db.Pool())
		userRepo = repository.NewUserRepository(db.Pool())
	}

	// O processador real é usado apenas quando a credencial está
	// configurada; sem ela, o gateway simulado atende o ambiente de
	// desenvolvimento
	var paymentGateway paymentdomain.Gateway
	if token := os.Getenv("PAYMENT_GATEWAY_TOKEN"); token != "" {
		paymentGateway = gateway.NewHTTPGateway(token, appLogger)
	} else {
		appLogger.Warn("Credencial do processador não configurada; usando gateway simulado")
		paymentGateway = gateway.NewSimulatedGateway(appLogger)
	}

	// Controllers
	authController := controller.NewAuthController(userRepo, appLogger)
	productController := controller.NewProductController(productRepo, stockRepo, appLogger)
	customerController := controller.NewCustomerController(customerRepo, appLogger)
	saleController := controller.NewSaleController(saleRepo, customerRepo, appLogger)
	paymentController := controller.NewPaymentController(paymentRepo, saleRepo, paymentGateway, appLogger)
	userController := controller.NewUserController(userRepo, appLogger)

	// Router
	gin.SetMode(os.Getenv("GIN_MODE"))
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	middleware.InitMetrics()
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	route.RegisterAuthRoutes(api, authController)
	route.RegisterProductRoutes(api, productController)
	route.RegisterCustomerRoutes(api, customerController)
	route.RegisterSaleRoutes(api, saleController)
	route.RegisterPaymentRoutes(api, paymentController)
	route.RegisterUserRoutes(api, userController)

	// Reconciliação periódica das cobranças PIX pendentes
	scheduler := worker.NewPixReconciler(paymentRepo, paymentGateway, appLogger).Start()

	return &App{
		router:    router,
		db:        db,
		logger:    appLogger,
		scheduler: scheduler,
	}, nil
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.logger.Info("Servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
}
