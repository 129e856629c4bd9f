package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfotenwerk/backoffice/internal/auth"
	"github.com/pfotenwerk/backoffice/internal/config"
	"github.com/pfotenwerk/backoffice/internal/handlers"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/pfotenwerk/backoffice/internal/queue"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/internal/services"
	xhttp "github.com/pfotenwerk/backoffice/pkg/http"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/pfotenwerk/backoffice/pkg/prom"
	"github.com/pfotenwerk/backoffice/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	hostname, _ := os.Hostname()
	if err := prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
		logger.Error("failed registering metrics", "error", err)
	}

	mailQueue, err := queue.NewQueue(redisAdap, queue.QueueConfig{
		Name:              config.Get().MailQueueName,
		ConsumerGroup:     config.Get().MailQueueConsumerGroup,
		ConsumerName:      config.Get().MailQueueConsumerName,
		MaxRetries:        config.Get().MailQueueMaxRetries,
		VisibilityTimeout: config.Get().MailQueueVisibility,
		PollInterval:      config.Get().MailQueuePollInterval,
		BatchSize:         config.Get().MailQueueBatchSize,
		MaxLen:            config.Get().MailQueueMaxLen,
		EnableDLQ:         config.Get().MailQueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating mail queue", "error", err)
		return
	}
	dispatcher := notify.NewQueueDispatcher(mailQueue)

	tokens := auth.NewTokenManager(
		config.Get().JWTSecret,
		time.Duration(config.Get().JWTAccessTTLMin)*time.Minute,
	)

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	dogRepo := repository.NewDogRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	vaccinationRepo := repository.NewVaccinationRepository(db)
	anamnesisRepo := repository.NewAnamnesisRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsTTL := config.Get().SettingsCacheTTL
	if settingsTTL <= 0 {
		settingsTTL = 5 * time.Minute
	}

	userService := services.NewUserService(userRepo, customerRepo, tokens)
	customerService := services.NewCustomerService(customerRepo)
	dogService := services.NewDogService(dogRepo, customerRepo)
	courseService := services.NewCourseService(courseRepo)
	sessionService := services.NewSessionService(sessionRepo, bookingRepo)
	bookingService := services.NewBookingService(db, bookingRepo, sessionRepo, dogRepo, customerRepo, courseRepo, dispatcher)
	creditService := services.NewCreditService(creditRepo, customerRepo)
	invoiceService := services.NewInvoiceService(db, invoiceRepo, customerRepo, dispatcher)
	paymentService := services.NewPaymentService(db, paymentRepo, invoiceRepo)
	vaccinationService := services.NewVaccinationService(vaccinationRepo, dogRepo)
	anamnesisService := services.NewAnamnesisService(anamnesisRepo, dogRepo)
	settingsService := services.NewSettingsService(settingRepo, redisAdap, settingsTTL)

	mw := auth.Middleware(tokens)
	g := s.Router.Group("/api/v1")
	handlers.RegisterAuthRoutes(g, handlers.NewAuthHandler(userService))
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(customerService), mw)
	handlers.RegisterDogRoutes(g, handlers.NewDogHandler(dogService), mw)
	handlers.RegisterCourseRoutes(g, handlers.NewCourseHandler(courseService), mw)
	handlers.RegisterSessionRoutes(g, handlers.NewSessionHandler(sessionService), mw)
	handlers.RegisterBookingRoutes(g, handlers.NewBookingHandler(bookingService), mw)
	handlers.RegisterCreditRoutes(g, handlers.NewCreditHandler(creditService), mw)
	handlers.RegisterInvoiceRoutes(g, handlers.NewInvoiceHandler(invoiceService), mw)
	handlers.RegisterPaymentRoutes(g, handlers.NewPaymentHandler(paymentService), mw)
	handlers.RegisterVaccinationRoutes(g, handlers.NewVaccinationHandler(vaccinationService, dogService), mw)
	handlers.RegisterAnamnesisRoutes(g, handlers.NewAnamnesisHandler(anamnesisService, dogService), mw)
	handlers.RegisterSettingsRoutes(g, handlers.NewSettingsHandler(settingsService), mw)

	handlers.RegisterHealthRoutes(s.Router, handlers.NewHealthHandler(&healthService{db: db}))
	s.Router.GET("/metrics", prom.Handler())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()
	logger.Info("api server started", "version", version, "commit", commit, "built", date)

	<-c
	s.Shutdown()
	mailQueue.Stop(time.Second * 5)
}

type healthService struct {
	db *pg.DB
}

func (h *healthService) Ping() error {
	sqlDB, err := h.db.Write(context.Background()).DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
