package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfotenwerk/backoffice/internal/config"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/pfotenwerk/backoffice/internal/queue"
	"github.com/pfotenwerk/backoffice/pkg/logger"
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
		logger.Error("failed to create mail queue", "error", err)
		return
	}

	mailer := notify.NewMailer(
		config.Get().SMTPHost,
		config.Get().SMTPPort,
		config.Get().SMTPUser,
		config.Get().SMTPPassword,
		config.Get().MailFrom,
	)

	consumer := notify.NewConsumer(mailQueue, mailer, config.Get().MailWorkers)

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	go func() {
		if err := consumer.Start(); err != nil {
			logger.Error("failed to start consumer", "error", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	if err := consumer.Stop(time.Second * 5); err != nil {
		logger.Error("failed to stop consumer cleanly", "error", err)
	}
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
