package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	inhttp "github.com/suchimauz/dentist-availability-filter/internal/adapters/in/http"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/cache"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/logger"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/publisher"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/registry"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/out"
	"github.com/suchimauz/dentist-availability-filter/internal/core/resilience"
	"github.com/suchimauz/dentist-availability-filter/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	registryAdapter := registry.NewRegistryAdapter(logger.WithModule("RegistryAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, logger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервисов
	decisionService := services.NewDecisionService(registryAdapter, logger.WithModule("DecisionService"))
	scheduleService := services.NewScheduleService(registryAdapter, cacheAdapter, cfg, logger.WithModule("ScheduleService"))
	registryService := services.NewRegistryService(registryAdapter, cacheAdapter, logger.WithModule("RegistryService"))

	// Предохранитель вокруг движка решений
	breaker := resilience.NewCircuitBreaker(resilience.Settings{
		WindowSize:           cfg.Breaker.WindowSize,
		MinimumCalls:         cfg.Breaker.MinimumCalls,
		FailureRateThreshold: cfg.Breaker.FailureRateThreshold,
		SlowCallThreshold:    cfg.Breaker.SlowCallThreshold,
		OpenWait:             cfg.Breaker.OpenWait,
		HalfOpenCalls:        cfg.Breaker.HalfOpenCalls,
	})

	// Настройка HTTP сервера
	router := gin.Default()
	controller := inhttp.NewFilterController(decisionService, scheduleService, breaker, cfg)
	controller.RegisterRoutes(router)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// nil-канал блокируется вечно: без RabbitMQ ждем только сигнала
	var listenerDone <-chan struct{}

	// Настройка RabbitMQ только если он включен
	if cfg.RabbitMQ.Enabled {
		rabbitPublisher, err := publisher.NewRabbitMqPublisher(cfg, logger.WithModule("RabbitMqPublisher"))
		if err != nil {
			logger.Error("app.rabbitmq.publisher_init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() {
			if err := rabbitPublisher.Close(); err != nil {
				logger.Error("app.rabbitmq.publisher_stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()

		listener, err := rabbitmq.NewFilterListener(
			decisionService,
			scheduleService,
			registryService,
			rabbitPublisher,
			breaker,
			cfg,
			logger.WithModule("RabbitMqListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		listenerDone = listener.Done()

		// Добавляем остановку RabbitMQ в defer
		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("app.shutdown.initiated", out.LogFields{
			"signal": sig.String(),
		})
	case <-listenerDone:
		// Слушатель исчерпал попытки переподключения, работать дальше нет смысла
		logger.Error("app.shutdown.listener_gave_up", out.LogFields{
			"message": "Broker connection could not be reestablished, please restart broker and component",
		})
	}
}
