package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/dentist-availability-filter/internal/config"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
	"github.com/suchimauz/dentist-availability-filter/internal/core/json_types"
	"github.com/suchimauz/dentist-availability-filter/internal/core/ports/in"
	"github.com/suchimauz/dentist-availability-filter/internal/core/resilience"
)

// FilterController — служебный HTTP-срез поверх тех же use-case'ов:
// ручная проверка решений и расписаний без прогона через брокер
type FilterController struct {
	decisionUseCase in.DecisionUseCase
	scheduleUseCase in.ScheduleUseCase
	breaker         *resilience.CircuitBreaker
	cfg             *config.Config
}

func NewFilterController(
	decisionUseCase in.DecisionUseCase,
	scheduleUseCase in.ScheduleUseCase,
	breaker *resilience.CircuitBreaker,
	cfg *config.Config,
) *FilterController {
	return &FilterController{
		decisionUseCase: decisionUseCase,
		scheduleUseCase: scheduleUseCase,
		breaker:         breaker,
		cfg:             cfg,
	}
}

func (c *FilterController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/schedules", c.getSchedules)
		api.POST("/decide", c.decide)
		api.GET("/circuit-breaker", c.getBreakerState)
	}
}

func (c *FilterController) getSchedules(ctx *gin.Context) {
	dateParam := ctx.Query("date")
	if dateParam == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'date' is required"})
		return
	}

	date, err := json_types.ParseDate(dateParam)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected yyyy-MM-dd"})
		return
	}

	schedules := c.scheduleUseCase.GenerateAll(ctx.Request.Context(), date)

	ctx.JSON(http.StatusOK, gin.H{
		"date":      date.Format("2006-01-02"),
		"schedules": schedules,
	})
}

func (c *FilterController) decide(ctx *gin.Context) {
	var req domain.BookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var decision domain.Decision
	err := c.breaker.Execute(func() error {
		decision = c.decisionUseCase.Decide(ctx.Request.Context(), req)
		return nil
	})

	if errors.Is(err, resilience.ErrOpenState) {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "circuit breaker is open",
			"state": c.breaker.State(),
		})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if decision.Accepted {
		ctx.JSON(http.StatusOK, gin.H{"accepted": true, "booking": decision.AcceptedMessage()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"accepted": false, "response": decision.RejectedMessage()})
}

func (c *FilterController) getBreakerState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"state": c.breaker.State()})
}

func (c *FilterController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if userMatch && passMatch {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
