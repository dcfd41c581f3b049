package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"texengine/model"
	"texengine/pkg"
	"texengine/service"
)

type CompileHandler struct {
	svc    *service.CompileService
	logger *zap.Logger
}

// Register wires the compile endpoint and health check onto the gin engine.
func Register(r *gin.Engine, svc *service.CompileService, limiter *pkg.RateLimiter, logger *zap.Logger) {
	h := &CompileHandler{svc: svc, logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/compile", limiter.Limit(), h.HandleCompile)
}

func (h *CompileHandler) HandleCompile(c *gin.Context) {
	var req model.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.CompileResponse{
			Success:     false,
			FailureKind: model.KindInvalidInput,
			Message:     "invalid request format: " + err.Error(),
		})
		return
	}

	resp := h.svc.Compile(req.SourceText)
	h.logger.Info("compile request",
		zap.String("request_id", resp.RequestID),
		zap.Bool("success", resp.Success),
		zap.String("kind", string(resp.FailureKind)),
		zap.String("duration", resp.Duration))

	if !resp.Success {
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
