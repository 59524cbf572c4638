package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// HeaderRequestID cabecera de correlación; se respeta si el cliente la envía.
const HeaderRequestID = "X-Request-ID"

const (
	LocalRequestID = "request_id"
	localLogger    = "request_logger"
)

var nopLogger = zerolog.Nop()

// RequestLogger asigna un request ID, deja un sublogger en c.Locals y registra cada petición
// con método, ruta, estado y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(HeaderRequestID, reqID)
		c.Locals(LocalRequestID, reqID)

		sub := log.With().Str("request_id", reqID).Logger()
		c.Locals(localLogger, &sub)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := sub.Info()
		if status >= fiber.StatusInternalServerError {
			ev = sub.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}

// requestLog devuelve el sublogger de la petición o uno nulo si no pasó por RequestLogger.
func requestLog(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return l
	}
	return &nopLogger
}
