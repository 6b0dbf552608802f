package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response at info level.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()
		c.Logger().Infof("< %s %s", req.Method, req.URL)

		err := next(c)

		c.Logger().Infof(
			"> %s %s: status = %d in %v / error = %v",
			req.Method, req.URL, c.Response().Status, time.Since(begin), err,
		)
		return err
	}
}

// SetLevel sets the log level of e by name: debug, info, warn, error or off.
//
// Unknown names and "" mean warn.
func SetLevel(e *echo.Echo, loglevel string) {
	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s. fall back to warn", loglevel)
	}
}
