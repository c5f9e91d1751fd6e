package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/pkg/config"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

// NewRollbarReporter configures the global Rollbar client and returns a
// response.Reporter forwarding server errors to it. It returns nil when no
// token is configured.
func NewRollbarReporter(cfg *config.Config, l *zap.Logger) response.Reporter {
	if cfg.Rollbar.Token == "" {
		return nil
	}
	rollbar.SetToken(cfg.Rollbar.Token)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetCodeVersion(cfg.Rollbar.CodeVersion)
	rollbar.SetServerRoot("github.com/noah-isme/academy-admin-api")
	rollbar.SetEnabled(true)
	l.Info("rollbar error reporting enabled", zap.String("env", cfg.Env))

	return func(c *gin.Context, err *appErrors.Error) {
		extras := map[string]interface{}{
			"code":       err.Code,
			"status":     err.Status,
			"route":      c.FullPath(),
			"request_id": requestid.Value(c),
		}
		if userID, ok := c.Get("userID"); ok {
			extras["user_id"] = userID
		}
		rollbar.RequestErrorWithExtras(rollbar.ERR, c.Request, err, extras)
	}
}

// FlushRollbar waits for queued Rollbar items to be sent.
func FlushRollbar() {
	rollbar.Close()
}
