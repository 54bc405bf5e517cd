package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Setup initializes Logrus to write to stdout and a rotating file in dir.
func Setup(dir, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator(dir, "app.log")))
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetLevel(lvl)
	return nil
}

func rotator(dir, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}
}

// GormLogger routes GORM's SQL logging through the standard Logrus logger.
func GormLogger() gormlogger.Interface {
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// AccessLog writes one structured line per request to access.log in dir.
// Health checks and metric scrapes are skipped.
func AccessLog(dir string) gin.HandlerFunc {
	out := rotator(dir, "access.log")
	return AccessLogTo(out)
}

// AccessLogTo is AccessLog with an explicit writer.
func AccessLogTo(w io.Writer) gin.HandlerFunc {
	return ginlog.SetLogger(
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/metrics", "/health"}),
		ginlog.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.Output(w).With().
				Str("request_id", c.Writer.Header().Get("X-Request-ID")).
				Logger()
		}),
	)
}
