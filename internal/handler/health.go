package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shewas4eve/inventario/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports ledger-store and queue connectivity. Besides the two pings
// it exposes the depth of each job queue and its DLQ, so a stuck worker pool
// is visible from the outside without shell access to Redis.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		redisStatus := "up"
		colas := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "down"
		} else {
			for _, q := range []string{worker.QueueResumen, worker.QueueEmail} {
				if n, err := rdb.LLen(ctx, q).Result(); err == nil {
					colas[q] = n
				}
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					colas[worker.DLQPrefix+q] = n
				}
			}
		}

		status := http.StatusOK
		if postgres == "down" || redisStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"redis":    redisStatus,
			"colas":    colas,
		})
	}
}
