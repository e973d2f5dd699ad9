package web

import (
	"dexwatch/watcher/defs"
	"dexwatch/watcher/stats"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HttpServer struct {
	Tracker *Tracker
	Glucose defs.GlucoseConfig
}

func New(t *Tracker, glucose defs.GlucoseConfig) *HttpServer {
	return &HttpServer{
		Tracker: t,
		Glucose: glucose,
	}
}

func (s *HttpServer) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Tracker.Snapshot())
	})

	r.GET("/stats", func(c *gin.Context) {
		rs := s.Tracker.Readings()
		c.JSON(http.StatusOK, gin.H{
			"summary": stats.GlucoseSummary(rs),
			"range":   stats.TimeSpentInRange(rs, s.Glucose.Low, s.Glucose.High),
		})
	})

	return r
}

func (s *HttpServer) Serve(addr string) error {
	return s.Router().Run(addr)
}
