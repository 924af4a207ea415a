// Package api exposes a small debug surface over the summarizer pool
// and the capture journal.
package api

import (
	"context"
	"net/http"
	"strconv"

	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/record"

	"github.com/labstack/echo/v4"
)

const defaultRecordCount = 20

// StatsSource reports the current arena utilization of the summarizer.
type StatsSource func() arena.Stats

type Server struct {
	Api   *echo.Echo
	stats StatsSource
	store *record.Store
}

// New wires the routes. store may be nil when no journal is configured;
// the records route then answers 503.
func New(stats StatsSource, store *record.Store) *Server {
	s := &Server{
		Api:   echo.New(),
		stats: stats,
		store: store,
	}
	s.Api.GET("/stats", s.GetStats)
	s.Api.GET("/records", s.GetRecords)
	return s
}

func (s *Server) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stats())
}

func (s *Server) GetRecords(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no capture journal configured")
	}
	n := defaultRecordCount
	if param := c.QueryParam("n"); param != "" {
		var err error
		n, err = strconv.Atoi(param)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "n must be a non-negative integer")
		}
	}
	recs, err := s.store.LastN(n)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []record.Record{}
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Server) Run(addr string) {
	s.Api.Logger.Fatal(s.Api.Start(addr))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Api.Shutdown(ctx)
}
