package app

import (
	"context"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
)

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status: "ok",
		Services: map[string]string{
			"database": "up",
			"mail":     "configured",
		},
	}

	if err := a.dbConn.Ping(ctx); err != nil {
		return nil, goerror.NewServer(err, goerror.WithCode(goerror.CodeUnavailable), goerror.WithMessage("Database is unavailable"))
	}

	if a.cacheConn != nil {
		if err := a.cacheConn.Ping(ctx).Err(); err != nil {
			return nil, goerror.NewServer(err, goerror.WithCode(goerror.CodeUnavailable), goerror.WithMessage("Redis is unavailable"))
		}
		resp.Services["redis"] = "up"
	}

	if !a.mail.Configured() {
		resp.Services["mail"] = "not_configured"
	}

	return resp, nil
}
