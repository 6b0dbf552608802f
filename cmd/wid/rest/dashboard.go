package rest

import (
	"context"
	"net/http"

	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
)

func (c *client) GetStats(ctx context.Context) (apidashboard.Stats, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Dashboard", "stats"), nil)
	if err != nil {
		return apidashboard.Stats{}, err
	}
	defer resp.Body.Close()

	stats := apidashboard.Stats{}
	if err := unmarshalJsonResponse(resp, &stats, MessageFor{
		Status4xx: "cannot get dashboard stats",
		Status5xx: "server error",
	}); err != nil {
		return apidashboard.Stats{}, err
	}
	return stats, nil
}
