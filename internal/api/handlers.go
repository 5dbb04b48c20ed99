package api

import (
	"net/http"

	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"

	"github.com/labstack/echo/v4"
)

const invalidBody = "Invalid request body"

func (s *Server) location(c echo.Context) error {
	var input locate.Input
	if err := c.Bind(&input); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}

	output, err := s.services.Locate.Execute(c.Request().Context(), &input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

func (s *Server) coffeeShops(c echo.Context) error {
	var input discover.Input
	if err := c.Bind(&input); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}

	output, err := s.services.Discover.Execute(c.Request().Context(), &input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

func (s *Server) battle(c echo.Context) error {
	var input battle.Input
	if err := c.Bind(&input); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}

	output, err := s.services.Battle.Execute(c.Request().Context(), &input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}
