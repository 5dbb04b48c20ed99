package api

import (
	"fmt"
	"net/http"
	"strings"

	"coffee-tournament/internal/models"
	"coffee-tournament/internal/tournament"

	"github.com/labstack/echo/v4"
)

// The bracket endpoints are stateless: the caller sends its Tournament and
// gets the updated value back.

type createTournamentRequest struct {
	Shops    []models.Shop          `json:"shops"`
	Location *models.LocationResult `json:"location,omitempty"`
}

type tournamentRequest struct {
	Tournament *tournament.Tournament `json:"tournament"`
}

type selectRequest struct {
	Tournament *tournament.Tournament `json:"tournament"`
	ShopID     string                 `json:"shopId"`
}

type commitRequest struct {
	Tournament *tournament.Tournament `json:"tournament"`
	Result     *models.BattleResult   `json:"result"`
}

type tournamentResponse struct {
	Success    bool                   `json:"success"`
	Tournament *tournament.Tournament `json:"tournament"`
	Result     *models.BattleResult   `json:"result,omitempty"`
}

func (s *Server) createTournament(c echo.Context) error {
	var req createTournamentRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}

	t := tournament.New()
	if req.Location != nil {
		t.SetLocation(*req.Location)
	}
	if err := t.InitializeBracket(req.Shops); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, tournamentResponse{Success: true, Tournament: t})
}

func (s *Server) selectShop(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}
	t, err := validTournament(req.Tournament)
	if err != nil {
		return s.writeError(c, err)
	}

	shop, ok := t.FindShop(req.ShopID)
	if !ok {
		return s.writeError(c, badRequest(fmt.Sprintf("Shop %q is not in this tournament", req.ShopID)))
	}
	t.SelectShop(shop)
	return c.JSON(http.StatusOK, tournamentResponse{Success: true, Tournament: t})
}

// battleSelection judges the two selected shops and commits the result.
func (s *Server) battleSelection(c echo.Context) error {
	var req tournamentRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}
	t, err := validTournament(req.Tournament)
	if err != nil {
		return s.writeError(c, err)
	}
	if !t.SelectionComplete() {
		return s.writeError(c, badRequest("Select two shops to battle"))
	}

	a, b := *t.Selection[0], *t.Selection[1]
	if err := t.ValidatePairing(a, b); err != nil {
		return s.writeError(c, err)
	}

	result := s.services.Judge.JudgeBattle(c.Request().Context(), a, b)
	if err := t.CommitBattle(result); err != nil {
		return s.writeError(c, err)
	}
	t.ClearSelection()

	committed := t.Battles[len(t.Battles)-1]
	return c.JSON(http.StatusOK, tournamentResponse{Success: true, Tournament: t, Result: &committed})
}

func (s *Server) commitBattle(c echo.Context) error {
	var req commitRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, badRequest(invalidBody))
	}
	t, err := validTournament(req.Tournament)
	if err != nil {
		return s.writeError(c, err)
	}
	if req.Result == nil {
		return s.writeError(c, badRequest("Battle result is required"))
	}

	r := *req.Result
	if r.Winner.Key() != r.ShopA.Key() && r.Winner.Key() != r.ShopB.Key() {
		return s.writeError(c, badRequest("Winner must be one of the battling shops"))
	}
	if !r.Scores.ShopA.InRange() || !r.Scores.ShopB.InRange() {
		return s.writeError(c, badRequest("Scores must be whole numbers between 1 and 10"))
	}
	if strings.TrimSpace(r.Reasoning) == "" {
		return s.writeError(c, badRequest("Battle reasoning is required"))
	}
	if err := t.ValidatePairing(r.ShopA, r.ShopB); err != nil {
		return s.writeError(c, err)
	}
	if err := t.CommitBattle(r); err != nil {
		return s.writeError(c, err)
	}
	t.ClearSelection()
	return c.JSON(http.StatusOK, tournamentResponse{Success: true, Tournament: t})
}

func (s *Server) resetTournament(c echo.Context) error {
	t := tournament.New()
	return c.JSON(http.StatusOK, tournamentResponse{Success: true, Tournament: t})
}

func validTournament(t *tournament.Tournament) (*tournament.Tournament, error) {
	if t == nil {
		return nil, badRequest("Tournament is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Seeds == nil {
		t.Seeds = []models.Shop{}
	}
	if t.Battles == nil {
		t.Battles = []models.BattleResult{}
	}
	return t, nil
}
