package tournament

import (
	"encoding/json"
	"fmt"
	"testing"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func seeds() []models.Shop {
	out := make([]models.Shop, SeedCount)
	for i := range out {
		out[i] = models.Shop{
			ID:          fmt.Sprintf("s%d", i),
			PlaceID:     fmt.Sprintf("s%d", i),
			Name:        fmt.Sprintf("Shop %d", i),
			Rating:      4.9 - float64(i)*0.1,
			ReviewCount: 100 + i,
		}
	}
	return out
}

func seeded(t *testing.T) *Tournament {
	t.Helper()
	tr := New()
	require.NoError(t, tr.InitializeBracket(seeds()))
	return tr
}

func result(a, b, winner models.Shop) models.BattleResult {
	return models.BattleResult{ShopA: a, ShopB: b, Winner: winner}
}

func assertSlotCounts(t *testing.T, tr *Tournament) {
	t.Helper()
	counts := map[Round]int{}
	for _, s := range tr.Bracket {
		counts[s.Round]++
	}
	assert.Equal(t, map[Round]int{Quarterfinal: 8, Semifinal: 4, Final: 2, Champion: 1}, counts)
}

func shopIDs(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		if s.Shop != nil {
			out[i] = s.Shop.ID
		}
	}
	return out
}

// playAll commits every remaining battle with the first-listed shop winning.
func playAll(t *testing.T, tr *Tournament) int {
	t.Helper()
	commits := 0
	for tr.CurrentRound != Champion {
		pairs := tr.Pairings()
		require.NotEmpty(t, pairs)
		for _, p := range pairs {
			require.NoError(t, tr.ValidatePairing(p[0], p[1]))
			require.NoError(t, tr.CommitBattle(result(p[0], p[1], p[0])))
			assertSlotCounts(t, tr)
			commits++
		}
	}
	return commits
}

// ==========================
// Lifecycle
// ==========================

func TestNew_EmptyInitialState(t *testing.T) {
	tr := New()

	require.Len(t, tr.Bracket, SlotCount)
	assertSlotCounts(t, tr)
	for i, s := range tr.Bracket {
		assert.Equal(t, i, s.Position)
		assert.Nil(t, s.Shop)
	}
	assert.Equal(t, Quarterfinal, tr.CurrentRound)
	assert.Nil(t, tr.Champion)
	assert.Empty(t, tr.Battles)
}

func TestInitializeBracket(t *testing.T) {
	tr := New()
	tr.SetLocation(models.LocationResult{Lat: 37.77, Lng: -122.42, FormattedAddress: "San Francisco, CA, USA"})
	tr.SelectShop(seeds()[3])

	require.NoError(t, tr.InitializeBracket(seeds()))

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "San Francisco, CA, USA", tr.Location)
	require.NotNil(t, tr.Coordinates)
	assert.Equal(t, 37.77, tr.Coordinates.Lat)
	assert.Equal(t, []string{"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7"}, shopIDs(tr.SlotsByRound(Quarterfinal)))
	for _, r := range []Round{Semifinal, Final, Champion} {
		for _, s := range tr.SlotsByRound(r) {
			assert.Nil(t, s.Shop, "round %s", r)
		}
	}
	assert.Equal(t, [2]*models.Shop{}, tr.Selection)
	assert.Equal(t, Quarterfinal, tr.CurrentRound)
	assert.Len(t, tr.Seeds, SeedCount)
}

func TestInitializeBracket_InvalidSeeding(t *testing.T) {
	tests := []struct {
		name  string
		shops []models.Shop
	}{
		{"none", nil},
		{"seven", seeds()[:7]},
		{"nine", append(seeds(), models.Shop{ID: "s8", Name: "Shop 8"})},
		{"duplicate", append(seeds()[:7], seeds()[0])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			err := tr.InitializeBracket(tt.shops)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSeeding))
			assert.Empty(t, tr.ID)
		})
	}
}

func TestReset_Idempotent(t *testing.T) {
	tr := seeded(t)
	tr.SelectShop(seeds()[0])
	require.NoError(t, tr.CommitBattle(result(seeds()[0], seeds()[1], seeds()[0])))

	tr.Reset()
	first := *tr
	tr.Reset()

	if diff := cmp.Diff(first, *tr); diff != "" {
		t.Fatalf("second reset changed state (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(*New(), *tr); diff != "" {
		t.Fatalf("reset differs from initial state (-want +got):\n%s", diff)
	}
}

// ==========================
// Selection
// ==========================

func TestSelectShop_Policy(t *testing.T) {
	s := seeds()
	a, b, c := s[0], s[1], s[2]
	tr := seeded(t)

	tr.SelectShop(a)
	tr.SelectShop(b)
	assert.Equal(t, "s0", tr.Selection[0].ID)
	assert.Equal(t, "s1", tr.Selection[1].ID)
	assert.True(t, tr.SelectionComplete())

	tr.SelectShop(a)
	assert.Nil(t, tr.Selection[0])
	assert.Equal(t, "s1", tr.Selection[1].ID)

	tr.SelectShop(a)
	tr.SelectShop(c)
	assert.Equal(t, "s2", tr.Selection[0].ID, "full selection replaces side A")
	assert.Equal(t, "s1", tr.Selection[1].ID)
}

func TestSelectShop_ToggleOff(t *testing.T) {
	a := seeds()[0]
	tr := seeded(t)

	tr.SelectShop(a)
	tr.SelectShop(a)

	assert.Equal(t, [2]*models.Shop{nil, nil}, tr.Selection)
}

func TestSelectShop_FillsSideAFirstAfterDeselect(t *testing.T) {
	s := seeds()
	tr := seeded(t)

	tr.SelectShop(s[0])
	tr.SelectShop(s[1])
	tr.SelectShop(s[1])
	tr.SelectShop(s[5])

	assert.Equal(t, "s0", tr.Selection[0].ID)
	assert.Equal(t, "s5", tr.Selection[1].ID)

	tr.ClearSelection()
	assert.False(t, tr.SelectionComplete())
}

// ==========================
// Advancement
// ==========================

func TestCommitBattle_EvenSeedsAdvanceInOrder(t *testing.T) {
	s := seeds()
	tr := seeded(t)

	for i := 0; i < SeedCount; i += 2 {
		require.NoError(t, tr.CommitBattle(result(s[i], s[i+1], s[i])))
		if i < 6 {
			assert.Equal(t, Quarterfinal, tr.CurrentRound, "round must not move before all semifinal slots fill")
		}
	}

	assert.Equal(t, []string{"s0", "s2", "s4", "s6"}, shopIDs(tr.SlotsByRound(Semifinal)))
	assert.Equal(t, Semifinal, tr.CurrentRound)
	assert.Len(t, tr.Battles, 4)
	for _, b := range tr.Battles {
		assert.Equal(t, string(Quarterfinal), b.Round)
	}
}

func TestCommitBattle_SevenBattlesCrownChampion(t *testing.T) {
	tr := seeded(t)

	commits := playAll(t, tr)

	assert.Equal(t, 7, commits)
	assert.Equal(t, Champion, tr.CurrentRound)
	require.NotNil(t, tr.Champion)
	assert.Equal(t, "s0", tr.Champion.ID)
	assert.Equal(t, []string{"s0", "s4"}, shopIDs(tr.SlotsByRound(Final)))
	assert.Equal(t, []string{"s0"}, shopIDs(tr.SlotsByRound(Champion)))
	assert.Empty(t, tr.Contenders())
	assert.Empty(t, tr.Pairings())
}

func TestAdvance_OverflowIsRefused(t *testing.T) {
	s := seeds()
	tr := seeded(t)

	for i := 0; i < SeedCount; i += 2 {
		require.NoError(t, tr.Advance(s[i], Quarterfinal))
	}
	before := append([]Slot(nil), tr.Bracket...)

	err := tr.Advance(s[1], Quarterfinal)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBracketOverflow))
	assert.Equal(t, before, tr.Bracket, "bracket must not be overwritten")
}

func TestAdvance_OutOfChampionIsOverflow(t *testing.T) {
	tr := seeded(t)
	playAll(t, tr)

	err := tr.CommitBattle(result(seeds()[0], seeds()[4], seeds()[0]))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBracketOverflow))
	assert.Len(t, tr.Battles, 7, "refused commit is not recorded")
}

func TestCommitBattle_DoesNotEnforcePairing(t *testing.T) {
	s := seeds()
	tr := seeded(t)

	// Same shop on both sides is accepted by the state machine.
	require.NoError(t, tr.CommitBattle(result(s[3], s[3], s[3])))
	assert.Equal(t, "s3", tr.Bracket[8].Shop.ID)
}

// ==========================
// Contenders & pairing validation
// ==========================

func TestContenders(t *testing.T) {
	s := seeds()
	tr := seeded(t)
	assert.Len(t, tr.Contenders(), 8)

	require.NoError(t, tr.CommitBattle(result(s[2], s[3], s[3])))

	var ids []string
	for _, c := range tr.Contenders() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"s0", "s1", "s4", "s5", "s6", "s7"}, ids)

	pairs := tr.Pairings()
	require.Len(t, pairs, 3)
	assert.Equal(t, "s4", pairs[1][0].ID)
	assert.Equal(t, "s5", pairs[1][1].ID)
}

func TestValidatePairing(t *testing.T) {
	s := seeds()
	tr := seeded(t)
	require.NoError(t, tr.CommitBattle(result(s[0], s[1], s[0])))

	tests := []struct {
		name    string
		a, b    models.Shop
		wantErr string
	}{
		{"valid", s[2], s[3], ""},
		{"same shop", s[2], s[2], "cannot battle itself"},
		{"already played", s[0], s[2], "Shop 0 is not an active contender"},
		{"unknown shop", s[2], models.Shop{ID: "x", Name: "Mystery"}, "Mystery is not an active contender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.ValidatePairing(tt.a, tt.b)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
			assert.Contains(t, err.(*errors.StandardError).Message, tt.wantErr)
		})
	}
}

func TestValidatePairing_AfterChampion(t *testing.T) {
	tr := seeded(t)
	playAll(t, tr)

	err := tr.ValidatePairing(seeds()[0], seeds()[1])
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
}

// ==========================
// Caller-owned value round trip
// ==========================

func TestTournament_JSONRoundTripKeepsPlaying(t *testing.T) {
	s := seeds()
	tr := seeded(t)
	tr.SelectShop(s[0])
	require.NoError(t, tr.CommitBattle(result(s[0], s[1], s[1])))

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var restored Tournament
	require.NoError(t, json.Unmarshal(raw, &restored))
	require.NoError(t, restored.Validate())

	if diff := cmp.Diff(*tr, restored); diff != "" {
		t.Fatalf("round trip changed state (-want +got):\n%s", diff)
	}

	shop, ok := restored.FindShop("s1")
	require.True(t, ok)
	assert.Equal(t, "Shop 1", shop.Name)
	assert.Equal(t, "s1", restored.Bracket[8].Shop.ID)
}

func TestValidate_RejectsMalformedBracket(t *testing.T) {
	tr := seeded(t)
	tr.Bracket = tr.Bracket[:14]
	assert.Error(t, tr.Validate())

	tr = seeded(t)
	tr.Bracket[9].Round = Final
	assert.Error(t, tr.Validate())

	tr = seeded(t)
	tr.CurrentRound = "groups"
	assert.Error(t, tr.Validate())
}

func TestRoundHelpers(t *testing.T) {
	assert.Equal(t, Quarterfinal, RoundOf(7))
	assert.Equal(t, Semifinal, RoundOf(8))
	assert.Equal(t, Final, RoundOf(13))
	assert.Equal(t, Champion, RoundOf(14))
	assert.Panics(t, func() { RoundOf(15) })

	next, ok := Final.Next()
	assert.True(t, ok)
	assert.Equal(t, Champion, next)
	_, ok = Champion.Next()
	assert.False(t, ok)

	r, err := ParseRound("S")
	require.NoError(t, err)
	assert.Equal(t, Semifinal, r)
	_, err = ParseRound("groups")
	assert.Error(t, err)

	assert.Equal(t, 4, Semifinal.Size())
	assert.Equal(t, "C", Champion.Short())
}
