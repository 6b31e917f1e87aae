package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"team-collab-api/internal/models"
	"team-collab-api/internal/testutil"
)

func TestCreateTeam_DeniedForTeamMember(t *testing.T) {
	r, db, _ := setupAPI(t)
	member := testutil.SeedUser(db, "carol", models.RoleTeamMember)

	w := doJSON(t, r, http.MethodPost, "/api/teams", tokenFor(t, member),
		map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTeam_AllowedForManager(t *testing.T) {
	r, db, _ := setupAPI(t)
	pm := testutil.SeedUser(db, "paula", models.RoleProjectManager)

	w := doJSON(t, r, http.MethodPost, "/api/teams", tokenFor(t, pm),
		map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, w.Code)

	var team models.Team
	decode(t, w, &team)
	require.Equal(t, "Alpha", team.Name)
	require.Empty(t, team.Members)
}

func TestAddMember_SuccessAndDuplicate(t *testing.T) {
	r, db, _ := setupAPI(t)
	admin := testutil.SeedUser(db, "root", models.RoleAdmin)
	member := testutil.SeedUser(db, "carol", models.RoleTeamMember)
	team := testutil.SeedTeam(db, "Alpha")

	w := doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/members", tokenFor(t, admin),
		map[string]string{"userId": member.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Team
	decode(t, w, &updated)
	require.Len(t, updated.Members, 1)
	require.Equal(t, member.ID, updated.Members[0].ID)

	// Adding the same user again conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/members", tokenFor(t, admin),
		map[string]string{"userId": member.ID})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAddMember_UnknownTeamOrUser(t *testing.T) {
	r, db, _ := setupAPI(t)
	admin := testutil.SeedUser(db, "root", models.RoleAdmin)
	team := testutil.SeedTeam(db, "Alpha")

	w := doJSON(t, r, http.MethodPost, "/api/teams/missing/members", tokenFor(t, admin),
		map[string]string{"userId": admin.ID})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/members", tokenFor(t, admin),
		map[string]string{"userId": "missing"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveMember_ShrinksRoster(t *testing.T) {
	r, db, _ := setupAPI(t)
	admin := testutil.SeedUser(db, "root", models.RoleAdmin)
	carol := testutil.SeedUser(db, "carol", models.RoleTeamMember)
	team := testutil.SeedTeam(db, "Alpha", carol)

	w := doJSON(t, r, http.MethodDelete, "/api/teams/"+team.ID+"/members/"+carol.ID,
		tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Team
	decode(t, w, &updated)
	require.Empty(t, updated.Members)

	// Removing again: not a member any more.
	w = doJSON(t, r, http.MethodDelete, "/api/teams/"+team.ID+"/members/"+carol.ID,
		tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTeams_VisibleToAllRoles(t *testing.T) {
	r, db, _ := setupAPI(t)
	member := testutil.SeedUser(db, "carol", models.RoleTeamMember)
	testutil.SeedTeam(db, "Alpha")
	testutil.SeedTeam(db, "Beta")

	w := doJSON(t, r, http.MethodGet, "/api/teams", tokenFor(t, member), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Teams []models.Team `json:"teams"`
		Count int           `json:"count"`
	}
	decode(t, w, &resp)
	require.Equal(t, 2, resp.Count)
}
