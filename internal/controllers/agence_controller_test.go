package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
)

func setupPayload() gin.H {
	return gin.H{
		"nom_agence": "Agence Yopougon",
		"telephone":  "+2250102030406",
		"adresse":    "Boulevard principal",
		"ville":      "Abidjan",
		"commune":    "Yopougon",
		"latitude":   5.345,
		"longitude":  -4.072,
		"horaires": []gin.H{
			{"jour": "lundi", "ouverture": "08:00", "fermeture": "18:00"},
			{"jour": "samedi", "ouverture": "9:00", "fermeture": "13:30"},
		},
	}
}

func TestSetupAgence(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030406")
	token := authToken(t, user)

	w := doJSON(t, h, http.MethodPost, "/agence/setup", token, setupPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	agence := body["agence"].(map[string]any)
	assert.Equal(t, "Agence Yopougon", agence["nom_agence"])
	// default coverage radius
	assert.Equal(t, float64(10), agence["zone_couverture_km"])

	// the profile is 1:1 — a second setup always conflicts
	w = doJSON(t, h, http.MethodPost, "/agence/setup", token, setupPayload())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSetupAgenceValidation(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030407")
	token := authToken(t, user)

	cases := map[string]gin.H{
		"latitude out of range":  {"latitude": 95},
		"longitude out of range": {"longitude": 181},
		"radius below floor":     {"zone_couverture_km": 0.5},
		"radius above ceiling":   {"zone_couverture_km": 150},
		"bad opening time": {"horaires": []gin.H{
			{"jour": "lundi", "ouverture": "25:00", "fermeture": "18:00"},
		}},
		"bad day name": {"horaires": []gin.H{
			{"jour": "monday", "ouverture": "08:00", "fermeture": "18:00"},
		}},
	}
	for name, override := range cases {
		payload := setupPayload()
		for k, v := range override {
			payload[k] = v
		}
		w := doJSON(t, h, http.MethodPost, "/agence/setup", token, payload)
		assert.Equalf(t, http.StatusUnprocessableEntity, w.Code, "case %q", name)
	}

	// nothing was created
	var count int64
	require.NoError(t, db.Model(&models.Agence{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetupForbiddenForOtherRoles(t *testing.T) {
	h, db := setupTest(t)
	client := createUser(t, db, models.RoleClient, "+2250102030408")

	w := doJSON(t, h, http.MethodPost, "/agence/setup", authToken(t, client), setupPayload())
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the refusal must happen before the handler: no profile row exists
	var count int64
	require.NoError(t, db.Model(&models.Agence{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetupValidationErrorsKeyedByField(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030418")
	token := authToken(t, user)

	payload := setupPayload()
	payload["latitude"] = 95
	delete(payload, "nom_agence")

	w := doJSON(t, h, http.MethodPost, "/agence/setup", token, payload)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errs := decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "latitude")
	assert.Contains(t, errs, "nom_agence")
	// the envelope speaks the payload's language, not Go identifiers
	assert.NotContains(t, w.Body.String(), "Latitude")
	assert.NotContains(t, w.Body.String(), "setupAgenceInput")
}

func TestCheckAgenceStatus(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030409")
	token := authToken(t, user)

	w := doJSON(t, h, http.MethodGet, "/agence/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["has_agence"])

	createAgenceFor(t, db, user)

	w = doJSON(t, h, http.MethodGet, "/agence/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["has_agence"])
}

func TestShowAgence(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030410")
	token := authToken(t, user)

	// no profile yet
	w := doJSON(t, h, http.MethodGet, "/agence/show", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	createAgenceFor(t, db, user)

	w = doJSON(t, h, http.MethodGet, "/agence/show", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Agence Plateau", body["agence"].(map[string]any)["nom_agence"])

	position := body["position"].(map[string]any)
	assert.Equal(t, "Point", position["type"])
}

func TestUpdateAgence(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030411")
	token := authToken(t, user)
	createAgenceFor(t, db, user)

	// partial update: untouched fields keep their values, and the update
	// path accepts a zero coverage radius that setup would refuse
	w := doJSON(t, h, http.MethodPut, "/agence/update", token, gin.H{
		"nom_agence":         "Agence Plateau Nord",
		"zone_couverture_km": 0,
		"horaires": []gin.H{
			{"jour": "tous les jours", "ouverture": "toujours", "fermeture": "jamais"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var agence models.Agence
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&agence).Error)
	assert.Equal(t, "Agence Plateau Nord", agence.NomAgence)
	assert.Equal(t, "Abidjan", agence.Ville)
	assert.Equal(t, float64(0), agence.ZoneCouvertureKm)
	require.Len(t, agence.Horaires, 1)
	assert.Equal(t, "tous les jours", agence.Horaires[0].Jour)
}

func TestUpdateAgenceStillChecksRanges(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030412")
	token := authToken(t, user)
	createAgenceFor(t, db, user)

	w := doJSON(t, h, http.MethodPut, "/agence/update", token, gin.H{"latitude": 95})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateAgenceWithoutProfile(t *testing.T) {
	h, db := setupTest(t)
	user := createUser(t, db, models.RoleAgence, "+2250102030413")

	w := doJSON(t, h, http.MethodPut, "/agence/update", authToken(t, user), gin.H{"ville": "Bouaké"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
