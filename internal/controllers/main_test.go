package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/controllers"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/middleware"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/models"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/routes"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/storage"
)

// setupTest wires the controllers to a fresh in-memory database and a
// throwaway proof directory, and returns the HTTP handler under test.
func setupTest(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Agence{}, &models.Colis{}))

	config.DB = db
	controllers.Proofs = storage.NewDiskStore(t.TempDir())

	return routes.SetupRouter(), db
}

func createUser(t *testing.T, db *gorm.DB, role, telephone string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Nom:       "Koné",
		Prenoms:   "Fatou",
		Telephone: telephone,
		Password:  string(hash),
		Role:      role,
		Actif:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAgenceFor(t *testing.T, db *gorm.DB, user *models.User) *models.Agence {
	t.Helper()
	agence := &models.Agence{
		UserID:           user.ID,
		NomAgence:        "Agence Plateau",
		Telephone:        user.Telephone,
		Adresse:          "Avenue de la République",
		Ville:            "Abidjan",
		Commune:          "Plateau",
		Latitude:         5.325,
		Longitude:        -4.021,
		Horaires:         []models.Horaire{},
		ZoneCouvertureKm: 10,
		Actif:            true,
	}
	require.NoError(t, db.Create(agence).Error)
	return agence
}

func authToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// doMultipart posts the given field→filename files with dummy content.
func doMultipart(t *testing.T, h http.Handler, path, token string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("contenu-image"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// doMultipartFile posts a single file field with the given raw content.
func doMultipartFile(t *testing.T, h http.Handler, path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
