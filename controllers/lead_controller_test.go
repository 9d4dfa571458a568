package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nivesh_pathshala/models"
)

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateLeadModels(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func leadRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	lc := NewLeadController(db)
	router := gin.New()
	router.POST("/api/leads", lc.CreateLead)
	router.GET("/api/admin/leads", lc.GetLeads)
	router.PATCH("/api/admin/leads/:id", lc.UpdateLeadStatus)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateLead(t *testing.T) {
	db := newControllerTestDB(t)
	router := leadRouter(db)

	rec := postJSON(router, "/api/leads", `{
		"name": "Ramesh Kumar",
		"phone": "9876543210",
		"email": "ramesh@example.com",
		"course_interest": "basics",
		"message": "Share kaise kharide?"
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var lead models.Lead
	require.NoError(t, db.First(&lead).Error)
	assert.Equal(t, "Ramesh Kumar", lead.Name)
	assert.Equal(t, "new", lead.Status)
}

func TestCreateLeadValidation(t *testing.T) {
	db := newControllerTestDB(t)
	router := leadRouter(db)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"phone": "9876543210"}`},
		{"missing phone", `{"name": "Ramesh"}`},
		{"phone too short", `{"name": "Ramesh", "phone": "98765"}`},
		{"phone bad prefix", `{"name": "Ramesh", "phone": "1234567890"}`},
		{"not json", `plain text`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(router, "/api/leads", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	var count int64
	db.Model(&models.Lead{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateLeadAcceptsCountryCode(t *testing.T) {
	db := newControllerTestDB(t)
	router := leadRouter(db)

	rec := postJSON(router, "/api/leads", `{"name": "Sunita", "phone": "+919876543210"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateLeadStatus(t *testing.T) {
	db := newControllerTestDB(t)
	router := leadRouter(db)

	lead := models.Lead{Name: "Ramesh", Phone: "9876543210", Status: "new"}
	require.NoError(t, db.Create(&lead).Error)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/leads/1", strings.NewReader(`{"status": "contacted"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&lead, lead.ID).Error)
	assert.Equal(t, "contacted", lead.Status)

	// Unknown pipeline states are rejected.
	req = httptest.NewRequest(http.MethodPatch, "/api/admin/leads/1", strings.NewReader(`{"status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing leads 404.
	req = httptest.NewRequest(http.MethodPatch, "/api/admin/leads/99", strings.NewReader(`{"status": "contacted"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLeadsPagination(t *testing.T) {
	db := newControllerTestDB(t)
	router := leadRouter(db)

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.Lead{Name: "Lead", Phone: "9876543210", Status: "new"}).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":25`)
	assert.Contains(t, rec.Body.String(), `"page":2`)
}
