package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mike-rowan/fieldserve-api/config"
	"github.com/mike-rowan/fieldserve-api/models"
)

func setupTeamRouter(auth0ID string) *gin.Engine {
	router := setupTestRouter()
	auth := mockAuthMiddleware(auth0ID, "owner", "mock-token")
	router.POST("/team", auth, CreateTeamMember)
	router.GET("/team", auth, ListTeamMembers)
	router.POST("/team/:id/time-off", auth, AddTimeOff)
	router.POST("/team/:id/availability", auth, CheckTechnicianAvailability)
	return router
}

func TestCreateTeamMember(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	contractor := createTestContractor(t, db, "auth0|team-owner")
	router := setupTeamRouter(contractor.Auth0ID)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name: "Successfully create team member with skills and certs",
			requestBody: map[string]interface{}{
				"name":        "Alex Reed",
				"email":       "alex@example.com",
				"role":        "technician",
				"hourly_rate": 45,
				"skills": []map[string]interface{}{
					{"skill_id": "hvac_repair", "proficiency": "advanced", "years_experience": 6},
				},
				"certifications": []map[string]interface{}{
					{"cert_id": "epa_608", "expires_at": "2027-12-31T00:00:00Z", "verified": true},
				},
				"working_hours": []map[string]interface{}{
					{"weekday": 1, "start": "08:00", "end": "17:00", "available": true},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "Alex Reed", data["name"])
				assert.True(t, data["is_active"].(bool), "new members start active")
				assert.Len(t, data["skills"].([]interface{}), 1)
				assert.Len(t, data["certifications"].([]interface{}), 1)
			},
		},
		{
			name: "Defaults role to technician and proficiency to beginner",
			requestBody: map[string]interface{}{
				"name": "Sam Ortiz",
				"skills": []map[string]interface{}{
					{"skill_id": "plumbing"},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "technician", data["role"])
				skills := data["skills"].([]interface{})
				skill := skills[0].(map[string]interface{})
				assert.Equal(t, "beginner", skill["proficiency"])
			},
		},
		{
			name:           "Fail with missing name",
			requestBody:    map[string]interface{}{"role": "lead"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with unknown role",
			requestBody: map[string]interface{}{
				"name": "Alex Reed",
				"role": "apprentice",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with unknown proficiency",
			requestBody: map[string]interface{}{
				"name": "Alex Reed",
				"skills": []map[string]interface{}{
					{"skill_id": "hvac_repair", "proficiency": "wizard"},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/team", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decodeResponse(t, w)
			if tt.expectedError != "" {
				assertErrorCode(t, response, tt.expectedError)
				return
			}
			assert.True(t, response["success"].(bool))
			if tt.checkResponse != nil {
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestListTeamMembers(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	contractor := createTestContractor(t, db, "auth0|team-lister")
	other := createTestContractor(t, db, "auth0|other-team")

	for i, name := range []string{"Alex Reed", "Sam Ortiz"} {
		member := models.TeamMember{ContractorID: contractor.ID, Name: name, Role: "technician", IsActive: i == 0}
		assert.NoError(t, db.Create(&member).Error)
	}
	outsider := models.TeamMember{ContractorID: other.ID, Name: "Jo Keller", Role: "technician", IsActive: true}
	assert.NoError(t, db.Create(&outsider).Error)

	router := setupTeamRouter(contractor.Auth0ID)

	w := performRequest(router, http.MethodGet, "/team", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2, "only the contractor's own team is visible")
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Alex Reed", first["name"])
}

func TestAddTimeOff(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	contractor := createTestContractor(t, db, "auth0|time-off")
	member := models.TeamMember{ContractorID: contractor.ID, Name: "Alex Reed", Role: "technician", IsActive: true}
	assert.NoError(t, db.Create(&member).Error)

	router := setupTeamRouter(contractor.Auth0ID)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/team/%d/time-off", member.ID), map[string]interface{}{
		"start_date": "2024-06-01T00:00:00Z",
		"end_date":   "2024-06-05T00:00:00Z",
		"reason":     "vacation",
		"approved":   true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	assert.NoError(t, db.Model(&models.TimeOff{}).Where("team_member_id = ?", member.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Inverted interval
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/team/%d/time-off", member.ID), map[string]interface{}{
		"start_date": "2024-06-05T00:00:00Z",
		"end_date":   "2024-06-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, decodeResponse(t, w), "VALIDATION_ERROR")

	w = performRequest(router, http.MethodPost, "/team/99999/time-off", map[string]interface{}{
		"start_date": "2024-06-01T00:00:00Z",
		"end_date":   "2024-06-05T00:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, decodeResponse(t, w), "NOT_FOUND")
}

func TestCheckTechnicianAvailability(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	contractor := createTestContractor(t, db, "auth0|availability")

	member := models.TeamMember{
		ContractorID: contractor.ID,
		Name:         "Alex Reed",
		Role:         "technician",
		IsActive:     true,
		WorkingHours: []models.WorkingHour{
			{Weekday: 1, Start: "08:00", End: "17:00", Available: true},
		},
	}
	assert.NoError(t, db.Create(&member).Error)

	router := setupTeamRouter(contractor.Auth0ID)

	// 2024-06-03 is a Monday
	w := performRequest(router, http.MethodPost, fmt.Sprintf("/team/%d/availability", member.ID), map[string]interface{}{
		"date":       "2024-06-03T00:00:00Z",
		"start_time": "09:00",
		"end_time":   "11:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.True(t, data["available"].(bool))

	// 2024-06-04 is a Tuesday with no schedule template
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/team/%d/availability", member.ID), map[string]interface{}{
		"date":       "2024-06-04T00:00:00Z",
		"start_time": "09:00",
		"end_time":   "11:00",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	data = response["data"].(map[string]interface{})
	assert.False(t, data["available"].(bool))
	assert.NotEmpty(t, data["reason"], "rejections always carry a reason")
}
