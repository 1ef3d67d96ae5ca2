package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// User tests
func TestNewUser(t *testing.T) {
	profileID := uuid.New()

	user := NewUser("Ada", "ada@example.com", "$2a$10$hash", profileID)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, profileID, user.ProfileID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUser_JSONMarshaling(t *testing.T) {
	user := NewUser("Ada", "ada@example.com", "super-secret-hash", uuid.New())

	data, err := json.Marshal(user)
	require.NoError(t, err)

	// Password hash never leaves the process
	assert.NotContains(t, string(data), "super-secret-hash")
	assert.NotContains(t, string(data), "password")
}

func TestUser_TableName(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
}

// Profile tests
func TestNewProfile(t *testing.T) {
	profile := NewProfile("Administrators", RoleAdmin, "full access")

	assert.NotEqual(t, uuid.Nil, profile.ID)
	assert.Equal(t, RoleAdmin, profile.Role)
	assert.True(t, profile.IsAdmin())
	assert.Equal(t, "profiles", profile.TableName())
}

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleLeader, true},
		{RoleScheduler, true},
		{Role("admin"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.Valid())
		})
	}
}

// Area and room tests
func TestNewArea(t *testing.T) {
	area := NewArea("North wing", "second floor")

	assert.NotEqual(t, uuid.Nil, area.ID)
	assert.Equal(t, "North wing", area.Name)
	assert.Equal(t, "areas", area.TableName())
}

func TestNewRoom(t *testing.T) {
	areaID := uuid.New()
	room := NewRoom(areaID, "Room 201", 12)

	assert.NotEqual(t, uuid.Nil, room.ID)
	assert.Equal(t, areaID, room.AreaID)
	assert.Equal(t, 12, room.Capacity)
	assert.Equal(t, "rooms", room.TableName())
}

// AuditLog tests
func TestNewAuditLog(t *testing.T) {
	log := NewAuditLog(AuditActionSignInFailed)

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, AuditActionSignInFailed, log.Action)
	assert.False(t, log.Timestamp.IsZero())
	assert.Nil(t, log.UserID)
}

func TestAuditLog_BuilderMethods(t *testing.T) {
	userID := uuid.New()

	log := NewAuditLog(AuditActionTokenRefreshed).
		WithUser(userID).
		WithEmail("ada@example.com").
		WithReason("ok").
		WithRequest("req-1", "10.0.0.1", "curl/8").
		WithDetails(map[string]string{"jti": "abc"})

	require.NotNil(t, log.UserID)
	assert.Equal(t, userID, *log.UserID)
	assert.Equal(t, "ada@example.com", log.Email)
	assert.Equal(t, "ok", log.Reason)
	assert.Equal(t, "req-1", log.RequestID)
	assert.Equal(t, "10.0.0.1", log.IPAddress)
	assert.JSONEq(t, `{"jti":"abc"}`, string(log.Details))
	assert.Equal(t, "auth_audit_logs", log.TableName())
}
