package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/client-onboarding/internal/audit"
	"github.com/BruksfildServices01/client-onboarding/internal/db"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

func newAuditRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	r := gin.New()
	r.GET("/api/audit-logs", NewAuditLogsHandler(gdb).List)
	return r, gdb
}

type auditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

func TestAuditLogs_FiltersAndPages(t *testing.T) {
	r, gdb := newAuditRouter(t)

	sink := audit.NewGormSink(gdb)
	for _, ev := range []audit.Event{
		{Action: audit.ActionClientCreated, Entity: audit.EntityClient, EntityID: "a"},
		{Action: audit.ActionWelcomeEmailSent, Entity: audit.EntityClient, EntityID: "a"},
		{Action: audit.ActionClientCreated, Entity: audit.EntityClient, EntityID: "b"},
	} {
		require.NoError(t, sink.Log(t.Context(), ev))
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?action=client_created&limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page auditPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, 1, page.Limit)
	require.Len(t, page.Logs, 1)
	require.Equal(t, "b", page.Logs[0].EntityID)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?entity_id=a", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(2), page.Total)
	require.Len(t, page.Logs, 2)
}

func TestAuditLogs_BadDate(t *testing.T) {
	r, _ := newAuditRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?from=yesterday", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/audit-logs?from="+today+"&to="+today, nil))
	require.Equal(t, http.StatusOK, w.Code)
}
