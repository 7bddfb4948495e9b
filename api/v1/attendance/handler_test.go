package attendance

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go_attendance/internal/attendance"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&model.User{}, &model.AttendanceRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewHandler(attendance.NewService(gdb, nil))
	r := gin.New()
	r.PUT("/attendance/:id", h.Update)
	return r
}

func doUpdate(r *gin.Engine, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/attendance/"+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateValidation(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{name: "bad id", id: "abc", body: `{"notes":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "bad status", id: "1", body: `{"status":"vanished"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed check-in time", id: "1", body: `{"checkInTime":"25:99"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed check-out time", id: "1", body: `{"checkOutTime":"5pm"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed break time", id: "1", body: `{"breakStartTime":"12:00"}`, wantStatus: http.StatusBadRequest},
		{name: "valid times, unknown record", id: "999", body: `{"checkInTime":"09:00:00","checkOutTime":"17:00:00"}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doUpdate(r, tt.id, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
