package attendance

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go_attendance/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedEvent struct {
	topic     string
	eventType string
}

type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) Publish(topic, eventType string, payload any) {
	f.events = append(f.events, recordedEvent{topic: topic, eventType: eventType})
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.User{}, &model.AttendanceRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, employeeID, username, role string) *model.User {
	t.Helper()

	u := &model.User{
		EmployeeID:   employeeID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestHoursBetween(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     float64
		wantErr  bool
	}{
		{name: "full day", checkIn: "09:00:00", checkOut: "17:30:00", want: 8.5},
		{name: "short stay", checkIn: "09:00:00", checkOut: "09:15:00", want: 0.25},
		{name: "zero", checkIn: "09:00:00", checkOut: "09:00:00", want: 0},
		{name: "rounded", checkIn: "09:00:00", checkOut: "17:10:00", want: 8.17},
		{name: "bad check-in", checkIn: "9am", checkOut: "17:00:00", wantErr: true},
		{name: "bad check-out", checkIn: "09:00:00", checkOut: "later", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HoursBetween(tt.checkIn, tt.checkOut)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("HoursBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckInAndOut(t *testing.T) {
	gdb := testDB(t)
	pub := &fakePublisher{}
	svc := NewService(gdb, pub)
	u := seedUser(t, gdb, "EMP100", "worker", model.RoleEmployee)
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, u.ID)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if record.CheckInTime == nil {
		t.Fatal("check-in time not set")
	}
	if record.Status != model.AttendanceStatusPresent {
		t.Errorf("status = %q, want %q", record.Status, model.AttendanceStatusPresent)
	}

	if _, err := svc.CheckIn(ctx, u.ID); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("second check-in error = %v, want ErrAlreadyCheckedIn", err)
	}

	record, err = svc.CheckOut(ctx, u.ID)
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if record.CheckOutTime == nil {
		t.Fatal("check-out time not set")
	}

	if _, err := svc.CheckOut(ctx, u.ID); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Errorf("second check-out error = %v, want ErrAlreadyCheckedOut", err)
	}

	wantEvents := []recordedEvent{
		{topic: model.EventTopicAttendance, eventType: "checkin"},
		{topic: model.EventTopicAttendance, eventType: "checkout"},
	}
	if len(pub.events) != len(wantEvents) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(wantEvents))
	}
	for i, want := range wantEvents {
		if pub.events[i] != want {
			t.Errorf("event[%d] = %+v, want %+v", i, pub.events[i], want)
		}
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	u := seedUser(t, gdb, "EMP101", "early", model.RoleEmployee)

	if _, err := svc.CheckOut(context.Background(), u.ID); !errors.Is(err, ErrNotCheckedIn) {
		t.Errorf("check-out error = %v, want ErrNotCheckedIn", err)
	}
}

func TestToday(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	u := seedUser(t, gdb, "EMP102", "status", model.RoleEmployee)
	ctx := context.Background()

	status, err := svc.Today(ctx, u.ID)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if status.HasCheckedIn || status.HasCheckedOut {
		t.Errorf("fresh day reports checked in=%v out=%v", status.HasCheckedIn, status.HasCheckedOut)
	}

	if _, err := svc.CheckIn(ctx, u.ID); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	status, err = svc.Today(ctx, u.ID)
	if err != nil {
		t.Fatalf("today after check-in: %v", err)
	}
	if !status.HasCheckedIn || status.HasCheckedOut {
		t.Errorf("after check-in reports checked in=%v out=%v", status.HasCheckedIn, status.HasCheckedOut)
	}
}

func TestListRestrictsNonAdmins(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	ctx := context.Background()

	alice := seedUser(t, gdb, "EMP103", "alice", model.RoleEmployee)
	bob := seedUser(t, gdb, "EMP104", "bob", model.RoleEmployee)
	admin := seedUser(t, gdb, "EMP105", "boss", model.RoleAdmin)

	for _, u := range []*model.User{alice, bob} {
		if _, err := svc.CheckIn(ctx, u.ID); err != nil {
			t.Fatalf("check-in %s: %v", u.Username, err)
		}
	}

	// Employees only ever see their own rows, even when filtering by
	// someone else's id
	rows, err := svc.List(ctx, ListParams{UserID: bob.ID, CallerID: alice.ID, CallerRole: model.RoleEmployee})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != alice.ID {
		t.Fatalf("employee list = %d rows, want only own row", len(rows))
	}

	// Admins see everything by default
	rows, err = svc.List(ctx, ListParams{CallerID: admin.ID, CallerRole: model.RoleAdmin})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("admin list = %d rows, want 2", len(rows))
	}

	// Admins can narrow to one user
	rows, err = svc.List(ctx, ListParams{UserID: bob.ID, CallerID: admin.ID, CallerRole: model.RoleAdmin})
	if err != nil {
		t.Fatalf("admin filtered list: %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != bob.ID {
		t.Fatalf("admin filtered list = %d rows, want bob's row", len(rows))
	}
}

func TestUpdateRecomputesHours(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	u := seedUser(t, gdb, "EMP106", "edited", model.RoleEmployee)
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, u.ID)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	checkIn, checkOut := "09:00:00", "17:00:00"
	err = svc.Update(ctx, record.ID, UpdateParams{CheckInTime: &checkIn, CheckOutTime: &checkOut})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var got model.AttendanceRecord
	if err := gdb.First(&got, record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TotalHours != 8 {
		t.Errorf("total hours = %v, want 8", got.TotalHours)
	}
}

func TestUpdateErrors(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	u := seedUser(t, gdb, "EMP108", "stuck", model.RoleEmployee)
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, u.ID)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if err := svc.Update(ctx, record.ID, UpdateParams{}); !errors.Is(err, ErrNoFields) {
		t.Errorf("empty update error = %v, want ErrNoFields", err)
	}

	notes := "fixed"
	if err := svc.Update(ctx, 999, UpdateParams{Notes: &notes}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing record error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb, nil)
	u := seedUser(t, gdb, "EMP107", "gone", model.RoleEmployee)
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, u.ID)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if err := svc.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, record.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
