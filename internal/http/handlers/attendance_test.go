package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/hrhub/internal/auth"
	"github.com/geocoder89/hrhub/internal/domain/attendance"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// white-box so the handler clock can be pinned to a fixed instant

type fakeAttendanceStore struct {
	checkInFn    func(ctx context.Context, rec attendance.Record) error
	checkOutFn   func(ctx context.Context, userID, date, checkOut string) error
	listByUserFn func(ctx context.Context, userID, month string) ([]attendance.Record, error)
	listByDateFn func(ctx context.Context, date string) ([]attendance.Record, error)
}

func (f *fakeAttendanceStore) CheckIn(ctx context.Context, rec attendance.Record) error {
	if f.checkInFn != nil {
		return f.checkInFn(ctx, rec)
	}

	return nil
}

func (f *fakeAttendanceStore) CheckOut(ctx context.Context, userID, date, checkOut string) error {
	if f.checkOutFn != nil {
		return f.checkOutFn(ctx, userID, date, checkOut)
	}

	return nil
}

func (f *fakeAttendanceStore) ListByUser(ctx context.Context, userID, month string) ([]attendance.Record, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID, month)
	}

	return nil, nil
}

func (f *fakeAttendanceStore) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	if f.listByDateFn != nil {
		return f.listByDateFn(ctx, date)
	}

	return nil, nil
}

type staticVerifier struct {
	claims *auth.Claims
}

func (s *staticVerifier) VerifyToken(token string) (*auth.Claims, error) {
	return s.claims, nil
}

func attendanceRouter(h *AttendanceHandler, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mw := middlewares.NewAuthMiddleware(&staticVerifier{
		claims: &auth.Claims{UserID: userID, Role: role},
	}, nil)

	r := gin.New()

	r.POST("/attendance/checkin", mw.RequireAuth(), h.CheckIn)
	r.POST("/attendance/checkout", mw.RequireAuth(), h.CheckOut)

	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCheckInStatusByHour(t *testing.T) {
	tests := []struct {
		name       string
		clock      time.Time
		wantStatus string
	}{
		{
			name:       "before_nine_is_present",
			clock:      time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC),
			wantStatus: attendance.StatusPresent,
		},
		{
			name:       "nine_or_later_is_late",
			clock:      time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC),
			wantStatus: attendance.StatusLate,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var gotRec attendance.Record

			store := &fakeAttendanceStore{
				checkInFn: func(ctx context.Context, rec attendance.Record) error {
					gotRec = rec
					return nil
				},
			}

			h := NewAttendanceHandler(store)
			h.now = func() time.Time { return tt.clock }

			r := attendanceRouter(h, "emp-1", "employee")

			w := postJSON(r, "/attendance/checkin", `{}`)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}

			if gotRec.Status != tt.wantStatus {
				t.Fatalf("got status %q, want %q", gotRec.Status, tt.wantStatus)
			}

			if gotRec.UserID != "emp-1" {
				t.Fatalf("check-in should default to the caller, got %q", gotRec.UserID)
			}

			if gotRec.Date != "2025-03-14" {
				t.Fatalf("got date %q", gotRec.Date)
			}

			var resp struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}

			if resp.Status != tt.wantStatus {
				t.Fatalf("response status %q, want %q", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestCheckInTwiceSameDayConflicts(t *testing.T) {
	store := &fakeAttendanceStore{
		checkInFn: func(ctx context.Context, rec attendance.Record) error {
			return attendance.ErrAlreadyCheckedIn
		},
	}

	h := NewAttendanceHandler(store)

	r := attendanceRouter(h, "emp-1", "employee")

	w := postJSON(r, "/attendance/checkin", `{}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409, body=%s", w.Code, w.Body.String())
	}
}

func TestCheckInForAnotherUser(t *testing.T) {
	var gotUser string

	store := &fakeAttendanceStore{
		checkInFn: func(ctx context.Context, rec attendance.Record) error {
			gotUser = rec.UserID
			return nil
		},
	}

	h := NewAttendanceHandler(store)

	// employees cannot check in anyone else
	r := attendanceRouter(h, "emp-1", "employee")

	w := postJSON(r, "/attendance/checkin", `{"user_id": "emp-2"}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
	}

	// admins can
	r = attendanceRouter(h, "admin-1", "admin")

	w = postJSON(r, "/attendance/checkin", `{"user_id": "emp-2"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotUser != "emp-2" {
		t.Fatalf("got user %q", gotUser)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	store := &fakeAttendanceStore{
		checkOutFn: func(ctx context.Context, userID, date, checkOut string) error {
			return attendance.ErrNotFound
		},
	}

	h := NewAttendanceHandler(store)

	r := attendanceRouter(h, "emp-1", "employee")

	w := postJSON(r, "/attendance/checkout", `{"date": "2025-03-14"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestCheckOutRecordsTime(t *testing.T) {
	var gotDate, gotOut string

	store := &fakeAttendanceStore{
		checkOutFn: func(ctx context.Context, userID, date, checkOut string) error {
			gotDate, gotOut = date, checkOut
			return nil
		},
	}

	h := NewAttendanceHandler(store)
	h.now = func() time.Time { return time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC) }

	r := attendanceRouter(h, "emp-1", "employee")

	w := postJSON(r, "/attendance/checkout", `{"date": "2025-03-14"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotDate != "2025-03-14" || gotOut != "17:30" {
		t.Fatalf("got date %q out %q", gotDate, gotOut)
	}
}
