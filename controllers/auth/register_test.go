package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/models"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Submission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func postRegister(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	RegisterHandler(rr, req)
	return rr
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	setupAuthDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	body := `{"email":"dup@test.local","password":"secret1","first_name":"A","last_name":"B","role":"worker"}`

	if rr := postRegister(t, body); rr.Code != http.StatusCreated {
		t.Fatalf("first registration: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	if rr := postRegister(t, body); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate registration: expected 409, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestIsDuplicateKey(t *testing.T) {
	db := setupAuthDB(t)

	first := models.User{Email: "race@test.local", Password: "x", FirstName: "A", LastName: "B", Role: "worker", Status: "active"}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// The error a concurrent registration hits when the pre-check has already
	// passed for both requests.
	second := models.User{Email: "race@test.local", Password: "x", FirstName: "C", LastName: "D", Role: "worker", Status: "active"}
	err := db.Create(&second).Error
	if err == nil {
		t.Fatal("expected unique index violation")
	}
	if !isDuplicateKey(err) {
		t.Fatalf("expected duplicate-key classification for %v", err)
	}

	if isDuplicateKey(errors.New("connection reset")) {
		t.Fatal("unrelated error classified as duplicate key")
	}
}
