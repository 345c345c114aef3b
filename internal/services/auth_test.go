package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/requestdata"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.UserToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	return NewAuthService(
		gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Ada", "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "correct horse" {
		t.Fatalf("password stored in the clear")
	}

	access, refresh, loggedIn, err := auth.Login(ctx, "ADA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" || loggedIn.ID != user.ID {
		t.Fatalf("login result: access=%q refresh=%q user=%v", access, refresh, loggedIn)
	}

	authedCtx, err := auth.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID || rd.DisplayName != "Ada" {
		t.Fatalf("request data from token: %+v", rd)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()
	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, _, err := auth.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password: want=%v got=%v", ErrUnauthorized, err)
	}
	if _, _, _, err := auth.Login(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown email: want=%v got=%v", ErrUnauthorized, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()
	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.Register(ctx, "Eve", "ada@example.com", "another pass"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: want=%v got=%v", ErrConflict, err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()
	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, _, err := auth.Login(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := auth.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh did not rotate: access=%q refresh=%q", access2, refresh2)
	}
	// old refresh token is dead after rotation
	if _, _, err := auth.Refresh(ctx, refresh); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("replayed refresh token: want=%v got=%v", ErrUnauthorized, err)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	auth := newAuthService(t)
	if _, err := auth.SetContextFromToken(context.Background(), "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token: want=%v got=%v", ErrUnauthorized, err)
	}
}
