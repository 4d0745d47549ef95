package services

import (
	"testing"
	"time"

	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.CreateUser(CreateUserInput{
			Username:  "alice",
			Password:  "password123",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Smith",
		})
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.FirstName != "Alice" {
			t.Errorf("expected first name Alice, got %s", user.FirstName)
		}
		if user.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.CreateUser(CreateUserInput{Username: "dup", Password: "password123"})
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(CreateUserInput{Username: "dup", Password: "password456"})
		testutil.AssertAppError(t, err, "USERNAME_TAKEN")
	})

	t.Run("empty_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.CreateUser(CreateUserInput{Username: "  ", Password: "password123"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.CreateUser(CreateUserInput{Username: "bob"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.CreateUser(CreateUserInput{Username: "hash", Password: "mypassword"})
		testutil.AssertNoError(t, err)

		if user.Password == "mypassword" {
			t.Error("password should be hashed, not stored as plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mypassword")); err != nil {
			t.Error("password hash should be valid bcrypt")
		}
	})

	t.Run("invalid_cost_falls_back_to_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, 99).(*userService)

		if svc.bcryptCost != bcrypt.DefaultCost {
			t.Errorf("expected cost %d, got %d", bcrypt.DefaultCost, svc.bcryptCost)
		}
	})
}

func TestGetUserByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUserWithUsername(t, db, "found")
		user, err := svc.GetUserByUsername("found")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.GetUserByUsername("nobody")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Username != created.Username {
			t.Errorf("expected username %s, got %s", created.Username, user.Username)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.GetUserByID(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, bcrypt.MinCost)

	users, err := svc.ListUsers()
	testutil.AssertNoError(t, err)
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", users)
	}

	first := testutil.CreateTestUser(t, db)
	second := testutil.CreateTestUser(t, db)

	users, err = svc.ListUsers()
	testutil.AssertNoError(t, err)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != first.ID || users[1].ID != second.ID {
		t.Errorf("expected users ordered by id, got %d, %d", users[0].ID, users[1].ID)
	}
}

func TestUpdateUser(t *testing.T) {
	t.Run("partial_update_keeps_other_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.UpdateUser(created.ID, UpdateUserInput{Email: strPtr("new@example.com")})
		testutil.AssertNoError(t, err)

		if user.Email != "new@example.com" {
			t.Errorf("expected email new@example.com, got %s", user.Email)
		}
		if user.Username != created.Username || user.FirstName != created.FirstName {
			t.Error("expected untouched fields to keep their value")
		}
		if user.Password != created.Password {
			t.Error("expected password hash to be unchanged")
		}
	})

	t.Run("empty_password_not_rehashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.UpdateUser(created.ID, UpdateUserInput{Password: strPtr("")})
		testutil.AssertNoError(t, err)

		if !svc.VerifyPassword(user, testutil.TestPassword) {
			t.Error("expected original password to remain valid")
		}
	})

	t.Run("new_password_rehashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.UpdateUser(created.ID, UpdateUserInput{Password: strPtr("changed-pass")})
		testutil.AssertNoError(t, err)

		if !svc.VerifyPassword(user, "changed-pass") {
			t.Error("expected new password to verify")
		}
		if svc.VerifyPassword(user, testutil.TestPassword) {
			t.Error("expected old password to stop working")
		}
	})

	t.Run("username_taken", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		testutil.CreateTestUserWithUsername(t, db, "taken")
		other := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateUser(other.ID, UpdateUserInput{Username: strPtr("taken")})
		testutil.AssertAppError(t, err, "USERNAME_TAKEN")
	})

	t.Run("same_username_is_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUserWithUsername(t, db, "same")
		_, err := svc.UpdateUser(created.ID, UpdateUserInput{Username: strPtr("same")})
		testutil.AssertNoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.UpdateUser(99999, UpdateUserInput{Email: strPtr("x@example.com")})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("removes_user_and_sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestSession(t, db, user.ID, time.Hour)

		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err := svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		var count int64
		db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected sessions to be removed, %d left", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		testutil.AssertAppError(t, svc.DeleteUser(99999), "USER_NOT_FOUND")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, bcrypt.MinCost)

	user := testutil.CreateTestUser(t, db)
	if !svc.VerifyPassword(user, testutil.TestPassword) {
		t.Error("expected password verification to succeed")
	}
	if svc.VerifyPassword(user, "wrongpassword") {
		t.Error("expected password verification to fail")
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		created := testutil.CreateTestUserWithUsername(t, db, "login")
		user, err := svc.Authenticate("login", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		testutil.CreateTestUserWithUsername(t, db, "login")
		_, err := svc.Authenticate("login", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.Authenticate("nobody", testutil.TestPassword)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
