package services

import (
	"testing"

	"chitieu/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("linh", "Linh@Example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "linh@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if user.DefaultCurrency != "VND" {
			t.Errorf("expected default currency VND, got %s", user.DefaultCurrency)
		}
		if user.MonthlyLimit != nil {
			t.Errorf("expected monthly limit to start unset, got %v", *user.MonthlyLimit)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "a@b.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("linh", "", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("linh", "a@b.com", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup", "dup1@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup", "dup2@example.com", "password123")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("first", "same@example.com", "password123")
		testutil.AssertNoError(t, err)

		// Email comparison is case-insensitive
		_, err = svc.CreateUser("second", "SAME@example.com", "password123")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("verify", "verify@example.com", "correct-horse")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "correct-horse") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrong-horse") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("findme", "findme@example.com", "password123")
		testutil.AssertNoError(t, err)

		found, err := svc.GetUserByUsername("findme")
		testutil.AssertNoError(t, err)
		if found.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, found.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByUsername("nobody-here")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSetMonthlyLimit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.SetMonthlyLimit(user.ID, 5000000.456)
		testutil.AssertNoError(t, err)

		if updated.MonthlyLimit == nil {
			t.Fatal("expected monthly limit to be set")
		}
		if *updated.MonthlyLimit != 5000000.46 {
			t.Errorf("expected limit rounded to 5000000.46, got %v", *updated.MonthlyLimit)
		}
	})

	t.Run("negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SetMonthlyLimit(user.ID, -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.SetMonthlyLimit(99999, 100)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSetDefaultCurrency(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.SetDefaultCurrency(user.ID, "usd")
		testutil.AssertNoError(t, err)

		if updated.DefaultCurrency != "USD" {
			t.Errorf("expected currency USD, got %q", updated.DefaultCurrency)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.SetDefaultCurrency(99999, "USD")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
