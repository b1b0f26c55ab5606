package service

import (
	"errors"
	"os"
	"testing"
	"time"
)

func newAuthService(t *testing.T, env *testEnv) *AuthService {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-key")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })
	return NewAuthService(env.users, env.tokens)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:      "2405099@kiit.ac.in",
		Password:   "longenoughpass",
		Name:       "Rahul Kumar",
		RollNumber: "2405099",
		Course:     "B.Tech CSE",
		Year:       "2",
		Department: "Computer Science",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	user, err := auth.Register(validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("registered user has no ID")
	}
	if user.PasswordHash == "longenoughpass" {
		t.Error("password stored in plain text")
	}
	if user.Email != "2405099@kiit.ac.in" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"non-KIIT email", func(in *RegisterInput) { in.Email = "rahul@gmail.com" }},
		{"lookalike domain", func(in *RegisterInput) { in.Email = "rahul@kiitxac.in" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"bad roll number", func(in *RegisterInput) { in.RollNumber = "24A5099" }},
		{"blank name", func(in *RegisterInput) { in.Name = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegisterInput()
			tt.mutate(&input)
			if _, err := auth.Register(input); !errors.Is(err, ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	dup := validRegisterInput()
	dup.RollNumber = "2405100"
	if _, err := auth.Register(dup); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate email error = %v, want ErrValidation", err)
	}

	dup = validRegisterInput()
	dup.Email = "2405100@kiit.ac.in"
	if _, err := auth.Register(dup); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate roll number error = %v, want ErrValidation", err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, pair, err := auth.Login("2405099@kiit.ac.in", "longenoughpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Login() returned empty tokens")
	}

	// Uppercase input normalizes to the stored address.
	if _, _, err := auth.Login("2405099@KIIT.AC.IN", "longenoughpass"); err != nil {
		t.Errorf("Login() with uppercase email error = %v", err)
	}

	got, err := auth.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if got != user.ID {
		t.Errorf("token user = %d, want %d", got, user.ID)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := auth.Login("2405099@kiit.ac.in", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login("9999999@kiit.ac.in", "longenoughpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, pair, err := auth.Login("2405099@kiit.ac.in", "longenoughpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	fresh, err := auth.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if fresh.RefreshToken == pair.RefreshToken {
		t.Error("Refresh() returned the same refresh token")
	}

	// The presented token was revoked by the rotation.
	if _, err := auth.Refresh(pair.RefreshToken); !errors.Is(err, ErrValidation) {
		t.Errorf("reused refresh token error = %v, want ErrValidation", err)
	}

	// The fresh one still works.
	if _, err := auth.Refresh(fresh.RefreshToken); err != nil {
		t.Errorf("fresh refresh token error = %v", err)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, pair, err := auth.Login("2405099@kiit.ac.in", "longenoughpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	auth.now = func() time.Time { return time.Now().Add(refreshTokenTTL + time.Hour) }
	if _, err := auth.Refresh(pair.RefreshToken); !errors.Is(err, ErrValidation) {
		t.Errorf("expired refresh token error = %v, want ErrValidation", err)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.Register(validRegisterInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, pair, err := auth.Login("2405099@kiit.ac.in", "longenoughpass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := auth.Logout(pair.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := auth.Refresh(pair.RefreshToken); !errors.Is(err, ErrValidation) {
		t.Errorf("refresh after logout error = %v, want ErrValidation", err)
	}

	// Logging out twice, or with a made-up token, is not an error.
	if err := auth.Logout(pair.RefreshToken); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
	if err := auth.Logout("no-such-token"); err != nil {
		t.Errorf("Logout(unknown) error = %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv()
	auth := newAuthService(t, env)

	if _, err := auth.ParseAccessToken("not.a.jwt"); err == nil {
		t.Error("ParseAccessToken accepted garbage")
	}
}
