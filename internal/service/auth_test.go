package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/auth"
	"github.com/greatnessmensah/blog-crud-app/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Enforce the UNIQUE email constraint the way the real repository does
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

// newTestAuthService returns an AuthService wired with fake dependencies.
// The TokenService uses a short secret, suitable for tests only.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 30*time.Minute, "HS256")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// Cost 4 is bcrypt minimum — makes tests fast
	ps := auth.NewPasswordServiceForTest(4)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ts, ps, logger)
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), "hello@gmail.com", "hello123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("Register() should return a user with an assigned ID")
	}
	if user.Email != "hello@gmail.com" {
		t.Errorf("Email = %q, want %q", user.Email, "hello@gmail.com")
	}
	if user.PasswordHash == "" {
		t.Fatal("Register() should store a password hash")
	}
	if user.PasswordHash == "hello123" {
		t.Fatal("Register() stored the PLAINTEXT password")
	}
}

func TestRegister_HashVerifiesWithOriginalPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), "hello@gmail.com", "hello123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ps := auth.NewPasswordServiceForTest(4)
	if err := ps.Verify(user.PasswordHash, "hello123"); err != nil {
		t.Errorf("stored hash should verify against the original password: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "taken@example.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "taken@example.com", "pw2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() duplicate email error = %v, want ErrConflict", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password"},
		{"whitespace email", "   ", "password"},
		{"email without @", "not-an-email", "password"},
		{"empty password", "a@b.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register(%q, %q) error = %v, want ErrValidation", tt.email, tt.password, err)
			}
		})
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), "hello@gmail.com", "hello123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), "hello@gmail.com", "hello123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The issued token must resolve back to the same user — this is the
	// register → login → authenticate round trip.
	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!", 30*time.Minute, "HS256")
	userID, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() on issued token error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("token user_id = %d, want %d", userID, user.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "hello@gmail.com", "correct"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "hello@gmail.com", "wrong")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "real@example.com", "correct"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Wrong password vs unknown email: the error MESSAGE must be identical,
	// or login becomes an email-enumeration oracle.
	_, errWrongPassword := svc.Login(context.Background(), "real@example.com", "wrong")
	_, errUnknownEmail := svc.Login(context.Background(), "fake@example.com", "wrong")

	if errWrongPassword == nil || errUnknownEmail == nil {
		t.Fatal("both logins should fail")
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Errorf("failure messages differ: %q vs %q — enumeration leak",
			errWrongPassword.Error(), errUnknownEmail.Error())
	}
}

// =========================================================================
// GetUserByID TESTS
// =========================================================================

func TestGetUserByID_NotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.GetUserByID(context.Background(), 10000)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
