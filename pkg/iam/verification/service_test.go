package verification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/config"
	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/iam/verification"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// --- fakes ---

type fakeUserRepo struct {
	users map[kernel.UserID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[kernel.UserID]*user.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmailAndApp(_ context.Context, email string, appID kernel.AppID) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.AppID == appID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id kernel.UserID) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound()
	}
	u.IsVerified = true
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, appID kernel.AppID, _ kernel.PaginationOptions) ([]user.User, int, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id kernel.UserID) error {
	delete(r.users, id)
	return nil
}

type fakeOTPRepo struct {
	rows map[kernel.UserID]*verification.EmailVerification
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{rows: make(map[kernel.UserID]*verification.EmailVerification)}
}

func (r *fakeOTPRepo) Replace(_ context.Context, v *verification.EmailVerification) error {
	cp := *v
	r.rows[v.UserID] = &cp
	return nil
}

func (r *fakeOTPRepo) FindActiveByUser(_ context.Context, userID kernel.UserID) (*verification.EmailVerification, error) {
	v, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeOTPRepo) IncrementAttempts(_ context.Context, id string) (int, error) {
	for _, v := range r.rows {
		if v.ID == id {
			v.Attempts++
			return v.Attempts, nil
		}
	}
	return 0, verification.ErrInvalidOTP()
}

func (r *fakeOTPRepo) DeleteByID(_ context.Context, id string) error {
	for userID, v := range r.rows {
		if v.ID == id {
			delete(r.rows, userID)
		}
	}
	return nil
}

func (r *fakeOTPRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for userID, v := range r.rows {
		if v.IsExpired() {
			delete(r.rows, userID)
			n++
		}
	}
	return n, nil
}

type fakeMailer struct {
	sent    []string // codes, in send order
	sendErr error
}

func (m *fakeMailer) SendOTP(_ context.Context, _, otp string, _ time.Duration) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, otp)
	return nil
}

type nopAudit struct{}

func (nopAudit) LogOTPVerification(context.Context, string, kernel.AppID, bool) {}

// --- harness ---

type fixture struct {
	svc    *verification.VerificationService
	users  *fakeUserRepo
	otps   *fakeOTPRepo
	mailer *fakeMailer
	userID kernel.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := &user.User{
		ID:    kernel.NewUserID("user-1"),
		Name:  "Ada",
		Email: "ada@example.com",
		AppID: kernel.NewAppID("app-1"),
		Role:  user.RoleUser,
	}
	users := newFakeUserRepo(u)
	otps := newFakeOTPRepo()
	mailer := &fakeMailer{}
	svc := verification.NewVerificationService(otps, users, mailer, nopAudit{}, config.OTPConfig{
		Length:      6,
		TTL:         10 * time.Minute,
		MaxAttempts: 5,
	})
	return &fixture{svc: svc, users: users, otps: otps, mailer: mailer, userID: u.ID}
}

func (f *fixture) send(t *testing.T) string {
	t.Helper()
	if err := f.svc.SendVerificationEmail(context.Background(), "ada@example.com", "app-1"); err != nil {
		t.Fatalf("send verification: %v", err)
	}
	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row == nil {
		t.Fatal("expected an active OTP row after send")
	}
	return row.OTP
}

// --- send ---

func TestSendVerificationEmail(t *testing.T) {
	f := newFixture(t)

	code := f.send(t)

	if len(code) != 6 {
		t.Errorf("code length = %d, want 6", len(code))
	}
	if code[0] == '0' {
		t.Errorf("code %s must not have a leading zero", code)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != code {
		t.Errorf("mailed code %v does not match stored code %s", f.mailer.sent, code)
	}
}

func TestSendVerificationEmail_UnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SendVerificationEmail(context.Background(), "nobody@example.com", "app-1")
	if !errx.Is(err, user.ErrUserNotFound()) {
		t.Fatalf("expected user-not-found, got %v", err)
	}
}

func TestSendVerificationEmail_TenantScoped(t *testing.T) {
	f := newFixture(t)

	// Same email under a different app is an unrelated, absent account.
	err := f.svc.SendVerificationEmail(context.Background(), "ada@example.com", "app-2")
	if !errx.Is(err, user.ErrUserNotFound()) {
		t.Fatalf("expected user-not-found for foreign app, got %v", err)
	}
}

func TestSendVerificationEmail_AlreadyVerified(t *testing.T) {
	f := newFixture(t)
	f.users.MarkVerified(context.Background(), f.userID)

	err := f.svc.SendVerificationEmail(context.Background(), "ada@example.com", "app-1")
	if !errx.Is(err, verification.ErrAlreadyVerified()) {
		t.Fatalf("expected already-verified, got %v", err)
	}
}

func TestSendVerificationEmail_DeliveryFailureDropsRow(t *testing.T) {
	f := newFixture(t)
	f.mailer.sendErr = errors.New("smtp down")

	err := f.svc.SendVerificationEmail(context.Background(), "ada@example.com", "app-1")
	if !errx.Is(err, verification.ErrEmailDeliveryFailed()) {
		t.Fatalf("expected delivery-failed, got %v", err)
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row != nil {
		t.Fatal("undeliverable code must not stay active")
	}
}

func TestResendReplacesActiveCode(t *testing.T) {
	f := newFixture(t)

	first := f.send(t)
	if err := f.svc.ResendOTP(context.Background(), "ada@example.com", "app-1"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row == nil {
		t.Fatal("expected an active row after resend")
	}
	second := row.OTP

	// The first code is dead even if it happens to equal the second; only
	// the stored row decides.
	if first != second {
		if err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", first); !errx.Is(err, verification.ErrInvalidOTP()) {
			t.Fatalf("expected replaced code to be invalid, got %v", err)
		}
	}
	if err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", second); err != nil {
		t.Fatalf("verify with active code: %v", err)
	}
}

// --- verify ---

func TestVerifyEmail_Success(t *testing.T) {
	f := newFixture(t)
	code := f.send(t)

	if err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	u, _ := f.users.FindByID(context.Background(), f.userID)
	if !u.IsVerified {
		t.Fatal("user must be verified")
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row != nil {
		t.Fatal("consumed code must be destroyed")
	}

	// Verification is one-shot.
	if err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", code); !errx.Is(err, verification.ErrAlreadyVerified()) {
		t.Fatalf("expected already-verified on replay, got %v", err)
	}
}

func TestVerifyEmail_NoActiveCode(t *testing.T) {
	f := newFixture(t)

	err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", "123456")
	if !errx.Is(err, verification.ErrInvalidOTP()) {
		t.Fatalf("expected invalid-otp, got %v", err)
	}
}

func TestVerifyEmail_WrongCodeConsumesAttempt(t *testing.T) {
	f := newFixture(t)
	f.send(t)

	err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", "000000")
	if !errx.Is(err, verification.ErrInvalidOTP()) {
		t.Fatalf("expected invalid-otp, got %v", err)
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row == nil || row.Attempts != 1 {
		t.Fatalf("expected 1 recorded attempt, got %+v", row)
	}
}

func TestVerifyEmail_AttemptCeiling(t *testing.T) {
	f := newFixture(t)
	code := f.send(t)

	// Five wrong submissions consume the budget one by one.
	for i := 0; i < 5; i++ {
		err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", "000000")
		if !errx.Is(err, verification.ErrInvalidOTP()) {
			t.Fatalf("attempt %d: expected invalid-otp, got %v", i+1, err)
		}
	}

	// The sixth submission trips the ceiling and destroys the code, even
	// if it is the correct one.
	err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", code)
	if !errx.Is(err, verification.ErrTooManyAttempts()) {
		t.Fatalf("expected too-many-attempts, got %v", err)
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row != nil {
		t.Fatal("code must be destroyed when ceiling trips")
	}

	u, _ := f.users.FindByID(context.Background(), f.userID)
	if u.IsVerified {
		t.Fatal("user must stay unverified")
	}
}

func TestVerifyEmail_Expired(t *testing.T) {
	f := newFixture(t)
	code := f.send(t)

	f.otps.rows[f.userID].ExpiresAt = time.Now().Add(-time.Minute)

	err := f.svc.VerifyEmail(context.Background(), "ada@example.com", "app-1", code)
	if !errx.Is(err, verification.ErrOTPExpired()) {
		t.Fatalf("expected otp-expired, got %v", err)
	}

	row, _ := f.otps.FindActiveByUser(context.Background(), f.userID)
	if row != nil {
		t.Fatal("expired code must be destroyed on detection")
	}
}

// --- code generation ---

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := verification.GenerateCode(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q length = %d, want 6", code, len(code))
		}
		if code[0] == '0' {
			t.Fatalf("code %q has leading zero", code)
		}
	}
}
