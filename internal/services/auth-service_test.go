package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SundayYogurt/blog_service/internal/apperr"
	"github.com/SundayYogurt/blog_service/internal/domain"
	"github.com/SundayYogurt/blog_service/internal/dto"
	"github.com/SundayYogurt/blog_service/internal/helper"
	"github.com/SundayYogurt/blog_service/internal/notify"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---------- in-memory fakes ----------

type fakeUserRepo struct {
	users     map[uint]*domain.User
	nextID    uint
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Save(user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.DeletedAt.Valid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token && !u.DeletedAt.Valid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(limit, offset int) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		if !u.DeletedAt.Valid {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	if u, ok := r.users[id]; ok {
		u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

type fakeTokenRepo struct {
	users  *fakeUserRepo
	tokens map[string]*domain.RefreshToken
	nextID uint
}

func newFakeTokenRepo(users *fakeUserRepo) *fakeTokenRepo {
	return &fakeTokenRepo{users: users, tokens: map[string]*domain.RefreshToken{}, nextID: 1}
}

func (r *fakeTokenRepo) Create(token *domain.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *fakeTokenRepo) FindByToken(token string) (*domain.RefreshToken, error) {
	rt, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rt
	// unscoped preload: deleted owners stay visible
	if u, ok := r.users.users[rt.UserID]; ok {
		cp.User = *u
	}
	return &cp, nil
}

func (r *fakeTokenRepo) DeleteByToken(token string) (int64, error) {
	if _, ok := r.tokens[token]; !ok {
		return 0, nil
	}
	delete(r.tokens, token)
	return 1, nil
}

func (r *fakeTokenRepo) DeleteAllForUser(userID uint) error {
	for tok, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, tok)
		}
	}
	return nil
}

type fakeResetRepo struct {
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	resets map[string]*domain.PasswordReset
	nextID uint
}

func newFakeResetRepo(users *fakeUserRepo, tokens *fakeTokenRepo) *fakeResetRepo {
	return &fakeResetRepo{users: users, tokens: tokens, resets: map[string]*domain.PasswordReset{}, nextID: 1}
}

func (r *fakeResetRepo) Create(reset *domain.PasswordReset) error {
	reset.ID = r.nextID
	r.nextID++
	cp := *reset
	r.resets[reset.Token] = &cp
	return nil
}

func (r *fakeResetRepo) FindByToken(token string) (*domain.PasswordReset, error) {
	reset, ok := r.resets[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reset
	if u, ok := r.users.users[reset.UserID]; ok {
		cp.User = *u
	}
	return &cp, nil
}

func (r *fakeResetRepo) Consume(reset *domain.PasswordReset, newPasswordHash string) error {
	stored, ok := r.resets[reset.Token]
	if !ok || stored.Used {
		return gorm.ErrRecordNotFound
	}
	if u, ok := r.users.users[reset.UserID]; ok {
		u.PasswordHash = newPasswordHash
	}
	stored.Used = true
	return r.tokens.DeleteAllForUser(reset.UserID)
}

type sentMail struct {
	To      string
	Subject string
}

type fakeSender struct {
	sent []sentMail
}

func (s *fakeSender) Send(to, subject, html string) error {
	s.sent = append(s.sent, sentMail{To: to, Subject: subject})
	return nil
}

// ---------- fixture ----------

type authFixture struct {
	svc    AuthService
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	resets *fakeResetRepo
	sender *fakeSender
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newFakeUserRepo()
	tokens := newFakeTokenRepo(users)
	resets := newFakeResetRepo(users, tokens)
	sender := &fakeSender{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := helper.SetupAuth("test-secret", "15m", "7d")
	mailer := notify.NewEmailService(sender, "Blog", "http://localhost:5173", logger)

	return &authFixture{
		svc:    NewAuthService(users, tokens, resets, auth, mailer, logger),
		users:  users,
		tokens: tokens,
		resets: resets,
		sender: sender,
	}
}

func (f *authFixture) register(t *testing.T) *dto.AuthResponse {
	t.Helper()
	resp, err := f.svc.Register(dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp
}

func requireAppErr(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}

// ---------- register / login ----------

func TestRegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)

	reg := f.register(t)
	assert.NotZero(t, reg.User.ID)
	assert.Equal(t, "test@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleUser, reg.User.Role)
	assert.False(t, reg.User.EmailVerified)
	assert.NotEmpty(t, reg.Token)
	assert.NotEmpty(t, reg.RefreshToken)

	login, err := f.svc.Login(dto.LoginRequest{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEqual(t, reg.RefreshToken, login.RefreshToken)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(dto.RegisterRequest{
		Email:    "  Test@Example.COM ",
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", resp.User.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, err := f.svc.Register(dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "otherpass",
		Name:     "Other User",
	})
	requireAppErr(t, err, 409, "Email already exists")
}

func TestRegisterDuplicateKeyRace(t *testing.T) {
	f := newAuthFixture(t)
	f.users.createErr = &pgconn.PgError{Code: "23505"}

	_, err := f.svc.Register(dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	})
	requireAppErr(t, err, 409, "Email already exists")
}

func TestRegisterSendsVerificationEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "test@example.com", f.sender.sent[0].To)
	assert.Equal(t, "Verify your email", f.sender.sent[0].Subject)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	_, errWrongPass := f.svc.Login(dto.LoginRequest{Email: "test@example.com", Password: "wrong"})
	_, errNoUser := f.svc.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	requireAppErr(t, errWrongPass, 401, "Invalid credentials")
	requireAppErr(t, errNoUser, 401, "Invalid credentials")
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

// ---------- refresh / logout ----------

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	pair, err := f.svc.Refresh(reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEqual(t, reg.RefreshToken, pair.RefreshToken)

	// the consumed token is gone for good
	_, err = f.svc.Refresh(reg.RefreshToken)
	requireAppErr(t, err, 401, "Invalid or expired refresh token")

	// the rotated one still works
	_, err = f.svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRequiresToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh("")
	requireAppErr(t, err, 401, "Refresh token required")
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh("no-such-token")
	requireAppErr(t, err, 401, "Invalid or expired refresh token")
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	f.tokens.tokens[reg.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, err := f.svc.Refresh(reg.RefreshToken)
	requireAppErr(t, err, 401, "Invalid or expired refresh token")
}

func TestRefreshDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	require.NoError(t, f.users.Delete(reg.User.ID))

	_, err := f.svc.Refresh(reg.RefreshToken)
	requireAppErr(t, err, 401, "User account deleted")
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	require.NoError(t, f.svc.Logout(reg.RefreshToken))
	require.NoError(t, f.svc.Logout(reg.RefreshToken))
	require.NoError(t, f.svc.Logout(""))

	_, err := f.svc.Refresh(reg.RefreshToken)
	requireAppErr(t, err, 401, "Invalid or expired refresh token")
}

// ---------- me ----------

func TestMe(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	me, err := f.svc.Me(reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User.Email, me.Email)

	_, err = f.svc.Me(999)
	requireAppErr(t, err, 404, "User not found")
}

// ---------- email verification ----------

func TestVerifyEmailIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)

	stored := f.users.users[reg.User.ID]
	require.NotNil(t, stored.VerificationToken)
	token := *stored.VerificationToken

	require.NoError(t, f.svc.VerifyEmail(token))

	stored = f.users.users[reg.User.ID]
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationToken)

	err := f.svc.VerifyEmail(token)
	requireAppErr(t, err, 400, "Invalid or expired verification token")
}

func TestVerifyEmailRejectsBlankToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.VerifyEmail("   ")
	requireAppErr(t, err, 400, "Invalid or expired verification token")
}

// ---------- password reset ----------

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.ForgotPassword("nobody@example.com"))
	assert.Empty(t, f.resets.resets)
	assert.Empty(t, f.sender.sent)
}

func TestForgotPasswordCreatesResetAndMails(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)
	f.sender.sent = nil

	require.NoError(t, f.svc.ForgotPassword(reg.User.Email))

	require.Len(t, f.resets.resets, 1)
	for _, reset := range f.resets.resets {
		assert.Equal(t, reg.User.ID, reset.UserID)
		assert.False(t, reset.Used)
		assert.WithinDuration(t, time.Now().Add(time.Hour), reset.ExpiresAt, time.Minute)
	}

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Reset your password", f.sender.sent[0].Subject)
}

func TestResetPasswordFullFlow(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)
	require.NoError(t, f.svc.ForgotPassword(reg.User.Email))

	var token string
	for tok := range f.resets.resets {
		token = tok
	}
	f.sender.sent = nil

	require.NoError(t, f.svc.ResetPassword(token, "newpassword456"))

	// old sessions are gone
	_, err := f.svc.Refresh(reg.RefreshToken)
	requireAppErr(t, err, 401, "Invalid or expired refresh token")

	// old password no longer works, the new one does
	_, err = f.svc.Login(dto.LoginRequest{Email: reg.User.Email, Password: "password123"})
	requireAppErr(t, err, 401, "Invalid credentials")
	_, err = f.svc.Login(dto.LoginRequest{Email: reg.User.Email, Password: "newpassword456"})
	require.NoError(t, err)

	// the token is spent
	err = f.svc.ResetPassword(token, "anotherpass789")
	requireAppErr(t, err, 400, "Invalid or expired reset token")

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Your password was changed", f.sender.sent[0].Subject)
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResetPassword("no-such-token", "newpassword456")
	requireAppErr(t, err, 400, "Invalid or expired reset token")
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t)
	require.NoError(t, f.svc.ForgotPassword(reg.User.Email))

	for _, reset := range f.resets.resets {
		reset.ExpiresAt = time.Now().Add(-time.Minute)
	}

	var token string
	for tok := range f.resets.resets {
		token = tok
	}
	err := f.svc.ResetPassword(token, "newpassword456")
	requireAppErr(t, err, 400, "Invalid or expired reset token")
}
