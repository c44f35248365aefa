package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/otpserver/internal/code/entity"
	"github.com/shandysiswandi/otpserver/internal/pkg/clock"
	"github.com/shandysiswandi/otpserver/internal/pkg/goerror"
	"github.com/shandysiswandi/otpserver/internal/pkg/instrument"
	"github.com/shandysiswandi/otpserver/internal/pkg/otp"
	"github.com/shandysiswandi/otpserver/internal/pkg/validator"
)

const scenarioNow int64 = 1700000000

func newTestUsecase(t *testing.T, now time.Time, skew uint) *Usecase {
	t.Helper()

	secret, err := entity.NewSecret("s3cr3t")
	if err != nil {
		t.Fatalf("new secret: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	return New(Dependency{
		Secret:     secret,
		Skew:       skew,
		OTP:        otp.New(),
		Clock:      clock.NewFixed(now),
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T %v", err, err)
	}
	return gerr.StatusCode()
}

func TestCodeIssue_Scenario(t *testing.T) {
	// Arrange
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)
	want := otp.New().Generate([]byte("s3cr3t"), 28333333)

	// Act
	out, err := uc.CodeIssue(context.Background(), CodeIssueInput{})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Code != want || out.Interval != 60 || out.ID != "" {
		t.Fatalf("unexpected output %+v, want code %d", out, want)
	}
}

func TestCodeIssue_IntervalAndID(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)
	interval := int64(30)

	out, err := uc.CodeIssue(context.Background(), CodeIssueInput{Interval: &interval, ID: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := otp.New().Generate([]byte("s3cr3talice"), uint64(scenarioNow)/30)
	if out.Code != want || out.Interval != 30 || out.ID != "alice" {
		t.Fatalf("unexpected output %+v, want code %d", out, want)
	}
}

func TestCodeIssue_InvalidInterval(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)

	for _, v := range []int64{0, -1, -60} {
		interval := v
		_, err := uc.CodeIssue(context.Background(), CodeIssueInput{Interval: &interval})
		if got := statusOf(t, err); got != http.StatusBadRequest {
			t.Fatalf("interval %d: got status %d want 400", v, got)
		}
	}
}

func TestCodeIssue_ClockFailure(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(-10, 0), 0)

	_, err := uc.CodeIssue(context.Background(), CodeIssueInput{})
	if got := statusOf(t, err); got != http.StatusInternalServerError {
		t.Fatalf("got status %d want 500", got)
	}
	if !errors.Is(err, clock.ErrBeforeEpoch) {
		t.Fatalf("expected ErrBeforeEpoch in chain, got %v", err)
	}
}

func TestCodeVerify_RoundTrip(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)
	interval := int64(120)

	out, err := uc.CodeIssue(context.Background(), CodeIssueInput{Interval: &interval, ID: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	err = uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &out.Code, Interval: &interval, ID: "bob"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestCodeVerify_MissingCode(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)

	err := uc.CodeVerify(context.Background(), CodeVerifyInput{})
	if got := statusOf(t, err); got != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", got)
	}
}

func TestCodeVerify_Rejected(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)

	out, err := uc.CodeIssue(context.Background(), CodeIssueInput{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	wrong := (out.Code + 1) % 1000000

	err = uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &wrong})
	if got := statusOf(t, err); got != http.StatusUnauthorized {
		t.Fatalf("got status %d want 401", got)
	}

	var gerr *goerror.Error
	errors.As(err, &gerr)
	if gerr.Msg() != MsgCodeRejected {
		t.Fatalf("unexpected message %q", gerr.Msg())
	}
}

func TestCodeVerify_IdentityIsolation(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)

	alice, err := uc.CodeIssue(context.Background(), CodeIssueInput{ID: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	bob, err := uc.CodeIssue(context.Background(), CodeIssueInput{ID: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if alice.Code == bob.Code {
		t.Skip("codes collide for these identities")
	}

	if err := uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &alice.Code, ID: "bob"}); err == nil {
		t.Fatal("alice's code accepted for bob")
	}
}

func TestCodeVerify_Expired(t *testing.T) {
	issuer := newTestUsecase(t, time.Unix(scenarioNow, 0), 0)
	out, err := issuer.CodeIssue(context.Background(), CodeIssueInput{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// next 60s time step
	later := newTestUsecase(t, time.Unix(scenarioNow+60, 0), 0)
	next, _ := later.CodeIssue(context.Background(), CodeIssueInput{})
	if next.Code == out.Code {
		t.Skip("codes collide across adjacent steps")
	}

	err = later.CodeVerify(context.Background(), CodeVerifyInput{Code: &out.Code})
	if got := statusOf(t, err); got != http.StatusUnauthorized {
		t.Fatalf("got status %d want 401", got)
	}

	tolerant := newTestUsecase(t, time.Unix(scenarioNow+60, 0), 1)
	if err := tolerant.CodeVerify(context.Background(), CodeVerifyInput{Code: &out.Code}); err != nil {
		t.Fatalf("skew 1 should accept previous step: %v", err)
	}
}

func TestCodeVerify_SkewAtCounterZero(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(5, 0), 2)

	code := otp.New().Generate([]byte("s3cr3t"), 0)
	if err := uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &code}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCodeVerify_SkewIsClamped(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(300, 0), uint(math.MaxUint64))
	if uc.skew != uint64(MaxSkew) {
		t.Fatalf("got skew %d want %d", uc.skew, MaxSkew)
	}

	current := otp.New().Generate([]byte("s3cr3t"), 5)
	if err := uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &current}); err != nil {
		t.Fatalf("current step rejected: %v", err)
	}

	outside := otp.New().Generate([]byte("s3cr3t"), 5+uint64(MaxSkew)+1)
	inside := otp.New().Generate([]byte("s3cr3t"), 5+uint64(MaxSkew))
	if outside == current || outside == inside {
		t.Skip("codes collide for these steps")
	}
	if err := uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &inside}); err != nil {
		t.Fatalf("last step inside the window rejected: %v", err)
	}
	if err := uc.CodeVerify(context.Background(), CodeVerifyInput{Code: &outside}); err == nil {
		t.Fatal("step beyond the clamped window accepted")
	}
}

func TestVerify_SkewAtCounterMax(t *testing.T) {
	uc := newTestUsecase(t, time.Unix(scenarioNow, 0), 2)
	secret := []byte("s3cr3t")

	for _, counter := range []uint64{math.MaxUint64, math.MaxUint64 - 1} {
		code := otp.New().Generate(secret, counter)

		ok, err := uc.verify(secret, code, 1, math.MaxUint64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("code for counter %d rejected at the top of the range", counter)
		}
	}
}
