package otp

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"github.com/pquerna/otp"
)

// ErrInvalidInterval is returned when a time-step interval of zero is used.
var ErrInvalidInterval = errors.New("otp: interval must be greater than zero")

// OTP defines the contract for one-time password operations.
type OTP interface {
	// Generate derives the HOTP code for a counter.
	Generate(secret []byte, counter uint64) uint32
	// GenerateTOTP derives the code for the time step that contains now.
	GenerateTOTP(secret []byte, interval, now uint64) (code uint32, counter uint64, err error)
	// Verify checks a code against the time step that contains now.
	Verify(secret []byte, code uint32, interval, now uint64) (bool, error)
	// VerifyCounter checks a code against a single counter.
	VerifyCounter(secret []byte, code uint32, counter uint64) bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithAlgorithm sets the HMAC hash function. SHA-1 is used by default.
func WithAlgorithm(algo otp.Algorithm) Option {
	return func(e *Engine) {
		e.algorithm = algo
	}
}

// WithDigits sets the code length. Only six and eight digits are accepted.
func WithDigits(digits otp.Digits) Option {
	return func(e *Engine) {
		e.digits = digits
	}
}

// Engine implements OTP.
type Engine struct {
	algorithm otp.Algorithm
	digits    otp.Digits
	modulo    uint32
}

// New constructs an Engine using HMAC-SHA1 and six digits unless overridden.
//
// If digits is not 6 or 8, it falls back to 6 digits.
func New(opts ...Option) *Engine {
	e := &Engine{
		algorithm: otp.AlgorithmSHA1,
		digits:    otp.DigitsSix,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.digits != otp.DigitsSix && e.digits != otp.DigitsEight {
		e.digits = otp.DigitsSix
	}

	e.modulo = 1
	for i := 0; i < e.digits.Length(); i++ {
		e.modulo *= 10
	}

	return e
}

// Generate derives the HOTP code for counter using secret as the HMAC key.
func (e *Engine) Generate(secret []byte, counter uint64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(e.algorithm.Hash, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// dynamic truncation, RFC 4226 section 5.3
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return value % e.modulo
}

// GenerateTOTP derives the code for the time step that contains now.
// The counter used is returned alongside the code.
func (e *Engine) GenerateTOTP(secret []byte, interval, now uint64) (uint32, uint64, error) {
	if interval == 0 {
		return 0, 0, ErrInvalidInterval
	}

	counter := now / interval

	return e.Generate(secret, counter), counter, nil
}

// Verify reports whether code matches the time step that contains now.
// Neighbouring time steps are not accepted.
func (e *Engine) Verify(secret []byte, code uint32, interval, now uint64) (bool, error) {
	if interval == 0 {
		return false, ErrInvalidInterval
	}

	return e.VerifyCounter(secret, code, now/interval), nil
}

// VerifyCounter reports whether code matches counter. The comparison runs in
// constant time.
func (e *Engine) VerifyCounter(secret []byte, code uint32, counter uint64) bool {
	var want, got [4]byte
	binary.BigEndian.PutUint32(want[:], e.Generate(secret, counter))
	binary.BigEndian.PutUint32(got[:], code)

	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

// Format renders code with the leading zeros of the configured digit count.
func (e *Engine) Format(code uint32) string {
	return e.digits.Format(int32(code))
}
