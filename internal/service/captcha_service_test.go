package service

import (
	"errors"
	"testing"

	"github.com/ze-news/internal/config"
)

func TestCaptchaDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none"})
	if svc.Enabled() {
		t.Fatalf("expected captcha disabled")
	}
	if err := svc.Verify(CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaDisabled) {
		t.Fatalf("expected ErrCaptchaDisabled, got %v", err)
	}
}

func TestCaptchaImageFlow(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "image"})
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}

	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}

	answer := svc.store.Get(challenge.CaptchaID, false)
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); err != nil {
		t.Fatalf("expected captcha to verify, got %v", err)
	}
	if err := svc.Verify(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha must be single use, got %v", err)
	}
}
