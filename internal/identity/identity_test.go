package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
)

func TestIdentityValues(t *testing.T) {
	anon := Anonymous()
	if !anon.IsAnonymous() || anon.AccountID() != "" || anon.String() != "anonymous" {
		t.Fatalf("unexpected anonymous identity %v", anon)
	}
	acct := Account(" user-1 ")
	if acct.IsAnonymous() || acct.AccountID() != "user-1" || acct.String() != "account:user-1" {
		t.Fatalf("unexpected account identity %v", acct)
	}
	if !Account("").IsAnonymous() {
		t.Fatal("blank account id should be anonymous")
	}
	if !acct.Equal(Account("user-1")) || acct.Equal(anon) {
		t.Fatal("unexpected equality")
	}
}

func TestHolderNotifiesOnlyOnChange(t *testing.T) {
	h := NewHolder(Anonymous())
	var seen []Identity
	unsubscribe := h.Subscribe(func(_ context.Context, id Identity) {
		seen = append(seen, id)
	})

	ctx := context.Background()
	if h.Set(ctx, Anonymous()) {
		t.Fatal("setting the same identity should not report a change")
	}
	if !h.Set(ctx, Account("a")) {
		t.Fatal("expected change")
	}
	h.Set(ctx, Account("a"))
	h.Set(ctx, Anonymous())

	if len(seen) != 2 || seen[0].AccountID() != "a" || !seen[1].IsAnonymous() {
		t.Fatalf("unexpected notifications %v", seen)
	}
	if !h.Current().IsAnonymous() {
		t.Fatalf("unexpected current %v", h.Current())
	}

	unsubscribe()
	unsubscribe()
	h.Set(ctx, Account("b"))
	if len(seen) != 2 {
		t.Fatalf("unsubscribed listener fired: %v", seen)
	}
}

func TestHolderListenersRunInSubscriptionOrder(t *testing.T) {
	h := NewHolder(Anonymous())
	var order []int
	h.Subscribe(func(context.Context, Identity) { order = append(order, 1) })
	h.Subscribe(func(context.Context, Identity) { order = append(order, 2) })
	h.Set(context.Background(), Account("x"))
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestJWTVerifier(t *testing.T) {
	v, err := NewJWTVerifier("secret", "fireplay")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	ctx := context.Background()

	token, err := MintJWT("secret", "fireplay", "user-42", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	id, err := v.Verify(ctx, token)
	if err != nil || id.AccountID() != "user-42" {
		t.Fatalf("expected account user-42, got %v err=%v", id, err)
	}

	wrongIssuer, _ := MintJWT("secret", "other", "user-42", time.Hour)
	if _, err := v.Verify(ctx, wrongIssuer); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong issuer, got %v", err)
	}

	wrongSecret, _ := MintJWT("nope", "fireplay", "user-42", time.Hour)
	if _, err := v.Verify(ctx, wrongSecret); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong secret, got %v", err)
	}

	expired, _ := MintJWT("secret", "fireplay", "user-42", -time.Minute)
	if _, err := v.Verify(ctx, expired); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}

	if _, err := v.Verify(ctx, ""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewJWTVerifier("", ""); err == nil {
		t.Fatal("expected secret error")
	}
}

type stubIDTokenVerifier struct {
	token *auth.Token
	err   error
}

func (s stubIDTokenVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()

	v := &FirebaseVerifier{client: stubIDTokenVerifier{token: &auth.Token{UID: "uid-1"}}}
	id, err := v.Verify(ctx, "tok")
	if err != nil || id.AccountID() != "uid-1" {
		t.Fatalf("expected uid-1, got %v err=%v", id, err)
	}

	v = &FirebaseVerifier{client: stubIDTokenVerifier{err: errors.New("expired")}}
	if _, err := v.Verify(ctx, "tok"); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	v = &FirebaseVerifier{client: stubIDTokenVerifier{token: &auth.Token{}}}
	if _, err := v.Verify(ctx, "tok"); err == nil {
		t.Fatal("expected error for empty uid")
	}

	if _, err := NewFirebaseVerifier(nil); err == nil {
		t.Fatal("expected nil client error")
	}
}
