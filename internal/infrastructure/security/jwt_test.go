package security

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/domain"
)

func mustSigner(t *testing.T, secret, iss, aud string) *JWTSigner {
	t.Helper()
	s, err := NewJWTSigner(JWTConfig{Secret: secret, Issuer: iss, Audience: aud})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return s
}

var testClaims = auth.AccessClaims{UserID: 7, Email: "ann@x.com", Name: "Ann"}

func TestNewJWTSigner_EmptySecret_ConfigMissing(t *testing.T) {
	t.Parallel()

	_, err := NewJWTSigner(JWTConfig{Issuer: "i", Audience: "a"})
	if !domain.Is(err, "config_missing") {
		t.Fatalf("expected config_missing, got %v", err)
	}
}

func TestJWTSigner_SignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")
	iat := time.Now().UTC().Truncate(time.Second)

	tok, err := s.SignAccessToken(testClaims, iat, 60*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ann@x.com" || claims.Name != "Ann" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Equal(iat) {
		t.Fatalf("iat=%v want %v", claims.IssuedAt, iat)
	}
	if !claims.ExpiresAt.Equal(iat.Add(60 * time.Minute)) {
		t.Fatalf("exp=%v want iat+60m", claims.ExpiresAt)
	}
}

func TestJWTSigner_Token_CarriesRegisteredClaims(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, "secret", "iss-x", "aud-y")
	tok, err := s.SignAccessToken(testClaims, time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	mc := parsed.Claims.(jwt.MapClaims)

	if mc["sub"] != strconv.Itoa(7) || mc["iss"] != "iss-x" || mc["email"] != "ann@x.com" || mc["name"] != "Ann" {
		t.Fatalf("unexpected claims: %v", mc)
	}
	aud, _ := mc.GetAudience()
	if len(aud) != 1 || aud[0] != "aud-y" {
		t.Fatalf("unexpected aud: %v", aud)
	}
	if parsed.Header["alg"] != "HS256" {
		t.Fatalf("unexpected alg: %v", parsed.Header["alg"])
	}
}

func TestJWTSigner_Verify_Expired_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")
	tok, err := s.SignAccessToken(testClaims, time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}
}

func TestJWTSigner_Verify_WrongSecret_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s1 := mustSigner(t, "secret1", "commerce-api", "commerce-api")
	s2 := mustSigner(t, "secret2", "commerce-api", "commerce-api")

	tok, err := s1.SignAccessToken(testClaims, time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s2.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_WrongIssuerOrAudience_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	signer := mustSigner(t, "secret", "iss-a", "aud-a")
	tok, err := signer.SignAccessToken(testClaims, time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	for _, v := range []*JWTSigner{
		mustSigner(t, "secret", "iss-b", "aud-a"),
		mustSigner(t, "secret", "iss-a", "aud-b"),
	} {
		if _, verr := v.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
			t.Fatalf("expected token_invalid, got %v", verr)
		}
	}
}

func TestJWTSigner_Verify_AlgConfusion_Rejected(t *testing.T) {
	t.Parallel()

	// unsigned "none" token must be rejected
	claims := jwt.MapClaims{
		"sub": "7",
		"iss": "commerce-api",
		"aud": "commerce-api",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)

	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")
	if _, verr := s.VerifyAccessToken(unsigned); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_NonNumericSubject_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"sub": "not-a-number",
		"iss": "commerce-api",
		"aud": "commerce-api",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")
	if _, verr := s.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_Garbage_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")

	if _, err := s.VerifyAccessToken("not.a.jwt"); !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_TamperedPayload_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := mustSigner(t, "secret", "commerce-api", "commerce-api")
	tok, err := s.SignAccessToken(testClaims, time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !strings.Contains(string(payload), `"sub":"7"`) {
		t.Fatalf("unexpected payload: %s", payload)
	}
	forged := strings.Replace(string(payload), `"sub":"7"`, `"sub":"8"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	if _, verr := s.VerifyAccessToken(strings.Join(parts, ".")); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}
