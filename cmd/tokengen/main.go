// Command tokengen mints bearer tokens for load tests and manual API calls.
// It signs with the same key material the API reads (JWT_SECRET, JWT_ISSUER,
// JWT_AUDIENCE, optionally from .env).
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/infrastructure/security"
)

type options struct {
	count    int
	firstUID int64
	ttl      time.Duration
	out      string
}

func main() {
	var opt options
	flag.IntVar(&opt.count, "n", 1, "number of tokens")
	flag.Int64Var(&opt.firstUID, "uid", 1, "user id of the first token; later tokens increment")
	flag.DurationVar(&opt.ttl, "ttl", time.Hour, "token lifetime")
	flag.StringVar(&opt.out, "out", "", "write tokens to this file instead of stdout")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	signer, err := security.NewJWTSigner(security.JWTConfig{
		Secret:   os.Getenv("JWT_SECRET"),
		Issuer:   envOr("JWT_ISSUER", "commerce-api"),
		Audience: envOr("JWT_AUDIENCE", "commerce-api"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if opt.out != "" {
		f, err := os.Create(opt.out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := generate(w, signer, opt, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate writes one token per line.
func generate(w io.Writer, signer auth.TokenSigner, opt options, now time.Time) error {
	if opt.count <= 0 {
		return fmt.Errorf("-n must be positive, got %d", opt.count)
	}
	if opt.firstUID <= 0 {
		return fmt.Errorf("-uid must be positive, got %d", opt.firstUID)
	}

	bw := bufio.NewWriter(w)
	issuedAt := now.UTC().Truncate(time.Second)
	for i := 0; i < opt.count; i++ {
		uid := opt.firstUID + int64(i)
		tok, err := signer.SignAccessToken(auth.AccessClaims{
			UserID: uid,
			Email:  fmt.Sprintf("load-%d@example.com", uid),
			Name:   fmt.Sprintf("load-%d", uid),
		}, issuedAt, opt.ttl)
		if err != nil {
			return fmt.Errorf("sign token %d: %w", i, err)
		}
		if _, err := bw.WriteString(tok + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
