// Command restcall calls one endpoint declared in a YAML endpoint table.
//
//	restcall -endpoints endpoints.yaml -call userGet -arg id=5
//	restcall -endpoints endpoints.yaml -call userCreate -arg name=Ann -dry-run
//	restcall -endpoints endpoints.yaml -list
//
// The base URL, timeout, rate limit and token signing are configured through
// REST_* environment variables, optionally loaded from .env.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"

	"github.com/bjaus/rest"
)

// argFlags collects repeated -arg key=value flags in order.
type argFlags []string

func (a *argFlags) String() string { return strings.Join(*a, ",") }

func (a *argFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("restcall failed", "err", err)
		os.Exit(1)
	}
}

func run(argv []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("restcall", flag.ContinueOnError)
	endpointsFile := fs.String("endpoints", "endpoints.yaml", "YAML endpoint table")
	call := fs.String("call", "", "endpoint to call")
	list := fs.Bool("list", false, "list declared endpoints and exit")
	dryRun := fs.Bool("dry-run", false, "print the request instead of sending it")
	token := fs.String("jwt", "", "bearer token (overrides REST_JWT_SECRET signing)")
	var args argFlags
	fs.Var(&args, "arg", "call argument as key=value, repeatable; JSON values are decoded")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	cfg.log(logger)

	endpoints, err := rest.LoadEndpointsFile(*endpointsFile)
	if err != nil {
		return err
	}

	client, err := rest.New(cfg.BaseURL, endpoints, rest.WithTransport(newTransport(cfg, logger)))
	if err != nil {
		return err
	}

	if *list {
		for _, name := range client.Names() {
			fmt.Fprintln(stdout, name) //nolint:errcheck
		}
		return nil
	}
	if *call == "" {
		return errors.New("-call is required")
	}

	callArgs, err := parseArgs(args)
	if err != nil {
		return err
	}
	auth, err := authFor(cfg, *token)
	if err != nil {
		return err
	}

	if *dryRun {
		req, err := client.BuildRequest(*call, callArgs, auth)
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"header": req.Header,
			"body":   json.RawMessage(req.Body),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := client.Call(ctx, *call, rest.Input{Args: callArgs, Auth: auth})
	if err != nil {
		if status := rest.ErrorStatus(err); status != 0 {
			logger.Warn("call rejected", "endpoint", *call, "status", status)
		}
		return err
	}
	return writeJSON(stdout, result)
}

func newTransport(cfg *config, logger *slog.Logger) *rest.HTTPTransport {
	mws := []rest.Middleware{
		rest.RequestID(),
		rest.Logger(logger),
		rest.SetHeader("User-Agent", "restcall"),
	}
	if cfg.Rate > 0 {
		mws = append(mws, rest.RateLimit(rest.RateLimitConfig{Rate: cfg.Rate, Burst: cfg.Burst}))
	}
	if cfg.MaxBody > 0 {
		mws = append(mws, rest.BodyLimit(cfg.MaxBody))
	}
	return rest.NewHTTPTransport(rest.WithTimeout(cfg.Timeout), rest.WithMiddleware(mws...))
}

// parseArgs turns key=value pairs into call arguments. A value that parses as
// JSON is used decoded, anything else as a plain string.
func parseArgs(pairs []string) (rest.Args, error) {
	var args rest.Args
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid -arg %q, want key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		args = args.Set(key, v)
	}
	return args, nil
}

func authFor(cfg *config, token string) (rest.Auth, error) {
	if token != "" {
		return rest.Bearer(token), nil
	}
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	signer, err := rest.NewTokenSigner(cfg.JWTIssuer, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return signer.Auth(cfg.JWTSubject, cfg.JWTTTL)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
