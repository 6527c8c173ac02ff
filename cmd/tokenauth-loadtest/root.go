package main

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/tokenauth"
	"github.com/MrEthical07/tokenauth/jwt"
	"github.com/MrEthical07/tokenauth/principal"
)

type options struct {
	algorithm   string
	subjects    int
	concurrency int
	ops         int
	expire      time.Duration
	details     bool
	latency     bool
	verbose     bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tokenauth-loadtest",
		Short: "Measure token issue and authenticate throughput",
		Long: `tokenauth-loadtest builds an engine with freshly generated keys, issues
one token per subject and then authenticates random tokens concurrently.
Latency percentiles are printed per phase.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.algorithm, "algorithm", "a", "HS256", "signature algorithm")
	flags.IntVar(&opts.subjects, "subjects", 10000, "number of distinct subjects to issue tokens for")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", 64, "number of concurrent workers")
	flags.IntVarP(&opts.ops, "ops", "n", 200000, "authenticate operations")
	flags.DurationVar(&opts.expire, "expire", time.Hour, "token lifetime")
	flags.BoolVar(&opts.details, "details", true, "include principal parameters as claims")
	flags.BoolVar(&opts.latency, "latency-histograms", false, "enable engine latency histograms and print them")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log engine warnings to stderr")

	cmd.AddCommand(newAlgorithmsCommand())
	return cmd
}

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported signature algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, alg := range jwt.Algorithms() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", alg, alg.Description())
			}
		},
	}
}

func run(ctx context.Context, opts *options) error {
	if opts.subjects <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		return errors.New("subjects, concurrency and ops must be > 0")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	engine, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Printf("algorithm=%s subjects=%d concurrency=%d ops=%d\n",
		engine.Configuration().Algorithm(), opts.subjects, opts.concurrency, opts.ops)

	tokens := make([]string, opts.subjects)
	issueStats := runPhase(ctx, opts.subjects, opts.concurrency, func(i int) error {
		p := principal.NewBuilder(uuid.NewString()).
			WithPermission("doc.read").
			WithParameter("tenant", "loadtest").
			Build()
		issued, err := engine.Issue(ctx, p)
		if err != nil {
			return err
		}
		tokens[i] = issued.Token
		return nil
	})

	authStats := runPhase(ctx, opts.ops, opts.concurrency, func(i int) error {
		token := tokens[i%len(tokens)]
		if token == "" {
			return errors.New("token was not issued")
		}
		_, err := engine.Authenticate(ctx, token)
		return err
	})

	fmt.Println("---- results ----")
	printStats("issue", issueStats)
	printStats("authenticate", authStats)

	if opts.latency {
		snap := engine.MetricsSnapshot()
		fmt.Printf("issue latency buckets: %v\n", snap.Histograms[tokenauth.MetricIssueLatency])
		fmt.Printf("authenticate latency buckets: %v\n", snap.Histograms[tokenauth.MetricAuthenticateLatency])
	}
	return nil
}

func buildEngine(opts *options) (*tokenauth.Engine, error) {
	alg, err := jwt.ParseSignatureAlgorithm(opts.algorithm)
	if err != nil {
		return nil, err
	}

	cfg := tokenauth.DefaultConfig()
	cfg.JWT.SignatureAlgorithm = alg.String()
	cfg.JWT.Issuer = "tokenauth-loadtest"
	cfg.JWT.ExpireTime = opts.expire
	cfg.JWT.IncludeDetails = opts.details
	cfg.JWT.AllowUnsecured = alg.IsUnsecured()
	cfg.Policy.Issuers = []string{cfg.JWT.Issuer}
	cfg.Metrics.EnableLatencyHistograms = opts.latency

	b := tokenauth.New()
	if opts.verbose {
		b.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	switch {
	case alg.IsSymmetric():
		secret := make([]byte, alg.MinSharedKeyBytes())
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate shared key: %w", err)
		}
		cfg.JWT.SharedKey = secret
	case alg.IsAsymmetric():
		key, err := generateKey(alg)
		if err != nil {
			return nil, fmt.Errorf("generate %s key: %w", alg, err)
		}
		b.WithSigningKey(key)
	}

	return b.WithConfig(cfg).Build()
}

func generateKey(alg jwt.SignatureAlgorithm) (crypto.PrivateKey, error) {
	switch alg {
	case jwt.RS256, jwt.RS384, jwt.RS512, jwt.PS256, jwt.PS384, jwt.PS512:
		return rsa.GenerateKey(rand.Reader, 2048)
	case jwt.ES256:
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case jwt.ES384:
		return ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case jwt.ES512:
		return ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	case jwt.EdDSA:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		return priv, err
	default:
		return nil, fmt.Errorf("no key generator for %s", alg)
	}
}
