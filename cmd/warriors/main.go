// Command warriors provisions contest accounts. It can initialize the schema,
// wipe existing data, and writes the generated credentials as CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
	"server/internal/provision"
	"server/internal/sqlinline"
)

func main() {
	var (
		countFlag  int
		prefixFlag string
		outFlag    string
		initFlag   bool
		resetFlag  bool
	)

	flag.IntVar(&countFlag, "count", provision.DefaultCount, "number of accounts to create")
	flag.StringVar(&prefixFlag, "prefix", provision.DefaultPrefix, "username prefix")
	flag.StringVar(&outFlag, "out", "", "write credentials CSV to this file instead of stdout")
	flag.BoolVar(&initFlag, "init", false, "create missing tables before provisioning")
	flag.BoolVar(&resetFlag, "reset", false, "delete all users and submissions first")
	flag.Parse()

	if countFlag <= 0 {
		exitWithError(errors.New("-count must be positive"))
	}
	prefix := strings.TrimSpace(prefixFlag)
	if prefix == "" {
		exitWithError(errors.New("-prefix must not be blank"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "warriors").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if initFlag {
		for _, q := range sqlinline.SchemaQueries {
			if _, err := runner.Exec(ctx, q); err != nil {
				exitWithError(fmt.Errorf("failed to initialize schema: %w", err))
			}
		}
	}

	users := repo.NewUserRepository(runner)
	submissions := repo.NewSubmissionRepository(runner)

	if resetFlag {
		if n, err := submissions.DeleteAll(ctx); err != nil {
			exitWithError(fmt.Errorf("failed to delete submissions: %w", err))
		} else {
			logger.Info().Int64("deleted", n).Msg("submissions wiped")
		}
		if n, err := users.DeleteAll(ctx); err != nil {
			exitWithError(fmt.Errorf("failed to delete users: %w", err))
		} else {
			logger.Info().Int64("deleted", n).Msg("users wiped")
		}
	}

	provisionCtx, cancelProvision := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelProvision()
	creds, err := provision.Warriors(provisionCtx, users, countFlag, prefix)
	if err != nil {
		exitWithError(err)
	}

	csvBytes, err := provision.CredentialsCSV(creds)
	if err != nil {
		exitWithError(fmt.Errorf("failed to render csv: %w", err))
	}

	if outFlag != "" {
		if err := os.WriteFile(outFlag, csvBytes, 0o600); err != nil {
			exitWithError(fmt.Errorf("failed to write %s: %w", outFlag, err))
		}
		fmt.Printf("wrote %d credentials to %s\n", len(creds), outFlag)
		return
	}
	os.Stdout.Write(csvBytes)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
