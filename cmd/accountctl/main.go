// Command accountctl creates accounts directly against the database,
// bypassing the HTTP API. Useful for seeding an admin account on a fresh
// deployment.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"database/sql"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/auth"
	"github.com/akoselev/eshop/internal/server/config"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/akoselev/eshop/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	number, err := getSimpleText(reader, "Account number (login)", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(reader, "Display name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	digest, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		Number:       number,
		Username:     username,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("account %s already exists", number)
		}
		return err
	}

	fmt.Printf("created account %s (id %s)\n", user.Number, user.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
