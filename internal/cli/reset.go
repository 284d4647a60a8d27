package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/antropov/habitd/internal/db"
	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/security"
)

// RunResetPasswordCommand resets a web account's password from the terminal
// and revokes every refresh session of the account. The operator is prompted
// for the new password without echo; an empty prompt or a non-interactive
// stdin falls back to a generated temporary password that is printed once.
func RunResetPasswordCommand(dbPath string, email string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	user, found, err := repositories.WebUsers.FindByEmail(normalizedEmail)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !found {
		return fmt.Errorf("account %s not found", normalizedEmail)
	}

	password, generated, err := resolveNewPassword()
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := database.Model(&models.WebUser{}).
		Where("id = ?", user.ID).
		Update("password_hash", string(passwordHash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := repositories.WebUsers.DeleteSessionsForUser(user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	fmt.Println("Password reset successful, all sessions revoked.")
	if generated {
		fmt.Printf("Temporary password: %s\n", password)
	}
	return nil
}

// resolveNewPassword asks the operator for a password. An unusable terminal
// or an empty answer yields a generated temporary password instead.
func resolveNewPassword() (string, bool, error) {
	fmt.Print("New password (leave empty to generate): ")
	line, err := readPasswordNoEcho(os.Stdin)
	fmt.Println()
	if err == nil {
		if entered := strings.TrimSpace(string(line)); entered != "" {
			if len(entered) < 8 {
				return "", false, errors.New("password must be at least 8 characters")
			}
			return entered, false, nil
		}
	}

	password, err := generateTemporaryPassword(12)
	if err != nil {
		return "", false, fmt.Errorf("generate temporary password: %w", err)
	}
	return password, true, nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
