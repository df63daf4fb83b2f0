package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VerenaSchrama/Decode-sub000/internal/db"
	"github.com/VerenaSchrama/Decode-sub000/internal/security"
	"github.com/VerenaSchrama/Decode-sub000/internal/services"
)

// RunResetPasswordCommand resets the password of the account matching email.
// With promptForPassword it reads the new password from the terminal without
// echo; otherwise it generates a temporary password and prints it.
func RunResetPasswordCommand(driver string, dsn string, email string, promptForPassword bool) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email address is required")
	}

	database, err := db.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	var newPassword string
	generated := false
	if promptForPassword {
		newPassword, err = promptNewPassword(os.Stdin)
		if err != nil {
			return err
		}
	} else {
		newPassword, err = generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		generated = true
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := users.UpdatePassword(user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Println("✅ Password reset successful")
	if generated {
		fmt.Printf("Temporary password: %s\n", newPassword)
		fmt.Println("Share it with the user over a trusted channel.")
	}

	return nil
}

func promptNewPassword(stdin *os.File) (string, error) {
	fmt.Print("New password: ")
	first, err := readPasswordNoEcho(stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	second, err := readPasswordNoEcho(stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(string(first)); err != nil {
		return "", errors.New("password must be at least 8 characters with upper, lower and digit")
	}

	return string(first), nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
