package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/Diome1804/projet-todo/models"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every table the app owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Task{},
		&models.TaskPermission{},
		&models.ActionLog{},
	)
}

// BackupDatabase shells out to mysqldump if it is on PATH, writing the dump
// to outPath. Flags come from DB_BACKUP_FLAGS.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(context.Background(), "mysqldump", os.Getenv("DB_BACKUP_FLAGS"))
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// MigrateWithBackup runs Migrate after kicking off a best-effort mysqldump
// when DB_BACKUP_PATH is set.
func MigrateWithBackup(db *gorm.DB) error {
	if backupPath := os.Getenv("DB_BACKUP_PATH"); backupPath != "" {
		go func() {
			_ = BackupDatabase(backupPath)
		}()
		// small window for the dump to start before the schema changes
		time.Sleep(500 * time.Millisecond)
	}
	return Migrate(db)
}
