package database

import (
	"log"
	"os"

	"github.com/Diome1804/projet-todo/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts a pair of demo accounts and a few tasks so a fresh dev
// database is immediately usable. It only runs when SEED_DEMO_DATA=true and
// never touches rows that already exist.
func Seed(db *gorm.DB) error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return nil
	}

	password := getenv("SEED_PASSWORD", "Password123")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Email: "alice@example.com", Password: string(hash), Name: "Alice", IsActive: true},
		{Email: "bob@example.com", Password: string(hash), Name: "Bob", IsActive: true},
	}
	for i := range users {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i]).Error; err != nil {
			return err
		}
		if users[i].ID == 0 {
			if err := db.Where("email = ?", users[i].Email).First(&users[i]).Error; err != nil {
				return err
			}
		}
	}

	var taskCount int64
	if err := db.Model(&models.Task{}).Count(&taskCount).Error; err != nil {
		return err
	}
	if taskCount > 0 {
		return nil
	}

	tasks := []models.Task{
		{Name: "Buy groceries", Description: "Milk, eggs, bread", UserID: users[0].ID},
		{Name: "Write weekly report", Description: "Summarize progress for the team", UserID: users[0].ID},
		{Name: "Water the plants", Description: "Balcony and living room", Completed: true, UserID: users[1].ID},
	}
	if err := db.Create(&tasks).Error; err != nil {
		return err
	}

	// Alice lets Bob edit her report task
	grant := models.TaskPermission{
		TaskID:    tasks[1].ID,
		GranteeID: users[1].ID,
		CanEdit:   true,
	}
	if err := db.Create(&grant).Error; err != nil {
		return err
	}

	log.Printf("[database] seeded %d users and %d tasks", len(users), len(tasks))
	return nil
}
