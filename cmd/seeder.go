package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM leaves").Error; err != nil {
				log.Fatalf("failed to clear leaves: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		cs := "Computer Science"
		math := "Mathematics"
		seedUsers := []userDatamodel.User{
			{Name: "Sari Student", Email: "sari@campus.test", Role: "student", Department: &cs, IsActive: true},
			{Name: "Budi Student", Email: "budi@campus.test", Role: "student", Department: &math, IsActive: true},
			{Name: "Fina Faculty", Email: "fina@campus.test", Role: "faculty", Department: &cs, IsActive: true},
			{Name: "Adi Admin", Email: "adi@campus.test", Role: "admin", IsActive: true},
		}

		for _, u := range seedUsers {
			var count int64
			if err := db.Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
				log.Fatalf("failed to check user %s: %v", u.Email, err)
			}
			if count > 0 {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			u.PasswordHash = string(hash)
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		fmt.Println("Seeding complete; all seeded users share the password \"password\"")
	},
}
