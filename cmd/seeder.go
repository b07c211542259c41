package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data")
			if err := db.Exec("DELETE FROM universities").Error; err != nil {
				log.Fatalf("failed to clear universities: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		accounts := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"admin@university-directory.dev", "Directory Admin", "admin"},
			{"manager@university-directory.dev", "Directory Manager", "manager"},
			{"viewer@university-directory.dev", "Directory Viewer", "viewer"},
		}

		for _, a := range accounts {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", a.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists, skipping:", a.Email)
				continue
			}
			err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				a.Email, a.Name, string(hash), a.Role,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user:", a.Email, "role:", a.Role)
		}

		universities := []struct {
			Name      string
			Type      string
			City      string
			State     string
			Undergrad int64
			Graduate  int64
			Founded   int
		}{
			{"State University of Riverton", "public", "Riverton", "CA", 24000, 6000, 1891},
			{"Hillcrest College", "private", "Hillcrest", "MA", 3200, 800, 1854},
			{"Lakeside Community College", "community", "Lakeside", "TX", 9500, 0, 1967},
		}

		for _, u := range universities {
			var exists int
			row := db.Raw("SELECT 1 FROM universities WHERE lower(name) = lower(?)", u.Name).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("university already exists, skipping:", u.Name)
				continue
			}
			err := db.Exec(
				`INSERT INTO universities
					(name, type, city, state, country, undergraduate_enrollment, graduate_enrollment, total_enrollment, founded, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, 'United States', ?, ?, ?, ?, 'active', now(), now())`,
				u.Name, u.Type, u.City, u.State, u.Undergrad, u.Graduate, u.Undergrad+u.Graduate, u.Founded,
			).Error
			if err != nil {
				log.Fatalf("failed to insert university %s: %v", u.Name, err)
			}
			fmt.Println("Seeded university:", u.Name)
		}

		fmt.Println("Seeding complete")
	},
}
