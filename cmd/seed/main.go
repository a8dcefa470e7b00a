package main

import (
	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the database with two tenants and four users for local
// development and testing. Existing tenants, users and notes are wiped
// first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	log.Info("Starting to seed database...")

	if err := db.Exec("TRUNCATE tenants, users, notes RESTART IDENTITY CASCADE").Error; err != nil {
		log.Fatal("Failed to clear existing data", zap.Error(err))
	}
	log.Info("Cleared existing data")

	tenants := []model.Tenant{
		{Name: "Acme", Slug: "acme", Plan: model.PlanFree},
		{Name: "Globex", Slug: "globex", Plan: model.PlanFree},
	}
	for i := range tenants {
		if err := db.Create(&tenants[i]).Error; err != nil {
			log.Fatal("Failed to create tenant", zap.String("slug", tenants[i].Slug), zap.Error(err))
		}
	}
	log.Info("Created tenants", zap.String("first", "Acme"), zap.String("second", "Globex"))

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	users := []model.User{
		{Email: "admin@acme.test", Role: model.RoleAdmin, TenantID: tenants[0].ID},
		{Email: "user@acme.test", Role: model.RoleMember, TenantID: tenants[0].ID},
		{Email: "admin@globex.test", Role: model.RoleAdmin, TenantID: tenants[1].ID},
		{Email: "user@globex.test", Role: model.RoleMember, TenantID: tenants[1].ID},
	}
	for i := range users {
		users[i].PasswordHash = string(passwordHash)
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("Failed to create user", zap.String("email", users[i].Email), zap.Error(err))
		}
	}
	log.Info("Created test users", zap.Int("count", len(users)))

	log.Info("Database seeding complete")
}
