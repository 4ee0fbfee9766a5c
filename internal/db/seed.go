package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type SeedInput struct {
	Users    []SeedUser
	Services []models.Service
}

// DefaultSeed returns the demo accounts and catalog. Every account shares
// the given password.
func DefaultSeed(password string) SeedInput {
	return SeedInput{
		Users: []SeedUser{
			{Name: "Clinic Admin", Email: "admin@aklinic.health", Password: password, Role: models.RoleAdmin},
			{Name: "Front Desk", Email: "reception@aklinic.health", Password: password, Role: models.RoleReception},
			{Name: "Amelia Hart", Email: "doctor@aklinic.health", Password: password, Role: models.RoleDoctor},
		},
		Services: []models.Service{
			{Name: "General consultation", Price: 4000, Active: true},
			{Name: "Follow-up visit", Price: 2500, Active: true},
			{Name: "Blood test", Price: 1800, Active: true},
		},
	}
}

// Seed is idempotent: users are keyed by email and services by name.
// Every DOCTOR user gets a linked doctor profile.
func Seed(ctx context.Context, db *gorm.DB, in SeedInput) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, su := range in.Users {
			hash, err := auth.HashPassword(su.Password)
			if err != nil {
				return err
			}

			user := models.User{
				Name:         su.Name,
				Email:        strings.ToLower(strings.TrimSpace(su.Email)),
				PasswordHash: hash,
				Role:         su.Role,
			}
			if err := tx.Where("email = ?", user.Email).
				Attrs(user).
				FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", user.Email, err)
			}

			if user.Role != models.RoleDoctor {
				continue
			}

			doctor := models.Doctor{Name: user.Name, UserID: &user.ID}
			if err := tx.Where("user_id = ?", user.ID).
				Attrs(doctor).
				FirstOrCreate(&doctor).Error; err != nil {
				return fmt.Errorf("seed doctor %s: %w", user.Email, err)
			}
		}

		for _, svc := range in.Services {
			s := svc
			if err := tx.Where("name = ?", s.Name).
				Attrs(s).
				FirstOrCreate(&s).Error; err != nil {
				return fmt.Errorf("seed service %s: %w", s.Name, err)
			}
		}

		return nil
	})
}
