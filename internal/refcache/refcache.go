// Package refcache keeps the booking form's reference data in memory.
package refcache

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

const (
	keyServices = "services:active"
	keyDoctors  = "doctors:all"
)

type Loader interface {
	ActiveServices(ctx context.Context) ([]models.Service, error)
	Doctors(ctx context.Context) ([]models.Doctor, error)
}

type Cache struct {
	loader Loader
	store  *cache.Cache
}

func New(loader Loader, ttl time.Duration) *Cache {
	return &Cache{
		loader: loader,
		store:  cache.New(ttl, 2*ttl),
	}
}

func (c *Cache) Services(ctx context.Context) ([]models.Service, error) {
	if v, ok := c.store.Get(keyServices); ok {
		return v.([]models.Service), nil
	}

	services, err := c.loader.ActiveServices(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(keyServices, services, cache.DefaultExpiration)
	return services, nil
}

func (c *Cache) Doctors(ctx context.Context) ([]models.Doctor, error) {
	if v, ok := c.store.Get(keyDoctors); ok {
		return v.([]models.Doctor), nil
	}

	doctors, err := c.loader.Doctors(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(keyDoctors, doctors, cache.DefaultExpiration)
	return doctors, nil
}

// Invalidate is called after any catalog write.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

// GormLoader reads reference data straight from the store.
type GormLoader struct {
	db *gorm.DB
}

func NewGormLoader(db *gorm.DB) *GormLoader {
	return &GormLoader{db: db}
}

func (l *GormLoader) ActiveServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := l.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (l *GormLoader) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := l.db.WithContext(ctx).
		Order("name ASC").
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}
