package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"campus-lms/internal/models"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("quiz:%d", quiz.ID)
	return c.client.Set(c.ctx, key, data, time.Hour).Err()
}

func (c *RedisCache) GetQuiz(id uint) (*models.Quiz, error) {
	key := fmt.Sprintf("quiz:%d", id)
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) InvalidateQuiz(id uint) error {
	return c.client.Del(c.ctx, fmt.Sprintf("quiz:%d", id)).Err()
}

// Published course catalogue, cached as one blob keyed by institution.

func (c *RedisCache) SetCourseCatalogue(institutionID uint, courses []models.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("courses:published:%d", institutionID)
	return c.client.Set(c.ctx, key, data, 10*time.Minute).Err()
}

func (c *RedisCache) GetCourseCatalogue(institutionID uint) ([]models.Course, error) {
	key := fmt.Sprintf("courses:published:%d", institutionID)
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	err = json.Unmarshal(data, &courses)
	return courses, err
}

func (c *RedisCache) InvalidateCourseCatalogue(institutionID uint) error {
	return c.client.Del(c.ctx, fmt.Sprintf("courses:published:%d", institutionID)).Err()
}

// Token blacklist for logout. The token is held until its own expiry, after
// which the JWT is stale anyway.

func (c *RedisCache) BlacklistToken(token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(c.ctx, "token:blacklist:"+token, "1", ttl).Err()
}

func (c *RedisCache) IsTokenBlacklisted(token string) (bool, error) {
	n, err := c.client.Exists(c.ctx, "token:blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
