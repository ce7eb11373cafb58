package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/st20/course_exam/models"
)

// Generated exams survive a page reload but not forever.
const examTTL = 2 * time.Hour

var ErrExamNotFound = errors.New("exam not found or expired")

func examKey(id uuid.UUID) string {
	return "exam:" + id.String()
}

// SaveExam snapshots a generated exam under its id with a defined expiry.
func SaveExam(ctx context.Context, rdb *redis.Client, exam models.StoredExam) error {
	payload, err := json.Marshal(exam)
	if err != nil {
		return fmt.Errorf("encode exam snapshot: %w", err)
	}
	if err := rdb.Set(ctx, examKey(exam.ID), payload, examTTL).Err(); err != nil {
		return fmt.Errorf("store exam snapshot: %w", err)
	}
	return nil
}

// LoadExam fetches a snapshot and checks that it belongs to the caller.
func LoadExam(ctx context.Context, rdb *redis.Client, id uuid.UUID, userID uint) (models.StoredExam, error) {
	var exam models.StoredExam

	payload, err := rdb.Get(ctx, examKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return exam, ErrExamNotFound
		}
		return exam, fmt.Errorf("load exam snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, &exam); err != nil {
		return exam, fmt.Errorf("decode exam snapshot: %w", err)
	}
	if exam.UserID != userID {
		return models.StoredExam{}, ErrExamNotFound
	}
	return exam, nil
}

func DeleteExam(ctx context.Context, rdb *redis.Client, id uuid.UUID) error {
	return rdb.Del(ctx, examKey(id)).Err()
}
