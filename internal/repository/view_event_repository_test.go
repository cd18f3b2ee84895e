package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpinrui/tp/internal/models"
)

func TestViewEventRepositoryNilClientIsNoop(t *testing.T) {
	repo := NewViewEventRepository(nil, "tutoraid:views")
	assert.NoError(t, repo.Publish(context.Background(), models.ViewChange{Kind: models.ViewChangeStudents}))
	assert.Equal(t, "tutoraid:views", repo.Channel())
}

func TestViewEventRepositoryPublishError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := NewViewEventRepository(client, "tutoraid:views")
	err := repo.Publish(context.Background(), models.ViewChange{Kind: models.ViewChangeLessons, Reason: "lesson.add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish tutoraid:views")
}
