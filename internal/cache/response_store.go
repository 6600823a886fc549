package cache

import (
	"carsurvey/internal/model"
	"carsurvey/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResponsesKey holds the whole collection as one JSON array
const ResponsesKey = "survey:responses"

const maxAppendRetries = 10

var ErrAppendConflict = errors.New("response append kept conflicting with concurrent writers")

type responseStore struct {
	client *redis.Client
	key    string
}

// NewResponseStore creates a response repository that keeps the collection
// as a single JSON array under ResponsesKey, rewritten on every append.
func NewResponseStore(client *redis.Client) repository.ResponseRepo {
	return &responseStore{
		client: client,
		key:    ResponsesKey,
	}
}

func (s *responseStore) Append(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}

	txf := func(tx *redis.Tx) error {
		responses, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		responses = append(responses, response)
		data, err := json.Marshal(responses)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxAppendRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return ErrAppendConflict
}

func (s *responseStore) List(ctx context.Context) ([]*model.Response, error) {
	return s.load(ctx, s.client)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *responseStore) load(ctx context.Context, c getter) ([]*model.Response, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return []*model.Response{}, nil
	}
	if err != nil {
		return nil, err
	}
	responses := []*model.Response{}
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return responses, nil
}
