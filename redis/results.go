package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-lab/sigping/data"
)

const resultPrefix = "sigping:result:"

// resultTTL bounds how long published records linger when no collector
// fetches them.
const resultTTL = time.Hour

// PublishResult stores record under its run UUID.
func (c *Client) PublishResult(ctx context.Context, record *data.Result) error {
	key := resultPrefix + record.UUID
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, resultTTL).Err()
}

// GetResult returns the record published under uuid.
func (c *Client) GetResult(ctx context.Context, uuid string) (*data.Result, error) {
	key := resultPrefix + uuid
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	record := &data.Result{}
	err = json.Unmarshal(b, record)
	return record, err
}
