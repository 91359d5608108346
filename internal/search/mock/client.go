package mock

import (
	"context"
	"time"

	"github.com/kitbuilder587/gamelookup/internal/domain"
	"github.com/kitbuilder587/gamelookup/internal/search"
)

// Client is a search.Fetcher returning a canned record or error. A nil
// record means zero results.
type Client struct {
	Record domain.RawRecord
	Error  error
	Delay  time.Duration

	CallCount int
	LastQuery domain.SearchQuery
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithRecord(rec domain.RawRecord) *Client {
	c.Record = rec
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

// WithDelay holds each Fetch for delay unless ctx ends first.
func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Fetch(ctx context.Context, query domain.SearchQuery) (domain.RawRecord, error) {
	c.CallCount++
	c.LastQuery = query

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return nil, c.Error
	}

	if c.Record == nil {
		return nil, &search.FetchError{Kind: search.FailureZeroResults, Query: query.String()}
	}

	return c.Record, nil
}
