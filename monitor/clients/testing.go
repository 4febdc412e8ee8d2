package clients

import (
	"context"

	"github.com/pkg/errors"
)

// RecordedAddressClient serves canned activity keyed by address and keeps
// a log of every lookup. Used by sweep and cronjob tests.
type RecordedAddressClient struct {
	ClientName string
	Activity   map[string][]AddressActivity
	Err        error

	Requested []string
}

func NewRecordedAddressClient(name string) *RecordedAddressClient {
	return &RecordedAddressClient{
		ClientName: name,
		Activity:   make(map[string][]AddressActivity),
	}
}

func (c *RecordedAddressClient) Name() string {
	return c.ClientName
}

func (c *RecordedAddressClient) FetchAddressActivity(_ context.Context, address string) ([]AddressActivity, error) {
	c.Requested = append(c.Requested, address)
	if c.Err != nil {
		return nil, c.Err
	}
	activity, ok := c.Activity[address]
	if !ok {
		return nil, errors.Errorf("no recorded activity for %s", address)
	}
	return activity, nil
}
