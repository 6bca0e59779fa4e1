package stripe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursekit/eduledger/internal/gateway/domain"
)

func TestFetchSessionDetailsRequiresRef(t *testing.T) {
	client := New(Config{APIKey: "sk_test_xxx"})

	_, err := client.FetchSessionDetails(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingSessionRef)

	_, err = client.FetchSessionDetails(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrMissingSessionRef)
}
