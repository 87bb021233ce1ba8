package redisstore

import (
	"errors"
	"math"
	"testing"

	"github.com/kvgate/kvgate/lib/store"
)

func TestFactoryValidation(t *testing.T) {
	factory := NewFactory()

	t.Run("missing URL is rejected", func(t *testing.T) {
		if _, err := factory(store.ConnectionParams{}); err == nil {
			t.Error("expected an error for missing connection parameters")
		}
	})

	t.Run("malformed URL is rejected eagerly", func(t *testing.T) {
		if _, err := factory(store.ConnectionParams{"URL": "://not-a-url"}); err == nil {
			t.Error("expected an error for a malformed URL")
		}
	})

	t.Run("well formed URL creates a handle", func(t *testing.T) {
		client, err := factory(store.ConnectionParams{"URL": "redis://localhost:6379/0"})
		if err != nil {
			t.Fatalf("failed to create handle: %v", err)
		}
		// handle creation does not dial, closing must succeed without a server
		if err := client.Close(); err != nil {
			t.Errorf("failed to close handle: %v", err)
		}
	})
}

func TestCounterValue(t *testing.T) {
	t.Run("values inside the contract pass through", func(t *testing.T) {
		for _, val := range []int64{0, -1, 42, math.MaxInt32, math.MinInt32} {
			got, err := counterValue("k", val)
			if err != nil {
				t.Errorf("counterValue(%d) failed: %v", val, err)
				continue
			}
			if int64(got) != val {
				t.Errorf("counterValue(%d) returned %d", val, got)
			}
		}
	})

	t.Run("values outside 32 bit are rejected", func(t *testing.T) {
		for _, val := range []int64{math.MaxInt32 + 1, math.MinInt32 - 1, math.MaxInt64} {
			_, err := counterValue("k", val)
			if err == nil {
				t.Errorf("counterValue(%d) should fail", val)
				continue
			}
			var sErr *store.Error
			if !errors.As(err, &sErr) {
				t.Errorf("expected a typed store error, got %T", err)
			} else if sErr.Code != store.RetCInvalidOperation {
				t.Errorf("expected code %v, got %v", store.RetCInvalidOperation, sErr.Code)
			}
		}
	})
}
