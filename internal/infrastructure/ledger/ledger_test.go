package ledger

import (
	"context"
	"testing"

	"github.com/matbakh-pos/matbakh-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestPostRejectsUnbalancedInput(t *testing.T) {
	svc := NewService()

	// total + discount must equal subtotal + tax; 110 + 0 != 100 + 15.
	// Validation runs before any storage access, so no tx is needed.
	_, err := svc.Post(context.Background(), nil, repository.JournalPost{
		InvoiceID: 7,
		SubTotal:  100,
		TaxAmount: 15,
		Total:     110,
	})

	assert.ErrorContains(t, err, "unbalanced journal entry")
}
