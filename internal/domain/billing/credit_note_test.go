package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditNote(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("totals lines", func(t *testing.T) {
		note, err := NewCreditNote(uuid.New(), invoiceID, CreditReasonInvoiceError, "double billed water",
			[]CreditNoteLine{
				{InvoiceLineID: uuid.New(), Description: "Water correction", Amount: dec("450")},
				{InvoiceLineID: uuid.New(), Description: "Rounding", Amount: dec("0.50")},
			})
		require.NoError(t, err)
		assert.True(t, note.TotalAmount.Equal(dec("450.50")))
		assert.False(t, note.IsApplied())
		for _, line := range note.Lines {
			assert.NotEqual(t, uuid.Nil, line.ID)
		}
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewCreditNote(uuid.New(), invoiceID, CreditReasonDiscount, "", nil)
		require.Error(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewCreditNote(uuid.New(), invoiceID, CreditReasonDiscount, "",
			[]CreditNoteLine{{InvoiceLineID: uuid.New(), Amount: dec("0")}})
		require.Error(t, err)
	})

	t.Run("rejects unknown reason", func(t *testing.T) {
		_, err := NewCreditNote(uuid.New(), invoiceID, CreditNoteReason("WHIM"), "",
			[]CreditNoteLine{{InvoiceLineID: uuid.New(), Amount: dec("10")}})
		require.Error(t, err)
	})
}

func TestCreditNoteApply(t *testing.T) {
	note, err := NewCreditNote(uuid.New(), uuid.New(), CreditReasonGoodwill, "",
		[]CreditNoteLine{{InvoiceLineID: uuid.New(), Amount: dec("100")}})
	require.NoError(t, err)

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, note.Apply(now))
	assert.True(t, note.IsApplied())
	require.NotNil(t, note.AppliedAtUtc)
	assert.Equal(t, now, *note.AppliedAtUtc)

	require.Error(t, note.Apply(now.Add(time.Hour)))
	assert.Equal(t, now, *note.AppliedAtUtc)
}
