package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressFor(t *testing.T) {
	cases := []struct {
		status   OrderStatus
		progress int
	}{
		{OrderQuoted, 10},
		{OrderApproved, 30},
		{OrderInProgress, 60},
		{OrderFinished, 100},
		{OrderPaid, 100},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.progress, ProgressFor(tc.status))
		})
	}
}

func TestOrderPatchMergeRewritesProgress(t *testing.T) {
	o := &ServiceOrder{Status: OrderQuoted, Progress: 10}

	status := OrderInProgress
	OrderPatch{Status: &status}.Merge(o)

	assert.Equal(t, OrderInProgress, o.Status)
	assert.Equal(t, 60, o.Progress)

	// Progress tracks the status even when jumping backwards.
	status = OrderQuoted
	OrderPatch{Status: &status}.Merge(o)
	assert.Equal(t, 10, o.Progress)
}

func TestOrderPatchMergeKeepsUnsetFields(t *testing.T) {
	o := &ServiceOrder{
		CustomerName: "Maria",
		Description:  "Forro do salão",
		TotalValue:   1500,
	}

	desc := "Forro do salão e cozinha"
	OrderPatch{Description: &desc}.Merge(o)

	assert.Equal(t, "Maria", o.CustomerName)
	assert.Equal(t, "Forro do salão e cozinha", o.Description)
	assert.Equal(t, 1500.0, o.TotalValue)
}

func TestOrderCreateRequestValidate(t *testing.T) {
	valid := OrderCreateRequest{CustomerName: "Maria", Description: "Forro PVC", TotalValue: 100}
	assert.NoError(t, valid.Validate())

	missingName := valid
	missingName.CustomerName = ""
	assert.Error(t, missingName.Validate())

	negative := valid
	negative.TotalValue = -1
	assert.Error(t, negative.Validate())

	badStatus := valid
	badStatus.Status = "SHIPPED"
	assert.Error(t, badStatus.Validate())
}
