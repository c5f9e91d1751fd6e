package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func mustDate(t *testing.T, raw string) models.Date {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestGenerateInstallmentsMonthly(t *testing.T) {
	start := mustDate(t, "2024-01-15")

	items, err := GenerateInstallments("STU001", models.PlanMonthly, start)
	require.NoError(t, err)
	require.Len(t, items, 12)

	for i, inst := range items {
		assert.Equal(t, InstallmentID("STU001", i), inst.ID)
		assert.Equal(t, "STU001", inst.StudentID)
		assert.Equal(t, "500", inst.Amount.String())
		assert.Equal(t, models.InstallmentUnpaid, inst.Status)
	}
	assert.Equal(t, "2024-01-15", items[0].DueDate.String())
	assert.Equal(t, "2024-06-15", items[5].DueDate.String())
	assert.Equal(t, "2024-12-15", items[11].DueDate.String())
}

func TestGenerateInstallmentsPlans(t *testing.T) {
	start := mustDate(t, "2024-03-01")
	cases := []struct {
		plan   models.PaymentPlan
		count  int
		amount string
		last   string
	}{
		{models.PlanMonthly, 12, "500", "2025-02-01"},
		{models.PlanQuarterly, 4, "1500", "2024-12-01"},
		{models.PlanYearly, 1, "5500", "2024-03-01"},
	}

	for _, tc := range cases {
		t.Run(string(tc.plan), func(t *testing.T) {
			items, err := GenerateInstallments("STU002", tc.plan, start)
			require.NoError(t, err)
			require.Len(t, items, tc.count)
			for i := 1; i < len(items); i++ {
				assert.True(t, items[i-1].DueDate.Before(items[i].DueDate), "dates must increase")
				assert.True(t, items[i].Amount.Equal(items[0].Amount))
			}
			assert.Equal(t, tc.amount, items[0].Amount.String())
			assert.Equal(t, tc.last, items[len(items)-1].DueDate.String())
		})
	}
}

func TestGenerateInstallmentsClampsMonthEnd(t *testing.T) {
	items, err := GenerateInstallments("STU003", models.PlanMonthly, mustDate(t, "2024-01-31"))
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", items[1].DueDate.String())
	assert.Equal(t, "2024-03-31", items[2].DueDate.String())
	assert.Equal(t, "2024-04-30", items[3].DueDate.String())
}

func TestGenerateInstallmentsIsDeterministic(t *testing.T) {
	start := mustDate(t, "2024-01-15")
	first, err := GenerateInstallments("STU001", models.PlanQuarterly, start)
	require.NoError(t, err)
	second, err := GenerateInstallments("STU001", models.PlanQuarterly, start)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateInstallmentsRejectsUnknownPlan(t *testing.T) {
	for _, plan := range []models.PaymentPlan{models.PlanNone, "weekly", ""} {
		_, err := GenerateInstallments("STU001", plan, mustDate(t, "2024-01-15"))
		require.Error(t, err)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
	}
}
