package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCompanyRecord_DefaultsToNotFound(t *testing.T) {
	t.Parallel()

	rec := NewCompanyRecord(0, "台積電", []string{"台積電", "x"})

	assert.Equal(t, NotFound, rec.RegistrationID)
	assert.Equal(t, NotFoundDetails(), rec.Details)
	assert.False(t, rec.Resolved())
}

func TestCompanyRecord_Resolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"22099131", true},
		{NotFound, false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			rec := &CompanyRecord{RegistrationID: tt.id}
			assert.Equal(t, tt.want, rec.Resolved())
		})
	}
}

func TestCompanyRecord_OutputValuesOrder(t *testing.T) {
	t.Parallel()

	rec := &CompanyRecord{
		RegistrationID: "22099131",
		Details: Details{
			LegalName:      "台灣積體電路製造股份有限公司",
			Address:        "300 新竹市東區力行六路8號",
			GeneralManager: "魏哲家",
			Chairman:       "劉德音",
			Phone:          "03-5636688",
			Email:          "ir@tsmc.com",
		},
	}

	got := rec.OutputValues()
	assert.Len(t, got, len(OutputColumns))
	assert.Equal(t, []string{
		"22099131",
		"台灣積體電路製造股份有限公司",
		"300 新竹市東區力行六路8號",
		"魏哲家",
		"劉德音",
		"03-5636688",
		"ir@tsmc.com",
	}, got)
}

func TestOutputColumns_FixedOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"統一編號", "公司全名", "地址", "總經理", "董事長", "電話", "信箱"}, OutputColumns)
}
