package patient

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
)

func TestPatientResponseRendersDateOfBirth(t *testing.T) {
	patient := &model.Patient{
		MedicalRecordNumber: "MRN-001",
		FullName:            "Budi Santoso",
		DateOfBirth:         time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		Gender:              "MALE",
		NIK:                 "3404123456780001",
		WAPhoneNumber:       "628123456789",
	}

	raw, err := json.Marshal(newPatientResponse(patient))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "1990-05-10", body["dateOfBirth"])
	assert.Equal(t, "Budi Santoso", body["fullName"])
	assert.Equal(t, "MRN-001", body["medicalRecordNumber"])
}
