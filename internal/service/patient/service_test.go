package patient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

type fakePatientRepo struct {
	patients  map[uuid.UUID]*model.Patient
	histories map[uuid.UUID][]*model.DiseaseHistory
	lastEdit  map[string]interface{}
	deleted   []uuid.UUID
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		patients:  make(map[uuid.UUID]*model.Patient),
		histories: make(map[uuid.UUID][]*model.DiseaseHistory),
	}
}

func (f *fakePatientRepo) add(patient *model.Patient) *model.Patient {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	f.patients[patient.ID] = patient
	return patient
}

func (f *fakePatientRepo) Create(_ context.Context, patient *model.Patient) error {
	for _, existing := range f.patients {
		if existing.MedicalRecordNumber == patient.MedicalRecordNumber || existing.NIK == patient.NIK {
			return repository.ErrDuplicate
		}
	}
	f.add(patient)
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return patient, nil
}

func (f *fakePatientRepo) List(_ context.Context) ([]*model.PatientSummary, error) {
	return nil, nil
}

func (f *fakePatientRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Patient, error) {
	patient, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.lastEdit = fields
	return patient, nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.patients, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePatientRepo) ListDiseaseHistories(_ context.Context, patientID uuid.UUID) ([]*model.DiseaseHistory, error) {
	return f.histories[patientID], nil
}

func (f *fakePatientRepo) CountDiseaseHistories(_ context.Context, patientID uuid.UUID) (int, error) {
	return len(f.histories[patientID]), nil
}

func (f *fakePatientRepo) AttachDiseaseHistory(_ context.Context, patientID uuid.UUID, history *model.DiseaseHistory) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	f.histories[patientID] = append(f.histories[patientID], history)
	return nil
}

func (f *fakePatientRepo) DetachDiseaseHistory(_ context.Context, patientID, historyID uuid.UUID) error {
	list := f.histories[patientID]
	for i, history := range list {
		if history.ID == historyID {
			f.histories[patientID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeHistoryRepo struct {
	histories map[uuid.UUID]*model.DiseaseHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{histories: make(map[uuid.UUID]*model.DiseaseHistory)}
}

func (f *fakeHistoryRepo) Get(_ context.Context, id uuid.UUID) (*model.DiseaseHistory, error) {
	history, ok := f.histories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *history
	return &copied, nil
}

func (f *fakeHistoryRepo) Update(_ context.Context, history *model.DiseaseHistory) error {
	if _, ok := f.histories[history.ID]; !ok {
		return repository.ErrNotFound
	}
	f.histories[history.ID] = history
	return nil
}

type fakeAssessmentRepo struct {
	assessments map[uuid.UUID][]*model.MedicalAssessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: make(map[uuid.UUID][]*model.MedicalAssessment)}
}

func (f *fakeAssessmentRepo) Create(_ context.Context, assessment *model.MedicalAssessment) error {
	if assessment.ID == uuid.Nil {
		assessment.ID = uuid.New()
	}
	f.assessments[assessment.PatientID] = append(f.assessments[assessment.PatientID], assessment)
	return nil
}

func (f *fakeAssessmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.MedicalAssessmentDetail, error) {
	var details []*model.MedicalAssessmentDetail
	for _, assessment := range f.assessments[patientID] {
		details = append(details, &model.MedicalAssessmentDetail{MedicalAssessment: *assessment})
	}
	return details, nil
}

func (f *fakeAssessmentRepo) CountByPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	return len(f.assessments[patientID]), nil
}

func (f *fakeAssessmentRepo) GetLatestForPatient(_ context.Context, patientID uuid.UUID) (*model.MedicalAssessment, error) {
	list := f.assessments[patientID]
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return list[len(list)-1], nil
}

func newTestService() (*Service, *fakePatientRepo, *fakeHistoryRepo, *fakeAssessmentRepo) {
	patients := newFakePatientRepo()
	histories := newFakeHistoryRepo()
	assessments := newFakeAssessmentRepo()
	return NewService(patients, histories, assessments, nil), patients, histories, assessments
}

func testPatient() *model.Patient {
	return &model.Patient{
		MedicalRecordNumber: "MRN-001",
		FullName:            "Budi Santoso",
		DateOfBirth:         time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		BirthPlace:          "Yogyakarta",
		Gender:              "MALE",
		Address:             "Jl. Kaliurang KM 5",
		NIK:                 "3404123456780001",
		WAPhoneNumber:       "628123456789",
	}
}

func assertStatus(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode())
	return appErr
}

func TestRegisterDuplicate(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.add(testPatient())

	_, err := svc.Register(context.Background(), testPatient())
	assertStatus(t, err, http.StatusConflict)
}

func TestRegisterDuplicateNIK(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.add(testPatient())

	second := testPatient()
	second.MedicalRecordNumber = "MRN-002"
	second.FullName = "Siti Rahma"

	_, err := svc.Register(context.Background(), second)
	appErr := assertStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Patient with the same medical record number or NIK already exists", appErr.Message)
	assert.Len(t, repo.patients, 1)
}

func TestEditRejectsUnknownFields(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.Edit(context.Background(), patient.ID, map[string]interface{}{
		"fullname": "Budi",
		"zzz":      1,
		"aaa":      2,
	})
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid fields found in request body: aaa, zzz", appErr.Message)
	assert.Nil(t, repo.lastEdit)
}

func TestEditEmptyBody(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.Edit(context.Background(), patient.ID, map[string]interface{}{})
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "No valid fields provided to update", appErr.Message)
}

func TestEditMapsFieldsToColumns(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.Edit(context.Background(), patient.ID, map[string]interface{}{
		"fullname":      "Budi Pratama",
		"WAPhoneNumber": "628999888777",
		"DOB":           "1991-02-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "Budi Pratama", repo.lastEdit["full_name"])
	assert.Equal(t, "628999888777", repo.lastEdit["wa_phone_number"])
	assert.Equal(t, time.Date(1991, 2, 3, 0, 0, 0, 0, time.UTC), repo.lastEdit["date_of_birth"])
}

func TestEditInvalidDateOfBirth(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.Edit(context.Background(), patient.ID, map[string]interface{}{
		"DOB": "03/02/1991",
	})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestDeleteBlockedByDiseaseHistory(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.AddDiseaseHistory(context.Background(), patient.ID,
		"Gingivitis", "mild inflammation", time.Now())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), patient.ID)
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Cannot delete patient because disease history still exists!", appErr.Message)
	assert.Empty(t, repo.deleted)
}

func TestDeleteAfterDetachingHistories(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	history, err := svc.AddDiseaseHistory(context.Background(), patient.ID,
		"Gingivitis", "", time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDiseaseHistory(context.Background(), patient.ID, history.ID))
	require.NoError(t, svc.Delete(context.Background(), patient.ID))
	assert.Len(t, repo.deleted, 1)
}

func TestDeletePatientKeepsAssessments(t *testing.T) {
	svc, repo, _, assessments := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.AddAssessment(context.Background(), patient.ID, uuid.New(),
		time.Now(), "pain", "visible caries", "filling")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), patient.ID))
	assert.Len(t, repo.deleted, 1)

	count, err := assessments.CountByPatient(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteUnknownPatient(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.Delete(context.Background(), uuid.New())
	appErr := assertStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Patient not found", appErr.Message)
}

func TestAddDiseaseHistoryUnknownPatient(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddDiseaseHistory(context.Background(), uuid.New(), "Caries", "", time.Now())
	assertStatus(t, err, http.StatusNotFound)
}

func TestEditDiseaseHistoryPreservesEmptyFields(t *testing.T) {
	svc, _, histories, _ := newTestService()

	original := &model.DiseaseHistory{
		Name:          "Caries",
		Description:   "upper molar",
		DiagnosisDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	original.ID = uuid.New()
	histories.histories[original.ID] = original

	updated, err := svc.EditDiseaseHistory(context.Background(), original.ID,
		&model.UpdateDiseaseHistoryRequest{Name: "Deep caries"})
	require.NoError(t, err)

	assert.Equal(t, "Deep caries", updated.Name)
	assert.Equal(t, "upper molar", updated.Description)
	assert.Equal(t, original.DiagnosisDate, updated.DiagnosisDate)
}

func TestDeleteDiseaseHistoryNotAttached(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	err := svc.DeleteDiseaseHistory(context.Background(), patient.ID, uuid.New())
	appErr := assertStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Disease history not found", appErr.Message)
}

func TestAddAssessmentAndListOrder(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())
	doctorID := uuid.New()

	first, err := svc.AddAssessment(context.Background(), patient.ID, doctorID,
		time.Now(), "pain", "visible caries", "filling")
	require.NoError(t, err)
	second, err := svc.AddAssessment(context.Background(), patient.ID, doctorID,
		time.Now(), "follow up", "healed", "none")
	require.NoError(t, err)

	listed, err := svc.ListAssessments(context.Background(), patient.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Equal(t, doctorID, listed[0].AssessedBy)
}

func TestGetResolvesDiseaseHistories(t *testing.T) {
	svc, repo, _, _ := newTestService()
	patient := repo.add(testPatient())

	_, err := svc.AddDiseaseHistory(context.Background(), patient.ID,
		"Gingivitis", "", time.Now())
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "1990-05-10", detail.DateOfBirth)
	require.Len(t, detail.DiseaseHistories, 1)
	assert.Equal(t, "Gingivitis", detail.DiseaseHistories[0].Name)
}
