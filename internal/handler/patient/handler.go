package patient

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/middleware"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	patientService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/patient"
)

type Handler struct {
	service *patientService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *patientService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patient", h.auth.Authenticate())
	{
		patients.POST("/register", h.RegisterPatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:patientId", h.GetPatient)
		patients.PUT("/edit/:patientId", h.EditPatient)
		patients.DELETE("/delete/:patientId", h.DeletePatient)

		patients.POST("/diseasehistory/add", h.AddDiseaseHistory)
		patients.PUT("/diseasehistory/edit", h.EditDiseaseHistory)
		patients.DELETE("/diseasehistory/delete/:patientId/:diseaseHistoryId", h.DeleteDiseaseHistory)

		patients.POST("/medicalassessment/add", h.auth.RequireRole(model.RoleDoctor), h.AddMedicalAssessment)
		patients.GET("/medicalassessment/:patientId", h.GetMedicalAssessments)
	}
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(model.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// patientResponse renders the stored patient with its date of birth as a
// calendar date, matching the detail view.
type patientResponse struct {
	*model.Patient
	DateOfBirth string `json:"dateOfBirth"`
}

func newPatientResponse(patient *model.Patient) patientResponse {
	return patientResponse{
		Patient:     patient,
		DateOfBirth: patient.DateOfBirth.Format(model.DateOnly),
	}
}

type registerPatientRequest struct {
	MedicalRecordNumber string `json:"medicalRecordNumber" binding:"required"`
	FullName            string `json:"fullname" binding:"required"`
	DOB                 string `json:"DOB" binding:"required"`
	BirthPlace          string `json:"birthPlace" binding:"required"`
	Gender              string `json:"gender" binding:"required,oneof=MALE FEMALE"`
	Address             string `json:"address" binding:"required"`
	NIK                 string `json:"NIK" binding:"required,numeric"`
	WAPhoneNumber       string `json:"WAPhoneNumber" binding:"required,waphone"`
	Email               string `json:"email" binding:"omitempty,email"`
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid date of birth"))
		return
	}

	patient, err := h.service.Register(c.Request.Context(), &model.Patient{
		MedicalRecordNumber: req.MedicalRecordNumber,
		FullName:            req.FullName,
		DateOfBirth:         dob,
		BirthPlace:          req.BirthPlace,
		Gender:              req.Gender,
		Address:             req.Address,
		NIK:                 req.NIK,
		WAPhoneNumber:       req.WAPhoneNumber,
		Email:               req.Email,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Patient created successfully",
		"patient": newPatientResponse(patient),
	})
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}

func (h *Handler) EditPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	// The body is validated key-by-key against the known field set; any
	// unknown key rejects the whole update.
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Edit(c.Request.Context(), id, body)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Patient updated successfully",
		"patient": newPatientResponse(patient),
	})
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

type addDiseaseHistoryRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	Name          string `json:"diseaseName" binding:"required"`
	Description   string `json:"diseaseDescription"`
	DiagnosisDate string `json:"diseaseDiagnosisDate" binding:"required"`
}

func (h *Handler) AddDiseaseHistory(c *gin.Context) {
	var req addDiseaseHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	diagnosisDate, err := parseDate(req.DiagnosisDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid diagnosis date"))
		return
	}

	history, err := h.service.AddDiseaseHistory(c.Request.Context(), patientID, req.Name, req.Description, diagnosisDate)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Disease history added successfully",
		"diseaseHistory": history,
	})
}

type editDiseaseHistoryRequest struct {
	DiseaseHistoryID string `json:"diseaseHistoryId" binding:"required"`
	Name             string `json:"diseaseName"`
	Description      string `json:"diseaseDescription"`
	DiagnosisDate    string `json:"diseaseDiagnosisDate"`
}

func (h *Handler) EditDiseaseHistory(c *gin.Context) {
	var req editDiseaseHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	historyID, err := uuid.Parse(req.DiseaseHistoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid disease history ID"))
		return
	}

	update := &model.UpdateDiseaseHistoryRequest{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.DiagnosisDate != "" {
		diagnosisDate, err := parseDate(req.DiagnosisDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid diagnosis date"))
			return
		}
		update.DiagnosisDate = &diagnosisDate
	}

	history, err := h.service.EditDiseaseHistory(c.Request.Context(), historyID, update)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Disease history updated successfully",
		"diseaseHistory": history,
	})
}

func (h *Handler) DeleteDiseaseHistory(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	historyID, err := uuid.Parse(c.Param("diseaseHistoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid disease history ID"))
		return
	}

	if err := h.service.DeleteDiseaseHistory(c.Request.Context(), patientID, historyID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Disease history deleted successfully"})
}

type addAssessmentRequest struct {
	PatientID          string `json:"patientId" binding:"required"`
	Date               string `json:"date" binding:"required"`
	Subjective         string `json:"subjective" binding:"required"`
	Objective          string `json:"objective" binding:"required"`
	DiagnosisAndAction string `json:"diagnosisAndAction" binding:"required"`
}

func (h *Handler) AddMedicalAssessment(c *gin.Context) {
	var req addAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid assessment date"))
		return
	}

	doctorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Missing authentication token!"))
		return
	}

	assessment, err := h.service.AddAssessment(c.Request.Context(), patientID, doctorID,
		date, req.Subjective, req.Objective, req.DiagnosisAndAction)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Medical assessment created successfully",
		"medicalAssessment": assessment,
	})
}

func (h *Handler) GetMedicalAssessments(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	assessments, err := h.service.ListAssessments(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicalAssessments": assessments})
}
