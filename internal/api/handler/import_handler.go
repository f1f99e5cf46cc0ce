package handler

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/store"
	"go-csv-importer/pkg/utils"
)

// Dispatcher hands accepted jobs to the worker pool.
type Dispatcher interface {
	Dispatch(jobID int64)
}

// ImportHandler serves the upload and job-enumeration endpoints.
type ImportHandler struct {
	Store         *store.Store
	Uploads       *utils.UploadManager
	Pool          Dispatcher
	MaxUploadSize int64
}

func NewImportHandler(st *store.Store, uploads *utils.UploadManager, pool Dispatcher, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{Store: st, Uploads: uploads, Pool: pool, MaxUploadSize: maxUploadSize}
}

// Create accepts a bulk import file
// @Summary Upload an import file
// @Description Store a CSV/spreadsheet/zip upload, create a pending import job for the chosen destination table and dispatch it to the worker pool
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import file (csv, txt, tsv, xlsx or zip)"
// @Param table_name formData string true "Destination table" Enums(civil_servant, repayment, loan_details)
// @Success 201 {object} Response "Job created"
// @Failure 400 {object} Response "Invalid table name or unsupported file"
// @Failure 413 {object} Response "File exceeds the upload limit"
// @Failure 500 {object} Response "Storage failure"
// @Router /imports [post]
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "File Too Large",
				"the file exceeds the upload limit of "+utils.HumanSize(h.MaxUploadSize))
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid Request", "expected a multipart form upload")
		return
	}

	tableName := strings.TrimSpace(r.FormValue("table_name"))
	table := model.TableName(tableName)
	if !model.ValidTable(tableName) {
		respondError(w, http.StatusBadRequest, "Unknown Table",
			"table_name must be one of: civil_servant, repayment, loan_details")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing File", "a file field is required")
		return
	}
	defer file.Close()

	if !utils.SupportedFile(header.Filename) {
		respondError(w, http.StatusBadRequest, "Unsupported File",
			"supported extensions: csv, txt, tsv, xlsx, zip")
		return
	}

	storedName, err := h.Uploads.Save(header.Filename, file)
	if err != nil {
		log.WithError(err).Error("storing upload")
		respondError(w, http.StatusInternalServerError, "Storage Failure", "could not store the uploaded file")
		return
	}

	jobID, err := h.Store.CreateJob(r.Context(), storedName, table)
	if err != nil {
		log.WithError(err).Error("creating import job")
		respondError(w, http.StatusInternalServerError, "Storage Failure", "could not create the import job")
		return
	}
	h.Pool.Dispatch(jobID)

	log.WithFields(log.Fields{
		"job": jobID, "table": table, "file": header.Filename, "stored": storedName,
	}).Info("import job accepted")

	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		// The job exists and is dispatched; answer with what we know.
		job = &model.ImportJob{ID: jobID, FileName: storedName, TableName: table, Status: model.StatusPending}
	}
	respondData(w, http.StatusCreated, "import job created", job)
}

// List enumerates import jobs
// @Summary List import jobs
// @Description Return all import jobs, newest first
// @Tags imports
// @Produce json
// @Success 200 {object} Response "Jobs"
// @Failure 500 {object} Response "Storage failure"
// @Router /imports [get]
func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.ListJobs(r.Context())
	if err != nil {
		log.WithError(err).Error("listing import jobs")
		respondError(w, http.StatusInternalServerError, "Storage Failure", "could not list import jobs")
		return
	}
	if jobs == nil {
		jobs = []*model.ImportJob{}
	}
	respondData(w, http.StatusOK, "import jobs", jobs)
}

// Get fetches one import job
// @Summary Get an import job
// @Description Return the persisted state of one import job
// @Tags imports
// @Produce json
// @Param id path int true "Job id"
// @Success 200 {object} Response "Job"
// @Failure 400 {object} Response "Invalid id"
// @Failure 404 {object} Response "No such job"
// @Router /imports/{id} [get]
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/imports/")
	id, err := utils.ParseID(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid Id", "job id must be a positive integer")
		return
	}

	job, err := h.Store.GetJob(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not Found", "no import job with that id")
		return
	}
	respondData(w, http.StatusOK, "import job", job)
}
