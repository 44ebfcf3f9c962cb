package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"buildbid/internal/domain/model"
	"buildbid/internal/format"
	"buildbid/internal/usecase"
)

// Task and material tracking for awarded jobs.

type taskDTO struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`

	AssignedTo      string `json:"assigned_to"`
	NumberOfWorkers int    `json:"number_of_workers"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Status             string  `json:"status"`
	ProgressUnit       string  `json:"progress_unit"`
	EstimatedQuantity  float64 `json:"estimated_quantity"`
	CompletedQuantity  float64 `json:"completed_quantity"`
	ProgressPercentage float64 `json:"progress_percentage"`

	DailyWages       float64 `json:"daily_wages"`
	TotalCost        float64 `json:"total_cost"`
	TotalCostDisplay string  `json:"total_cost_display"`

	CreatedAgo string `json:"created_ago"`
}

func toTaskDTO(t *model.Task) taskDTO {
	return taskDTO{
		ID:                 t.ID,
		JobID:              t.JobID,
		JobTitle:           t.JobTitle,
		Title:              t.Title,
		Description:        t.Description,
		AssignedTo:         t.AssignedTo,
		NumberOfWorkers:    t.NumberOfWorkers,
		StartDate:          t.StartDate,
		EndDate:            t.EndDate,
		Status:             string(t.Status),
		ProgressUnit:       t.ProgressUnit,
		EstimatedQuantity:  t.EstimatedQuantity,
		CompletedQuantity:  t.CompletedQuantity,
		ProgressPercentage: t.ProgressPercentage,
		DailyWages:         t.DailyWages,
		TotalCost:          t.TotalCost,
		TotalCostDisplay:   "Rs. " + format.Currency(t.TotalCost),
		CreatedAgo:         format.RelativeTime(t.CreatedAt.UnixMilli()),
	}
}

type addTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	AssignedTo      string `json:"assigned_to"`
	NumberOfWorkers int    `json:"number_of_workers"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	ProgressUnit      string  `json:"progress_unit"`
	EstimatedQuantity float64 `json:"estimated_quantity"`
	DailyWages        float64 `json:"daily_wages"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, err := s.taskUC.AddTask(r.Context(), usecase.AddTaskInput{
		JobID:             chi.URLParam(r, "jobID"),
		ActorID:           actorID(r),
		Title:             req.Title,
		Description:       req.Description,
		AssignedTo:        req.AssignedTo,
		NumberOfWorkers:   req.NumberOfWorkers,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		ProgressUnit:      req.ProgressUnit,
		EstimatedQuantity: req.EstimatedQuantity,
		DailyWages:        req.DailyWages,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := model.TaskStatus(r.URL.Query().Get("status"))
	tasks, err := s.taskUC.ListTasks(r.Context(), chi.URLParam(r, "jobID"), actorID(r), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskDTO(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.taskUC.UpdateTaskStatus(r.Context(), chi.URLParam(r, "taskID"), actorID(r), model.TaskStatus(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleUpdateTaskProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompletedQuantity float64 `json:"completed_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, err := s.taskUC.UpdateTaskProgress(r.Context(), chi.URLParam(r, "taskID"), actorID(r), req.CompletedQuantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.taskUC.DeleteTask(r.Context(), chi.URLParam(r, "taskID"), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type materialDTO struct {
	ID       string `json:"id"`
	JobID    string `json:"job_id"`
	JobTitle string `json:"job_title,omitempty"`

	Name     string `json:"name"`
	Category string `json:"category"`

	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	UnitPrice        float64 `json:"unit_price"`
	TotalCost        float64 `json:"total_cost"`
	TotalCostDisplay string  `json:"total_cost_display"`

	Supplier        string `json:"supplier"`
	SupplierContact string `json:"supplier_contact"`
	Description     string `json:"description"`

	Status            string  `json:"status"`
	LowStockThreshold float64 `json:"low_stock_threshold"`

	AddedAgo string `json:"added_ago"`
}

func toMaterialDTO(m *model.Material) materialDTO {
	return materialDTO{
		ID:                m.ID,
		JobID:             m.JobID,
		JobTitle:          m.JobTitle,
		Name:              m.Name,
		Category:          m.Category,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		UnitPrice:         m.UnitPrice,
		TotalCost:         m.TotalCost,
		TotalCostDisplay:  "Rs. " + format.Currency(m.TotalCost),
		Supplier:          m.Supplier,
		SupplierContact:   m.SupplierContact,
		Description:       m.Description,
		Status:            string(m.Status),
		LowStockThreshold: m.LowStockThreshold,
		AddedAgo:          format.RelativeTime(m.AddedAt.UnixMilli()),
	}
}

type addMaterialRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`

	Supplier        string `json:"supplier"`
	SupplierContact string `json:"supplier_contact"`
	Description     string `json:"description"`

	LowStockThreshold float64 `json:"low_stock_threshold"`
}

func (s *Server) handleAddMaterial(w http.ResponseWriter, r *http.Request) {
	var req addMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	material, err := s.materialUC.AddMaterial(r.Context(), usecase.AddMaterialInput{
		JobID:             chi.URLParam(r, "jobID"),
		ActorID:           actorID(r),
		Name:              req.Name,
		Category:          req.Category,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		UnitPrice:         req.UnitPrice,
		Supplier:          req.Supplier,
		SupplierContact:   req.SupplierContact,
		Description:       req.Description,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMaterialDTO(material))
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	status := model.MaterialStatus(r.URL.Query().Get("status"))
	materials, err := s.materialUC.ListMaterials(r.Context(), chi.URLParam(r, "jobID"), actorID(r), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]materialDTO, 0, len(materials))
	for _, m := range materials {
		out = append(out, toMaterialDTO(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleAdjustMaterialQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	material, err := s.materialUC.AdjustQuantity(r.Context(), chi.URLParam(r, "materialID"), actorID(r), req.Delta)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMaterialDTO(material))
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if err := s.materialUC.DeleteMaterial(r.Context(), chi.URLParam(r, "materialID"), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleInventoryValue(w http.ResponseWriter, r *http.Request) {
	total, err := s.materialUC.InventoryValue(r.Context(), chi.URLParam(r, "jobID"), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":         total,
		"total_display": "Rs. " + format.Currency(total),
	})
}
