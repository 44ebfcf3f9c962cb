package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/format"
	"buildbid/internal/infra/metrics"
	"buildbid/internal/usecase"
)

// ===== response envelope =====

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateBid),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrJobClosed),
		errors.Is(err, domain.ErrAlreadyReviewed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ===== DTOs =====
//
// Models carry raw values; the display fields (budget_display, submitted_ago)
// are rendered here so every client shows the same formatting.

type jobDTO struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"client_id"`
	ClientName    string  `json:"client_name"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Budget        float64 `json:"budget"`
	BudgetDisplay string  `json:"budget_display"`
	Timeline      string  `json:"timeline"`
	Location      string  `json:"location"`
	Status        string  `json:"status"`
	PostedAgo     string  `json:"posted_ago"`
	TotalBids     int     `json:"total_bids"`

	AcceptedBidID          *string `json:"accepted_bid_id,omitempty"`
	AssignedContractorID   *string `json:"assigned_contractor_id,omitempty"`
	AssignedContractorName *string `json:"assigned_contractor_name,omitempty"`
}

func toJobDTO(j *model.Job) jobDTO {
	return jobDTO{
		ID:                     j.ID,
		ClientID:               j.ClientID,
		ClientName:             j.ClientName,
		Title:                  j.Title,
		Description:            j.Description,
		Category:               j.Category,
		Budget:                 j.Budget,
		BudgetDisplay:          "Rs. " + format.Currency(j.Budget),
		Timeline:               j.Timeline,
		Location:               j.Location,
		Status:                 string(j.Status),
		PostedAgo:              format.RelativeTime(j.PostedAt.UnixMilli()),
		TotalBids:              j.TotalBids,
		AcceptedBidID:          j.AcceptedBidID,
		AssignedContractorID:   j.AssignedContractorID,
		AssignedContractorName: j.AssignedContractorName,
	}
}

type bidDTO struct {
	ID                          string  `json:"id"`
	JobID                       string  `json:"job_id"`
	JobTitle                    string  `json:"job_title,omitempty"`
	ContractorID                string  `json:"contractor_id"`
	ContractorName              string  `json:"contractor_name"`
	ContractorCategory          string  `json:"contractor_category"`
	ContractorRating            float64 `json:"contractor_rating"`
	ContractorCompletedProjects int     `json:"contractor_completed_projects"`
	Amount                      float64 `json:"amount"`
	AmountDisplay               string  `json:"amount_display"`
	CompletionDays              int     `json:"completion_days"`
	Proposal                    string  `json:"proposal"`
	SubmittedAgo                string  `json:"submitted_ago"`
	Status                      string  `json:"status"`
}

func toBidDTO(b *model.Bid) bidDTO {
	return bidDTO{
		ID:                          b.ID,
		JobID:                       b.JobID,
		JobTitle:                    b.JobTitle,
		ContractorID:                b.ContractorID,
		ContractorName:              b.ContractorName,
		ContractorCategory:          b.ContractorCategory,
		ContractorRating:            b.ContractorRating,
		ContractorCompletedProjects: b.ContractorCompletedProjects,
		Amount:                      b.Amount,
		AmountDisplay:               "Rs. " + format.Currency(b.Amount),
		CompletionDays:              b.CompletionDays,
		Proposal:                    b.Proposal,
		SubmittedAgo:                format.RelativeTime(b.SubmittedAt.UnixMilli()),
		Status:                      string(b.Status),
	}
}

func toBidDTOs(bids []*model.Bid) []bidDTO {
	out := make([]bidDTO, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidDTO(b))
	}
	return out
}

type userDTO struct {
	ID                string  `json:"id"`
	Role              string  `json:"role"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone,omitempty"`
	Location          string  `json:"location,omitempty"`
	Category          string  `json:"category,omitempty"`
	Bio               string  `json:"bio,omitempty"`
	Rating            float64 `json:"rating"`
	ReviewCount       int     `json:"review_count"`
	CompletedProjects int     `json:"completed_projects"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:                u.ID,
		Role:              string(u.Role),
		FullName:          u.FullName,
		Email:             u.Email,
		Phone:             u.Phone,
		Location:          u.Location,
		Category:          u.Category,
		Bio:               u.Bio,
		Rating:            u.Rating,
		ReviewCount:       u.ReviewCount,
		CompletedProjects: u.CompletedProjects,
	}
}

type reviewDTO struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	ClientName   string `json:"client_name"`
	ContractorID string `json:"contractor_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAgo   string `json:"created_ago"`
}

type notificationDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	RelatedID  string `json:"related_id,omitempty"`
	Read       bool   `json:"read"`
	CreatedAgo string `json:"created_ago"`
}

// ===== auth =====

type registerRequest struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Category string `json:"category"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.userUC.Register(r.Context(), usecase.RegisterInput{
		Role:     model.UserRole(req.Role),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Category: req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token mint failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserDTO(user), "token": token})
}

type loginRequest struct {
	UserID string `json:"user_id"`
}

// handleLogin mints a token for a known user. There is no password store;
// identity comes from the mobile app's own onboarding.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}
	user, err := s.userUC.Get(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token mint failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user), "token": token})
}

// ===== jobs =====

type postJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Budget      float64 `json:"budget"`
	Timeline    string  `json:"timeline"`
	Location    string  `json:"location"`
}

func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var req postJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	job, err := s.jobUC.PostJob(r.Context(), usecase.PostJobInput{
		ClientID:    actorID(r),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
		Location:    req.Location,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncJobPosted()
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		jobs []*model.Job
		err  error
	)
	switch {
	case q.Get("mine") == "client":
		jobs, err = s.jobUC.ListByClient(ctx, actorID(r))
	case q.Get("mine") == "contractor":
		jobs, err = s.jobUC.ListByContractor(ctx, actorID(r))
	case q.Get("status") != "" && q.Get("status") != "open":
		jobs, err = s.jobUC.ListByStatus(ctx, model.JobStatus(q.Get("status")))
	default:
		jobs, err = s.jobUC.ListOpen(ctx, q.Get("category"))
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobDTO(j))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, bids, err := s.bidUC.JobWithBids(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job":  toJobDTO(job),
		"bids": toBidDTOs(bids),
	})
}

func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.jobUC.CompleteJob(r.Context(), jobID, actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncJobTransition("completed")
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.jobUC.CancelJob(r.Context(), jobID, actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncJobTransition("cancelled")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ===== bids =====

type submitBidRequest struct {
	Amount         float64 `json:"amount"`
	CompletionDays int     `json:"completion_days"`
	Proposal       string  `json:"proposal"`
	TermsAccepted  bool    `json:"terms_accepted"`
}

func (s *Server) handleSubmitBid(w http.ResponseWriter, r *http.Request) {
	var req submitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bid, err := s.bidUC.SubmitBid(r.Context(), usecase.SubmitBidInput{
		JobID:          chi.URLParam(r, "jobID"),
		ContractorID:   actorID(r),
		Amount:         req.Amount,
		CompletionDays: req.CompletionDays,
		Proposal:       req.Proposal,
		TermsAccepted:  req.TermsAccepted,
	})
	if err != nil {
		metrics.IncBidSubmitted("rejected")
		writeDomainError(w, err)
		return
	}
	metrics.IncBidSubmitted("accepted")
	writeJSON(w, http.StatusCreated, toBidDTO(bid))
}

func (s *Server) handleListBids(w http.ResponseWriter, r *http.Request) {
	sortOrder := usecase.BidSort(r.URL.Query().Get("sort"))
	bids, err := s.bidUC.ListBids(r.Context(), chi.URLParam(r, "jobID"), sortOrder)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toBidDTOs(bids)})
}

func (s *Server) handleAcceptBid(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	bidID := chi.URLParam(r, "bidID")
	if err := s.bidUC.AcceptBid(r.Context(), jobID, bidID, actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncBidAwarded()

	// Reload so the client sees the post-acceptance state in one round trip.
	job, bids, err := s.bidUC.JobWithBids(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job":  toJobDTO(job),
		"bids": toBidDTOs(bids),
	})
}

func (s *Server) handleRejectBid(w http.ResponseWriter, r *http.Request) {
	if err := s.bidUC.RejectBid(r.Context(), chi.URLParam(r, "bidID"), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncBidRejected("manual")
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (s *Server) handleMyBids(w http.ResponseWriter, r *http.Request) {
	bids, err := s.bidUC.ListByContractor(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toBidDTOs(bids)})
}

// ===== users / contractors =====

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

type updateUserRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Bio         string `json:"bio"`
	DeviceToken string `json:"device_token"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.userUC.UpdateProfile(r.Context(), chi.URLParam(r, "id"), actorID(r), usecase.UpdateProfileInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Location:    req.Location,
		Category:    req.Category,
		Bio:         req.Bio,
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleListContractors(w http.ResponseWriter, r *http.Request) {
	users, err := s.userUC.ListContractors(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// ===== reviews =====

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	review, err := s.reviewUC.SubmitReview(r.Context(), usecase.SubmitReviewInput{
		JobID:    chi.URLParam(r, "jobID"),
		ClientID: actorID(r),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewDTO(review))
}

func toReviewDTO(rv *model.Review) reviewDTO {
	return reviewDTO{
		ID:           rv.ID,
		JobID:        rv.JobID,
		ClientName:   rv.ClientName,
		ContractorID: rv.ContractorID,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAgo:   format.RelativeTime(rv.CreatedAt.UnixMilli()),
	}
}

func (s *Server) handleContractorReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviewUC.ListByContractor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]reviewDTO, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewDTO(rv))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// ===== notifications =====

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.notifUC.ListByUser(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]notificationDTO, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, notificationDTO{
			ID:         n.ID,
			Title:      n.Title,
			Message:    n.Message,
			Type:       string(n.Type),
			RelatedID:  n.RelatedID,
			Read:       n.Read,
			CreatedAgo: format.RelativeTime(n.CreatedAt.UnixMilli()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.notifUC.CountUnread(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifUC.MarkRead(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifUC.MarkAllRead(r.Context(), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.notifUC.Delete(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== assistant =====

type assistantChatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req assistantChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start := time.Now()
	reply, err := s.assistantUC.Chat(r.Context(), actorID(r), req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Debug().Dur("took", time.Since(start)).Msg("assistant chat served")
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
